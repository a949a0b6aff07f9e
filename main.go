package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/engine/input"
	"airlock/pkg/engine/terminal"
	"airlock/pkg/game/airlock"
	"airlock/pkg/game/config"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/locale"
	"airlock/pkg/game/menu"
	"airlock/pkg/game/renderer"
	"airlock/pkg/game/setup"
)

// tools the player can pry with
var tools = map[string]*entities.Tool{
	"crowbar": {Name: "crowbar", PryModifier: 1},
	"jaws":    {Name: "jaws", ForcePowered: true, PryModifier: 1},
}

type shell struct {
	world *setup.World
	r     *renderer.Terminal
	loc   *locale.Catalog
	in    *input.Reader
	log   *slog.Logger

	player  entity.Handle
	current string

	// set by WirePanelOpened while an activation runs
	panelRequested bool
}

func newShell(cfg *config.Config, loc *locale.Catalog, in io.Reader, out io.Writer, log *slog.Logger) *shell {
	w := setup.NewWorld(cfg, loc, log)
	s := &shell{
		world: w,
		r:     renderer.New(out, loc),
		loc:   loc,
		in:    input.NewReader(in),
		log:   log,
	}
	renderer.SetRenderer(s.r)

	s.player = w.Station.Spawn()
	w.Station.AddActor(s.player)

	event.Subscribe(w.Station.Bus, func(h entity.Handle, ev *airlock.WirePanelOpened) {
		if ev.User == s.player {
			s.panelRequested = true
		}
	})
	event.Subscribe(w.Station.Bus, func(h entity.Handle, ev *airlock.SoundRequested) {
		s.r.ShowMessage(s.r.StyleText(soundCue(ev.Sound), renderer.StyleSubtle))
	})

	w.Populate()
	if names := w.Names(); len(names) > 0 {
		s.current = names[0]
	}
	// Let the deferred door initialisation run before the first command.
	w.Station.Tick(setup.PaintInitDelay)
	return s
}

func soundCue(sound string) string {
	switch sound {
	case airlock.SoundBoltsDown:
		return "*thunk* the bolts drop"
	case airlock.SoundBoltsUp:
		return "*clunk* the bolts rise"
	case airlock.SoundDeny:
		return "*bzzt*"
	default:
		return "*" + sound + "*"
	}
}

// logMessage shows a formatted message
func (s *shell) logMessage(msg string, a ...any) {
	s.r.ShowMessage(s.r.FormatText(msg, a...))
}

// door resolves the door an intent talks about: a trailing door name, or
// the current door. The name becomes current.
func (s *shell) door(in *input.Intent) (entity.Handle, bool) {
	if n := len(in.Args); n > 0 {
		if h, ok := s.world.Door(in.Args[n-1]); ok {
			s.current = in.Args[n-1]
			in.Args = in.Args[:n-1]
			return h, true
		}
	}
	h, ok := s.world.Door(s.current)
	if !ok {
		s.logMessage("DENIED{No such door.}")
	}
	return h, ok
}

// processInput runs one command. Returns false when the shell should exit.
func (s *shell) processInput(in input.Intent) bool {
	sys := s.world.Airlocks

	switch in.Action {
	case input.ActionNone:
		if len(in.Args) > 0 {
			s.logMessage("Unknown command. Type ACTION{help}.")
		}
		return true
	case input.ActionQuit:
		return false
	case input.ActionHelp:
		s.printHelp()
		return true
	case input.ActionStatus:
		s.printStatus()
		return true
	case input.ActionTick:
		d, err := time.ParseDuration(in.Arg(0, "1s"))
		if err != nil || d < 0 {
			s.logMessage("DENIED{Bad duration} %s", in.Arg(0, ""))
			return true
		}
		ran := s.world.Station.Tick(d)
		s.log.Debug("ticked", "dt", d, "callbacks", ran)
		s.printStatus()
		return true
	}

	h, ok := s.door(&in)
	if !ok {
		return true
	}

	switch in.Action {
	case input.ActionOpen:
		if v := sys.TryOpen(h, s.player); !v.Allowed {
			s.logMessage(s.loc.Get("airlock-denied", v.String()))
		}
	case input.ActionClose:
		if v := sys.TryClose(h, s.player); !v.Allowed {
			s.logMessage(s.loc.Get("airlock-close-refused", v.String()))
		}
	case input.ActionActivate:
		s.panelRequested = false
		sys.Activate(h, s.player)
		if s.panelRequested {
			s.panelRequested = false
			s.runWireMenu(h)
		}
	case input.ActionPry:
		tool, ok := tools[in.Arg(0, "crowbar")]
		if !ok {
			s.logMessage("DENIED{Unknown tool} %s", in.Arg(0, ""))
			break
		}
		if v := sys.TryPry(h, s.player, tool); v.Allowed {
			s.logMessage(s.loc.Get("airlock-pry-started", sys.PryDelay(h, tool)))
		} else if !v.Has(airlock.ReasonBolted) && !v.Has(airlock.ReasonPowered) {
			s.logMessage(s.loc.Get("airlock-pry-refused", v.String()))
		}
	case input.ActionPower:
		switch in.Arg(0, "") {
		case "on":
			s.world.Power.SetPowered(h, true)
		case "off":
			s.world.Power.SetPowered(h, false)
		default:
			s.world.Power.Toggle(h)
		}
	case input.ActionBolt:
		sys.ToggleBolts(h, s.player)
	case input.ActionPanel:
		open := true
		panel, ok := sys.WirePanel(h)
		if ok {
			open = !panel.Open
		}
		switch in.Arg(0, "") {
		case "open":
			open = true
		case "close":
			open = false
		}
		if !sys.SetPanelOpen(h, open) {
			s.logMessage("DENIED{This door has no maintenance panel.}")
		} else if open {
			s.logMessage(s.loc.Get("wire-panel-opened"))
		} else {
			s.logMessage(s.loc.Get("wire-panel-closed"))
		}
	case input.ActionWires:
		s.runWireMenu(h)
	case input.ActionCut, input.ActionMend, input.ActionPulse:
		s.wireCommand(h, in)
	case input.ActionPaint:
		if !s.world.Paint.Apply(h, in.Arg(0, "")) {
			var styles []string
			if p, ok := s.world.Paint.Paintable(h); ok {
				styles = s.world.Catalog.Styles(p.Group)
			}
			s.logMessage("DENIED{Unknown style} %s (try: %s)", in.Arg(0, ""), strings.Join(styles, ", "))
		}
	case input.ActionDeconstruct:
		if _, ok := sys.Airlock(h); !ok {
			s.logMessage("DENIED{Already an assembly.}")
			break
		}
		asm, ok := s.world.Deconstruct(h)
		if ok {
			v := renderer.Describe(s.world, asm)
			s.logMessage(s.loc.Get("door-deconstructed", v.Style))
		}
	case input.ActionConstruct:
		if _, ok := s.world.Construct(h, config.DoorConfig{Powered: true, WirePanel: true}); !ok {
			s.logMessage("DENIED{Only an assembly can be built into a door.}")
		}
	}

	s.flushMessages()
	return true
}

func (s *shell) wireCommand(h entity.Handle, in input.Intent) {
	sys := s.world.Airlocks
	id := in.Arg(0, airlock.BoltWireID)

	var done bool
	switch in.Action {
	case input.ActionCut:
		done = sys.CutWire(h, id, s.player)
	case input.ActionMend:
		done = sys.MendWire(h, id, s.player)
	case input.ActionPulse:
		done = sys.PulseWire(h, id, s.player)
	}
	if !done {
		s.logMessage(s.loc.Get("wire-unreachable", id))
	}
}

func (s *shell) runWireMenu(h entity.Handle) {
	handler := menu.NewWirePanelHandler(s.world.Airlocks, h, s.player, s.world.NameOf(h), s.r)
	if err := menu.RunMenuDynamic(s.in, s.r, handler); err != nil {
		s.log.Error("wire menu failed", "door", h.String(), "err", err)
	}
}

// flushMessages prints and clears popups raised by the last command
func (s *shell) flushMessages() {
	st := s.world.Station
	if out := s.r.Messages(st.Messages); out != "" {
		s.r.ShowMessage(strings.TrimRight(out, "\n"))
	}
	st.ClearMessages()
}

func (s *shell) printStatus() {
	s.r.ShowMessage(s.r.Rule())
	for _, name := range s.world.Names() {
		h, _ := s.world.Door(name)
		line := s.r.Door(renderer.Describe(s.world, h))
		if name == s.current {
			line = "> " + line
		} else {
			line = "  " + line
		}
		s.r.ShowMessage(line)
	}
	s.r.ShowMessage(s.r.Rule())
}

func (s *shell) printHelp() {
	s.logMessage("Commands (a trailing door name picks the door):")
	byAction := input.GetBindingsByAction()
	for a := input.ActionOpen; a <= input.ActionQuit; a++ {
		codes := byAction[a]
		if len(codes) == 0 {
			continue
		}
		s.logMessage("  ACTION{%s} %s", codes[len(codes)-1], strings.Join(codes[:len(codes)-1], " "))
	}
	for _, g := range s.world.Catalog.Groups() {
		s.logMessage("Paint group %s: %s", g, strings.Join(s.world.Catalog.Styles(g), ", "))
	}
}

func (s *shell) run(prompt bool, out io.Writer) error {
	s.printStatus()
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		in, err := s.in.NextIntent()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
		if !s.processInput(in) {
			return nil
		}
	}
}

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the YAML configuration file")
	logLevel := pflag.String("log-level", "", "log level override (debug, info, warn, error)")
	noColor := pflag.Bool("no-color", false, "disable ANSI colours")
	poPath := pflag.String("locale", "", "path to a .po message catalogue (default: built-in English)")
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "airlockctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "airlockctl: %v\n", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	loc := locale.English()
	if *poPath != "" {
		loc, err = locale.Load(*poPath)
		if err != nil {
			log.Error("loading catalogue", "err", err)
			os.Exit(1)
		}
	}

	interactive := terminal.IsInteractive()
	renderer.SetColor(interactive && !*noColor)

	sh := newShell(cfg, loc, os.Stdin, os.Stdout, log)
	if err := sh.run(interactive, os.Stdout); err != nil {
		log.Error("shell stopped", "err", err)
		os.Exit(1)
	}
}
