// Package setup builds a station and spawns airlocks onto it.
package setup

import (
	"log/slog"
	"time"

	"airlock/pkg/engine/entity"
	"airlock/pkg/game/airlock"
	"airlock/pkg/game/config"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/paint"
	"airlock/pkg/game/power"
	"airlock/pkg/game/state"
)

// PaintInitDelay is how long after spawning a door receives its paint token.
// The door finishes its own initialisation first.
const PaintInitDelay = time.Millisecond

// World is a station with every door system wired to it
type World struct {
	Station  *state.Station
	Power    *power.Network
	Airlocks *airlock.System
	Paint    *paint.System
	Catalog  *paint.Catalog

	cfg   *config.Config
	names map[string]entity.Handle
	order []string
}

// NewWorld wires the door systems to a fresh station. The airlock system
// subscribes first so its guards run before any other collaborator.
func NewWorld(cfg *config.Config, loc airlock.Localizer, log *slog.Logger) *World {
	st := state.NewStation(log)
	net := power.NewNetwork(st.Bus)
	catalog := paint.NewCatalog(cfg.PaintGroups)

	w := &World{
		Station:  st,
		Power:    net,
		Airlocks: airlock.New(st, net, loc),
		Paint:    paint.New(st, catalog),
		Catalog:  catalog,
		cfg:      cfg,
		names:    make(map[string]entity.Handle),
	}
	st.Entities.OnDestroy(w.forget)
	return w
}

// Populate spawns every configured door
func (w *World) Populate() {
	for _, dc := range w.cfg.Doors {
		w.SpawnAirlock(dc)
	}
}

// SpawnAirlock creates a door from dc. Its paint token is inserted one
// PaintInitDelay later, unless the door is gone or already holds a token
// by then.
func (w *World) SpawnAirlock(dc config.DoorConfig) entity.Handle {
	h := w.Station.Spawn()

	w.Airlocks.Add(h, w.cfg.Airlock.NewAirlock())
	if dc.WirePanel {
		w.Airlocks.AttachBoltWire(h)
	}
	w.Paint.Add(h, &entities.Paintable{
		Kind:         entities.PaintableDoor,
		Group:        dc.Group,
		DefaultStyle: dc.Style,
	})
	w.Power.SetPowered(h, dc.Powered)
	if dc.Bolted {
		w.Airlocks.SetBolted(h, true, false)
	}
	w.name(h, dc.Name)

	w.Station.Timers.Schedule(h, PaintInitDelay, "paint-init", func() {
		w.initPaint(h, dc.Style)
	})

	w.Station.Log.Info("airlock spawned",
		"door", h.String(),
		"name", dc.Name,
		"group", dc.Group,
		"style", dc.Style,
	)
	return h
}

func (w *World) initPaint(h entity.Handle, style string) {
	if !w.Station.Alive(h) {
		return
	}
	if _, occupied := w.Paint.Held(h); occupied {
		return
	}
	tok := w.Paint.NewToken(style)
	if !w.Station.Containers.Insert(h, entities.PaintSlot, tok) {
		w.Station.Log.Warn("couldn't insert paint token into door",
			"door", h.String(),
			"token", tok.String(),
		)
		w.Station.Destroy(tok)
	}
}

// Deconstruct takes door apart into an assembly that keeps the door's paint.
// The door entity is destroyed.
func (w *World) Deconstruct(door entity.Handle) (entity.Handle, bool) {
	p, ok := w.Paint.Paintable(door)
	if !ok || !w.Station.Alive(door) {
		return entity.Nil, false
	}
	name := w.NameOf(door)

	asm := w.Station.Spawn()
	w.Paint.Add(asm, &entities.Paintable{
		Kind:         entities.PaintableAssembly,
		Group:        p.Group,
		DefaultStyle: p.DefaultStyle,
	})
	if _, held := w.Paint.Held(door); held && !w.Paint.Move(door, asm) {
		w.Station.Log.Warn("paint token stayed with deconstructed door", "door", door.String())
	}

	w.Station.Destroy(door)
	w.name(asm, name)
	w.Station.Log.Info("airlock deconstructed", "door", door.String(), "assembly", asm.String())
	return asm, true
}

// Construct builds a door from an assembly, carrying its paint token over.
// The assembly entity is destroyed.
func (w *World) Construct(asm entity.Handle, dc config.DoorConfig) (entity.Handle, bool) {
	p, ok := w.Paint.Paintable(asm)
	if !ok || p.Kind != entities.PaintableAssembly {
		return entity.Nil, false
	}
	if dc.Group == "" {
		dc.Group = p.Group
	}
	if dc.Style == "" {
		dc.Style = p.DefaultStyle
	}
	if dc.Name == "" {
		dc.Name = w.NameOf(asm)
	}

	door := w.SpawnAirlock(dc)
	if _, held := w.Paint.Held(asm); held {
		w.Paint.Move(asm, door)
	}
	w.Station.Destroy(asm)
	return door, true
}

// Door looks up a spawned door or assembly by name
func (w *World) Door(name string) (entity.Handle, bool) {
	h, ok := w.names[name]
	return h, ok
}

// NameOf returns the name h was spawned with
func (w *World) NameOf(h entity.Handle) string {
	for name, n := range w.names {
		if n == h {
			return name
		}
	}
	return ""
}

// Names lists door names in spawn order
func (w *World) Names() []string {
	out := make([]string, 0, len(w.order))
	for _, n := range w.order {
		if _, ok := w.names[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (w *World) name(h entity.Handle, name string) {
	if name == "" {
		return
	}
	if _, seen := w.names[name]; !seen {
		known := false
		for _, n := range w.order {
			if n == name {
				known = true
				break
			}
		}
		if !known {
			w.order = append(w.order, name)
		}
	}
	w.names[name] = h
}

func (w *World) forget(h entity.Handle) {
	for name, n := range w.names {
		if n == h {
			delete(w.names, name)
		}
	}
}
