package input

import (
	"sort"
	"strings"
)

// Action represents a high-level shell command.
type Action int

const (
	ActionNone Action = iota

	// Door transitions
	ActionOpen
	ActionClose
	ActionActivate
	ActionPry

	// Interlocks
	ActionPower
	ActionBolt

	// Maintenance panel
	ActionPanel
	ActionWires
	ActionCut
	ActionMend
	ActionPulse

	// Paint / construction boundary
	ActionPaint
	ActionDeconstruct
	ActionConstruct

	// Simulation / meta
	ActionTick
	ActionStatus
	ActionHelp
	ActionQuit
)

// Intent is a parsed command line: the action plus its remaining arguments.
type Intent struct {
	Action Action
	Args   []string
}

// Arg returns argument i or def when absent
func (in Intent) Arg(i int, def string) string {
	if i < len(in.Args) {
		return in.Args[i]
	}
	return def
}

// bindings maps command words to actions.
// Multiple words may point to the same Action.
var bindings = map[string]Action{
	"open":  ActionOpen,
	"o":     ActionOpen,
	"close": ActionClose,
	"c":     ActionClose,
	"use":   ActionActivate,
	"e":     ActionActivate,
	"pry":   ActionPry,

	"power": ActionPower,
	"p":     ActionPower,
	"bolt":  ActionBolt,
	"b":     ActionBolt,

	"panel": ActionPanel,
	"wires": ActionWires,
	"w":     ActionWires,
	"cut":   ActionCut,
	"mend":  ActionMend,
	"pulse": ActionPulse,

	"paint":       ActionPaint,
	"deconstruct": ActionDeconstruct,
	"construct":   ActionConstruct,
	"build":       ActionConstruct,

	"tick":   ActionTick,
	"t":      ActionTick,
	"status": ActionStatus,
	"s":      ActionStatus,
	"?":      ActionHelp,
	"help":   ActionHelp,
	"quit":   ActionQuit,
	"q":      ActionQuit,
	"exit":   ActionQuit,
}

// ParseLine splits a command line into an Intent.
// Unknown or empty commands map to ActionNone.
func ParseLine(line string) Intent {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Intent{Action: ActionNone}
	}
	act, ok := bindings[fields[0]]
	if !ok {
		return Intent{Action: ActionNone, Args: fields}
	}
	return Intent{Action: act, Args: fields[1:]}
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionOpen:
		return "Open"
	case ActionClose:
		return "Close"
	case ActionActivate:
		return "Use"
	case ActionPry:
		return "Pry"
	case ActionPower:
		return "Power"
	case ActionBolt:
		return "Bolt"
	case ActionPanel:
		return "Panel"
	case ActionWires:
		return "Wires"
	case ActionCut:
		return "Cut"
	case ActionMend:
		return "Mend"
	case ActionPulse:
		return "Pulse"
	case ActionPaint:
		return "Paint"
	case ActionDeconstruct:
		return "Deconstruct"
	case ActionConstruct:
		return "Construct"
	case ActionTick:
		return "Tick"
	case ActionStatus:
		return "Status"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering so help output doesn't shuffle between calls.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}
