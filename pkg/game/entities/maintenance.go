package entities

import "airlock/pkg/engine/entity"

// WireKind identifies which door subsystem a wire drives
type WireKind int

const (
	WireBolt WireKind = iota
)

// String returns the wire kind name
func (k WireKind) String() string {
	switch k {
	case WireBolt:
		return "bolt"
	default:
		return "unknown"
	}
}

// LightState is the state of a diagnostics status light
type LightState int

const (
	LightOff LightState = iota
	LightOn
	LightBlinkingSlow
	LightBlinkingFast
)

// String returns the light state name
func (s LightState) String() string {
	switch s {
	case LightOn:
		return "on"
	case LightBlinkingSlow:
		return "blinking"
	case LightBlinkingFast:
		return "blinking fast"
	default:
		return "off"
	}
}

// StatusLight is one indicator on the maintenance panel
type StatusLight struct {
	Color string
	State LightState
	Label string
}

// WireAction is the door-level effect bound to a wire.
// Each method reports whether the wire-level action should be accepted.
type WireAction interface {
	Cut(user entity.Handle, w *Wire) bool
	Mend(user entity.Handle, w *Wire) bool
	Pulse(user entity.Handle, w *Wire) bool
	StatusLight(w *Wire) StatusLight
}

// Wire is one tamperable conductor behind the maintenance hatch.
// It refers to its door by handle only.
type Wire struct {
	ID     string
	Kind   WireKind
	Owner  entity.Handle
	IsCut  bool
	Action WireAction
}

// WirePanel is the maintenance hatch of a door
type WirePanel struct {
	Open    bool // hatch unscrewed, wires reachable
	Visible bool // hatch drawn on the door sprite
	Wires   []*Wire
}

// NewWirePanel creates a closed, visible panel with no wires
func NewWirePanel() *WirePanel {
	return &WirePanel{Visible: true}
}

// Wire returns the wire with the given id
func (p *WirePanel) Wire(id string) *Wire {
	for _, w := range p.Wires {
		if w.ID == id {
			return w
		}
	}
	return nil
}
