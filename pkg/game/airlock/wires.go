package airlock

import (
	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// BoltWireID is the id of the wire bound to the bolt motor
const BoltWireID = "bolt"

// BoltWireAction drives the bolts from the maintenance panel
type BoltWireAction struct {
	sys   *System
	Color string
	Label string
}

// NewBoltWireAction creates the bolt action with its red BOLT indicator
func NewBoltWireAction(sys *System) *BoltWireAction {
	return &BoltWireAction{sys: sys, Color: "red", Label: "BOLT"}
}

// Cut drops the bolts, but only while the door has power. Cutting a dead
// wire must not leave the door bolted with no way to lift the bolts.
func (b *BoltWireAction) Cut(user entity.Handle, w *entities.Wire) bool {
	if b.sys.IsPowered(w.Owner) && !b.sys.IsBolted(w.Owner) {
		b.sys.SetBolted(w.Owner, true, true)
	}
	return true
}

// Mend does nothing: the lock follows cuts and pulses, not wire continuity
func (b *BoltWireAction) Mend(user entity.Handle, w *entities.Wire) bool {
	return true
}

// Pulse toggles the bolts with power. Without power it can only drop them.
func (b *BoltWireAction) Pulse(user entity.Handle, w *entities.Wire) bool {
	switch {
	case b.sys.IsPowered(w.Owner):
		b.sys.SetBolted(w.Owner, !b.sys.IsBolted(w.Owner), true)
	case !b.sys.IsBolted(w.Owner):
		b.sys.SetBolted(w.Owner, true, true)
	}
	return true
}

// StatusLight is lit while the door is powered and bolted
func (b *BoltWireAction) StatusLight(w *entities.Wire) entities.StatusLight {
	state := entities.LightOff
	if b.sys.IsPowered(w.Owner) && b.sys.IsBolted(w.Owner) {
		state = entities.LightOn
	}
	return entities.StatusLight{Color: b.Color, State: state, Label: b.Label}
}

// AddWirePanel gives h a maintenance panel
func (s *System) AddWirePanel(h entity.Handle, panel *entities.WirePanel) *entities.WirePanel {
	if panel == nil {
		panel = entities.NewWirePanel()
	}
	s.panels.Set(h, panel)
	if a, ok := s.airlocks.Get(h); ok {
		panel.Visible = a.OpenPanelVisible || a.State != entities.DoorOpen
	}
	s.station.Appearance.Set(h, appearance.PanelVisible, panel.Visible)
	return panel
}

// AttachBoltWire adds the bolt wire to h's panel, creating the panel if needed
func (s *System) AttachBoltWire(h entity.Handle) *entities.Wire {
	panel, ok := s.panels.Get(h)
	if !ok {
		panel = s.AddWirePanel(h, nil)
	}
	if w := panel.Wire(BoltWireID); w != nil {
		return w
	}
	w := &entities.Wire{
		ID:     BoltWireID,
		Kind:   entities.WireBolt,
		Owner:  h,
		Action: NewBoltWireAction(s),
	}
	panel.Wires = append(panel.Wires, w)
	return w
}

// WirePanel returns h's maintenance panel
func (s *System) WirePanel(h entity.Handle) (*entities.WirePanel, bool) {
	return s.panels.Get(h)
}

// SetPanelOpen opens or closes the maintenance hatch.
// Returns false when h has no panel.
func (s *System) SetPanelOpen(h entity.Handle, open bool) bool {
	panel, ok := s.panels.Get(h)
	if !ok {
		s.log.Debug("wire panel absent", "door", h.String())
		return false
	}
	panel.Open = open
	return true
}

// reachableWire returns the wire if the panel exists, is open and has it
func (s *System) reachableWire(h entity.Handle, id string) *entities.Wire {
	panel, ok := s.panels.Get(h)
	if !ok {
		s.log.Debug("wire panel absent", "door", h.String(), "wire", id)
		return nil
	}
	if !panel.Open {
		return nil
	}
	w := panel.Wire(id)
	if w == nil {
		s.log.Debug("wire absent", "door", h.String(), "wire", id)
	}
	return w
}

// CutWire cuts an intact wire. Cutting a cut wire changes nothing.
func (s *System) CutWire(h entity.Handle, id string, user entity.Handle) bool {
	w := s.reachableWire(h, id)
	if w == nil || w.IsCut {
		return false
	}
	if !w.Action.Cut(user, w) {
		return false
	}
	w.IsCut = true
	s.wireActed(h, user, w, WireCut)
	return true
}

// MendWire repairs a cut wire. Mending an intact wire changes nothing.
func (s *System) MendWire(h entity.Handle, id string, user entity.Handle) bool {
	w := s.reachableWire(h, id)
	if w == nil || !w.IsCut {
		return false
	}
	if !w.Action.Mend(user, w) {
		return false
	}
	w.IsCut = false
	s.wireActed(h, user, w, WireMend)
	return true
}

// PulseWire sends a pulse down an intact wire. A cut wire carries no pulse.
func (s *System) PulseWire(h entity.Handle, id string, user entity.Handle) bool {
	w := s.reachableWire(h, id)
	if w == nil || w.IsCut {
		return false
	}
	if !w.Action.Pulse(user, w) {
		return false
	}
	s.wireActed(h, user, w, WirePulse)
	return true
}

func (s *System) wireActed(h, user entity.Handle, w *entities.Wire, op WireOp) {
	s.log.Info("wire manipulated", "door", h.String(), "wire", w.ID, "op", string(op))
	event.Raise(s.station.Bus, h, &WireActed{User: user, Wire: w.ID, Op: op})
}

// WireStatus describes one wire for the diagnostics interface
type WireStatus struct {
	ID    string
	Kind  entities.WireKind
	IsCut bool
	Light entities.StatusLight
}

// WireStatus lists every wire on h's panel with its status light.
// A door without a panel has no wires.
func (s *System) WireStatus(h entity.Handle) []WireStatus {
	panel, ok := s.panels.Get(h)
	if !ok {
		s.log.Debug("wire panel absent", "door", h.String())
		return nil
	}
	out := make([]WireStatus, 0, len(panel.Wires))
	for _, w := range panel.Wires {
		out = append(out, WireStatus{
			ID:    w.ID,
			Kind:  w.Kind,
			IsCut: w.IsCut,
			Light: w.Action.StatusLight(w),
		})
	}
	return out
}
