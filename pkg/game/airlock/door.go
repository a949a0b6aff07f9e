package airlock

import (
	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// CanChangeState reports whether power and bolts currently allow a guarded transition
func (s *System) CanChangeState(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	return ok && a.CanChangeState()
}

// TryOpen requests a guarded Closed -> Opening -> Open transition.
// A vetoed open falls through to deny feedback.
func (s *System) TryOpen(h, user entity.Handle) Verdict {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return s.absent(h, "open")
	}
	if a.State != entities.DoorClosed {
		return deny(ReasonWrongState)
	}

	ev := &BeforeDoorOpened{User: user, Snapshot: a.Snapshot()}
	event.Raise(s.station.Bus, h, ev)
	if v := verdictOf(&ev.Cancellable); !v.Allowed {
		s.log.Debug("open vetoed", "door", h.String(), "reasons", v.String())
		s.Deny(h)
		return v
	}

	s.startOpening(h, a)
	return allow()
}

// TryClose requests a guarded Open -> Closing -> Closed transition
func (s *System) TryClose(h, user entity.Handle) Verdict {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return s.absent(h, "close")
	}
	if a.State != entities.DoorOpen {
		return deny(ReasonWrongState)
	}

	ev := &BeforeDoorClosed{User: user, Partial: a.Partial, Snapshot: a.Snapshot()}
	event.Raise(s.station.Bus, h, ev)
	if v := verdictOf(&ev.Cancellable); !v.Allowed {
		s.log.Debug("close vetoed", "door", h.String(), "reasons", v.String())
		return v
	}

	s.startClosing(h, a)
	return allow()
}

// Deny plays the refusal cycle on a closed door. Returns false when a
// collaborator suppressed the feedback or the door is not closed.
func (s *System) Deny(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	if !ok || a.State != entities.DoorClosed {
		return false
	}

	ev := &BeforeDoorDenied{Snapshot: a.Snapshot()}
	event.Raise(s.station.Bus, h, ev)
	if ev.Cancelled() {
		return false
	}

	s.setState(h, a, entities.DoorDenying)
	event.Raise(s.station.Bus, h, &SoundRequested{Sound: SoundDeny})
	s.setNextStateChange(h, a, a.DenyDuration, "deny", func() {
		a.NextStateChange = 0
		s.setState(h, a, entities.DoorClosed)
	})
	return true
}

// ForceOpen starts opening a closed door without consulting any guard
func (s *System) ForceOpen(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	if !ok || a.State != entities.DoorClosed {
		return false
	}
	s.startOpening(h, a)
	return true
}

// ForceClose starts closing an open door without consulting any guard.
// The close is in flight from the start, so its completion skips the
// power and bolt guard as well.
func (s *System) ForceClose(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	if !ok || a.State != entities.DoorOpen {
		return false
	}
	s.startClosing(h, a)
	return true
}

func (s *System) startOpening(h entity.Handle, a *entities.Airlock) {
	a.Partial = true
	s.setState(h, a, entities.DoorOpening)
	s.setNextStateChange(h, a, a.OpenDuration, "open", func() {
		a.NextStateChange = 0
		a.Partial = false
		s.setState(h, a, entities.DoorOpen)
	})
}

func (s *System) startClosing(h entity.Handle, a *entities.Airlock) {
	a.Partial = true
	s.setState(h, a, entities.DoorClosing)
	s.setNextStateChange(h, a, a.CloseDuration, "close", func() {
		a.NextStateChange = 0
		s.finishClosing(h, a)
	})
}

// finishClosing re-asks the close guards for the in-flight half of the
// transition; a veto here bounces the door back open.
func (s *System) finishClosing(h entity.Handle, a *entities.Airlock) {
	ev := &BeforeDoorClosed{Partial: true, Snapshot: a.Snapshot()}
	event.Raise(s.station.Bus, h, ev)
	if ev.Cancelled() {
		s.log.Debug("close interrupted, reopening", "door", h.String())
		s.startOpening(h, a)
		return
	}
	a.Partial = false
	s.setState(h, a, entities.DoorClosed)
}

func (s *System) setState(h entity.Handle, a *entities.Airlock, next entities.DoorState) {
	old := a.State
	a.State = next
	s.station.Appearance.Set(h, appearance.State, next.String())
	s.log.Debug("door state", "door", h.String(), "from", old.String(), "to", next.String())
	event.Raise(s.station.Bus, h, &DoorStateChanged{Old: old, New: next})
}

// guardInterlocks records every interlock that blocks a transition
func guardInterlocks(snap entities.Snapshot, c *event.Cancellable) {
	if snap.Bolted {
		c.CancelWith(string(ReasonBolted))
	}
	if !snap.Powered {
		c.CancelWith(string(ReasonUnpowered))
	}
}

func (s *System) onBeforeOpened(h entity.Handle, ev *BeforeDoorOpened) {
	if !s.airlocks.Has(h) {
		return
	}
	guardInterlocks(ev.Snapshot, &ev.Cancellable)
}

func (s *System) onBeforeClosed(h entity.Handle, ev *BeforeDoorClosed) {
	// Only block on bolts and power when the close starts, not when it is
	// already in flight (a pried-closed door must be able to finish).
	if !s.airlocks.Has(h) || ev.Partial {
		return
	}
	guardInterlocks(ev.Snapshot, &ev.Cancellable)
}

func (s *System) onBeforeDenied(h entity.Handle, ev *BeforeDoorDenied) {
	if !s.airlocks.Has(h) {
		return
	}
	if !ev.Snapshot.CanChangeState() {
		ev.Cancel()
	}
}

func (s *System) onStateChanged(h entity.Handle, ev *DoorStateChanged) {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return
	}

	if panel, ok := s.panels.Get(h); ok {
		panel.Visible = a.OpenPanelVisible || ev.New != entities.DoorOpen
		s.station.Appearance.Set(h, appearance.PanelVisible, panel.Visible)
	}

	// Bolts may have dropped while the door was closing.
	s.updateBoltLights(h, a)

	s.Arm(h)

	// Every open cycle starts with auto-close enabled.
	if ev.New == entities.DoorClosed {
		a.AutoClose = true
	}
}
