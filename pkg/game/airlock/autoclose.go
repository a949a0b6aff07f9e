package airlock

import (
	"time"

	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// Arm schedules the automatic close of an open door. It does nothing unless
// the door is open, auto-close is enabled, the interlocks allow a state
// change and no collaborator cancels BeforeDoorAutoClose. Arming an armed
// door restarts its countdown.
func (s *System) Arm(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return false
	}
	snap := a.Snapshot()
	if snap.State != entities.DoorOpen || !snap.AutoClose || !snap.CanChangeState() {
		return false
	}

	ev := &BeforeDoorAutoClose{Snapshot: snap}
	event.Raise(s.station.Bus, h, ev)
	if ev.Cancelled() {
		return false
	}

	s.setNextStateChange(h, a, a.AutoCloseAfter(), "auto-close", func() {
		a.NextStateChange = 0
		s.autoClose(h)
	})
	return true
}

// Disarm clears a pending auto-close. Transition timers of a moving door are
// left alone. Safe to call any number of times.
func (s *System) Disarm(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	if !ok || a.State != entities.DoorOpen {
		return false
	}
	return s.clearNextStateChange(a)
}

// PendingAutoClose returns the time left before an open door closes itself
func (s *System) PendingAutoClose(h entity.Handle) (time.Duration, bool) {
	a, ok := s.airlocks.Get(h)
	if !ok || a.State != entities.DoorOpen {
		return 0, false
	}
	return s.station.Timers.Remaining(a.NextStateChange)
}

// autoClose runs when the countdown expires. A refused close re-arms,
// which is itself a no-op while the interlocks forbid moving.
func (s *System) autoClose(h entity.Handle) {
	a, ok := s.airlocks.Get(h)
	if !ok || a.State != entities.DoorOpen {
		return
	}
	if v := s.TryClose(h, entity.Nil); !v.Allowed {
		s.log.Debug("auto-close refused", "door", h.String(), "reasons", v.String())
		s.Arm(h)
	}
}
