package airlock

import (
	"time"

	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// PryTimeModifier scales base by the door's powered pry modifier while it
// has power. Values above 1 make prying slower.
func (s *System) PryTimeModifier(h entity.Handle, base float64) float64 {
	a, ok := s.airlocks.Get(h)
	if !ok || !a.Powered {
		return base
	}
	return base * a.PoweredPryModifier
}

// PryDelay returns how long prying h with tool takes
func (s *System) PryDelay(h entity.Handle, tool *entities.Tool) time.Duration {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return 0
	}
	return time.Duration(float64(a.PryTime) * s.PryTimeModifier(h, tool.BaseModifier()))
}

// CanPry asks every pry guard whether user may pry h with tool.
// Bolts always block; power blocks unless the tool can force through it.
// All blocking causes are reported together.
func (s *System) CanPry(h, user entity.Handle, tool *entities.Tool) Verdict {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return s.absent(h, "pry")
	}
	ev := &BeforeDoorPry{User: user, Tool: tool, Snapshot: a.Snapshot()}
	event.Raise(s.station.Bus, h, ev)
	return verdictOf(&ev.Cancellable)
}

// TryPry starts prying. When the pry delay elapses the door is forced
// open (if closed) or closed (if open), bypassing the power and bolt guard,
// provided the guards still allow prying at that moment.
func (s *System) TryPry(h, user entity.Handle, tool *entities.Tool) Verdict {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return s.absent(h, "pry")
	}
	if a.State != entities.DoorClosed && a.State != entities.DoorOpen {
		return deny(ReasonWrongState)
	}
	if _, busy := s.prying[h]; busy {
		return deny(ReasonBusy)
	}
	if v := s.CanPry(h, user, tool); !v.Allowed {
		return v
	}

	delay := s.PryDelay(h, tool)
	s.prying[h] = s.station.Timers.Schedule(h, delay, "pry", func() {
		delete(s.prying, h)
		s.finishPry(h, user, tool)
	})
	s.log.Debug("pry started", "door", h.String(), "delay", delay)
	return allow()
}

// Prying reports whether a pry on h is in progress
func (s *System) Prying(h entity.Handle) bool {
	_, busy := s.prying[h]
	return busy
}

// CancelPry aborts a pry in progress
func (s *System) CancelPry(h entity.Handle) bool {
	id, busy := s.prying[h]
	if !busy {
		return false
	}
	delete(s.prying, h)
	return s.station.Timers.Cancel(id)
}

func (s *System) finishPry(h, user entity.Handle, tool *entities.Tool) {
	if v := s.CanPry(h, user, tool); !v.Allowed {
		return
	}
	switch s.State(h) {
	case entities.DoorClosed:
		s.ForceOpen(h)
	case entities.DoorOpen:
		s.ForceClose(h)
	}
}

func (s *System) onBeforePry(h entity.Handle, ev *BeforeDoorPry) {
	if !s.airlocks.Has(h) {
		return
	}
	if ev.Snapshot.Bolted {
		s.popup(ev.User, MsgCannotPryBolted)
		ev.CancelWith(string(ReasonBolted))
	}
	if ev.Snapshot.Powered {
		if ev.Tool != nil && ev.Tool.ForcePowered {
			return
		}
		s.popup(ev.User, MsgCannotPryPowered)
		ev.CancelWith(string(ReasonPowered))
	}
}
