package airlock

import (
	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// IsBolted reports whether the door's bolts are down
func (s *System) IsBolted(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	return ok && a.Bolted
}

// CanToggleBolts reports whether the bolt motor has power to move either way
func (s *System) CanToggleBolts(h entity.Handle) bool {
	return s.IsPowered(h)
}

// SetBolted moves the bolts without checking power; callers decide.
// With feedback the bolt sound cue is requested. Returns false when the
// bolts were already in the requested position or the door is missing.
func (s *System) SetBolted(h entity.Handle, bolted, withFeedback bool) bool {
	a, ok := s.airlocks.Get(h)
	if !ok || a.Bolted == bolted {
		return false
	}
	a.Bolted = bolted

	bus := s.station.Bus
	event.Raise(bus, h, &BoltsChanged{Bolted: bolted})
	if withFeedback {
		sound := SoundBoltsUp
		if bolted {
			sound = SoundBoltsDown
		}
		event.Raise(bus, h, &SoundRequested{Sound: sound})
	}

	s.updateBoltLights(h, a)
	s.log.Info("bolts moved", "door", h.String(), "bolted", bolted)
	return true
}

// ToggleBolts flips the bolts from the door's own controls, which needs power
func (s *System) ToggleBolts(h, user entity.Handle) Verdict {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return s.absent(h, "bolts")
	}
	if !s.CanToggleBolts(h) {
		s.popup(user, MsgBoltsNoPower)
		return deny(ReasonUnpowered)
	}
	s.SetBolted(h, !a.Bolted, true)
	return allow()
}

// updateBoltLights lights the bolt indicator only on a powered, bolted, closed door
func (s *System) updateBoltLights(h entity.Handle, a *entities.Airlock) {
	lit := a.Powered && a.Bolted && a.State == entities.DoorClosed
	s.station.Appearance.Set(h, appearance.BoltLights, lit)
}
