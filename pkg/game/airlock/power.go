package airlock

import (
	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/entity"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/power"
)

// IsPowered reports the door's last known supply reading
func (s *System) IsPowered(h entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	return ok && a.Powered
}

func (s *System) onPowerChanged(h entity.Handle, ev *power.Changed) {
	s.station.Appearance.Set(h, appearance.Powered, ev.Powered)

	a, ok := s.airlocks.Get(h)
	if !ok {
		return
	}
	a.Powered = ev.Powered

	if !ev.Powered {
		// A door without power cannot be trusted to close itself.
		if a.State == entities.DoorOpen {
			s.Disarm(h)
		}
	} else {
		s.Arm(h)
	}

	s.updateBoltLights(h, a)
	s.log.Debug("power changed", "door", h.String(), "powered", ev.Powered)
}
