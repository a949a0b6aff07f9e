package airlock

import (
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// Activate handles a user clicking the door. Returns whether the
// interaction was consumed.
//
// With the maintenance hatch open an interactive user gets the wire
// interface instead of moving the door. A click on a keep-open door turns
// auto-close off for this cycle; if the door is already open that is all
// it does. Otherwise the click toggles the door through the guarded
// transitions.
func (s *System) Activate(h, user entity.Handle) bool {
	a, ok := s.airlocks.Get(h)
	if !ok {
		return false
	}

	if panel, ok := s.panels.Get(h); ok && panel.Open && s.station.IsInteractive(user) {
		event.Raise(s.station.Bus, h, &WirePanelOpened{User: user})
		return true
	}

	if a.KeepOpenIfClicked {
		a.AutoClose = false
		if a.State == entities.DoorOpen {
			s.Disarm(h)
			return true
		}
	}

	switch a.State {
	case entities.DoorClosed:
		s.TryOpen(h, user)
	case entities.DoorOpen:
		s.TryClose(h, user)
	default:
		return false
	}
	return true
}
