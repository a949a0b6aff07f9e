// Package airlock implements the powered airlock: the door state machine
// and the interlocks that gate it (power, bolts, auto-close, maintenance
// wires, pry resistance).
//
// Every public operation runs to completion synchronously. Guards are bus
// subscriptions; the airlock registers its own guards in New before any
// other collaborator can subscribe, so they always run first.
package airlock

import (
	"fmt"
	"log/slog"
	"time"

	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/component"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/engine/timer"
	"airlock/pkg/game/entities"
	"airlock/pkg/game/power"
	"airlock/pkg/game/state"
)

// Localizer resolves user-facing message keys
type Localizer interface {
	Get(key string, vars ...interface{}) string
}

type keyLocalizer struct{}

func (keyLocalizer) Get(key string, vars ...interface{}) string {
	if len(vars) == 0 {
		return key
	}
	return fmt.Sprintf(key, vars...)
}

// Popup message keys
const (
	MsgCannotPryBolted  = "airlock-cannot-pry-is-bolted"
	MsgCannotPryPowered = "airlock-cannot-pry-is-powered"
	MsgBoltsNoPower     = "airlock-bolts-no-power"
)

// System owns every airlock on a station
type System struct {
	station *state.Station
	power   *power.Network
	loc     Localizer
	log     *slog.Logger

	airlocks *component.Store[*entities.Airlock]
	panels   *component.Store[*entities.WirePanel]
	prying   map[entity.Handle]timer.ID
}

// New creates the airlock system and subscribes its guards and handlers.
// A nil loc leaves message keys untranslated.
func New(st *state.Station, net *power.Network, loc Localizer) *System {
	if loc == nil {
		loc = keyLocalizer{}
	}
	s := &System{
		station:  st,
		power:    net,
		loc:      loc,
		log:      st.Log.With("system", "airlock"),
		airlocks: component.NewStore[*entities.Airlock](),
		panels:   component.NewStore[*entities.WirePanel](),
		prying:   make(map[entity.Handle]timer.ID),
	}

	bus := st.Bus
	event.Subscribe(bus, s.onPowerChanged)
	event.Subscribe(bus, s.onStateChanged)
	event.Subscribe(bus, s.onBeforeOpened)
	event.Subscribe(bus, s.onBeforeClosed)
	event.Subscribe(bus, s.onBeforeDenied)
	event.Subscribe(bus, s.onBeforePry)

	st.Entities.OnDestroy(s.forget)
	return s
}

// Add attaches an airlock to h. A nil a gets stock settings.
// The door starts with the current supply reading of the power network.
func (s *System) Add(h entity.Handle, a *entities.Airlock) *entities.Airlock {
	if a == nil {
		a = entities.NewAirlock()
	}
	a.Powered = s.power.IsPowered(h)
	s.airlocks.Set(h, a)

	sink := s.station.Appearance
	sink.Set(h, appearance.Powered, a.Powered)
	sink.Set(h, appearance.State, a.State.String())
	s.updateBoltLights(h, a)
	return a
}

// Airlock returns the airlock component of h
func (s *System) Airlock(h entity.Handle) (*entities.Airlock, bool) {
	return s.airlocks.Get(h)
}

// Doors returns every entity with an airlock, in the order they were added
func (s *System) Doors() []entity.Handle {
	return s.airlocks.All()
}

// State returns the door state of h; missing doors read as closed
func (s *System) State(h entity.Handle) entities.DoorState {
	if a, ok := s.airlocks.Get(h); ok {
		return a.State
	}
	return entities.DoorClosed
}

func (s *System) forget(h entity.Handle) {
	if a, ok := s.airlocks.Get(h); ok {
		s.station.Timers.Cancel(a.NextStateChange)
	}
	if id, ok := s.prying[h]; ok {
		s.station.Timers.Cancel(id)
		delete(s.prying, h)
	}
	s.airlocks.Remove(h)
	s.panels.Remove(h)
	s.power.Forget(h)
}

// absent reports an operation on a door with no airlock
func (s *System) absent(h entity.Handle, op string) Verdict {
	s.log.Debug("airlock absent", "door", h.String(), "op", op)
	return deny(ReasonAbsent)
}

// popup shows a message to the acting user
func (s *System) popup(user entity.Handle, key string) {
	if user.IsNil() {
		return
	}
	s.station.AddMessage(s.loc.Get(key))
}

// setNextStateChange replaces the door's pending timer
func (s *System) setNextStateChange(h entity.Handle, a *entities.Airlock, delay time.Duration, name string, fn func()) {
	s.station.Timers.Cancel(a.NextStateChange)
	a.NextStateChange = s.station.Timers.Schedule(h, delay, name, fn)
}

func (s *System) clearNextStateChange(a *entities.Airlock) bool {
	id := a.NextStateChange
	a.NextStateChange = 0
	return s.station.Timers.Cancel(id)
}
