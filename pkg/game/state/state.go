// Package state holds the Station: the world object every door system
// works against. It owns the entity registry, the notification bus, the
// timer queue and the external sinks, and keeps the player-facing message log.
package state

import (
	"log/slog"
	"time"

	"github.com/zyedidia/generic/mapset"

	"airlock/pkg/engine/appearance"
	"airlock/pkg/engine/container"
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/engine/timer"
)

const maxMessages = 5

// Station is the simulated world
type Station struct {
	Entities   *entity.Registry
	Bus        *event.Bus
	Timers     *timer.Queue
	Appearance *appearance.Sink
	Containers *container.Manager
	Log        *slog.Logger

	// Actors are the entities driven by an interactive agent (a player
	// session); only they get diagnostics interfaces opened for them.
	Actors mapset.Set[entity.Handle]

	Messages []string
}

// NewStation creates an empty station. A nil logger uses slog.Default().
func NewStation(log *slog.Logger) *Station {
	if log == nil {
		log = slog.Default()
	}
	reg := entity.NewRegistry()
	bus := event.NewBus()

	s := &Station{
		Entities:   reg,
		Bus:        bus,
		Timers:     timer.NewQueue(reg, log),
		Appearance: appearance.NewSink(),
		Containers: container.NewManager(bus),
		Log:        log,
		Actors:     mapset.New[entity.Handle](),
		Messages:   make([]string, 0),
	}

	reg.OnDestroy(func(h entity.Handle) {
		s.Appearance.Clear(h)
		s.Actors.Remove(h)
		// Contents go down with their container.
		for _, orphan := range s.Containers.Forget(h) {
			reg.Destroy(orphan)
		}
	})
	return s
}

// Spawn creates a new entity
func (s *Station) Spawn() entity.Handle {
	return s.Entities.Spawn()
}

// Destroy removes an entity and everything it contains
func (s *Station) Destroy(h entity.Handle) bool {
	return s.Entities.Destroy(h)
}

// Alive reports whether h is still a live entity
func (s *Station) Alive(h entity.Handle) bool {
	return s.Entities.Alive(h)
}

// Tick advances simulated time and runs due work
func (s *Station) Tick(dt time.Duration) int {
	return s.Timers.Advance(dt)
}

// Now returns the simulated time
func (s *Station) Now() time.Duration {
	return s.Timers.Now()
}

// AddActor marks h as driven by an interactive agent
func (s *Station) AddActor(h entity.Handle) {
	s.Actors.Put(h)
}

// IsInteractive reports whether h is driven by an interactive agent
func (s *Station) IsInteractive(h entity.Handle) bool {
	return s.Actors.Has(h)
}

// AddMessage adds a message to the station's message log
func (s *Station) AddMessage(msg string) {
	s.Messages = append(s.Messages, msg)

	// Keep only the last maxMessages
	if len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
}

// ClearMessages clears all messages
func (s *Station) ClearMessages() {
	s.Messages = make([]string, 0)
}
