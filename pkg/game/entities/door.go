// Package entities contains the component data attached to station entities.
// Components are plain structs; the systems in pkg/game own the behaviour.
package entities

import (
	"time"

	"airlock/pkg/engine/timer"
)

// DoorState is the position of a door in its open/close cycle
type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
	DoorDenying
)

// String returns the state name used in logs and visual state
func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "Closed"
	case DoorOpening:
		return "Opening"
	case DoorOpen:
		return "Open"
	case DoorClosing:
		return "Closing"
	case DoorDenying:
		return "Denying"
	default:
		return "Unknown"
	}
}

// Transient reports whether the state ends on its own after a timer
func (s DoorState) Transient() bool {
	return s == DoorOpening || s == DoorClosing || s == DoorDenying
}

// Airlock is the powered, boltable door component
type Airlock struct {
	State   DoorState
	Bolted  bool
	Powered bool // last PowerChanged reading

	// AutoClose is cleared by a keep-open click and restored on every close
	AutoClose              bool
	AutoCloseDelay         time.Duration
	AutoCloseDelayModifier float64

	PoweredPryModifier float64
	KeepOpenIfClicked  bool
	OpenPanelVisible   bool

	OpenDuration  time.Duration
	CloseDuration time.Duration
	DenyDuration  time.Duration
	PryTime       time.Duration

	// Partial is set while a transition is already in flight
	Partial bool

	// NextStateChange is the single pending timer slot of the door:
	// transition completion while transient, auto-close while open.
	NextStateChange timer.ID
}

// NewAirlock creates a closed, unpowered, unbolted airlock with stock timings
func NewAirlock() *Airlock {
	return &Airlock{
		State:                  DoorClosed,
		AutoClose:              true,
		AutoCloseDelay:         5 * time.Second,
		AutoCloseDelayModifier: 1,
		PoweredPryModifier:     9,
		OpenDuration:           600 * time.Millisecond,
		CloseDuration:          600 * time.Millisecond,
		DenyDuration:           450 * time.Millisecond,
		PryTime:                1500 * time.Millisecond,
	}
}

// AutoCloseAfter returns the configured delay scaled by its modifier
func (a *Airlock) AutoCloseAfter() time.Duration {
	return time.Duration(float64(a.AutoCloseDelay) * a.AutoCloseDelayModifier)
}

// CanChangeState reports whether the interlocks allow a normal transition
func (a *Airlock) CanChangeState() bool {
	return a.Powered && !a.Bolted
}

// Snapshot copies the fields guards read
func (a *Airlock) Snapshot() Snapshot {
	return Snapshot{
		State:     a.State,
		Bolted:    a.Bolted,
		Powered:   a.Powered,
		AutoClose: a.AutoClose,
		Partial:   a.Partial,
	}
}

// Snapshot is a consistent view of the interlock state, taken before any
// guard runs so no guard observes another guard's mutation.
type Snapshot struct {
	State     DoorState
	Bolted    bool
	Powered   bool
	AutoClose bool
	Partial   bool
}

// CanChangeState mirrors Airlock.CanChangeState on the frozen values
func (s Snapshot) CanChangeState() bool {
	return s.Powered && !s.Bolted
}
