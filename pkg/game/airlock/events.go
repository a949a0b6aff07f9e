package airlock

import (
	"strings"

	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
	"airlock/pkg/game/entities"
)

// Reason explains why a request was refused
type Reason string

const (
	ReasonBolted     Reason = "bolted"
	ReasonPowered    Reason = "powered"
	ReasonUnpowered  Reason = "unpowered"
	ReasonCancelled  Reason = "cancelled"
	ReasonWrongState Reason = "wrong-state"
	ReasonBusy       Reason = "busy"
	ReasonAbsent     Reason = "absent"
)

// Verdict is the answer to a transition or interaction request.
// A refused request never changes door state.
type Verdict struct {
	Allowed bool
	Reasons []Reason
}

func allow() Verdict {
	return Verdict{Allowed: true}
}

func deny(reasons ...Reason) Verdict {
	return Verdict{Reasons: reasons}
}

// verdictOf converts the outcome of a cancellable notification
func verdictOf(c *event.Cancellable) Verdict {
	if !c.Cancelled() {
		return allow()
	}
	if len(c.Reasons()) == 0 {
		return deny(ReasonCancelled)
	}
	v := Verdict{Reasons: make([]Reason, 0, len(c.Reasons()))}
	for _, r := range c.Reasons() {
		v.Reasons = append(v.Reasons, Reason(r))
	}
	return v
}

// Has reports whether r is among the refusal reasons
func (v Verdict) Has(r Reason) bool {
	for _, got := range v.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

func (v Verdict) String() string {
	if v.Allowed {
		return "allowed"
	}
	parts := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		parts[i] = string(r)
	}
	return "denied: " + strings.Join(parts, ", ")
}

// DoorStateChanged is raised after a door enters a new state
type DoorStateChanged struct {
	Old, New entities.DoorState
}

// BeforeDoorOpened is raised before a guarded open; any handler may veto
type BeforeDoorOpened struct {
	event.Cancellable
	User     entity.Handle
	Snapshot entities.Snapshot
}

// BeforeDoorClosed is raised before a guarded close and again when an
// in-flight close completes. Partial is set in the second case.
type BeforeDoorClosed struct {
	event.Cancellable
	User     entity.Handle
	Partial  bool
	Snapshot entities.Snapshot
}

// BeforeDoorDenied is raised before deny feedback is shown
type BeforeDoorDenied struct {
	event.Cancellable
	Snapshot entities.Snapshot
}

// BeforeDoorAutoClose is raised before an auto-close is scheduled
type BeforeDoorAutoClose struct {
	event.Cancellable
	Snapshot entities.Snapshot
}

// BeforeDoorPry is raised when an actor tries to pry the door
type BeforeDoorPry struct {
	event.Cancellable
	User     entity.Handle
	Tool     *entities.Tool
	Snapshot entities.Snapshot
}

// BoltsChanged is raised after the bolts move
type BoltsChanged struct {
	Bolted bool
}

// SoundRequested asks the audio collaborator to play a named cue
type SoundRequested struct {
	Sound string
}

// Sound cues emitted by the door
const (
	SoundBoltsDown = "bolts_down"
	SoundBoltsUp   = "bolts_up"
	SoundDeny      = "deny"
)

// WirePanelOpened asks the UI collaborator to show the wire interface to User
type WirePanelOpened struct {
	User entity.Handle
}

// WireOp names a wire manipulation
type WireOp string

const (
	WireCut   WireOp = "cut"
	WireMend  WireOp = "mend"
	WirePulse WireOp = "pulse"
)

// WireActed is raised after a wire manipulation was accepted
type WireActed struct {
	User entity.Handle
	Wire string
	Op   WireOp
}
