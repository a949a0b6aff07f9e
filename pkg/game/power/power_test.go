package power

import (
	"testing"

	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
)

func TestSetPowered_RaisesOnlyOnFlip(t *testing.T) {
	bus := event.NewBus()
	n := NewNetwork(bus)
	h := entity.Handle{Index: 1, Gen: 1}

	var seen []bool
	event.Subscribe(bus, func(got entity.Handle, ev *Changed) {
		if got != h {
			t.Errorf("Changed raised against %v, want %v", got, h)
		}
		seen = append(seen, ev.Powered)
	})

	if n.SetPowered(h, false) {
		t.Error("SetPowered(false) on unpowered entity reported a change")
	}
	n.SetPowered(h, true)
	n.SetPowered(h, true)
	n.SetPowered(h, false)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("Changed notifications = %v, want [true false]", seen)
	}
	if n.IsPowered(h) {
		t.Error("IsPowered = true after power loss")
	}
}

func TestToggle(t *testing.T) {
	n := NewNetwork(event.NewBus())
	h := entity.Handle{Index: 2, Gen: 1}
	if !n.Toggle(h) {
		t.Error("Toggle on unpowered = false, want true")
	}
	if n.Toggle(h) {
		t.Error("Toggle on powered = true, want false")
	}
}
