// Package power is the supply side of the door interlock: it tracks which
// entities receive power and announces every flip on the station bus.
package power

import (
	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
)

// Changed is raised against an entity when its supply flips
type Changed struct {
	Powered bool
}

// Network tracks per-entity supply
type Network struct {
	bus     *event.Bus
	powered map[entity.Handle]bool
}

// NewNetwork creates a network raising Changed on bus
func NewNetwork(bus *event.Bus) *Network {
	return &Network{
		bus:     bus,
		powered: make(map[entity.Handle]bool),
	}
}

// IsPowered reports whether h currently receives power
func (n *Network) IsPowered(h entity.Handle) bool {
	return n.powered[h]
}

// SetPowered updates the supply of h, raising Changed only on a flip.
// Returns true when the state changed.
func (n *Network) SetPowered(h entity.Handle, powered bool) bool {
	if n.powered[h] == powered {
		return false
	}
	if powered {
		n.powered[h] = true
	} else {
		delete(n.powered, h)
	}
	event.Raise(n.bus, h, &Changed{Powered: powered})
	return true
}

// Toggle flips the supply of h and returns the new state
func (n *Network) Toggle(h entity.Handle) bool {
	n.SetPowered(h, !n.powered[h])
	return n.powered[h]
}

// Forget drops h without raising a notification
func (n *Network) Forget(h entity.Handle) {
	delete(n.powered, h)
}
