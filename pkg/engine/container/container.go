// Package container provides named single-occupant slots on entities.
// An entity sits in at most one slot at a time; insertion and removal
// raise notifications on the bus against the owning entity.
package container

import (
	"github.com/zyedidia/generic/mapset"

	"airlock/pkg/engine/entity"
	"airlock/pkg/engine/event"
)

// Inserted is raised against the owner after an entity enters one of its slots
type Inserted struct {
	Slot   string
	Entity entity.Handle
}

// Removing is raised against the owner while the entity is still in the
// slot, immediately before it is detached
type Removing struct {
	Slot   string
	Entity entity.Handle
}

type location struct {
	owner entity.Handle
	slot  string
}

// Manager owns every slot in a station
type Manager struct {
	bus      *event.Bus
	declared map[entity.Handle]mapset.Set[string]
	contents map[location]entity.Handle
	holder   map[entity.Handle]location
}

// NewManager creates a manager raising notifications on bus
func NewManager(bus *event.Bus) *Manager {
	return &Manager{
		bus:      bus,
		declared: make(map[entity.Handle]mapset.Set[string]),
		contents: make(map[location]entity.Handle),
		holder:   make(map[entity.Handle]location),
	}
}

// Ensure declares slot on owner if it does not exist yet
func (m *Manager) Ensure(owner entity.Handle, slot string) {
	set, ok := m.declared[owner]
	if !ok {
		set = mapset.New[string]()
		m.declared[owner] = set
	}
	set.Put(slot)
}

// Has reports whether owner declares slot
func (m *Manager) Has(owner entity.Handle, slot string) bool {
	set, ok := m.declared[owner]
	return ok && set.Has(slot)
}

// Contained returns the entity currently in the slot
func (m *Manager) Contained(owner entity.Handle, slot string) (entity.Handle, bool) {
	h, ok := m.contents[location{owner, slot}]
	return h, ok
}

// Holder returns where item currently sits
func (m *Manager) Holder(item entity.Handle) (owner entity.Handle, slot string, ok bool) {
	loc, ok := m.holder[item]
	return loc.owner, loc.slot, ok
}

// Insert puts item into owner's slot. Fails when the slot is undeclared or
// occupied, or when item already sits in some slot.
func (m *Manager) Insert(owner entity.Handle, slot string, item entity.Handle) bool {
	if item.IsNil() || item == owner || !m.Has(owner, slot) {
		return false
	}
	loc := location{owner, slot}
	if _, occupied := m.contents[loc]; occupied {
		return false
	}
	if _, held := m.holder[item]; held {
		return false
	}

	m.contents[loc] = item
	m.holder[item] = loc
	event.Raise(m.bus, owner, &Inserted{Slot: slot, Entity: item})
	return true
}

// Remove takes the occupant out of owner's slot
func (m *Manager) Remove(owner entity.Handle, slot string) (entity.Handle, bool) {
	loc := location{owner, slot}
	item, ok := m.contents[loc]
	if !ok {
		return entity.Nil, false
	}

	event.Raise(m.bus, owner, &Removing{Slot: slot, Entity: item})

	delete(m.contents, loc)
	delete(m.holder, item)
	return item, true
}

// Forget drops every slot declared by owner without raising notifications
// and returns the entities they held. Used when owner is destroyed.
func (m *Manager) Forget(owner entity.Handle) []entity.Handle {
	set, ok := m.declared[owner]
	if !ok {
		return nil
	}
	var orphans []entity.Handle
	set.Each(func(slot string) {
		loc := location{owner, slot}
		if item, ok := m.contents[loc]; ok {
			orphans = append(orphans, item)
			delete(m.contents, loc)
			delete(m.holder, item)
		}
	})
	delete(m.declared, owner)

	if loc, held := m.holder[owner]; held {
		delete(m.contents, loc)
		delete(m.holder, owner)
	}
	return orphans
}
