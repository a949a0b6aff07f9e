// Package component provides a generic per-type component store.
package component

import "airlock/pkg/engine/entity"

// Store holds components of one type keyed by entity handle.
// Entities are kept in insertion order so iteration is deterministic.
type Store[T any] struct {
	components map[entity.Handle]T
	entities   []entity.Handle
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[entity.Handle]T),
		entities:   make([]entity.Handle, 0, 16),
	}
}

// Set inserts or replaces the component for an entity
func (s *Store[T]) Set(h entity.Handle, val T) {
	if _, exists := s.components[h]; !exists {
		s.entities = append(s.entities, h)
	}
	s.components[h] = val
}

// Get retrieves the component for an entity
func (s *Store[T]) Get(h entity.Handle) (T, bool) {
	val, ok := s.components[h]
	return val, ok
}

// Has reports whether the entity has this component
func (s *Store[T]) Has(h entity.Handle) bool {
	_, ok := s.components[h]
	return ok
}

// Remove deletes the component for an entity
func (s *Store[T]) Remove(h entity.Handle) {
	if _, exists := s.components[h]; !exists {
		return
	}
	delete(s.components, h)
	for i, e := range s.entities {
		if e == h {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

// All returns a copy of every entity holding this component, in insertion order
func (s *Store[T]) All() []entity.Handle {
	out := make([]entity.Handle, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of stored components
func (s *Store[T]) Len() int {
	return len(s.entities)
}
