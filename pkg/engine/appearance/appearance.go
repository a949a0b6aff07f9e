// Package appearance is the write-mostly visual state sink.
// Game logic stores key/value hints per entity; renderers read them.
package appearance

import "airlock/pkg/engine/entity"

// Key names a visual state entry
type Key string

// Visual keys written by the door core
const (
	Powered      Key = "Powered"
	BoltLights   Key = "BoltLights"
	BaseSkin     Key = "BaseSkin"
	State        Key = "State"
	PanelVisible Key = "PanelVisible"
)

// Sink holds visual data for every entity that has any
type Sink struct {
	data map[entity.Handle]map[Key]any
}

// NewSink creates an empty sink
func NewSink() *Sink {
	return &Sink{data: make(map[entity.Handle]map[Key]any)}
}

// Set stores a value
func (s *Sink) Set(h entity.Handle, k Key, v any) {
	m, ok := s.data[h]
	if !ok {
		m = make(map[Key]any)
		s.data[h] = m
	}
	m[k] = v
}

// Get returns a stored value
func (s *Sink) Get(h entity.Handle, k Key) (any, bool) {
	v, ok := s.data[h][k]
	return v, ok
}

// String returns a stored string value; missing or non-string values report false
func (s *Sink) String(h entity.Handle, k Key) (string, bool) {
	v, ok := s.Get(h, k)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Bool returns a stored bool value, false when absent
func (s *Sink) Bool(h entity.Handle, k Key) bool {
	v, _ := s.Get(h, k)
	b, _ := v.(bool)
	return b
}

// Clear drops everything stored for h
func (s *Sink) Clear(h entity.Handle) {
	delete(s.data, h)
}
