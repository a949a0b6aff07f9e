// Package entity provides generation-checked entity handles.
// A handle stays valid only while the slot it points at has not been
// destroyed and reused, so deferred work can detect stale references.
package entity

import "fmt"

// Handle identifies an entity. The zero Handle is never alive.
type Handle struct {
	Index uint32
	Gen   uint32
}

// Nil is the zero handle
var Nil Handle

// IsNil reports whether h is the zero handle
func (h Handle) IsNil() bool {
	return h == Nil
}

// String returns "index:gen"
func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Gen)
}

// Registry hands out handles and tracks which ones are alive.
// Slot 0 is reserved so that the zero Handle is always dead.
type Registry struct {
	gens      []uint32
	alive     []bool
	free      []uint32
	onDestroy []func(Handle)
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		gens:  []uint32{0},
		alive: []bool{false},
	}
}

// Spawn allocates a new live handle, reusing freed slots with a bumped generation
func (r *Registry) Spawn() Handle {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.gens[idx]++
		r.alive[idx] = true
		return Handle{Index: idx, Gen: r.gens[idx]}
	}

	idx := uint32(len(r.gens))
	r.gens = append(r.gens, 1)
	r.alive = append(r.alive, true)
	return Handle{Index: idx, Gen: 1}
}

// Alive reports whether h still refers to a live entity
func (r *Registry) Alive(h Handle) bool {
	if h.Index == 0 || int(h.Index) >= len(r.gens) {
		return false
	}
	return r.alive[h.Index] && r.gens[h.Index] == h.Gen
}

// Destroy kills the entity and runs destroy hooks.
// Destroying a dead or stale handle is a no-op and returns false.
func (r *Registry) Destroy(h Handle) bool {
	if !r.Alive(h) {
		return false
	}
	for _, fn := range r.onDestroy {
		fn(h)
	}
	r.alive[h.Index] = false
	r.free = append(r.free, h.Index)
	return true
}

// OnDestroy registers a hook called for every destroyed entity,
// before the handle becomes stale.
func (r *Registry) OnDestroy(fn func(Handle)) {
	r.onDestroy = append(r.onDestroy, fn)
}

// Count returns the number of live entities
func (r *Registry) Count() int {
	n := 0
	for _, a := range r.alive {
		if a {
			n++
		}
	}
	return n
}
