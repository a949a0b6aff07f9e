// Package event provides a synchronous, typed notification bus.
//
// Architecture:
//   - Handlers subscribe per payload type (the Go type of the event struct)
//   - Raise runs every handler for that type in subscription order
//   - Dispatch is synchronous: Raise returns after all handlers ran
//   - Cancellation does not stop dispatch, so every veto reason is collected
package event

import (
	"reflect"

	"airlock/pkg/engine/entity"
)

// Bus routes events to handlers keyed by payload type
type Bus struct {
	handlers map[reflect.Type][]any
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers fn for events of type T raised against any entity
func Subscribe[T any](b *Bus, fn func(h entity.Handle, ev *T)) {
	key := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[key] = append(b.handlers[key], fn)
}

// Raise delivers ev to every handler subscribed to T, in subscription order
func Raise[T any](b *Bus, h entity.Handle, ev *T) {
	for _, fn := range b.handlers[reflect.TypeOf((*T)(nil)).Elem()] {
		fn.(func(entity.Handle, *T))(h, ev)
	}
}

// HandlerCount returns the number of handlers subscribed to T
func HandlerCount[T any](b *Bus) int {
	return len(b.handlers[reflect.TypeOf((*T)(nil)).Elem()])
}

// Cancellable is embedded in pre-transition notifications.
// Any handler may cancel; reasons accumulate without duplicates.
type Cancellable struct {
	cancelled bool
	reasons   []string
}

// Cancel vetoes the action without a reason
func (c *Cancellable) Cancel() {
	c.cancelled = true
}

// CancelWith vetoes the action and records why
func (c *Cancellable) CancelWith(reason string) {
	c.cancelled = true
	for _, r := range c.reasons {
		if r == reason {
			return
		}
	}
	c.reasons = append(c.reasons, reason)
}

// Cancelled reports whether any handler vetoed
func (c *Cancellable) Cancelled() bool {
	return c.cancelled
}

// Reasons returns the recorded veto reasons in the order they were added
func (c *Cancellable) Reasons() []string {
	return c.reasons
}

// Handleable is embedded in interaction events that a handler may consume
type Handleable struct {
	handled bool
}

// MarkHandled consumes the interaction
func (h *Handleable) MarkHandled() {
	h.handled = true
}

// Handled reports whether a handler consumed the interaction
func (h *Handleable) Handled() bool {
	return h.handled
}
