// Package timer provides the cooperative, time-ordered work queue that
// drives deferred door work (transition completion, auto-close, deferred
// initialisation). Time is simulated: it only moves when Advance is called.
package timer

import (
	"log/slog"
	"time"

	"github.com/zyedidia/generic/heap"

	"airlock/pkg/engine/entity"
)

// ID identifies a scheduled callback. The zero ID is never issued.
type ID uint64

// Liveness reports whether an owner entity still exists
type Liveness interface {
	Alive(h entity.Handle) bool
}

type entry struct {
	id    ID
	due   time.Duration
	seq   uint64
	owner entity.Handle
	name  string
	fn    func()
}

// compactSlack is how many cancelled entries the heap may carry before
// Cancel considers rebuilding it
const compactSlack = 64

// Queue orders callbacks by due time, then by scheduling order.
// Cancelled entries stay in the heap and are dropped when popped, until
// they outnumber the live ones and Cancel rebuilds the heap.
type Queue struct {
	now     time.Duration
	lastID  ID
	seq     uint64
	entries *heap.Heap[*entry]
	pending map[ID]*entry
	alive   Liveness
	log     *slog.Logger
}

// NewQueue creates a queue that checks owner liveness with alive before firing
func NewQueue(alive Liveness, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{
		entries: heap.New(entryLess),
		pending: make(map[ID]*entry),
		alive:   alive,
		log:     log,
	}
}

func entryLess(a, b *entry) bool {
	if a.due != b.due {
		return a.due < b.due
	}
	return a.seq < b.seq
}

// Now returns the current simulated time
func (q *Queue) Now() time.Duration {
	return q.now
}

// Schedule queues fn to run once delay has elapsed.
// A non-nil owner ties the callback to that entity's lifetime.
func (q *Queue) Schedule(owner entity.Handle, delay time.Duration, name string, fn func()) ID {
	if delay < 0 {
		delay = 0
	}
	q.lastID++
	q.seq++
	e := &entry{
		id:    q.lastID,
		due:   q.now + delay,
		seq:   q.seq,
		owner: owner,
		name:  name,
		fn:    fn,
	}
	q.entries.Push(e)
	q.pending[e.id] = e
	return e.id
}

// Cancel removes a pending callback.
// Cancelling an unknown, fired or already cancelled ID is a no-op that returns false.
func (q *Queue) Cancel(id ID) bool {
	if _, ok := q.pending[id]; !ok {
		return false
	}
	delete(q.pending, id)
	if q.entries.Size() > 2*len(q.pending)+compactSlack {
		q.compact()
	}
	return true
}

// compact rebuilds the heap from the pending entries only
func (q *Queue) compact() {
	live := make([]*entry, 0, len(q.pending))
	for _, e := range q.pending {
		live = append(live, e)
	}
	q.entries = heap.FromSlice(entryLess, live)
}

// Pending reports whether id is still waiting to fire
func (q *Queue) Pending(id ID) bool {
	_, ok := q.pending[id]
	return ok
}

// Remaining returns how long until id fires
func (q *Queue) Remaining(id ID) (time.Duration, bool) {
	e, ok := q.pending[id]
	if !ok {
		return 0, false
	}
	return e.due - q.now, true
}

// Len returns the number of pending callbacks
func (q *Queue) Len() int {
	return len(q.pending)
}

// Advance moves time forward by dt and runs every callback that became due,
// in order. Callbacks scheduled while advancing run in the same pass if they
// are already due. Returns the number of callbacks run.
func (q *Queue) Advance(dt time.Duration) int {
	if dt > 0 {
		q.now += dt
	}

	ran := 0
	for {
		next, ok := q.entries.Peek()
		if !ok || next.due > q.now {
			break
		}
		q.entries.Pop()

		if _, live := q.pending[next.id]; !live {
			continue
		}
		delete(q.pending, next.id)

		if !next.owner.IsNil() && q.alive != nil && !q.alive.Alive(next.owner) {
			q.log.Debug("dropping timer for destroyed entity",
				"timer", next.name,
				"owner", next.owner.String(),
			)
			continue
		}

		next.fn()
		ran++
	}
	return ran
}
