package timer

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"airlock/pkg/engine/entity"
)

func newTestQueue(t *testing.T) (*Queue, *entity.Registry) {
	t.Helper()
	r := entity.NewRegistry()
	return NewQueue(r, slog.New(slog.NewTextHandler(io.Discard, nil))), r
}

func TestQueue_RunsInDueOrderThenFIFO(t *testing.T) {
	q, _ := newTestQueue(t)
	var order []string
	q.Schedule(entity.Nil, 3*time.Second, "c", func() { order = append(order, "c") })
	q.Schedule(entity.Nil, time.Second, "a", func() { order = append(order, "a") })
	q.Schedule(entity.Nil, time.Second, "b", func() { order = append(order, "b") })

	if ran := q.Advance(2 * time.Second); ran != 2 {
		t.Errorf("Advance(2s) ran %d callbacks, want 2", ran)
	}
	q.Advance(time.Second)

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueue_CancelIsIdempotent(t *testing.T) {
	q, _ := newTestQueue(t)
	fired := false
	id := q.Schedule(entity.Nil, time.Second, "x", func() { fired = true })

	if !q.Cancel(id) {
		t.Error("first Cancel = false, want true")
	}
	if q.Cancel(id) {
		t.Error("second Cancel = true, want false")
	}
	if q.Cancel(0) {
		t.Error("Cancel(0) = true, want false")
	}

	q.Advance(2 * time.Second)
	if fired {
		t.Error("cancelled callback fired")
	}
}

func TestQueue_CancelAfterFireIsNoop(t *testing.T) {
	q, _ := newTestQueue(t)
	id := q.Schedule(entity.Nil, 0, "x", func() {})
	q.Advance(0)
	if q.Pending(id) {
		t.Error("Pending after fire = true")
	}
	if q.Cancel(id) {
		t.Error("Cancel after fire = true, want false")
	}
}

func TestQueue_DropsCallbackForDestroyedOwner(t *testing.T) {
	q, r := newTestQueue(t)
	door := r.Spawn()
	fired := false
	q.Schedule(door, time.Second, "auto-close", func() { fired = true })

	r.Destroy(door)
	// The slot is reused; the old handle must still be treated as stale.
	r.Spawn()

	if ran := q.Advance(time.Second); ran != 0 {
		t.Errorf("Advance ran %d callbacks, want 0", ran)
	}
	if fired {
		t.Error("callback fired for destroyed owner")
	}
}

func TestQueue_RemainingTracksTime(t *testing.T) {
	q, _ := newTestQueue(t)
	id := q.Schedule(entity.Nil, 5*time.Second, "x", func() {})
	q.Advance(2 * time.Second)

	rem, ok := q.Remaining(id)
	if !ok || rem != 3*time.Second {
		t.Errorf("Remaining = %v, %v, want 3s, true", rem, ok)
	}
	if q.Now() != 2*time.Second {
		t.Errorf("Now() = %v, want 2s", q.Now())
	}
}

func TestQueue_ZeroDelayScheduledDuringAdvanceRunsSamePass(t *testing.T) {
	q, _ := newTestQueue(t)
	var order []string
	q.Schedule(entity.Nil, 0, "outer", func() {
		order = append(order, "outer")
		q.Schedule(entity.Nil, 0, "inner", func() { order = append(order, "inner") })
		q.Schedule(entity.Nil, time.Second, "later", func() { order = append(order, "later") })
	})

	q.Advance(0)
	want := []string{"outer", "inner"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestQueue_CancelledEntriesDoNotAccumulate(t *testing.T) {
	q, _ := newTestQueue(t)
	var fired []string
	keep := q.Schedule(entity.Nil, time.Hour, "keep", func() { fired = append(fired, "keep") })

	// Re-arming the same slot over and over, as a flapping power supply does.
	var id ID
	for i := 0; i < 1000; i++ {
		q.Cancel(id)
		id = q.Schedule(entity.Nil, time.Minute, "autoclose", func() { fired = append(fired, "autoclose") })
	}

	if limit := 2*q.Len() + compactSlack + 1; q.entries.Size() > limit {
		t.Errorf("heap holds %d entries for %d pending, want at most %d", q.entries.Size(), q.Len(), limit)
	}
	if !q.Pending(keep) || !q.Pending(id) {
		t.Fatal("compaction dropped a pending callback")
	}

	q.Advance(time.Hour)
	want := []string{"autoclose", "keep"}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
}
