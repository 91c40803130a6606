package progress

import (
	"testing"
	"time"
)

// fakeClock lets sink tests advance time manually.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestSink(store Store, cfg SinkConfig) (*Sink, *fakeClock) {
	s := NewSink(store, cfg)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s.now = clock.now
	return s, clock
}

func TestSink_FirstWritePasses(t *testing.T) {
	store := NewMemoryStore()
	sink, _ := newTestSink(store, SinkConfig{})

	wrote, err := sink.Write("l1", 1)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !wrote {
		t.Error("first write should not be throttled")
	}
	if got := store.Progress("l1"); got != 1 {
		t.Errorf("Progress() = %v, want 1", got)
	}
}

func TestSink_ThrottlesRapidSmallUpdates(t *testing.T) {
	store := NewMemoryStore()
	sink, clock := newTestSink(store, SinkConfig{MinInterval: 5 * time.Second, MinDelta: 5})

	_, _ = sink.Write("l1", 10)

	clock.advance(time.Second)
	wrote, _ := sink.Write("l1", 11)
	if wrote {
		t.Error("small update inside the interval should be throttled")
	}
	if got := store.Progress("l1"); got != 10 {
		t.Errorf("Progress() = %v, want 10 (throttled write dropped)", got)
	}
}

func TestSink_BigDeltaBypassesInterval(t *testing.T) {
	store := NewMemoryStore()
	sink, clock := newTestSink(store, SinkConfig{MinInterval: 5 * time.Second, MinDelta: 5})

	_, _ = sink.Write("l1", 10)

	clock.advance(time.Second)
	wrote, _ := sink.Write("l1", 20)
	if !wrote {
		t.Error("a jump past MinDelta should write immediately")
	}
}

func TestSink_IntervalElapsedWrites(t *testing.T) {
	store := NewMemoryStore()
	sink, clock := newTestSink(store, SinkConfig{MinInterval: 5 * time.Second, MinDelta: 5})

	_, _ = sink.Write("l1", 10)

	clock.advance(6 * time.Second)
	wrote, _ := sink.Write("l1", 11)
	if !wrote {
		t.Error("an update after the interval should write")
	}
	if got := store.Progress("l1"); got != 11 {
		t.Errorf("Progress() = %v, want 11", got)
	}
}

func TestSink_DropsBackwardsUpdates(t *testing.T) {
	store := NewMemoryStore()
	sink, clock := newTestSink(store, SinkConfig{MinInterval: time.Second, MinDelta: 1})

	_, _ = sink.Write("l1", 50)
	clock.advance(time.Minute)

	wrote, _ := sink.Write("l1", 30)
	if wrote {
		t.Error("backwards update must be dropped")
	}
	if err := sink.Flush("l1", 30); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.Progress("l1"); got != 50 {
		t.Errorf("Progress() = %v, want 50 (seek backwards never persisted)", got)
	}
}

func TestSink_FlushBypassesThrottle(t *testing.T) {
	store := NewMemoryStore()
	sink, _ := newTestSink(store, SinkConfig{MinInterval: time.Hour, MinDelta: 50})

	_, _ = sink.Write("l1", 10)

	if err := sink.Flush("l1", 12); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.Progress("l1"); got != 12 {
		t.Errorf("Progress() = %v, want 12 after flush", got)
	}
}

func TestSink_LessonsThrottledIndependently(t *testing.T) {
	store := NewMemoryStore()
	sink, _ := newTestSink(store, SinkConfig{MinInterval: time.Hour, MinDelta: 50})

	_, _ = sink.Write("l1", 10)
	wrote, _ := sink.Write("l2", 10)
	if !wrote {
		t.Error("throttle state must be per lesson")
	}
}
