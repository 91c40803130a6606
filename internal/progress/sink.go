package progress

import (
	"sync"
	"time"
)

const (
	defaultSinkInterval = 5 * time.Second
	defaultSinkDelta    = 5.0
)

// Sink throttles playback progress writes. Video players report progress on
// every time update; the sink forwards a write only when enough time has
// passed or the position moved far enough, and drops backwards updates so
// the store stays monotonic per lesson.
type Sink struct {
	store       Store
	minInterval time.Duration
	minDelta    float64
	now         func() time.Time

	mu   sync.Mutex
	last map[string]sinkMark
}

type sinkMark struct {
	at  time.Time
	pct float64
}

// SinkConfig holds throttling knobs for a progress sink.
type SinkConfig struct {
	MinInterval time.Duration // minimum time between writes per lesson (default 5s)
	MinDelta    float64       // minimum percent change to force a write (default 5)
}

// NewSink creates a throttled progress writer over a store.
func NewSink(store Store, cfg SinkConfig) *Sink {
	interval := cfg.MinInterval
	if interval == 0 {
		interval = defaultSinkInterval
	}
	delta := cfg.MinDelta
	if delta == 0 {
		delta = defaultSinkDelta
	}
	return &Sink{
		store:       store,
		minInterval: interval,
		minDelta:    delta,
		now:         time.Now,
		last:        make(map[string]sinkMark),
	}
}

// Write forwards a progress update unless it is throttled. Returns whether
// the store was written.
func (s *Sink) Write(lessonID string, pct float64) (bool, error) {
	s.mu.Lock()
	mark, seen := s.last[lessonID]
	now := s.now()

	if seen {
		if pct <= mark.pct {
			s.mu.Unlock()
			return false, nil
		}
		if now.Sub(mark.at) < s.minInterval && pct-mark.pct < s.minDelta {
			s.mu.Unlock()
			return false, nil
		}
	}

	s.last[lessonID] = sinkMark{at: now, pct: pct}
	s.mu.Unlock()

	if err := s.store.SetProgress(lessonID, pct); err != nil {
		return false, err
	}
	return true, nil
}

// Flush writes immediately, bypassing the throttle. Called when playback
// pauses or the learner navigates away. Backwards updates are still dropped.
func (s *Sink) Flush(lessonID string, pct float64) error {
	s.mu.Lock()
	mark, seen := s.last[lessonID]
	if seen && pct <= mark.pct {
		s.mu.Unlock()
		return nil
	}
	s.last[lessonID] = sinkMark{at: s.now(), pct: pct}
	s.mu.Unlock()

	return s.store.SetProgress(lessonID, pct)
}
