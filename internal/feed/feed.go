// Package feed broadcasts progress events to live dashboard subscribers.
package feed

import (
	"sync"
	"time"
)

// Kind names a progress event type.
type Kind string

const (
	KindProgress      Kind = "progress"
	KindCompleted     Kind = "completed"
	KindQuizPassed    Kind = "quiz_passed"
	KindCourseStarted Kind = "course_started"
)

// Event is one progress change, as pushed to subscribers.
type Event struct {
	Kind       Kind      `json:"kind"`
	LessonID   string    `json:"lesson_id,omitempty"`
	CourseSlug string    `json:"course_slug,omitempty"`
	Percent    float64   `json:"percent,omitempty"`
	At         time.Time `json:"at"`
}

const subscriberBuffer = 16

// Hub fans events out to subscribers. Publishing never blocks; a
// subscriber that falls behind loses events rather than stalling writers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must
// be called to release it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to all current subscribers.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default: // slow consumer, drop
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
