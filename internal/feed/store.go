package feed

import (
	"github.com/p-n-ai/pai-learn/internal/progress"
)

// NotifyingStore decorates a progress.Store, publishing an event after
// every successful write. Reads pass through untouched.
type NotifyingStore struct {
	progress.Store
	hub *Hub
}

// NewNotifyingStore wraps a store so its writes feed the hub.
func NewNotifyingStore(inner progress.Store, hub *Hub) *NotifyingStore {
	return &NotifyingStore{Store: inner, hub: hub}
}

func (s *NotifyingStore) SetProgress(lessonID string, pct float64) error {
	if err := s.Store.SetProgress(lessonID, pct); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: KindProgress, LessonID: lessonID, Percent: pct})
	return nil
}

func (s *NotifyingStore) MarkCompleted(lessonID string) error {
	if err := s.Store.MarkCompleted(lessonID); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: KindCompleted, LessonID: lessonID, Percent: 100})
	return nil
}

func (s *NotifyingStore) MarkQuizPassed(lessonID string) error {
	if err := s.Store.MarkQuizPassed(lessonID); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: KindQuizPassed, LessonID: lessonID})
	return nil
}

func (s *NotifyingStore) MarkCourseStarted(courseSlug string) error {
	if err := s.Store.MarkCourseStarted(courseSlug); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: KindCourseStarted, CourseSlug: courseSlug})
	return nil
}
