// Package progress persists per-learner lesson state and decides lesson
// accessibility from it. Stores are scoped to a single learner; writes are
// visible to the very next read.
package progress

import (
	"sort"
	"sync"
	"time"
)

// QuizSubmission is one scored quiz attempt. The log is append-only and
// used for reporting; gating reads the boolean pass flags instead.
type QuizSubmission struct {
	QuizID         string    `json:"quizId"`
	LessonID       string    `json:"lessonId"`
	CourseID       string    `json:"courseId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	SubmittedAt    time.Time `json:"submittedAt"`
	Passed         bool      `json:"passed"`
}

// Percent returns the submission score as a 0-100 percentage.
func (s QuizSubmission) Percent() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalQuestions) * 100
}

// Store records a learner's lesson state. Completion and pass flags are
// one-way: there is no unmark operation. Reads default safely when a
// record is missing or unreadable, so render paths never fail.
type Store interface {
	// Progress returns the watch/read progress for a lesson, 0-100.
	Progress(lessonID string) float64
	// SetProgress records watch/read progress. Callers are expected to
	// only increase it; the store does not enforce monotonicity.
	SetProgress(lessonID string, pct float64) error

	// Completed reports whether a lesson's content is finished.
	Completed(lessonID string) bool
	// MarkCompleted flags a lesson as finished. Idempotent.
	MarkCompleted(lessonID string) error

	// QuizPassed reports whether a lesson's quiz has ever been passed.
	QuizPassed(lessonID string) bool
	// MarkQuizPassed flags a lesson's quiz as passed. Idempotent.
	MarkQuizPassed(lessonID string) error

	// CourseStarted reports whether the learner has opened any lesson of
	// the course. Used for dashboard membership, never for gating.
	CourseStarted(courseSlug string) bool
	// MarkCourseStarted flags a course as started. Idempotent.
	MarkCourseStarted(courseSlug string) error

	// AddSubmission appends a quiz attempt to the reporting log.
	AddSubmission(sub QuizSubmission) error
	// Submissions returns all recorded attempts, newest first.
	Submissions() []QuizSubmission
}

// MemoryStore is an in-memory Store for tests and single-process use.
type MemoryStore struct {
	mu            sync.RWMutex
	progress      map[string]float64
	completed     map[string]bool
	quizPassed    map[string]bool
	courseStarted map[string]bool
	submissions   []QuizSubmission
}

// NewMemoryStore creates an empty in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		progress:      make(map[string]float64),
		completed:     make(map[string]bool),
		quizPassed:    make(map[string]bool),
		courseStarted: make(map[string]bool),
	}
}

func (s *MemoryStore) Progress(lessonID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress[lessonID]
}

func (s *MemoryStore) SetProgress(lessonID string, pct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[lessonID] = clampPercent(pct)
	return nil
}

func (s *MemoryStore) Completed(lessonID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed[lessonID]
}

func (s *MemoryStore) MarkCompleted(lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[lessonID] = true
	return nil
}

func (s *MemoryStore) QuizPassed(lessonID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizPassed[lessonID]
}

func (s *MemoryStore) MarkQuizPassed(lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizPassed[lessonID] = true
	return nil
}

func (s *MemoryStore) CourseStarted(courseSlug string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courseStarted[courseSlug]
}

func (s *MemoryStore) MarkCourseStarted(courseSlug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseStarted[courseSlug] = true
	return nil
}

func (s *MemoryStore) AddSubmission(sub QuizSubmission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	return nil
}

func (s *MemoryStore) Submissions() []QuizSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]QuizSubmission, len(s.submissions))
	copy(out, s.submissions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
