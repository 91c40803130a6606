// Package stats derives dashboard statistics from the curriculum and the
// progress store. All functions are pure over a store snapshot.
package stats

import (
	"math"

	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/progress"
)

// CourseSummary is completion state for one course.
type CourseSummary struct {
	TotalLessons     int
	CompletedLessons int
	PercentComplete  int
}

// Completed reports whether every lesson in the course is done.
func (s CourseSummary) Completed() bool {
	return s.TotalLessons > 0 && s.PercentComplete == 100
}

// InProgress reports whether the course is started but unfinished.
func (s CourseSummary) InProgress() bool {
	return s.PercentComplete > 0 && s.PercentComplete < 100
}

// Summarize computes completion counts over a flattened sequence. An empty
// sequence yields 0%, never a division error.
func Summarize(seq course.Sequence, store progress.Store) CourseSummary {
	sum := CourseSummary{TotalLessons: len(seq)}
	for _, e := range seq {
		if store.Completed(e.LessonID) {
			sum.CompletedLessons++
		}
	}
	if sum.TotalLessons > 0 {
		sum.PercentComplete = int(math.Round(
			float64(sum.CompletedLessons) / float64(sum.TotalLessons) * 100))
	}
	return sum
}

// LearnerOverview is a learner's aggregate state across started courses.
type LearnerOverview struct {
	CoursesCompleted        int
	CoursesInProgress       int
	TotalQuizzes            int
	AverageQuizScorePercent int
}

// Overview aggregates across all courses the learner has started. Courses
// never opened are excluded entirely. The quiz average is the mean attempt
// score across the full submission history, rounded; no attempts yields 0.
func Overview(courses []course.Course, store progress.Store) LearnerOverview {
	var o LearnerOverview

	for _, c := range courses {
		if !store.CourseStarted(c.Slug) {
			continue
		}
		sum := Summarize(course.Flatten(c), store)
		switch {
		case sum.Completed():
			o.CoursesCompleted++
		case sum.InProgress():
			o.CoursesInProgress++
		}
	}

	subs := store.Submissions()
	o.TotalQuizzes = len(subs)
	if len(subs) > 0 {
		total := 0.0
		for _, s := range subs {
			total += s.Percent()
		}
		o.AverageQuizScorePercent = int(math.Round(total / float64(len(subs))))
	}

	return o
}
