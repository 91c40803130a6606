package progress

import (
	"errors"

	"github.com/p-n-ai/pai-learn/internal/course"
)

// ErrLessonNotFound is returned by Accessible for a lesson id that does not
// appear in the sequence. Callers decide how to treat it; accessibility is
// never guessed.
var ErrLessonNotFound = errors.New("lesson not found in sequence")

// AccessibleAt reports whether the lesson at a position may be opened.
//
// Position 0 is always accessible. A later position requires every earlier
// lesson to be completed (no gaps). When the immediately previous lesson
// carries a quiz, that quiz must also be passed; content completion and
// quiz passing are independent gates. A final-assessment entry requires
// every earlier quiz to be passed, not just the previous one.
func AccessibleAt(seq course.Sequence, store Store, pos int) bool {
	if pos < 0 || pos >= len(seq) {
		return false
	}
	if pos == 0 {
		return true
	}

	for i := 0; i < pos; i++ {
		if !store.Completed(seq[i].LessonID) {
			return false
		}
	}

	finalAssessment := seq[pos].Type == course.LessonFinalAssessment
	for i := 0; i < pos; i++ {
		if seq[i].QuizID == "" {
			continue
		}
		if !finalAssessment && i != pos-1 {
			continue
		}
		if !store.QuizPassed(seq[i].LessonID) {
			return false
		}
	}

	return true
}

// Accessible reports whether a lesson may be opened, looked up by id.
func Accessible(seq course.Sequence, store Store, lessonID string) (bool, error) {
	pos, ok := seq.Position(lessonID)
	if !ok {
		return false, ErrLessonNotFound
	}
	return AccessibleAt(seq, store, pos), nil
}

// NextAccessible returns the position of the first lesson that is
// accessible but not yet completed, or -1 when the course is finished.
// Useful for "continue where you left off" entry points.
func NextAccessible(seq course.Sequence, store Store) int {
	for _, e := range seq {
		if store.Completed(e.LessonID) {
			continue
		}
		if AccessibleAt(seq, store, e.Position) {
			return e.Position
		}
		return -1 // blocked by an unpassed quiz gate
	}
	return -1
}
