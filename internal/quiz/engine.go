package quiz

import (
	"log/slog"
	"time"

	"github.com/p-n-ai/pai-learn/internal/progress"
)

// EngineConfig holds dependencies for a quiz engine run.
type EngineConfig struct {
	Quiz Quiz
	// LessonID is the lesson the quiz belongs to. Empty for a course-level
	// final assessment, where the quiz id doubles as the gate lesson id.
	LessonID string
	CourseID string
	Store    progress.Store
	Now      func() time.Time
}

// Engine runs one quiz as a question-by-question wizard: select an option,
// check it, move on, and receive a scored verdict after the last question.
// Answers are keyed by global question index so the full score is computed
// retrospectively even though questions are shown one at a time.
//
// An engine is single-use per attempt and not safe for concurrent use; it
// models a single learner's in-memory wizard state. Nothing is persisted
// until the final question is answered, so abandoning mid-quiz loses only
// this state.
type Engine struct {
	quiz     Quiz
	lessonID string
	courseID string
	store    progress.Store
	now      func() time.Time

	idx      int
	selected int // -1 while nothing is selected
	checked  bool
	answers  map[int]int
	result   *Result
}

// NewEngine creates an engine positioned at the first question.
func NewEngine(cfg EngineConfig) *Engine {
	store := cfg.Store
	if store == nil {
		store = progress.NewMemoryStore()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		quiz:     cfg.Quiz,
		lessonID: cfg.LessonID,
		courseID: cfg.CourseID,
		store:    store,
		now:      now,
		selected: -1,
		answers:  make(map[int]int),
	}
}

// Question returns the current question. ok is false once the quiz is
// submitted or when the quiz has no questions.
func (e *Engine) Question() (Question, bool) {
	if e.result != nil || e.idx >= len(e.quiz.Questions) {
		return Question{}, false
	}
	return e.quiz.Questions[e.idx], true
}

// QuestionIndex returns the current 0-based question position.
func (e *Engine) QuestionIndex() int {
	return e.idx
}

// Selected returns the currently selected option, if any.
func (e *Engine) Selected() (int, bool) {
	if e.selected < 0 {
		return 0, false
	}
	return e.selected, true
}

// Checked reports whether the current answer has been checked.
func (e *Engine) Checked() bool {
	return e.checked
}

// SelectOption picks an option for the current question. It is a no-op
// after the answer is checked, after submission, or for an out-of-range
// index; the return value reports whether the selection was applied.
func (e *Engine) SelectOption(i int) bool {
	q, ok := e.Question()
	if !ok || e.checked {
		return false
	}
	if i < 0 || i >= len(q.Options) {
		return false
	}
	e.selected = i
	return true
}

// CheckAnswer grades the current selection and locks it in. Calling it
// with no selection, or twice for the same question, is a no-op with
// ok=false; the UI is expected to disable the action in those states.
func (e *Engine) CheckAnswer() (correct, ok bool) {
	q, qok := e.Question()
	if !qok || e.checked || e.selected < 0 {
		return false, false
	}
	e.answers[e.idx] = e.selected
	e.checked = true
	return e.selected == q.Correct, true
}

// Next advances to the following question, or scores and submits when the
// checked question was the last one. It is a no-op unless the current
// answer has been checked.
func (e *Engine) Next() bool {
	if e.result != nil || !e.checked {
		return false
	}

	if e.idx+1 < len(e.quiz.Questions) {
		e.idx++
		e.selected = -1
		e.checked = false
		return true
	}

	e.submit()
	return true
}

// Submitted reports whether the quiz has been scored.
func (e *Engine) Submitted() bool {
	return e.result != nil
}

// Result returns the verdict once the quiz is submitted.
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// Retake resets a submitted engine back to the first question with a
// cleared answer map. A prior pass recorded in the store is not revoked;
// only a new submission produces a new verdict.
func (e *Engine) Retake() bool {
	if e.result == nil {
		return false
	}
	e.idx = 0
	e.selected = -1
	e.checked = false
	e.answers = make(map[int]int)
	e.result = nil
	return true
}

// gateLessonID is the lesson id the pass flag is keyed by. A course-level
// final assessment is gated under the quiz's own id.
func (e *Engine) gateLessonID() string {
	if e.lessonID != "" {
		return e.lessonID
	}
	return e.quiz.ID
}

func (e *Engine) submit() {
	total := len(e.quiz.Questions)
	score := 0
	for i, q := range e.quiz.Questions {
		if a, ok := e.answers[i]; ok && a == q.Correct {
			score++
		}
	}

	res := Result{Score: score, Total: total, Passed: passes(score, total)}
	e.result = &res

	sub := progress.QuizSubmission{
		QuizID:         e.quiz.ID,
		LessonID:       e.lessonID,
		CourseID:       e.courseID,
		Score:          score,
		TotalQuestions: total,
		SubmittedAt:    e.now(),
		Passed:         res.Passed,
	}
	if err := e.store.AddSubmission(sub); err != nil {
		slog.Error("failed to record quiz submission", "quiz_id", e.quiz.ID, "error", err)
	}

	// The pass flag is one-way: a failing retake never clears it.
	if res.Passed {
		if err := e.store.MarkQuizPassed(e.gateLessonID()); err != nil {
			slog.Error("failed to mark quiz passed", "quiz_id", e.quiz.ID, "error", err)
		}
	}

	slog.Info("quiz submitted",
		"quiz_id", e.quiz.ID,
		"score", score,
		"total", total,
		"passed", res.Passed,
	)
}
