package quiz_test

import (
	"testing"
	"time"

	"github.com/p-n-ai/pai-learn/internal/progress"
	"github.com/p-n-ai/pai-learn/internal/quiz"
)

// fiveQuestions builds a quiz where option 0 is always correct.
func fiveQuestions() quiz.Quiz {
	qs := make([]quiz.Question, 5)
	for i := range qs {
		qs[i] = quiz.Question{
			Prompt:  "Q",
			Options: []string{"right", "wrong", "also wrong"},
			Correct: 0,
		}
	}
	return quiz.Quiz{ID: "q1", Questions: qs}
}

// answerAll runs the full wizard, answering correctly for the first
// `correct` questions and incorrectly after that.
func answerAll(t *testing.T, e *quiz.Engine, correct int) {
	t.Helper()
	for i := 0; i < 5; i++ {
		pick := 0
		if i >= correct {
			pick = 1
		}
		if !e.SelectOption(pick) {
			t.Fatalf("SelectOption() rejected at question %d", i)
		}
		if _, ok := e.CheckAnswer(); !ok {
			t.Fatalf("CheckAnswer() rejected at question %d", i)
		}
		if !e.Next() {
			t.Fatalf("Next() rejected at question %d", i)
		}
	}
}

func TestEngine_PassAtThreshold(t *testing.T) {
	store := progress.NewMemoryStore()
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions(), LessonID: "l1", Store: store})

	answerAll(t, e, 4) // 4/5 = 80%

	res, ok := e.Result()
	if !ok {
		t.Fatal("Result() not available after last question")
	}
	if res.Score != 4 || res.Total != 5 {
		t.Errorf("Result = %d/%d, want 4/5", res.Score, res.Total)
	}
	if !res.Passed {
		t.Error("80% must pass, the threshold is inclusive")
	}
	if !store.QuizPassed("l1") {
		t.Error("passing must set the quizPassed flag for the lesson")
	}
}

func TestEngine_FailBelowThreshold(t *testing.T) {
	store := progress.NewMemoryStore()
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions(), LessonID: "l1", Store: store})

	answerAll(t, e, 3) // 3/5 = 60%

	res, _ := e.Result()
	if res.Passed {
		t.Error("60% must fail")
	}
	if store.QuizPassed("l1") {
		t.Error("failing must not set the quizPassed flag")
	}

	subs := store.Submissions()
	if len(subs) != 1 {
		t.Fatalf("Submissions() = %d entries, want 1", len(subs))
	}
	if subs[0].Score != 3 || subs[0].TotalQuestions != 5 || subs[0].Passed {
		t.Errorf("submission = %+v, want 3/5 failed", subs[0])
	}
}

func TestEngine_RetakeAfterFail(t *testing.T) {
	store := progress.NewMemoryStore()
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions(), LessonID: "l1", Store: store})

	answerAll(t, e, 3)
	if !e.Retake() {
		t.Fatal("Retake() rejected from submitted state")
	}
	if e.QuestionIndex() != 0 || e.Submitted() {
		t.Error("Retake() must reset to question 0")
	}

	answerAll(t, e, 4)
	res, _ := e.Result()
	if !res.Passed {
		t.Error("retake with 4/5 must pass")
	}
	if !store.QuizPassed("l1") {
		t.Error("quizPassed flag must be set after passing retake")
	}
	if len(store.Submissions()) != 2 {
		t.Error("both attempts must be in the submission log")
	}
}

func TestEngine_FailingRetakeKeepsPass(t *testing.T) {
	store := progress.NewMemoryStore()
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions(), LessonID: "l1", Store: store})

	answerAll(t, e, 5)
	if !store.QuizPassed("l1") {
		t.Fatal("first attempt should pass")
	}

	e.Retake()
	answerAll(t, e, 0)

	if !store.QuizPassed("l1") {
		t.Error("a failing retake must not revoke an earlier pass")
	}
}

func TestEngine_CourseLevelGateUsesQuizID(t *testing.T) {
	store := progress.NewMemoryStore()
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions(), CourseID: "c1", Store: store})

	answerAll(t, e, 5)

	if !store.QuizPassed("q1") {
		t.Error("a course-level pass must be keyed by the quiz id")
	}
	subs := store.Submissions()
	if len(subs) != 1 || subs[0].CourseID != "c1" || subs[0].LessonID != "" {
		t.Errorf("submission = %+v, want course-level record", subs[0])
	}
}

func TestEngine_CheckWithoutSelectionIsNoOp(t *testing.T) {
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions()})

	if _, ok := e.CheckAnswer(); ok {
		t.Error("CheckAnswer() without a selection must be a no-op")
	}
	if e.Checked() {
		t.Error("no-op check must not flip the checked state")
	}
}

func TestEngine_SelectAfterCheckRejected(t *testing.T) {
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions()})

	e.SelectOption(1)
	correct, ok := e.CheckAnswer()
	if !ok {
		t.Fatal("CheckAnswer() should apply with a selection")
	}
	if correct {
		t.Error("option 1 is wrong, CheckAnswer() should report incorrect")
	}

	if e.SelectOption(0) {
		t.Error("SelectOption() after check must be rejected")
	}
	if _, ok := e.CheckAnswer(); ok {
		t.Error("double CheckAnswer() must be a no-op")
	}
}

func TestEngine_NextRequiresCheck(t *testing.T) {
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions()})

	if e.Next() {
		t.Error("Next() before checking must be a no-op")
	}
	e.SelectOption(0)
	if e.Next() {
		t.Error("Next() with an unchecked selection must be a no-op")
	}
}

func TestEngine_SelectOutOfRange(t *testing.T) {
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions()})

	if e.SelectOption(-1) || e.SelectOption(3) {
		t.Error("out-of-range option must be rejected")
	}
}

func TestEngine_RetakeBeforeSubmitRejected(t *testing.T) {
	e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions()})

	if e.Retake() {
		t.Error("Retake() before submission must be a no-op")
	}
}

func TestEngine_ScoreNeverExceedsTotal(t *testing.T) {
	for correct := 0; correct <= 5; correct++ {
		e := quiz.NewEngine(quiz.EngineConfig{Quiz: fiveQuestions()})
		answerAll(t, e, correct)

		res, _ := e.Result()
		if res.Score > res.Total {
			t.Errorf("score %d exceeds total %d", res.Score, res.Total)
		}
		wantPassed := float64(res.Score)/float64(res.Total)*100 >= quiz.PassThreshold
		if res.Passed != wantPassed {
			t.Errorf("Passed = %v for %d/%d, want %v", res.Passed, res.Score, res.Total, wantPassed)
		}
	}
}

func TestEngine_SubmissionTimestamp(t *testing.T) {
	store := progress.NewMemoryStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := quiz.NewEngine(quiz.EngineConfig{
		Quiz:     fiveQuestions(),
		LessonID: "l1",
		Store:    store,
		Now:      func() time.Time { return at },
	})

	answerAll(t, e, 5)

	subs := store.Submissions()
	if len(subs) != 1 || !subs[0].SubmittedAt.Equal(at) {
		t.Errorf("submission time = %v, want %v", subs[0].SubmittedAt, at)
	}
}
