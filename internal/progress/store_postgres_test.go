package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/pai-learn/internal/progress"
)

// newPostgresStore spins up a throwaway PostgreSQL container and returns a
// store scoped to the given learner.
func newPostgresStore(t *testing.T, learnerID string) *progress.PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	ctr, err := pgcontainer.Run(ctx, "postgres:16-alpine",
		pgcontainer.WithDatabase("learn"),
		pgcontainer.WithUsername("learn"),
		pgcontainer.WithPassword("learn"),
		pgcontainer.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("creating pool: %v", err)
	}
	t.Cleanup(pool.Close)

	store, err := progress.NewPostgresStore(ctx, pool, learnerID)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	return store
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store := newPostgresStore(t, "learner-1")

	if store.Completed("l1") {
		t.Error("Completed() should default to false")
	}

	if err := store.SetProgress("l1", 37.5); err != nil {
		t.Fatalf("SetProgress() error = %v", err)
	}
	if got := store.Progress("l1"); got != 37.5 {
		t.Errorf("Progress() = %v, want 37.5", got)
	}

	if err := store.MarkCompleted("l1"); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	if err := store.MarkCompleted("l1"); err != nil {
		t.Fatalf("second MarkCompleted() error = %v", err)
	}
	if !store.Completed("l1") {
		t.Error("Completed() = false after MarkCompleted")
	}

	// Completion upsert must not clobber the progress column.
	if got := store.Progress("l1"); got != 37.5 {
		t.Errorf("Progress() = %v after MarkCompleted, want 37.5", got)
	}

	if err := store.MarkQuizPassed("l1"); err != nil {
		t.Fatalf("MarkQuizPassed() error = %v", err)
	}
	if !store.QuizPassed("l1") {
		t.Error("QuizPassed() = false after MarkQuizPassed")
	}

	if err := store.MarkCourseStarted("go-basics"); err != nil {
		t.Fatalf("MarkCourseStarted() error = %v", err)
	}
	if !store.CourseStarted("go-basics") {
		t.Error("CourseStarted() = false after MarkCourseStarted")
	}
}

func TestPostgresStore_Submissions(t *testing.T) {
	store := newPostgresStore(t, "learner-1")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.AddSubmission(progress.QuizSubmission{
			QuizID:         "q1",
			LessonID:       "l1",
			CourseID:       "c1",
			Score:          i + 2,
			TotalQuestions: 5,
			Passed:         i+2 >= 4,
			SubmittedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("AddSubmission() error = %v", err)
		}
	}

	subs := store.Submissions()
	if len(subs) != 3 {
		t.Fatalf("Submissions() = %d entries, want 3", len(subs))
	}
	if subs[0].Score != 4 {
		t.Errorf("newest submission Score = %d, want 4", subs[0].Score)
	}
	if !subs[0].Passed {
		t.Error("newest submission should be passed")
	}
	for i := 1; i < len(subs); i++ {
		if subs[i].SubmittedAt.After(subs[i-1].SubmittedAt) {
			t.Error("Submissions() must be ordered newest first")
		}
	}
}
