package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store scoped to one learner.
// Completion and pass flags are write-once in SQL: updates only ever OR
// them towards true.
type PostgresStore struct {
	pool      *pgxpool.Pool
	learnerID string
}

// NewPostgresStore creates a PostgreSQL-backed store and ensures its
// schema exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, learnerID string) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if learnerID == "" {
		return nil, fmt.Errorf("learner id is required")
	}

	s := &PostgresStore{pool: pool, learnerID: learnerID}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lesson_progress (
			learner_id     TEXT NOT NULL,
			lesson_id      TEXT NOT NULL,
			watch_progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			completed      BOOLEAN NOT NULL DEFAULT FALSE,
			quiz_passed    BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (learner_id, lesson_id)
		)`,
		`CREATE TABLE IF NOT EXISTS course_starts (
			learner_id  TEXT NOT NULL,
			course_slug TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (learner_id, course_slug)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_submissions (
			id              BIGSERIAL PRIMARY KEY,
			learner_id      TEXT NOT NULL,
			quiz_id         TEXT NOT NULL,
			lesson_id       TEXT NOT NULL DEFAULT '',
			course_id       TEXT NOT NULL DEFAULT '',
			score           INT NOT NULL,
			total_questions INT NOT NULL,
			passed          BOOLEAN NOT NULL,
			submitted_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS quiz_submissions_learner_idx
			ON quiz_submissions (learner_id, submitted_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Progress(lessonID string) float64 {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var pct float64
	err := s.pool.QueryRow(ctx,
		`SELECT watch_progress FROM lesson_progress
		 WHERE learner_id = $1 AND lesson_id = $2`,
		s.learnerID, lessonID,
	).Scan(&pct)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("progress read failed, defaulting to 0", "lesson_id", lessonID, "error", err)
		}
		return 0
	}
	return clampPercent(pct)
}

func (s *PostgresStore) SetProgress(lessonID string, pct float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO lesson_progress (learner_id, lesson_id, watch_progress, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (learner_id, lesson_id)
		 DO UPDATE SET watch_progress = EXCLUDED.watch_progress, updated_at = NOW()`,
		s.learnerID, lessonID, clampPercent(pct),
	)
	if err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) Completed(lessonID string) bool {
	return s.flag("completed", lessonID)
}

func (s *PostgresStore) MarkCompleted(lessonID string) error {
	return s.setFlag("completed", lessonID, "mark completed")
}

func (s *PostgresStore) QuizPassed(lessonID string) bool {
	return s.flag("quiz_passed", lessonID)
}

func (s *PostgresStore) MarkQuizPassed(lessonID string) error {
	return s.setFlag("quiz_passed", lessonID, "mark quiz passed")
}

func (s *PostgresStore) CourseStarted(courseSlug string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var started bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM course_starts WHERE learner_id = $1 AND course_slug = $2
		 )`,
		s.learnerID, courseSlug,
	).Scan(&started)
	if err != nil {
		slog.Warn("course start read failed, defaulting to false", "course_slug", courseSlug, "error", err)
		return false
	}
	return started
}

func (s *PostgresStore) MarkCourseStarted(courseSlug string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO course_starts (learner_id, course_slug)
		 VALUES ($1, $2)
		 ON CONFLICT (learner_id, course_slug) DO NOTHING`,
		s.learnerID, courseSlug,
	)
	if err != nil {
		return fmt.Errorf("mark course started: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddSubmission(sub QuizSubmission) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO quiz_submissions
			(learner_id, quiz_id, lesson_id, course_id, score, total_questions, passed, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.learnerID, sub.QuizID, sub.LessonID, sub.CourseID,
		sub.Score, sub.TotalQuestions, sub.Passed, submittedAt,
	)
	if err != nil {
		return fmt.Errorf("add submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) Submissions() []QuizSubmission {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT quiz_id, lesson_id, course_id, score, total_questions, passed, submitted_at
		 FROM quiz_submissions
		 WHERE learner_id = $1
		 ORDER BY submitted_at DESC, id DESC`,
		s.learnerID,
	)
	if err != nil {
		slog.Warn("submission list read failed, defaulting to empty", "error", err)
		return nil
	}
	defer rows.Close()

	var out []QuizSubmission
	for rows.Next() {
		var sub QuizSubmission
		if err := rows.Scan(
			&sub.QuizID,
			&sub.LessonID,
			&sub.CourseID,
			&sub.Score,
			&sub.TotalQuestions,
			&sub.Passed,
			&sub.SubmittedAt,
		); err != nil {
			slog.Warn("skipping corrupt submission row", "error", err)
			continue
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("submission list iteration failed", "error", err)
	}
	return out
}

func (s *PostgresStore) flag(column, lessonID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	// column is one of the fixed flag column names, never user input.
	var set bool
	err := s.pool.QueryRow(ctx,
		`SELECT `+column+` FROM lesson_progress
		 WHERE learner_id = $1 AND lesson_id = $2`,
		s.learnerID, lessonID,
	).Scan(&set)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("flag read failed, defaulting to false", "lesson_id", lessonID, "error", err)
		}
		return false
	}
	return set
}

func (s *PostgresStore) setFlag(column, lessonID, op string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO lesson_progress (learner_id, lesson_id, `+column+`, updated_at)
		 VALUES ($1, $2, TRUE, NOW())
		 ON CONFLICT (learner_id, lesson_id)
		 DO UPDATE SET `+column+` = TRUE, updated_at = NOW()`,
		s.learnerID, lessonID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
