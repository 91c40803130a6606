package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 3 * time.Second

// trueSentinel marks one-way boolean flags; absence of the key means false.
const trueSentinel = "true"

// RedisStore is a Redis-backed Store. Keys live under a per-learner
// namespace:
//
//	learn:<learner>:progress:<lessonId>      stringified float 0-100
//	learn:<learner>:completed:<lessonId>     "true"
//	learn:<learner>:quizPassed:<lessonId>    "true"
//	learn:<learner>:courseStarted:<slug>     "true"
//	learn:<learner>:quizSubmissions          sorted set of submission JSON,
//	                                         scored by submission time
//
// The submission log is a sorted set rather than one key per attempt, so
// listing history never scans the keyspace.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store scoped to one learner.
func NewRedisStore(client *redis.Client, learnerID string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if learnerID == "" {
		return nil, fmt.Errorf("learner id is required")
	}
	return &RedisStore{
		client: client,
		prefix: "learn:" + learnerID + ":",
	}, nil
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

func (s *RedisStore) Progress(lessonID string) float64 {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key("progress", lessonID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("progress read failed, defaulting to 0", "lesson_id", lessonID, "error", err)
		}
		return 0
	}

	pct, err := strconv.ParseFloat(val, 64)
	if err != nil {
		slog.Warn("corrupt progress record, defaulting to 0", "lesson_id", lessonID, "value", val)
		return 0
	}
	return clampPercent(pct)
}

func (s *RedisStore) SetProgress(lessonID string, pct float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val := strconv.FormatFloat(clampPercent(pct), 'f', -1, 64)
	if err := s.client.Set(ctx, s.key("progress", lessonID), val, 0).Err(); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

func (s *RedisStore) Completed(lessonID string) bool {
	return s.flag(s.key("completed", lessonID))
}

func (s *RedisStore) MarkCompleted(lessonID string) error {
	return s.setFlag(s.key("completed", lessonID), "mark completed")
}

func (s *RedisStore) QuizPassed(lessonID string) bool {
	return s.flag(s.key("quizPassed", lessonID))
}

func (s *RedisStore) MarkQuizPassed(lessonID string) error {
	return s.setFlag(s.key("quizPassed", lessonID), "mark quiz passed")
}

func (s *RedisStore) CourseStarted(courseSlug string) bool {
	return s.flag(s.key("courseStarted", courseSlug))
}

func (s *RedisStore) MarkCourseStarted(courseSlug string) error {
	return s.setFlag(s.key("courseStarted", courseSlug), "mark course started")
}

func (s *RedisStore) AddSubmission(sub QuizSubmission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	err = s.client.ZAdd(ctx, s.key("quizSubmissions"), redis.Z{
		Score:  float64(sub.SubmittedAt.UnixNano()),
		Member: string(data),
	}).Err()
	if err != nil {
		return fmt.Errorf("add submission: %w", err)
	}
	return nil
}

func (s *RedisStore) Submissions() []QuizSubmission {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	members, err := s.client.ZRevRange(ctx, s.key("quizSubmissions"), 0, -1).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("submission list read failed, defaulting to empty", "error", err)
		}
		return nil
	}

	out := make([]QuizSubmission, 0, len(members))
	for _, m := range members {
		var sub QuizSubmission
		if err := json.Unmarshal([]byte(m), &sub); err != nil {
			slog.Warn("skipping corrupt submission record", "error", err)
			continue
		}
		out = append(out, sub)
	}
	return out
}

func (s *RedisStore) flag(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("flag read failed, defaulting to false", "key", key, "error", err)
		}
		return false
	}
	return val == trueSentinel
}

func (s *RedisStore) setFlag(key, op string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, trueSentinel, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
