package progress_test

import (
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pai-learn/internal/progress"
)

func TestNewRedisStore_Validation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	if _, err := progress.NewRedisStore(nil, "learner-1"); err == nil {
		t.Error("NewRedisStore() should reject a nil client")
	}
	if _, err := progress.NewRedisStore(client, ""); err == nil {
		t.Error("NewRedisStore() should reject an empty learner id")
	}
	if _, err := progress.NewRedisStore(client, "learner-1"); err != nil {
		t.Errorf("NewRedisStore() error = %v", err)
	}
}
