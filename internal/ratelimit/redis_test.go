package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedis_ErrorWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedis(client, "ratelimit:test:", 5, time.Minute)

	if _, err := l.Allow(context.Background(), "1.2.3.4"); err == nil {
		t.Fatalf("expected an error from an unreachable redis")
	}
}
