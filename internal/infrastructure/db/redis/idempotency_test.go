package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestIdempotencyStore_KeyIsScoped(t *testing.T) {
	s := NewIdempotencyStore(nil, "residents")
	if got := s.key("abc-123"); got != "idempotency:residents:abc-123" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestIdempotencyStore_WrapsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	s := NewIdempotencyStore(client, "residents")

	if _, err := s.Lookup(context.Background(), "abc"); err == nil || !strings.HasPrefix(err.Error(), "idempotency lookup:") {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
	if err := s.Remember(context.Background(), "abc", "r1", time.Minute); err == nil || !strings.HasPrefix(err.Error(), "idempotency remember:") {
		t.Fatalf("expected wrapped remember error, got %v", err)
	}
}
