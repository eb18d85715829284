package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestInvalidate(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "tag:product", "cache:product:p1", "cache:product:p2", "cache:product:p3")
	for _, id := range []string{"p1", "p2", "p3"} {
		if err := adapter.StoreEntity(ctx, "product", id, "payload-"+id); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	// Test
	if err := adapter.Invalidate(ctx, "product", []string{"p1", "p3"}); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	// Verify invalidated keys are gone
	for _, key := range []string{"cache:product:p1", "cache:product:p3"} {
		exists, _ := client.Exists(ctx, key).Result()
		if exists != 0 {
			t.Errorf("expected %s to be deleted", key)
		}
	}

	// Verify untouched entity survives
	val, err := client.Get(ctx, "cache:product:p2").Result()
	if err != nil || val != "payload-p2" {
		t.Errorf("expected p2 untouched, got %q (%v)", val, err)
	}

	// Verify tag membership shrank to the survivor
	members, _ := client.SMembers(ctx, "tag:product").Result()
	if len(members) != 1 || members[0] != "cache:product:p2" {
		t.Errorf("expected tag set [cache:product:p2], got %v", members)
	}
}

func TestInvalidate_EmptyIDs(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	adapter := NewRedisAdapter(client)
	if err := adapter.Invalidate(context.Background(), "product", nil); err != nil {
		t.Errorf("expected no-op, got error: %v", err)
	}
}

func TestInvalidate_UnknownEntity(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, "cache:product:nonexistent")

	// invalidating something never cached is not an error
	if err := adapter.Invalidate(ctx, "product", []string{"nonexistent"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
