package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestKeyFormat(t *testing.T) {
	if got := Key("products", 3, 42); got != "idem:products:3:42" {
		t.Fatalf("unexpected key %q", got)
	}
	s := NewStore(nil, 0)
	if s.Key("products", 0, 1) != Key("products", 0, 1) {
		t.Fatalf("method and function keys differ")
	}
}

func TestSeenAndForget(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { _ = redisC.Terminate(context.Background()) })

	addr, err := redisC.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewStore(rdb, time.Minute)
	key := s.Key("products", 0, 7)

	seen, err := s.Seen(ctx, key)
	if err != nil || seen {
		t.Fatalf("first delivery: seen=%v err=%v", seen, err)
	}
	seen, err = s.Seen(ctx, key)
	if err != nil || !seen {
		t.Fatalf("redelivery: seen=%v err=%v", seen, err)
	}

	if err := s.Forget(ctx, key); err != nil {
		t.Fatalf("forget: %v", err)
	}
	seen, err = s.Seen(ctx, key)
	if err != nil || seen {
		t.Fatalf("after forget: seen=%v err=%v", seen, err)
	}
}
