package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

func newTestSessionRepo(t *testing.T) (SessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cli.Close() })

	return NewRedisSessionRepository(cli, logger.InitializeTestZapLogger()), mr
}

func TestSessionRepository_ActivateBatch(t *testing.T) {
	repo, _ := newTestSessionRepo(t)
	ctx := context.Background()

	users := []string{"u1", "u2", "u3"}
	if err := repo.ActivateBatch(ctx, users, 5*time.Minute); err != nil {
		t.Fatalf("ActivateBatch: %v", err)
	}

	for _, u := range users {
		active, err := repo.IsActive(ctx, u)
		if err != nil {
			t.Fatalf("IsActive(%s): %v", u, err)
		}
		if !active {
			t.Fatalf("expected %s to be active", u)
		}
	}
}

func TestSessionRepository_ActivateBatchEmpty(t *testing.T) {
	repo, _ := newTestSessionRepo(t)

	if err := repo.ActivateBatch(context.Background(), nil, 5*time.Minute); err != nil {
		t.Fatalf("ActivateBatch(nil): %v", err)
	}
}

func TestSessionRepository_ActivateBatchSpansPipelineChunks(t *testing.T) {
	repo, _ := newTestSessionRepo(t)
	ctx := context.Background()

	users := make([]string, pipelineBatchSize+5)
	for i := range users {
		users[i] = fmt.Sprintf("user-%d", i)
	}

	if err := repo.ActivateBatch(ctx, users, time.Minute); err != nil {
		t.Fatalf("ActivateBatch: %v", err)
	}

	active, err := repo.IsActive(ctx, users[len(users)-1])
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Fatalf("expected last user of the batch to be active")
	}
}

func TestSessionRepository_SessionExpires(t *testing.T) {
	repo, mr := newTestSessionRepo(t)
	ctx := context.Background()

	if err := repo.ActivateBatch(ctx, []string{"u1"}, 5*time.Minute); err != nil {
		t.Fatalf("ActivateBatch: %v", err)
	}

	mr.FastForward(5 * time.Minute)

	active, err := repo.IsActive(ctx, "u1")
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Fatalf("expected session to expire after its TTL")
	}
}
