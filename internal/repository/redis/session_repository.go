package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// SessionRepository holds the time-bounded admission tokens. A token is a
// plain TTL-bearing key: Redis expiry is the only destruction path, no
// explicit delete is ever issued.
type SessionRepository interface {
	// ActivateBatch grants an active session to every user in one pipelined
	// round trip. Large promotions are split into sub-batches purely for
	// throughput.
	ActivateBatch(ctx context.Context, userIDs []string, ttl time.Duration) error
	IsActive(ctx context.Context, userID string) (bool, error)
}

// pipelineBatchSize bounds a single pipelined write burst against Redis.
const pipelineBatchSize = 1000

type redisSessionRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisSessionRepository(cli *redis.Client, l logger.Logger) SessionRepository {
	return &redisSessionRepository{
		cli: cli,
		l:   l,
	}
}

func (r *redisSessionRepository) ActivateBatch(ctx context.Context, userIDs []string, ttl time.Duration) error {
	for start := 0; start < len(userIDs); start += pipelineBatchSize {
		end := min(start+pipelineBatchSize, len(userIDs))

		pipe := r.cli.Pipeline()
		for _, userID := range userIDs[start:end] {
			pipe.SetEx(ctx, activeKey(userID), "true", ttl)
		}

		if _, err := pipe.Exec(ctx); err != nil {
			r.l.Errorf(ctx, "redisSessionRepository.ActivateBatch: %v", err)
			return err
		}
	}

	if len(userIDs) > 0 {
		r.l.Debugf(ctx, "Activated %d users with TTL %s", len(userIDs), ttl)
	}

	return nil
}

func (r *redisSessionRepository) IsActive(ctx context.Context, userID string) (bool, error) {
	exists, err := r.cli.Exists(ctx, activeKey(userID)).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisSessionRepository.IsActive: %v", err)
		return false, err
	}

	return exists > 0, nil
}
