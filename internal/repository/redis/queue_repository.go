package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

var (
	ErrAlreadyQueued = errors.New("user already waiting in queue")
	ErrAlreadyActive = errors.New("user already holds an active session")
)

type QueueRepository interface {
	// Enqueue adds the user to the waiting queue with the given arrival time
	// as its score. Fails with ErrAlreadyActive or ErrAlreadyQueued.
	Enqueue(ctx context.Context, userID string, at time.Time) error
	// Rank returns the 1-based waiting position, or -1 if the user is not in
	// the waiting queue.
	Rank(ctx context.Context, userID string) (int64, error)
	// Remove deletes the user from the waiting queue. Idempotent.
	Remove(ctx context.Context, userID string) error
	// PopOldest atomically removes and returns up to count user IDs in
	// ascending arrival order.
	PopOldest(ctx context.Context, count int) ([]string, error)
	Length(ctx context.Context) (int64, error)
	// MarkRankThrottle sets the short-lived rank-poll marker. Returns false
	// when a marker is already present, meaning the caller must be throttled.
	MarkRankThrottle(ctx context.Context, userID string, window time.Duration) (bool, error)
}

const (
	waitingQueueKey    = "waiting_queue"
	activeKeyPrefix    = "active:user:"
	rankThrottlePrefix = "throttle:rank:"
)

// enqueueScript registers a user only when it neither waits nor holds a live
// active session. The whole check-then-add runs as one atomic unit on the
// server, so concurrent enqueues cannot produce duplicates.
// KEYS[1] = waiting queue, KEYS[2] = active key, ARGV[1] = user, ARGV[2] = score.
var enqueueScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[2]) == 1 then
		return -2
	end
	if redis.call('ZSCORE', KEYS[1], ARGV[1]) then
		return -1
	end
	redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
	return redis.call('ZRANK', KEYS[1], ARGV[1]) + 1
`)

type redisQueueRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisQueueRepository(cli *redis.Client, l logger.Logger) QueueRepository {
	return &redisQueueRepository{
		cli: cli,
		l:   l,
	}
}

func (r *redisQueueRepository) Enqueue(ctx context.Context, userID string, at time.Time) error {
	res, err := enqueueScript.Run(ctx, r.cli,
		[]string{waitingQueueKey, activeKey(userID)},
		userID, at.UnixMilli(),
	).Int64()
	if err != nil {
		r.l.Errorf(ctx, "redisQueueRepository.Enqueue: %v", err)
		return err
	}

	switch res {
	case -2:
		return ErrAlreadyActive
	case -1:
		return ErrAlreadyQueued
	}

	r.l.Debugf(ctx, "Enqueued user %s at position %d", userID, res)

	return nil
}

func (r *redisQueueRepository) Rank(ctx context.Context, userID string) (int64, error) {
	rank, err := r.cli.ZRank(ctx, waitingQueueKey, userID).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, nil // Not in queue
		}

		r.l.Errorf(ctx, "redisQueueRepository.Rank: %v", err)
		return 0, err
	}

	return rank + 1, nil // Convert to 1-indexed position
}

func (r *redisQueueRepository) Remove(ctx context.Context, userID string) error {
	removed, err := r.cli.ZRem(ctx, waitingQueueKey, userID).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisQueueRepository.Remove: %v", err)
		return err
	}

	if removed > 0 {
		r.l.Debugf(ctx, "Removed user %s from waiting queue", userID)
	}

	return nil
}

func (r *redisQueueRepository) PopOldest(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	members, err := r.cli.ZPopMin(ctx, waitingQueueKey, int64(count)).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisQueueRepository.PopOldest: %v", err)
		return nil, err
	}

	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		if id, ok := m.Member.(string); ok {
			userIDs = append(userIDs, id)
		}
	}

	return userIDs, nil
}

func (r *redisQueueRepository) Length(ctx context.Context) (int64, error) {
	count, err := r.cli.ZCard(ctx, waitingQueueKey).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisQueueRepository.Length: %v", err)
		return 0, err
	}

	return count, nil
}

func (r *redisQueueRepository) MarkRankThrottle(ctx context.Context, userID string, window time.Duration) (bool, error) {
	ok, err := r.cli.SetNX(ctx, rankThrottleKey(userID), "1", window).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisQueueRepository.MarkRankThrottle: %v", err)
		return false, err
	}

	return ok, nil
}

func activeKey(userID string) string {
	return activeKeyPrefix + userID
}

func rankThrottleKey(userID string) string {
	return rankThrottlePrefix + userID
}
