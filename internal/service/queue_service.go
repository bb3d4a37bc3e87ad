package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Carune/Ticket-Service-Practice/config"
	kafka "github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka"
	"github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka/producer"
	repo "github.com/Carune/Ticket-Service-Practice/internal/repository/redis"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// QueueService is the admission gate: it owns the waiting queue, the active
// sessions and the rank-poll throttle.
type QueueService interface {
	AddToQueue(ctx context.Context, userID string) (*JoinQueueOutput, error)
	// GetRank applies the throttle before anything else, so even an admitted
	// user polling too fast gets ErrRateLimited. Returns RankAdmitted for an
	// active user, the 1-based waiting position, or RankNotFound.
	GetRank(ctx context.Context, userID string) (int64, error)
	CancelQueue(ctx context.Context, userID string) error
	IsAllowed(ctx context.Context, userID string) (bool, error)
	// PromoteBatch pops the oldest batchSize waiting users and grants each an
	// active session. Returns how many users were promoted.
	PromoteBatch(ctx context.Context, batchSize int) (int, error)
}

type queueService struct {
	qRepo  repo.QueueRepository
	ssRepo repo.SessionRepository
	prod   producer.Producer
	cfg    config.QueueConfig
	l      logger.Logger
}

func NewQueueService(
	qRepo repo.QueueRepository,
	ssRepo repo.SessionRepository,
	prod producer.Producer,
	cfg config.QueueConfig,
	l logger.Logger,
) QueueService {
	return &queueService{
		qRepo:  qRepo,
		ssRepo: ssRepo,
		prod:   prod,
		cfg:    cfg,
		l:      l,
	}
}

func (s *queueService) AddToQueue(ctx context.Context, userID string) (*JoinQueueOutput, error) {
	now := time.Now()

	if err := s.qRepo.Enqueue(ctx, userID, now); err != nil {
		switch err {
		case repo.ErrAlreadyActive:
			s.l.Warnf(ctx, "service.queueService.AddToQueue: %v", ErrAlreadyActive)
			return nil, ErrAlreadyActive
		case repo.ErrAlreadyQueued:
			s.l.Warnf(ctx, "service.queueService.AddToQueue: %v", ErrAlreadyQueued)
			return nil, ErrAlreadyQueued
		}

		return nil, fmt.Errorf("failed to enqueue user: %w", err)
	}

	pos, err := s.qRepo.Rank(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue position: %w", err)
	}

	qLen, err := s.qRepo.Length(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue length: %w", err)
	}

	if s.prod != nil {
		if err := s.prod.PublishQueueJoined(ctx, kafka.QueueJoinedEvent{
			UserID:   userID,
			Position: pos,
			JoinedAt: now,
		}); err != nil {
			s.l.Errorf(ctx, "service.queueService.AddToQueue: %v", err)
		}
	}

	s.l.Infof(ctx, "User %s enqueued at position %d", userID, pos)

	return &JoinQueueOutput{
		Position:    pos,
		QueueLength: qLen,
		JoinedAt:    now,
	}, nil
}

func (s *queueService) GetRank(ctx context.Context, userID string) (int64, error) {
	// Throttle first, branch later: the marker is set before the admitted
	// check, so an active user polling inside the window is throttled too.
	ok, err := s.qRepo.MarkRankThrottle(ctx, userID, s.cfg.RankThrottle)
	if err != nil {
		return 0, fmt.Errorf("failed to mark rank throttle: %w", err)
	}
	if !ok {
		return 0, ErrRateLimited
	}

	active, err := s.ssRepo.IsActive(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to check active session: %w", err)
	}
	if active {
		return RankAdmitted, nil
	}

	rank, err := s.qRepo.Rank(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get queue position: %w", err)
	}

	return rank, nil
}

func (s *queueService) CancelQueue(ctx context.Context, userID string) error {
	if err := s.qRepo.Remove(ctx, userID); err != nil {
		return fmt.Errorf("failed to leave queue: %w", err)
	}

	if s.prod != nil {
		if err := s.prod.PublishQueueLeft(ctx, kafka.QueueLeftEvent{
			UserID: userID,
			Reason: "user_left",
			LeftAt: time.Now(),
		}); err != nil {
			s.l.Errorf(ctx, "service.queueService.CancelQueue: %v", err)
		}
	}

	s.l.Infof(ctx, "User %s left the waiting queue", userID)

	return nil
}

func (s *queueService) IsAllowed(ctx context.Context, userID string) (bool, error) {
	return s.ssRepo.IsActive(ctx, userID)
}

func (s *queueService) PromoteBatch(ctx context.Context, batchSize int) (int, error) {
	userIDs, err := s.qRepo.PopOldest(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(userIDs) == 0 {
		return 0, nil
	}

	if err := s.ssRepo.ActivateBatch(ctx, userIDs, s.cfg.ActiveTTL); err != nil {
		return 0, fmt.Errorf("failed to activate users: %w", err)
	}

	now := time.Now()
	if s.prod != nil {
		if err := s.prod.PublishQueueAdmitted(ctx, kafka.QueueAdmittedEvent{
			UserIDs:    userIDs,
			ActiveTTL:  s.cfg.ActiveTTL.String(),
			AdmittedAt: now,
		}); err != nil {
			s.l.Errorf(ctx, "service.queueService.PromoteBatch: %v", err)
		}
	}

	s.l.Infof(ctx, "Promoted %d users to active", len(userIDs))

	return len(userIDs), nil
}
