package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Carune/Ticket-Service-Practice/config"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// Scheduler runs the periodic batch promotion. It is the only writer of
// active sessions; request handlers never promote anybody.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
	// Tick is one idempotent unit of work: promote up to the configured
	// batch of the oldest waiting users.
	Tick(ctx context.Context) error
	Status() SchedulerStatus
}

const schedulerShutdownTimeout = 30 * time.Second

type scheduler struct {
	qSvc QueueService
	cfg  config.QueueConfig
	l    logger.Logger

	mu        sync.RWMutex
	isRunning bool
	startedAt time.Time
	stopCh    chan struct{}
	ticker    *time.Ticker
	wg        sync.WaitGroup

	lastTick      time.Time
	totalPromoted int64
	errorCount    int64
}

func NewScheduler(qSvc QueueService, cfg config.QueueConfig, l logger.Logger) Scheduler {
	return &scheduler{
		qSvc: qSvc,
		cfg:  cfg,
		l:    l,
	}
}

func (s *scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("admission scheduler is already running")
	}

	s.l.Infof(ctx, "Starting admission scheduler: interval=%s batch_size=%d active_ttl=%s",
		s.cfg.ProcessInterval, s.cfg.BatchSize, s.cfg.ActiveTTL)

	s.isRunning = true
	s.startedAt = time.Now()
	s.stopCh = make(chan struct{})
	s.ticker = time.NewTicker(s.cfg.ProcessInterval)

	s.wg.Add(1)
	go s.loop(ctx, s.stopCh, s.ticker)

	return nil
}

func (s *scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return errors.New("admission scheduler is not running")
	}

	close(s.stopCh)
	s.ticker.Stop()
	s.isRunning = false
	// Release the lock before waiting: an in-flight Tick takes it to record
	// stats and would otherwise block against us until the timeout.
	s.mu.Unlock()

	s.l.Info(context.Background(), "Stopping admission scheduler...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.l.Info(context.Background(), "Admission scheduler stopped gracefully")
	case <-time.After(schedulerShutdownTimeout):
		s.l.Warn(context.Background(), "Admission scheduler shutdown timeout exceeded")
	}

	return nil
}

func (s *scheduler) loop(ctx context.Context, stopCh <-chan struct{}, ticker *time.Ticker) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			s.l.Info(ctx, "Admission scheduler stopped due to context cancellation")
			return
		case <-stopCh:
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.incrementErrorCount()
				s.l.Errorf(ctx, "service.scheduler.loop: %v", err)
			}
		}
	}
}

func (s *scheduler) Tick(ctx context.Context) error {
	tickCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	promoted, err := s.qSvc.PromoteBatch(tickCtx, s.cfg.BatchSize)

	s.mu.Lock()
	s.lastTick = time.Now()
	s.totalPromoted += int64(promoted)
	s.mu.Unlock()

	return err
}

func (s *scheduler) incrementErrorCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount++
}

func (s *scheduler) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SchedulerStatus{
		IsRunning:     s.isRunning,
		StartedAt:     s.startedAt,
		LastTick:      s.lastTick,
		TotalPromoted: s.totalPromoted,
		ErrorCount:    s.errorCount,
	}
}
