package service

import (
	"context"
	"fmt"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	repo "github.com/Carune/Ticket-Service-Practice/internal/repository/mysql"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// ConcertService is the read-only catalog: concerts, their schedules and the
// seats still open on a schedule. Catalog writes happen out of band.
type ConcertService interface {
	ListConcerts(ctx context.Context, limit, offset int) ([]models.Concert, error)
	ListSchedules(ctx context.Context, concertID uint64) ([]models.ConcertSchedule, error)
	ListAvailableSeats(ctx context.Context, scheduleID uint64) ([]models.Seat, error)
}

const defaultPageSize = 10

type concertService struct {
	concertRepo repo.ConcertRepository
	seatRepo    repo.SeatRepository
	l           logger.Logger
}

func NewConcertService(concertRepo repo.ConcertRepository, seatRepo repo.SeatRepository, l logger.Logger) ConcertService {
	return &concertService{
		concertRepo: concertRepo,
		seatRepo:    seatRepo,
		l:           l,
	}
}

func (s *concertService) ListConcerts(ctx context.Context, limit, offset int) ([]models.Concert, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	concerts, err := s.concertRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list concerts: %w", err)
	}

	return concerts, nil
}

func (s *concertService) ListSchedules(ctx context.Context, concertID uint64) ([]models.ConcertSchedule, error) {
	schedules, err := s.concertRepo.ListSchedules(ctx, concertID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return schedules, nil
}

func (s *concertService) ListAvailableSeats(ctx context.Context, scheduleID uint64) ([]models.Seat, error) {
	seats, err := s.seatRepo.ListAvailableBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available seats: %w", err)
	}

	return seats, nil
}
