package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	kafka "github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka"
	"github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka/producer"
	"github.com/Carune/Ticket-Service-Practice/internal/models"
	repo "github.com/Carune/Ticket-Service-Practice/internal/repository/mysql"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// ReservationService resolves seat contention with an optimistic
// compare-and-swap: read the seat, decide, then write conditionally on the
// version just read. No lock is held across the read-decide-write window.
// A lost race is terminal for the attempt; retrying is the caller's choice.
type ReservationService interface {
	Reserve(ctx context.Context, memberID uint64, seatID uint64) (*models.Ticket, error)
	ListTickets(ctx context.Context, memberID uint64) ([]models.Ticket, error)
}

type reservationService struct {
	seatRepo   repo.SeatRepository
	ticketRepo repo.TicketRepository
	prod       producer.Producer
	l          logger.Logger
}

func NewReservationService(
	seatRepo repo.SeatRepository,
	ticketRepo repo.TicketRepository,
	prod producer.Producer,
	l logger.Logger,
) ReservationService {
	return &reservationService{
		seatRepo:   seatRepo,
		ticketRepo: ticketRepo,
		prod:       prod,
		l:          l,
	}
}

func (s *reservationService) Reserve(ctx context.Context, memberID uint64, seatID uint64) (*models.Ticket, error) {
	seat, err := s.seatRepo.FindByID(ctx, seatID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrSeatNotFound
		}

		return nil, fmt.Errorf("failed to read seat: %w", err)
	}

	if !seat.IsAvailable() {
		s.l.Warnf(ctx, "service.reservationService.Reserve: %v", ErrSeatUnavailable)
		return nil, ErrSeatUnavailable
	}

	ticket := &models.Ticket{
		ID:       uuid.New().String(),
		SeatID:   seat.ID,
		MemberID: memberID,
		IssuedAt: time.Now(),
	}

	outcome, err := s.seatRepo.ReserveSeat(ctx, seat.ID, seat.Version, ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seat: %w", err)
	}

	switch outcome {
	case repo.ReserveNotFound:
		return nil, ErrSeatNotFound
	case repo.ReserveVersionConflict:
		s.l.Warnf(ctx, "service.reservationService.Reserve: %v", ErrReservationConflict)
		return nil, ErrReservationConflict
	}

	if s.prod != nil {
		if err := s.prod.PublishReservationCreated(ctx, kafka.ReservationCreatedEvent{
			TicketID: ticket.ID,
			SeatID:   ticket.SeatID,
			MemberID: ticket.MemberID,
			IssuedAt: ticket.IssuedAt,
		}); err != nil {
			s.l.Errorf(ctx, "service.reservationService.Reserve: %v", err)
		}
	}

	s.l.Infof(ctx, "Seat %d reserved by member %d, ticket %s", seat.ID, memberID, ticket.ID)

	return ticket, nil
}

func (s *reservationService) ListTickets(ctx context.Context, memberID uint64) ([]models.Ticket, error) {
	tickets, err := s.ticketRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return tickets, nil
}
