package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

func availableSeat(id uint64) models.Seat {
	return models.Seat{
		ID:         id,
		ScheduleID: 1,
		SeatNumber: 1,
		Grade:      models.SeatGradeVIP,
		Price:      150000,
		Status:     models.SeatStatusAvailable,
	}
}

func newTestReservationService(store *fakeSeatStore, prod *fakeProducer) ReservationService {
	var p = prod
	if p == nil {
		p = &fakeProducer{}
	}
	return NewReservationService(store, &fakeTicketRepo{store: store}, p, logger.InitializeTestZapLogger())
}

func TestReservationService_Reserve(t *testing.T) {
	store := newFakeSeatStore(availableSeat(1))
	prod := &fakeProducer{}
	svc := newTestReservationService(store, prod)

	ticket, err := svc.Reserve(context.Background(), 42, 1)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if ticket.SeatID != 1 || ticket.MemberID != 42 {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
	if ticket.ID == "" {
		t.Fatalf("expected a generated ticket ID")
	}

	seat, err := store.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if seat.Status != models.SeatStatusReserved || seat.Version != 1 {
		t.Fatalf("expected reserved seat at version 1, got %+v", seat)
	}

	if len(prod.created) != 1 || prod.created[0].TicketID != ticket.ID {
		t.Fatalf("expected one reservation event for %s, got %+v", ticket.ID, prod.created)
	}
}

func TestReservationService_ReserveUnknownSeat(t *testing.T) {
	svc := newTestReservationService(newFakeSeatStore(), nil)

	if _, err := svc.Reserve(context.Background(), 42, 404); err != ErrSeatNotFound {
		t.Fatalf("expected ErrSeatNotFound, got %v", err)
	}
}

func TestReservationService_ReserveReservedSeat(t *testing.T) {
	seat := availableSeat(1)
	seat.Status = models.SeatStatusReserved
	seat.Version = 1
	svc := newTestReservationService(newFakeSeatStore(seat), nil)

	if _, err := svc.Reserve(context.Background(), 42, 1); err != ErrSeatUnavailable {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}
}

func TestReservationService_ConcurrentReserveExactlyOneWinner(t *testing.T) {
	store := newFakeSeatStore(availableSeat(1))
	svc := newTestReservationService(store, nil)

	const contenders = 32

	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), uint64(i+1), 1)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch err {
		case nil:
			winners++
		case ErrReservationConflict, ErrSeatUnavailable:
			// Losers see either outcome depending on whether the winner
			// committed before or after their initial read.
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	store.mu.Lock()
	issued := len(store.tickets)
	store.mu.Unlock()
	if issued != 1 {
		t.Fatalf("expected exactly one ticket, got %d", issued)
	}
}

func TestReservationService_ListTickets(t *testing.T) {
	store := newFakeSeatStore(availableSeat(1), func() models.Seat {
		s := availableSeat(2)
		s.SeatNumber = 2
		return s
	}())
	svc := newTestReservationService(store, nil)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, 42, 1); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := svc.Reserve(ctx, 7, 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	tickets, err := svc.ListTickets(ctx, 42)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].SeatID != 1 {
		t.Fatalf("expected one ticket for seat 1, got %+v", tickets)
	}
}
