package service

import (
	"context"
	"sync"
	"time"

	kafka "github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka"
	"github.com/Carune/Ticket-Service-Practice/internal/models"
	mysqlRepo "github.com/Carune/Ticket-Service-Practice/internal/repository/mysql"
	redisRepo "github.com/Carune/Ticket-Service-Practice/internal/repository/redis"
)

// fakeGateStore backs both the queue and session repositories with one
// in-memory state, mirroring how the real implementations share a Redis.
type fakeGateStore struct {
	mu        sync.Mutex
	waiting   []string
	active    map[string]bool
	throttled map[string]bool
}

func newFakeGateStore() *fakeGateStore {
	return &fakeGateStore{
		active:    map[string]bool{},
		throttled: map[string]bool{},
	}
}

func (f *fakeGateStore) Enqueue(_ context.Context, userID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active[userID] {
		return redisRepo.ErrAlreadyActive
	}
	for _, u := range f.waiting {
		if u == userID {
			return redisRepo.ErrAlreadyQueued
		}
	}

	f.waiting = append(f.waiting, userID)
	return nil
}

func (f *fakeGateStore) Rank(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, u := range f.waiting {
		if u == userID {
			return int64(i + 1), nil
		}
	}
	return -1, nil
}

func (f *fakeGateStore) Remove(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, u := range f.waiting {
		if u == userID {
			f.waiting = append(f.waiting[:i], f.waiting[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGateStore) PopOldest(_ context.Context, count int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if count > len(f.waiting) {
		count = len(f.waiting)
	}
	popped := append([]string(nil), f.waiting[:count]...)
	f.waiting = f.waiting[count:]
	return popped, nil
}

func (f *fakeGateStore) Length(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return int64(len(f.waiting)), nil
}

func (f *fakeGateStore) MarkRankThrottle(_ context.Context, userID string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.throttled[userID] {
		return false, nil
	}
	f.throttled[userID] = true
	return true, nil
}

func (f *fakeGateStore) ActivateBatch(_ context.Context, userIDs []string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range userIDs {
		f.active[u] = true
	}
	return nil
}

func (f *fakeGateStore) IsActive(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.active[userID], nil
}

// expireThrottle simulates the throttle marker falling out of Redis.
func (f *fakeGateStore) expireThrottle(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.throttled, userID)
}

var (
	_ redisRepo.QueueRepository   = (*fakeGateStore)(nil)
	_ redisRepo.SessionRepository = (*fakeGateStore)(nil)
)

// fakeSeatStore keeps seats and tickets in memory and performs the
// conditional reserve write atomically under its lock, so the exactly
// one winner property can be exercised with real goroutine races.
type fakeSeatStore struct {
	mu      sync.Mutex
	seats   map[uint64]models.Seat
	tickets []models.Ticket
}

func newFakeSeatStore(seats ...models.Seat) *fakeSeatStore {
	s := &fakeSeatStore{seats: map[uint64]models.Seat{}}
	for _, seat := range seats {
		s.seats[seat.ID] = seat
	}
	return s
}

func (f *fakeSeatStore) FindByID(_ context.Context, seatID uint64) (*models.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seat, ok := f.seats[seatID]
	if !ok {
		return nil, mysqlRepo.ErrNotFound
	}
	return &seat, nil
}

func (f *fakeSeatStore) ListAvailableBySchedule(_ context.Context, scheduleID uint64) ([]models.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Seat
	for _, seat := range f.seats {
		if seat.ScheduleID == scheduleID && seat.IsAvailable() {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (f *fakeSeatStore) ReserveSeat(_ context.Context, seatID uint64, version int64, ticket *models.Ticket) (mysqlRepo.ReserveOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seat, ok := f.seats[seatID]
	if !ok {
		return mysqlRepo.ReserveNotFound, nil
	}
	if seat.Version != version {
		return mysqlRepo.ReserveVersionConflict, nil
	}

	seat.Status = models.SeatStatusReserved
	seat.Version++
	f.seats[seatID] = seat
	f.tickets = append(f.tickets, *ticket)
	return mysqlRepo.ReserveOK, nil
}

func (f *fakeSeatStore) FindTicketByID(_ context.Context, ticketID string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, tk := range f.tickets {
		if tk.ID == ticketID {
			return &tk, nil
		}
	}
	return nil, mysqlRepo.ErrNotFound
}

// fakeTicketRepo adapts fakeSeatStore to the ticket repository interface.
type fakeTicketRepo struct {
	store *fakeSeatStore
}

func (f *fakeTicketRepo) FindByID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	return f.store.FindTicketByID(ctx, ticketID)
}

func (f *fakeTicketRepo) ListByMember(_ context.Context, memberID uint64) ([]models.Ticket, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	var out []models.Ticket
	for _, tk := range f.store.tickets {
		if tk.MemberID == memberID {
			out = append(out, tk)
		}
	}
	return out, nil
}

var (
	_ mysqlRepo.SeatRepository   = (*fakeSeatStore)(nil)
	_ mysqlRepo.TicketRepository = (*fakeTicketRepo)(nil)
)

type fakeMemberRepo struct {
	mu      sync.Mutex
	nextID  uint64
	members map[string]models.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[string]models.Member{}}
}

func (f *fakeMemberRepo) Create(_ context.Context, m *models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[m.Email]; ok {
		return mysqlRepo.ErrDuplicateEntry
	}

	f.nextID++
	m.ID = f.nextID
	f.members[m.Email] = *m
	return nil
}

func (f *fakeMemberRepo) FindByEmail(_ context.Context, email string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.members[email]
	if !ok {
		return nil, mysqlRepo.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMemberRepo) FindByID(_ context.Context, memberID uint64) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.members {
		if m.ID == memberID {
			return &m, nil
		}
	}
	return nil, mysqlRepo.ErrNotFound
}

var _ mysqlRepo.MemberRepository = (*fakeMemberRepo)(nil)

// fakeProducer records published events instead of talking to brokers.
type fakeProducer struct {
	mu       sync.Mutex
	joined   []kafka.QueueJoinedEvent
	left     []kafka.QueueLeftEvent
	admitted []kafka.QueueAdmittedEvent
	created  []kafka.ReservationCreatedEvent
}

func (f *fakeProducer) PublishQueueJoined(_ context.Context, e kafka.QueueJoinedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, e)
	return nil
}

func (f *fakeProducer) PublishQueueLeft(_ context.Context, e kafka.QueueLeftEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left = append(f.left, e)
	return nil
}

func (f *fakeProducer) PublishQueueAdmitted(_ context.Context, e kafka.QueueAdmittedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admitted = append(f.admitted, e)
	return nil
}

func (f *fakeProducer) PublishReservationCreated(_ context.Context, e kafka.ReservationCreatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, e)
	return nil
}

func (f *fakeProducer) Close() error { return nil }
