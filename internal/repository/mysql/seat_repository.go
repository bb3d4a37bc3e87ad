package repository

import (
	"context"
	"database/sql"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// ReserveOutcome is the explicit result of the conditional seat write. The
// caller branches on it instead of catching a lock exception.
type ReserveOutcome int

const (
	ReserveOK ReserveOutcome = iota
	ReserveVersionConflict
	ReserveNotFound
)

type SeatRepository interface {
	FindByID(ctx context.Context, seatID uint64) (*models.Seat, error)
	ListAvailableBySchedule(ctx context.Context, scheduleID uint64) ([]models.Seat, error)
	// ReserveSeat sets the seat RESERVED only if its stored version still
	// equals the given one, incrementing the version in the same write, and
	// persists the ticket in the same transaction. A version mismatch rolls
	// everything back and reports ReserveVersionConflict.
	ReserveSeat(ctx context.Context, seatID uint64, version int64, ticket *models.Ticket) (ReserveOutcome, error)
}

type mysqlSeatRepository struct {
	db *sql.DB
	l  logger.Logger
}

func NewMySQLSeatRepository(db *sql.DB, l logger.Logger) SeatRepository {
	return &mysqlSeatRepository{
		db: db,
		l:  l,
	}
}

func (r *mysqlSeatRepository) FindByID(ctx context.Context, seatID uint64) (*models.Seat, error) {
	const q = `SELECT id, schedule_id, seat_number, grade, price, status, version
		FROM concert_seats WHERE id = ?`

	var seat models.Seat
	err := r.db.QueryRowContext(ctx, q, seatID).Scan(
		&seat.ID, &seat.ScheduleID, &seat.SeatNumber,
		&seat.Grade, &seat.Price, &seat.Status, &seat.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}

		r.l.Errorf(ctx, "mysqlSeatRepository.FindByID: %v", err)
		return nil, err
	}

	return &seat, nil
}

func (r *mysqlSeatRepository) ListAvailableBySchedule(ctx context.Context, scheduleID uint64) ([]models.Seat, error) {
	const q = `SELECT id, schedule_id, seat_number, grade, price, status, version
		FROM concert_seats WHERE schedule_id = ? AND status = 'AVAILABLE'
		ORDER BY seat_number`

	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		r.l.Errorf(ctx, "mysqlSeatRepository.ListAvailableBySchedule: %v", err)
		return nil, err
	}
	defer rows.Close()

	var seats []models.Seat
	for rows.Next() {
		var seat models.Seat
		if err := rows.Scan(
			&seat.ID, &seat.ScheduleID, &seat.SeatNumber,
			&seat.Grade, &seat.Price, &seat.Status, &seat.Version,
		); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (r *mysqlSeatRepository) ReserveSeat(ctx context.Context, seatID uint64, version int64, ticket *models.Ticket) (ReserveOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "mysqlSeatRepository.ReserveSeat: %v", err)
		return 0, err
	}
	defer tx.Rollback()

	const upd = `UPDATE concert_seats SET status = 'RESERVED', version = version + 1
		WHERE id = ? AND version = ?`

	res, err := tx.ExecContext(ctx, upd, seatID, version)
	if err != nil {
		r.l.Errorf(ctx, "mysqlSeatRepository.ReserveSeat: %v", err)
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if affected == 0 {
		// Lost the race or the seat does not exist. Distinguish the two so
		// the caller can report a stable outcome.
		var id uint64
		err := tx.QueryRowContext(ctx, `SELECT id FROM concert_seats WHERE id = ?`, seatID).Scan(&id)
		if err == sql.ErrNoRows {
			return ReserveNotFound, nil
		}
		if err != nil {
			return 0, err
		}

		return ReserveVersionConflict, nil
	}

	const ins = `INSERT INTO tickets (id, seat_id, member_id, issued_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, ticket.ID, ticket.SeatID, ticket.MemberID, ticket.IssuedAt); err != nil {
		r.l.Errorf(ctx, "mysqlSeatRepository.ReserveSeat: %v", err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "mysqlSeatRepository.ReserveSeat: %v", err)
		return 0, err
	}

	return ReserveOK, nil
}
