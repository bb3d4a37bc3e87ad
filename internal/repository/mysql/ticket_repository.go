package repository

import (
	"context"
	"database/sql"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// TicketRepository is the read side of tickets. The write happens inside
// SeatRepository.ReserveSeat, in the same transaction as the seat update.
type TicketRepository interface {
	FindByID(ctx context.Context, ticketID string) (*models.Ticket, error)
	ListByMember(ctx context.Context, memberID uint64) ([]models.Ticket, error)
}

type mysqlTicketRepository struct {
	db *sql.DB
	l  logger.Logger
}

func NewMySQLTicketRepository(db *sql.DB, l logger.Logger) TicketRepository {
	return &mysqlTicketRepository{
		db: db,
		l:  l,
	}
}

func (r *mysqlTicketRepository) FindByID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	const q = `SELECT id, seat_id, member_id, issued_at FROM tickets WHERE id = ?`

	var t models.Ticket
	err := r.db.QueryRowContext(ctx, q, ticketID).Scan(&t.ID, &t.SeatID, &t.MemberID, &t.IssuedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}

		r.l.Errorf(ctx, "mysqlTicketRepository.FindByID: %v", err)
		return nil, err
	}

	return &t, nil
}

func (r *mysqlTicketRepository) ListByMember(ctx context.Context, memberID uint64) ([]models.Ticket, error) {
	const q = `SELECT id, seat_id, member_id, issued_at FROM tickets
		WHERE member_id = ? ORDER BY issued_at DESC`

	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		r.l.Errorf(ctx, "mysqlTicketRepository.ListByMember: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.SeatID, &t.MemberID, &t.IssuedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}
