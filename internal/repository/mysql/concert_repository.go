package repository

import (
	"context"
	"database/sql"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

type ConcertRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Concert, error)
	ListSchedules(ctx context.Context, concertID uint64) ([]models.ConcertSchedule, error)
}

type mysqlConcertRepository struct {
	db *sql.DB
	l  logger.Logger
}

func NewMySQLConcertRepository(db *sql.DB, l logger.Logger) ConcertRepository {
	return &mysqlConcertRepository{
		db: db,
		l:  l,
	}
}

func (r *mysqlConcertRepository) List(ctx context.Context, limit, offset int) ([]models.Concert, error) {
	const q = `SELECT id, title, description, venue, running_time FROM concerts
		ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		r.l.Errorf(ctx, "mysqlConcertRepository.List: %v", err)
		return nil, err
	}
	defer rows.Close()

	var concerts []models.Concert
	for rows.Next() {
		var c models.Concert
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Venue, &c.RunningTime); err != nil {
			return nil, err
		}
		concerts = append(concerts, c)
	}

	return concerts, rows.Err()
}

func (r *mysqlConcertRepository) ListSchedules(ctx context.Context, concertID uint64) ([]models.ConcertSchedule, error) {
	const q = `SELECT id, concert_id, concert_date FROM concert_schedules
		WHERE concert_id = ? ORDER BY concert_date`

	rows, err := r.db.QueryContext(ctx, q, concertID)
	if err != nil {
		r.l.Errorf(ctx, "mysqlConcertRepository.ListSchedules: %v", err)
		return nil, err
	}
	defer rows.Close()

	var schedules []models.ConcertSchedule
	for rows.Next() {
		var s models.ConcertSchedule
		if err := rows.Scan(&s.ID, &s.ConcertID, &s.ConcertDate); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}
