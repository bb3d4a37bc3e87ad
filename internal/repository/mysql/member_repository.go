package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// mysqlErrDuplicateEntry is the server error number for a unique key violation.
const mysqlErrDuplicateEntry = 1062

type MemberRepository interface {
	Create(ctx context.Context, m *models.Member) error
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	FindByID(ctx context.Context, memberID uint64) (*models.Member, error)
}

type mysqlMemberRepository struct {
	db *sql.DB
	l  logger.Logger
}

func NewMySQLMemberRepository(db *sql.DB, l logger.Logger) MemberRepository {
	return &mysqlMemberRepository{
		db: db,
		l:  l,
	}
}

func (r *mysqlMemberRepository) Create(ctx context.Context, m *models.Member) error {
	const q = `INSERT INTO members (email, password_hash, name, created_at) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q, m.Email, m.PasswordHash, m.Name, m.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return ErrDuplicateEntry
		}

		r.l.Errorf(ctx, "mysqlMemberRepository.Create: %v", err)
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	return nil
}

func (r *mysqlMemberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	const q = `SELECT id, email, password_hash, name, created_at FROM members WHERE email = ?`

	var m models.Member
	err := r.db.QueryRowContext(ctx, q, email).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}

		r.l.Errorf(ctx, "mysqlMemberRepository.FindByEmail: %v", err)
		return nil, err
	}

	return &m, nil
}

func (r *mysqlMemberRepository) FindByID(ctx context.Context, memberID uint64) (*models.Member, error) {
	const q = `SELECT id, email, password_hash, name, created_at FROM members WHERE id = ?`

	var m models.Member
	err := r.db.QueryRowContext(ctx, q, memberID).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}

		r.l.Errorf(ctx, "mysqlMemberRepository.FindByID: %v", err)
		return nil, err
	}

	return &m, nil
}
