package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/Carune/Ticket-Service-Practice/internal/models"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

func newTestMemberRepo(t *testing.T) (MemberRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewMySQLMemberRepository(db, logger.InitializeTestZapLogger()), mock
}

func TestMemberRepository_CreateAssignsID(t *testing.T) {
	repo, mock := newTestMemberRepo(t)

	m := &models.Member{
		Email:        "a@example.com",
		PasswordHash: "hash",
		Name:         "Tester",
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO members").
		WithArgs(m.Email, m.PasswordHash, m.Name, m.CreatedAt).
		WillReturnResult(sqlmock.NewResult(42, 1))

	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID != 42 {
		t.Fatalf("expected assigned ID 42, got %d", m.ID)
	}
}

func TestMemberRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newTestMemberRepo(t)

	mock.ExpectExec("INSERT INTO members").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &models.Member{Email: "a@example.com"})
	if err != ErrDuplicateEntry {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestMemberRepository_FindByEmail(t *testing.T) {
	repo, mock := newTestMemberRepo(t)

	now := time.Now()
	mock.ExpectQuery("SELECT id, email, password_hash, name, created_at FROM members").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at"}).
			AddRow(1, "a@example.com", "hash", "Tester", now))

	m, err := repo.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if m.ID != 1 || m.PasswordHash != "hash" {
		t.Fatalf("unexpected member: %+v", m)
	}
}

func TestMemberRepository_FindByIDNotFound(t *testing.T) {
	repo, mock := newTestMemberRepo(t)

	mock.ExpectQuery("SELECT id, email, password_hash, name, created_at FROM members").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at"}))

	if _, err := repo.FindByID(context.Background(), 99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
