package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestMigrate_AppliesEveryStatement(t *testing.T) {
	s, mock := newMockStore(t)
	for range schema {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := migrate(context.Background(), s.db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrate_StopsOnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("disk full"))

	if err := migrate(context.Background(), s.db); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSave_VersionConflict(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE server_requests SET").
		WithArgs("lab", "APPROVED", "", sqlmock.AnyArg(), "req-1", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM server_requests WHERE id = \\?").
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	req := &domain.ServerRequest{ID: "req-1", Purpose: "lab", Status: domain.StatusApproved}
	err := s.Requests.Save(context.Background(), req, 3, nil)
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}
	if req.Version != 0 {
		t.Fatalf("version must not change on failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSave_CommitsAccountInSameTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE server_requests SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO server_accounts").
		WithArgs(sqlmock.AnyArg(), "user-1", "req-1", "john", "pw", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := &domain.ServerRequest{ID: "req-1", Purpose: "lab", Status: domain.StatusApproved}
	acc := &domain.ServerAccount{OwnerID: "user-1", RequestID: "req-1", Username: "john", Password: "pw"}
	if err := s.Requests.Save(context.Background(), req, 1, acc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if req.Version != 2 || acc.ID == "" {
		t.Fatalf("expected version 2 and account id, got %d %q", req.Version, acc.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserDelete_NotFoundRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM server_accounts WHERE owner_id").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM server_requests WHERE owner_id").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users WHERE id").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := s.Users.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByEmail_WrapsDriverErrors(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT .* FROM users WHERE email").WillReturnError(errors.New("connection reset"))

	_, err := s.Users.FindByEmail(context.Background(), "john@stis.ac.id")
	if err == nil || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("file:x.db"); got != "file:x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := sqliteDSN("file:x.db?mode=rwc"); got != "file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
