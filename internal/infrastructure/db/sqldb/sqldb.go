// Package sqldb is the relational store: SQLite (modernc, pure Go) for single
// node deployments and Postgres through pgx. Queries are written with '?'
// placeholders and rebound per driver by sqlx.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	defaultTimeout = 10 * time.Second

	// sqliteConstraint is SQLITE_CONSTRAINT; extended codes keep it in the low byte.
	sqliteConstraint = 19
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
	`CREATE TABLE IF NOT EXISTS server_requests (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		purpose TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL DEFAULT 0,
		version BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_server_requests_owner ON server_requests(owner_id, status)`,
	`CREATE TABLE IF NOT EXISTS server_accounts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		request_id TEXT NOT NULL UNIQUE REFERENCES server_requests(id) ON DELETE CASCADE,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_server_accounts_owner ON server_accounts(owner_id)`,
}

// Store groups the repositories sharing one connection pool.
type Store struct {
	db       *sqlx.DB
	Users    *UserRepository
	Requests *ServerRequestRepository
	Accounts *ServerAccountRepository
}

// NewStore wraps an open database. The schema is not touched; see Open.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:       db,
		Users:    &UserRepository{db: db},
		Requests: &ServerRequestRepository{db: db},
		Accounts: &ServerAccountRepository{db: db},
	}
}

// Open connects with the given driver ("sqlite" or "pgx"), verifies the
// connection and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer at a time; also keeps in-memory databases on one connection.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Ping is the readiness check of the store.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// sqliteDSN enables foreign keys and a busy timeout on every connection.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// uniqueViolation reports whether err is a unique constraint failure and
// returns the text naming the offending constraint or column.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		msg := liteErr.Error()
		return msg, liteErr.Code()&0xff == sqliteConstraint && strings.Contains(msg, "UNIQUE")
	}
	return "", false
}

// orderClause builds a whitelisted ORDER BY with the id as tie-breaker.
func orderClause(columns map[string]string, sortBy string, desc bool) string {
	col, ok := columns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
}

func timeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
