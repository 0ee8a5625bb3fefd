package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

const accountColumns = "id, owner_id, request_id, username, password, created_at"

// ServerAccountRepository implements ports.ServerAccountRepository on database/sql.
type ServerAccountRepository struct {
	db *sqlx.DB
}

type accountRow struct {
	ID        string `db:"id"`
	OwnerID   string `db:"owner_id"`
	RequestID string `db:"request_id"`
	Username  string `db:"username"`
	Password  string `db:"password"`
	CreatedAt int64  `db:"created_at"`
}

func (r accountRow) toDomain() *domain.ServerAccount {
	return &domain.ServerAccount{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		RequestID: r.RequestID,
		Username:  r.Username,
		Password:  r.Password,
		CreatedAt: millisToTime(r.CreatedAt),
	}
}

func (r *ServerAccountRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.ServerAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row accountRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+accountColumns+` FROM server_accounts WHERE request_id = ?`), requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find server account: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ServerAccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM server_accounts WHERE username = ?`), username); err != nil {
		return false, fmt.Errorf("count server accounts: %w", err)
	}
	return n > 0, nil
}

func (r *ServerAccountRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]*domain.ServerAccount, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := sqlx.In(`SELECT `+accountColumns+` FROM server_accounts WHERE owner_id IN (?) ORDER BY username`, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("build accounts query: %w", err)
	}
	var rows []accountRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list server accounts: %w", err)
	}
	out := make([]*domain.ServerAccount, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
