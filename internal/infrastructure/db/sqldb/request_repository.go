package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

const requestColumns = "id, owner_id, purpose, status, reason, created_at, updated_at, version"

var requestSortColumns = map[string]string{
	"id":        "created_at",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"status":    "status",
}

// ServerRequestRepository implements ports.ServerRequestRepository on database/sql.
type ServerRequestRepository struct {
	db *sqlx.DB
}

type requestRow struct {
	ID        string `db:"id"`
	OwnerID   string `db:"owner_id"`
	Purpose   string `db:"purpose"`
	Status    string `db:"status"`
	Reason    string `db:"reason"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
	Version   int64  `db:"version"`
}

func (r requestRow) toDomain() *domain.ServerRequest {
	return &domain.ServerRequest{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Purpose:   r.Purpose,
		Status:    domain.RequestStatus(r.Status),
		Reason:    r.Reason,
		CreatedAt: millisToTime(r.CreatedAt),
		UpdatedAt: millisToTime(r.UpdatedAt),
		Version:   r.Version,
	}
}

func (r *ServerRequestRepository) Create(ctx context.Context, req *domain.ServerRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO server_requests (`+requestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		id, req.OwnerID, req.Purpose, string(req.Status), req.Reason,
		timeToMillis(req.CreatedAt), timeToMillis(req.UpdatedAt), req.Version,
	)
	if err != nil {
		return fmt.Errorf("insert server request: %w", err)
	}
	req.ID = id
	return nil
}

func (r *ServerRequestRepository) FindByID(ctx context.Context, id string) (*domain.ServerRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row requestRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+requestColumns+` FROM server_requests WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find server request: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ServerRequestRepository) List(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.ServerRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		conds []string
		args  []any
	)
	if filter.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM server_requests`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count server requests: %w", err)
	}

	query := `SELECT ` + requestColumns + ` FROM server_requests` + where +
		orderClause(requestSortColumns, filter.SortBy, filter.Descending) + ` LIMIT ? OFFSET ?`
	args = append(args, filter.Size, filter.Page*filter.Size)

	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list server requests: %w", err)
	}
	out := make([]*domain.ServerRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

// Save updates the request under a version condition and inserts the account,
// if any, in the same transaction.
func (r *ServerRequestRepository) Save(ctx context.Context, req *domain.ServerRequest, expectedVersion int64, account *domain.ServerAccount) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE server_requests SET purpose = ?, status = ?, reason = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`),
		req.Purpose, string(req.Status), req.Reason, timeToMillis(req.UpdatedAt), req.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update server request: %w", err)
	}
	if err := missOrConflict(ctx, tx, res, req.ID); err != nil {
		return err
	}

	if account != nil {
		id := uuid.NewString()
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO server_accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
			id, account.OwnerID, account.RequestID, account.Username, account.Password, timeToMillis(account.CreatedAt),
		)
		if err != nil {
			if which, ok := uniqueViolation(err); ok {
				if strings.Contains(which, "request_id") {
					return domain.ErrAccountExists
				}
				return domain.ErrUsernameTaken
			}
			return fmt.Errorf("insert server account: %w", err)
		}
		account.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	req.Version = expectedVersion + 1
	return nil
}

// Delete removes the request and its account under the same version condition.
func (r *ServerRequestRepository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM server_accounts WHERE request_id = ?`), id); err != nil {
		return fmt.Errorf("delete server account: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM server_requests WHERE id = ? AND version = ?`), id, expectedVersion)
	if err != nil {
		return fmt.Errorf("delete server request: %w", err)
	}
	if err := missOrConflict(ctx, tx, res, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// missOrConflict turns a conditional write that touched no row into either
// ErrRequestNotFound or ErrConcurrentUpdate.
func missOrConflict(ctx context.Context, tx *sqlx.Tx, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT COUNT(*) FROM server_requests WHERE id = ?`), id); err != nil {
		return fmt.Errorf("check server request: %w", err)
	}
	if count == 0 {
		return domain.ErrRequestNotFound
	}
	return domain.ErrConcurrentUpdate
}
