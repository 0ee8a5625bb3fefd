package ports

import (
	"context"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

// ListRequestsFilter carries the query parameters for listing server requests.
// OwnerID is always set by the service layer for student listings.
type ListRequestsFilter struct {
	OwnerID string               // empty = every owner (administrator)
	Status  domain.RequestStatus // optional
	PageRequest
}

// ServerRequestRepository defines persistence operations for server requests.
// Every write is conditional on the stored version so that concurrent
// transitions on the same request cannot both succeed.
type ServerRequestRepository interface {
	// Create stores a new request and sets its ID.
	Create(ctx context.Context, req *domain.ServerRequest) error
	FindByID(ctx context.Context, id string) (*domain.ServerRequest, error)
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.ServerRequest, int64, error)

	// Save persists purpose, status, reason and updated_at of req if the stored
	// version still equals expectedVersion, then sets req.Version to the new
	// version. A non-nil account is inserted in the same atomic unit.
	//
	// Returns domain.ErrConcurrentUpdate when the version moved,
	// domain.ErrRequestNotFound when the request is gone and
	// domain.ErrUsernameTaken when the account username lost a race.
	Save(ctx context.Context, req *domain.ServerRequest, expectedVersion int64, account *domain.ServerAccount) error

	// Delete removes the request and its account atomically, under the same
	// version condition as Save.
	Delete(ctx context.Context, id string, expectedVersion int64) error
}

// ServerAccountRepository defines read operations for issued server accounts.
// Accounts are written through ServerRequestRepository.Save only.
type ServerAccountRepository interface {
	FindByRequestID(ctx context.Context, requestID string) (*domain.ServerAccount, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ListByOwners(ctx context.Context, ownerIDs []string) ([]*domain.ServerAccount, error)
}

// TransitionLocker serialises transitions on one request across instances.
type TransitionLocker interface {
	// Acquire returns domain.ErrTransitionInProgress when another holder owns
	// the lock. Any other error means the lock backend is unavailable.
	Acquire(ctx context.Context, requestID string) (release func(), err error)
}
