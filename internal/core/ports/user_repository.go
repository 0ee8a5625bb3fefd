package ports

import (
	"context"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

// PageRequest carries paging and sorting for list queries.
type PageRequest struct {
	Page       int    // 0-based
	Size       int    // rows per page (capped at MaxPageSize by the services)
	SortBy     string // one of the sort keys accepted by the listed resource
	Descending bool
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListUsersFilter narrows a user listing. An empty Role lists everyone.
type ListUsersFilter struct {
	Role domain.Role
	PageRequest
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores the user and returns it with its ID set.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// Update overwrites name, email, password hash, role and updated_at.
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user together with their server requests and accounts.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
