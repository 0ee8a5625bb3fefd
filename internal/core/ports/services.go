package ports

import (
	"context"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer when creating users.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// ValidateToken returns domain.ErrUnauthenticated for every kind of
	// invalid token.
	ValidateToken(token string) (domain.Principal, error)
}

// UserWithAccounts pairs a user with the server accounts issued to them.
type UserWithAccounts struct {
	User     *domain.User
	Accounts []*domain.ServerAccount
}

// UserPage is one page of a user listing.
type UserPage struct {
	Items      []UserWithAccounts
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

type UserService interface {
	Profile(ctx context.Context, p domain.Principal) (*domain.User, error)
	UpdateProfile(ctx context.Context, p domain.Principal, name, email string) (*domain.User, error)
	UpdateEmail(ctx context.Context, p domain.Principal, newEmail string) (*domain.User, error)
	UpdatePassword(ctx context.Context, p domain.Principal, currentPassword, newPassword string) error
	DeleteOwnAccount(ctx context.Context, p domain.Principal) error

	AddAdministrator(ctx context.Context, p domain.Principal, input RegisterInput) (*domain.User, error)
	DeleteUser(ctx context.Context, p domain.Principal, email string) error
	ChangeRole(ctx context.Context, p domain.Principal, userID, role string) (*domain.User, error)
	// ListUsers includes server accounts unless the filter selects administrators.
	ListUsers(ctx context.Context, p domain.Principal, filter ListUsersFilter) (*UserPage, error)
}

// RequestView is a server request together with its owner and, once
// approved, its account.
type RequestView struct {
	Request *domain.ServerRequest
	Owner   *domain.User
	Account *domain.ServerAccount
}

// RequestPage is one page of a server request listing.
type RequestPage struct {
	Items      []RequestView
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

// ApproveResult carries the approved request. Account is set only when this
// approval issued it; re-approving a previously rejected request that already
// has an account leaves it nil.
type ApproveResult struct {
	Request *domain.ServerRequest
	Account *domain.ServerAccount
}

type RequestService interface {
	Submit(ctx context.Context, p domain.Principal, purpose string) (*domain.ServerRequest, error)
	Get(ctx context.Context, p domain.Principal, id string) (*RequestView, error)
	ListAll(ctx context.Context, p domain.Principal, filter ListRequestsFilter) (*RequestPage, error)
	ListMine(ctx context.Context, p domain.Principal, filter ListRequestsFilter) (*RequestPage, error)
	UpdatePurpose(ctx context.Context, p domain.Principal, id, purpose string) (*domain.ServerRequest, error)
	Approve(ctx context.Context, p domain.Principal, id string) (*ApproveResult, error)
	Reject(ctx context.Context, p domain.Principal, id, reason string) (*domain.ServerRequest, error)
	Release(ctx context.Context, p domain.Principal, id string) (*domain.ServerRequest, error)
	Terminate(ctx context.Context, p domain.Principal, id string) error
}
