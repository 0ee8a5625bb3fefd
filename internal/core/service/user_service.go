package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/policy"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// UserService implements profile management and user administration.
type UserService struct {
	users       ports.UserRepository
	accounts    ports.ServerAccountRepository
	emailDomain string
	logger      zerolog.Logger
	now         func() time.Time
}

func NewUserService(users ports.UserRepository, accounts ports.ServerAccountRepository, emailDomain string, logger zerolog.Logger) *UserService {
	return &UserService{
		users:       users,
		accounts:    accounts,
		emailDomain: emailDomain,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Profile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return currentUser(ctx, s.users, p)
}

func (s *UserService) UpdateProfile(ctx context.Context, p domain.Principal, name, email string) (*domain.User, error) {
	u, err := currentUser(ctx, s.users, p)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("name is required")
	}
	email, err = s.checkEmail(email, "email is required")
	if err != nil {
		return nil, err
	}

	u.Name = name
	u.Email = email
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateEmail(ctx context.Context, p domain.Principal, newEmail string) (*domain.User, error) {
	u, err := currentUser(ctx, s.users, p)
	if err != nil {
		return nil, err
	}
	email, err := s.checkEmail(newEmail, "new email is required")
	if err != nil {
		return nil, err
	}

	u.Email = email
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, p domain.Principal, currentPassword, newPassword string) error {
	switch {
	case currentPassword == "":
		return domain.Validationf("current password is required")
	case newPassword == "":
		return domain.Validationf("new password is required")
	}

	u, err := currentUser(ctx, s.users, p)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrWrongPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.save(ctx, u)
}

// DeleteOwnAccount removes the calling student with all their requests and
// server accounts.
func (s *UserService) DeleteOwnAccount(ctx context.Context, p domain.Principal) error {
	if err := policy.Authorize(p, policy.DeleteOwnUser); err != nil {
		return err
	}
	u, err := currentUser(ctx, s.users, p)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}

	s.logger.Info().Str("email", u.Email).Msg("account deleted by owner")
	return nil
}

func (s *UserService) AddAdministrator(ctx context.Context, p domain.Principal, input ports.RegisterInput) (*domain.User, error) {
	if err := policy.Authorize(p, policy.ManageUsers); err != nil {
		return nil, err
	}
	u, err := createUser(ctx, s.users, s.emailDomain, input, domain.RoleAdministrator, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", u.Email).Str("by", p.Email).Msg("administrator added")
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, p domain.Principal, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Validationf("email is required")
	}
	if err := policy.AuthorizeUserDeletion(p, &domain.User{Email: email}); err != nil {
		return err
	}

	target, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.logger.Info().Str("email", target.Email).Str("by", p.Email).Msg("user deleted")
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, p domain.Principal, userID, role string) (*domain.User, error) {
	if err := policy.Authorize(p, policy.ManageUsers); err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeRoleChange(p, target); err != nil {
		return nil, err
	}

	newRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	target.Role = newRole
	if err := s.save(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", target.Email).Str("role", string(newRole)).Str("by", p.Email).Msg("role changed")
	return target, nil
}

func (s *UserService) ListUsers(ctx context.Context, p domain.Principal, filter ports.ListUsersFilter) (*ports.UserPage, error) {
	if err := policy.Authorize(p, policy.ManageUsers); err != nil {
		return nil, err
	}
	page, err := normalizePage(filter.PageRequest, userSortKeys)
	if err != nil {
		return nil, err
	}
	filter.PageRequest = page

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	byOwner := map[string][]*domain.ServerAccount{}
	if filter.Role != domain.RoleAdministrator && len(users) > 0 {
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		accounts, err := s.accounts.ListByOwners(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			byOwner[a.OwnerID] = append(byOwner[a.OwnerID], a)
		}
	}

	items := make([]ports.UserWithAccounts, 0, len(users))
	for _, u := range users {
		items = append(items, ports.UserWithAccounts{User: u, Accounts: byOwner[u.ID]})
	}
	return &ports.UserPage{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

// EnsureAdministrator creates the given administrator unless a user with that
// email already exists. Used to seed the first administrator at startup.
func (s *UserService) EnsureAdministrator(ctx context.Context, input ports.RegisterInput) error {
	_, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	u, err := createUser(ctx, s.users, s.emailDomain, input, domain.RoleAdministrator, s.now())
	if errors.Is(err, domain.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info().Str("email", u.Email).Msg("default administrator seeded")
	return nil
}

func (s *UserService) checkEmail(email, missingMsg string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.Validationf("%s", missingMsg)
	}
	if err := domain.CheckEmailDomain(email, s.emailDomain); err != nil {
		return "", err
	}
	return email, nil
}

func (s *UserService) save(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = s.now()
	return s.users.Update(ctx, u)
}
