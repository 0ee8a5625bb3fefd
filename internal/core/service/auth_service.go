package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

const defaultIssuer = "Polstat"

// AuthConfig is injected at construction; the service keeps no globals.
type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
	// EmailDomain restricts registration to addresses ending in "@"+EmailDomain.
	EmailDomain string
}

// tokenClaims carries the role next to the registered claims. The subject is
// the user's email.
type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token validation.
type AuthService struct {
	repo   ports.UserRepository
	cfg    AuthConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &AuthService{repo: repo, cfg: cfg, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Register creates a student account. The role is never taken from the caller.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return createUser(ctx, s.repo, s.cfg.EmailDomain, input, domain.RoleStudent, s.now())
}

// Login verifies the credentials and issues a signed token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, User: user}, nil
}

// ValidateToken checks signature, issuer and expiry and extracts the principal.
// The cause of a failure is logged at debug level only.
func (s *AuthService) ValidateToken(token string) (domain.Principal, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected")
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		s.logger.Debug().Str("role", string(claims.Role)).Msg("token rejected: incomplete claims")
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	return domain.Principal{Email: claims.Subject, Role: claims.Role}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return t.SignedString([]byte(s.cfg.Secret))
}

// createUser validates input, hashes the password and stores a user with the
// given role. Shared by registration, admin creation and seeding.
func createUser(ctx context.Context, repo ports.UserRepository, emailDomain string, input ports.RegisterInput, role domain.Role, now time.Time) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)
	switch {
	case name == "":
		return nil, domain.Validationf("name is required")
	case email == "":
		return nil, domain.Validationf("email is required")
	case input.Password == "":
		return nil, domain.Validationf("password is required")
	}
	if err := domain.CheckEmailDomain(email, emailDomain); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	return repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
