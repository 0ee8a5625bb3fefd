package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

func newTestAuthService(store *stubStore) *AuthService {
	return NewAuthService(store, AuthConfig{Secret: "secret", TokenTTL: time.Hour, EmailDomain: "stis.ac.id"}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubStore())

	user, err := svc.Register(context.Background(), ports.RegisterInput{Name: " Alice ", Email: "Alice@STIS.ac.id", Password: "pass123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("registration must force the student role, got %s", user.Role)
	}
	if user.Email != "alice@stis.ac.id" || user.Name != "Alice" {
		t.Fatalf("input not normalised: %+v", user)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ctx := context.Background()

	cases := []struct {
		name  string
		input ports.RegisterInput
		want  error
	}{
		{"missing name", ports.RegisterInput{Email: "a@stis.ac.id", Password: "p"}, domain.ErrValidation},
		{"missing email", ports.RegisterInput{Name: "A", Password: "p"}, domain.ErrValidation},
		{"missing password", ports.RegisterInput{Name: "A", Email: "a@stis.ac.id"}, domain.ErrValidation},
		{"foreign domain", ports.RegisterInput{Name: "A", Email: "a@gmail.com", Password: "p"}, domain.ErrInvalidEmailDomain},
		{"lookalike domain", ports.RegisterInput{Name: "A", Email: "a@evilstis.ac.id", Password: "p"}, domain.ErrInvalidEmailDomain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ctx := context.Background()
	in := ports.RegisterInput{Name: "A", Email: "a@stis.ac.id", Password: "p"}

	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in.Email = "A@stis.ac.id"
	if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthService_Login_IssuesValidToken(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ctx := context.Background()
	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "Bob", Email: "bob@stis.ac.id", Password: "secret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Login(ctx, "BOB@stis.ac.id", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Name != "Bob" || res.Token == "" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(res.Token, &claims, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if parsed.Method.Alg() != jwt.SigningMethodHS512.Alg() {
		t.Fatalf("unexpected signing method %s", parsed.Method.Alg())
	}
	if claims.Subject != "bob@stis.ac.id" || claims.Role != domain.RoleStudent || claims.Issuer != "Polstat" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	p, err := svc.ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if p.Email != "bob@stis.ac.id" || p.Role != domain.RoleStudent {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthService_Login_SameErrorForUnknownAndWrongPassword(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ctx := context.Background()
	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "Bob", Email: "bob@stis.ac.id", Password: "secret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nobody@stis.ac.id", "secret")
	_, errWrong := svc.Login(ctx, "bob@stis.ac.id", "wrong")
	if !errors.Is(errUnknown, domain.ErrBadCredentials) || !errors.Is(errWrong, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for both, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("messages must not reveal which check failed")
	}
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	now := time.Now()

	sign := func(method jwt.SigningMethod, secret string, claims tokenClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	base := func() tokenClaims {
		return tokenClaims{
			Role: domain.RoleAdministrator,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "Polstat",
				Subject:   "unit-ti@stis.ac.id",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	expired := base()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	foreignIssuer := base()
	foreignIssuer.Issuer = "someone-else"
	unknownRole := base()
	unknownRole.Role = "ROOT"
	noExpiry := base()
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   sign(jwt.SigningMethodHS512, "other", base()),
		"wrong method":   sign(jwt.SigningMethodHS256, "secret", base()),
		"expired":        sign(jwt.SigningMethodHS512, "secret", expired),
		"foreign issuer": sign(jwt.SigningMethodHS512, "secret", foreignIssuer),
		"unknown role":   sign(jwt.SigningMethodHS512, "secret", unknownRole),
		"no expiry":      sign(jwt.SigningMethodHS512, "secret", noExpiry),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ValidateToken(token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}

	if _, err := svc.ValidateToken(sign(jwt.SigningMethodHS512, "secret", base())); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
}
