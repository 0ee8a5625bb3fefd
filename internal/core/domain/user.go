package domain

import (
	"strings"
	"time"
)

// Role is the closed set of actor roles.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleStudent       Role = "MAHASISWA"
)

// ParseRole accepts a role name in any letter case and rejects anything outside
// the known set.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdministrator:
		return RoleAdministrator, nil
	case RoleStudent:
		return RoleStudent, nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleStudent
}

// User models an authenticated actor in the system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the minimal identity extracted from a validated token.
type Principal struct {
	Email string
	Role  Role
}

func (p Principal) IsAdministrator() bool { return p.Role == RoleAdministrator }

// Owns reports whether the principal is the user identified by email.
// Emails are compared case-insensitively.
func (p Principal) Owns(email string) bool {
	return p.Email != "" && strings.EqualFold(p.Email, email)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailLocalPart returns everything before the last '@'.
func EmailLocalPart(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// CheckEmailDomain rejects addresses that do not end in "@"+domain.
func CheckEmailDomain(email, domain string) error {
	if domain == "" {
		return nil
	}
	if !strings.HasSuffix(NormalizeEmail(email), "@"+strings.ToLower(domain)) {
		return ErrInvalidEmailDomain
	}
	return nil
}
