package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

const (
	maxUsernameProbes       = 5000
	generatedPasswordLength = 12
)

// Character classes for generated server passwords; every password contains
// at least one character of each.
var passwordClasses = []string{
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"abcdefghijklmnopqrstuvwxyz",
	"0123456789",
	"!@#$%^&*-_=+?",
}

// Issuer builds server accounts for approved requests. It does not persist
// them; the request repository stores the account together with the status
// change.
type Issuer struct {
	accounts ports.ServerAccountRepository
	random   io.Reader
}

func NewIssuer(accounts ports.ServerAccountRepository) *Issuer {
	return &Issuer{accounts: accounts, random: rand.Reader}
}

// Issue picks the first free username derived from the owner's email and
// generates a random password.
func (i *Issuer) Issue(ctx context.Context, req *domain.ServerRequest, owner *domain.User, now time.Time) (*domain.ServerAccount, error) {
	username, err := i.nextUsername(ctx, domain.EmailLocalPart(owner.Email))
	if err != nil {
		return nil, err
	}

	password, err := generatePassword(i.random, generatedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	return &domain.ServerAccount{
		OwnerID:   owner.ID,
		RequestID: req.ID,
		Username:  username,
		Password:  password,
		CreatedAt: now,
	}, nil
}

// nextUsername probes base, base_1, base_2, ... and returns the first unused one.
func (i *Issuer) nextUsername(ctx context.Context, base string) (string, error) {
	for n := 0; n < maxUsernameProbes; n++ {
		candidate := base
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d", base, n)
		}
		taken, err := i.accounts.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe username %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrExhaustedUsernames
}

func generatePassword(r io.Reader, length int) (string, error) {
	if length < len(passwordClasses) {
		length = len(passwordClasses)
	}

	var all string
	for _, class := range passwordClasses {
		all += class
	}

	out := make([]byte, 0, length)
	for _, class := range passwordClasses {
		c, err := pick(r, class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(r, all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed characters do not sit at fixed positions.
	for j := len(out) - 1; j > 0; j-- {
		k, err := rand.Int(r, big.NewInt(int64(j+1)))
		if err != nil {
			return "", err
		}
		out[j], out[k.Int64()] = out[k.Int64()], out[j]
	}
	return string(out), nil
}

func pick(r io.Reader, alphabet string) (byte, error) {
	n, err := rand.Int(r, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
