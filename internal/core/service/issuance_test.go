package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

func TestGeneratePassword_Classes(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		pw, err := generatePassword(rand.Reader, generatedPasswordLength)
		if err != nil {
			t.Fatalf("generatePassword: %v", err)
		}
		if len(pw) < 8 {
			t.Fatalf("password too short: %q", pw)
		}
		for _, class := range passwordClasses {
			if !strings.ContainsAny(pw, class) {
				t.Fatalf("password %q lacks a character from %q", pw, class)
			}
		}
		if seen[pw] {
			t.Fatalf("duplicate password generated: %q", pw)
		}
		seen[pw] = true
	}
}

func TestGeneratePassword_ShortLengthStillCoversClasses(t *testing.T) {
	pw, err := generatePassword(rand.Reader, 1)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	if len(pw) != len(passwordClasses) {
		t.Fatalf("expected %d characters, got %q", len(passwordClasses), pw)
	}
}

type takenAccounts struct {
	accountRepo
	taken func(string) bool
	err   error
}

func (a takenAccounts) UsernameExists(_ context.Context, username string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.taken(username), nil
}

func TestIssuer_Issue(t *testing.T) {
	issuer := NewIssuer(takenAccounts{taken: func(u string) bool { return u == "john" || u == "john_1" }})
	owner := &domain.User{ID: "u1", Email: "john@stis.ac.id"}
	req := &domain.ServerRequest{ID: "r1", OwnerID: "u1"}
	now := time.Unix(500, 0)

	acc, err := issuer.Issue(context.Background(), req, owner, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if acc.Username != "john_2" || acc.OwnerID != "u1" || acc.RequestID != "r1" || !acc.CreatedAt.Equal(now) {
		t.Fatalf("unexpected account: %+v", acc)
	}
}

func TestIssuer_ExhaustedUsernames(t *testing.T) {
	issuer := NewIssuer(takenAccounts{taken: func(string) bool { return true }})
	owner := &domain.User{ID: "u1", Email: "john@stis.ac.id"}

	_, err := issuer.Issue(context.Background(), &domain.ServerRequest{ID: "r1"}, owner, time.Now())
	if !errors.Is(err, domain.ErrExhaustedUsernames) {
		t.Fatalf("expected ErrExhaustedUsernames, got %v", err)
	}
}

func TestIssuer_ProbeFailure(t *testing.T) {
	boom := errors.New("store down")
	issuer := NewIssuer(takenAccounts{err: boom})

	_, err := issuer.Issue(context.Background(), &domain.ServerRequest{ID: "r1"}, &domain.User{Email: "a@stis.ac.id"}, time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
