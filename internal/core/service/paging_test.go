package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

func TestNormalizePage(t *testing.T) {
	got, err := normalizePage(ports.PageRequest{Page: -3, Size: 0}, requestSortKeys)
	if err != nil {
		t.Fatalf("normalizePage: %v", err)
	}
	if got.Page != 0 || got.Size != ports.DefaultPageSize || got.SortBy != "id" {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	got, _ = normalizePage(ports.PageRequest{Size: 5000}, requestSortKeys)
	if got.Size != ports.MaxPageSize {
		t.Fatalf("size must be capped, got %d", got.Size)
	}

	if _, err := normalizePage(ports.PageRequest{SortBy: "password"}, userSortKeys); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown sort key, got %v", err)
	}
}

func TestNormalizePage_RejectsOverflowingOffset(t *testing.T) {
	limit := math.MaxInt / ports.MaxPageSize

	if _, err := normalizePage(ports.PageRequest{Page: limit, Size: ports.MaxPageSize}, requestSortKeys); err != nil {
		t.Fatalf("largest safe page must be accepted: %v", err)
	}
	for _, page := range []int{limit + 1, 922337203685477581, math.MaxInt} {
		if _, err := normalizePage(ports.PageRequest{Page: page, Size: 10}, requestSortKeys); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("page %d: expected validation error, got %v", page, err)
		}
	}
}

func TestListAll_HugePageIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.requests.ListAll(context.Background(), adminPrincipal, ports.ListRequestsFilter{
		PageRequest: ports.PageRequest{Page: 922337203685477581, Size: 10},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
