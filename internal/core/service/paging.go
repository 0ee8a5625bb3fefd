package service

import (
	"math"
	"strings"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// Sort keys accepted by the list endpoints. Repositories map them to columns.
var (
	requestSortKeys = map[string]bool{"id": true, "createdAt": true, "updatedAt": true, "status": true}
	userSortKeys    = map[string]bool{"id": true, "name": true, "email": true, "role": true}
)

func normalizePage(p ports.PageRequest, allowedSort map[string]bool) (ports.PageRequest, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = ports.DefaultPageSize
	}
	if p.Size > ports.MaxPageSize {
		p.Size = ports.MaxPageSize
	}
	// Page*Size becomes the store offset and must not overflow.
	if p.Page > math.MaxInt/ports.MaxPageSize {
		return p, domain.Validationf("page %d is out of range", p.Page)
	}
	p.SortBy = strings.TrimSpace(p.SortBy)
	if p.SortBy == "" {
		p.SortBy = "id"
	}
	if !allowedSort[p.SortBy] {
		return p, domain.Validationf("cannot sort by %q", p.SortBy)
	}
	return p, nil
}

func totalPages(total int64, size int) int {
	if total == 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
