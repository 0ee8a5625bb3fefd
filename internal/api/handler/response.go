package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// envelope is the body of every JSON response.
type envelope struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Status: "success", Message: message, Data: data})
}

func paged(c echo.Context, message string, data any, page, size int, total int64, totalPages int) error {
	return c.JSON(http.StatusOK, envelope{
		Status:  "success",
		Message: message,
		Data:    data,
		Pagination: &pagination{
			Page:          page,
			Size:          size,
			TotalElements: total,
			TotalPages:    totalPages,
		},
	})
}

// pageQuery reads page, size, sortBy and direction. Range checks beyond
// syntax are left to the services.
func pageQuery(c echo.Context) (ports.PageRequest, error) {
	var p ports.PageRequest
	var err error

	if v := c.QueryParam("page"); v != "" {
		if p.Page, err = strconv.Atoi(v); err != nil {
			return p, domain.Validationf("page must be an integer")
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if p.Size, err = strconv.Atoi(v); err != nil {
			return p, domain.Validationf("size must be an integer")
		}
	}
	p.SortBy = c.QueryParam("sortBy")

	switch strings.ToLower(c.QueryParam("direction")) {
	case "", "asc":
	case "desc":
		p.Descending = true
	default:
		return p, domain.Validationf("direction must be asc or desc")
	}
	return p, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
