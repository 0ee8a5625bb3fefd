package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

func TestHTTPErrorHandler_MapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrEmptyPurpose, http.StatusBadRequest, "purpose is required"},
		{domain.ErrBadCredentials, http.StatusBadRequest, domain.ErrBadCredentials.Error()},
		{domain.ErrAlreadyApproved, http.StatusBadRequest, domain.ErrAlreadyApproved.Error()},
		{domain.ErrNotReleased, http.StatusBadRequest, domain.ErrNotReleased.Error()},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, domain.ErrUnauthenticated.Error()},
		{domain.ErrSelfDelete, http.StatusForbidden, "you cannot delete your own account"},
		{domain.ErrSelfRoleChange, http.StatusForbidden, "you cannot change your own role"},
		{domain.ErrRequestNotFound, http.StatusNotFound, "server request not found"},
		{domain.ErrEmailTaken, http.StatusConflict, domain.ErrEmailTaken.Error()},
		{fmt.Errorf("approve: %w", domain.ErrConcurrentUpdate), http.StatusConflict, "approve: " + domain.ErrConcurrentUpdate.Error()},
		{echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
		{errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		h(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body.Status != "error" || body.Message != tc.msg {
			t.Fatalf("%v: unexpected body %+v", tc.err, body)
		}
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected committed status to stay, got %d", rec.Code)
	}
}
