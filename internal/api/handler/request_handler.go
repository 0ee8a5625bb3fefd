package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/polstat/server-provisioning/internal/api/metrics"
	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// RequestHandler serves the server request lifecycle.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

type purposeRequest struct {
	Purpose string `json:"purpose" validate:"required"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type approveResponse struct {
	requestResponse
	IssuedAccount *accountResponse `json:"account,omitempty"`
}

// Submit handles POST /api/server/request.
//
// @Summary      Submit a server request
// @Tags         server
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purposeRequest  true  "Purpose of the server"
// @Success      201   {object}  envelope{data=requestResponse}
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Router       /api/server/request [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req purposeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.Submit(c.Request().Context(), p, req.Purpose)
	if err != nil {
		return err
	}
	metrics.RequestsSubmittedTotal.Inc()

	return success(c, http.StatusCreated, "server request submitted", toRequestResponse(created))
}

// ListAll handles GET /api/server/requests.
//
// @Summary      List every server request
// @Tags         server
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "PENDING, APPROVED, REJECTED or RELEASED"
// @Param        page       query     int     false  "0-based page"
// @Param        size       query     int     false  "page size (max 100)"
// @Param        sortBy     query     string  false  "id, createdAt, updatedAt or status"
// @Param        direction  query     string  false  "asc or desc"
// @Success      200        {object}  envelope{data=[]requestResponse}
// @Failure      400        {object}  envelope
// @Failure      403        {object}  envelope
// @Router       /api/server/requests [get]
func (h *RequestHandler) ListAll(c echo.Context) error {
	return h.list(c, h.service.ListAll)
}

// ListMine handles GET /api/server/my-requests.
//
// @Summary      List the caller's server requests
// @Tags         server
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "PENDING, APPROVED, REJECTED or RELEASED"
// @Param        page       query     int     false  "0-based page"
// @Param        size       query     int     false  "page size (max 100)"
// @Param        sortBy     query     string  false  "id, createdAt, updatedAt or status"
// @Param        direction  query     string  false  "asc or desc"
// @Success      200        {object}  envelope{data=[]requestResponse}
// @Failure      400        {object}  envelope
// @Router       /api/server/my-requests [get]
func (h *RequestHandler) ListMine(c echo.Context) error {
	return h.list(c, h.service.ListMine)
}

type listFunc func(ctx context.Context, p domain.Principal, filter ports.ListRequestsFilter) (*ports.RequestPage, error)

func (h *RequestHandler) list(c echo.Context, fn listFunc) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	pageReq, err := pageQuery(c)
	if err != nil {
		return err
	}
	filter := ports.ListRequestsFilter{PageRequest: pageReq}
	if v := c.QueryParam("status"); v != "" {
		if filter.Status, err = domain.ParseRequestStatus(v); err != nil {
			return err
		}
	}

	page, err := fn(c.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	return paged(c, "server requests retrieved", toRequestPage(page), page.Page, page.Size, page.Total, page.TotalPages)
}

// Get handles GET /api/server/request/:id.
//
// @Summary      Get a server request
// @Tags         server
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server request id"
// @Success      200  {object}  envelope{data=requestResponse}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/server/request/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "server request retrieved", toRequestView(*view))
}

// UpdatePurpose handles PATCH /api/server/request/:id.
//
// @Summary      Edit the purpose of a pending request
// @Tags         server
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Server request id"
// @Param        body  body      purposeRequest  true  "New purpose"
// @Success      200   {object}  envelope{data=requestResponse}
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/server/request/{id} [patch]
func (h *RequestHandler) UpdatePurpose(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req purposeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdatePurpose(c.Request().Context(), p, c.Param("id"), req.Purpose)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "server request updated", toRequestResponse(updated))
}

// Approve handles PATCH /api/server/request/:id/approve.
//
// @Summary      Approve a server request and issue its account
// @Tags         server
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server request id"
// @Success      200  {object}  envelope{data=approveResponse}
// @Failure      400  {object}  envelope
// @Failure      404  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /api/server/request/{id}/approve [patch]
func (h *RequestHandler) Approve(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	res, err := h.service.Approve(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return countConflict("approve", err)
	}
	metrics.RequestTransitionsTotal.WithLabelValues(string(domain.StatusApproved)).Inc()

	out := approveResponse{requestResponse: toRequestResponse(res.Request)}
	if res.Account != nil {
		metrics.AccountsIssuedTotal.Inc()
		acc := toAccountResponse(res.Account)
		out.IssuedAccount = &acc
	}
	return success(c, http.StatusOK, "server request approved", out)
}

// Reject handles PATCH /api/server/request/:id/reject.
//
// @Summary      Reject a server request
// @Tags         server
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Server request id"
// @Param        body  body      rejectRequest  false  "Optional reason"
// @Success      200   {object}  envelope{data=requestResponse}
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/server/request/{id}/reject [patch]
func (h *RequestHandler) Reject(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	// The body is optional; an empty one binds to the zero value.
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return domain.Validationf("invalid payload")
	}

	rejected, err := h.service.Reject(c.Request().Context(), p, c.Param("id"), req.Reason)
	if err != nil {
		return countConflict("reject", err)
	}
	metrics.RequestTransitionsTotal.WithLabelValues(string(domain.StatusRejected)).Inc()
	return success(c, http.StatusOK, "server request rejected", toRequestResponse(rejected))
}

// Release handles PATCH /api/server/release/:id.
//
// @Summary      Release an approved server
// @Tags         server
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server request id"
// @Success      200  {object}  envelope{data=requestResponse}
// @Failure      400  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/server/release/{id} [patch]
func (h *RequestHandler) Release(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	released, err := h.service.Release(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return countConflict("release", err)
	}
	metrics.RequestTransitionsTotal.WithLabelValues(string(domain.StatusReleased)).Inc()
	return success(c, http.StatusOK, "server released", toRequestResponse(released))
}

// Terminate handles DELETE /api/server/terminate/:id.
//
// @Summary      Terminate a released server
// @Tags         server
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server request id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/server/terminate/{id} [delete]
func (h *RequestHandler) Terminate(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Terminate(c.Request().Context(), p, c.Param("id")); err != nil {
		return countConflict("terminate", err)
	}
	metrics.RequestTransitionsTotal.WithLabelValues("TERMINATED").Inc()
	return success(c, http.StatusOK, "server terminated", nil)
}

func countConflict(operation string, err error) error {
	if errors.Is(err, domain.ErrConflict) {
		metrics.TransitionConflictsTotal.WithLabelValues(operation).Inc()
	}
	return err
}
