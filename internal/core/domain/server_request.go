package domain

import (
	"strings"
	"time"
)

// RequestStatus represents the lifecycle state of a server request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
	StatusReleased RequestStatus = "RELEASED"
)

// DefaultRejectReason is recorded when an administrator rejects without a reason.
const DefaultRejectReason = "No reason was given"

// validTransitions defines the allowed state machine transitions. A RELEASED
// request has no outgoing edge; it can only be terminated (deleted).
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusRejected: {StatusApproved, StatusRejected},
	StatusApproved: {StatusReleased},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseRequestStatus accepts a status name in any letter case.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusReleased:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// ServerRequest is a student's request for a server account.
type ServerRequest struct {
	ID        string
	OwnerID   string
	Purpose   string
	Status    RequestStatus
	Reason    string
	CreatedAt time.Time
	// UpdatedAt is zero until the first status transition.
	UpdatedAt time.Time
	// Version starts at 1 and grows with every write; stores use it for
	// conditional updates.
	Version int64
}

// NewServerRequest builds a PENDING request owned by ownerID.
func NewServerRequest(ownerID, purpose string, now time.Time) (*ServerRequest, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, ErrEmptyPurpose
	}
	return &ServerRequest{
		OwnerID:   ownerID,
		Purpose:   purpose,
		Status:    StatusPending,
		CreatedAt: now,
		Version:   1,
	}, nil
}

// Approve moves the request to APPROVED.
func (r *ServerRequest) Approve(now time.Time) error {
	if err := r.checkDecision(StatusApproved); err != nil {
		return err
	}
	r.Status = StatusApproved
	r.UpdatedAt = now
	return nil
}

// Reject moves the request to REJECTED and records the reason.
func (r *ServerRequest) Reject(reason string, now time.Time) error {
	if err := r.checkDecision(StatusRejected); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectReason
	}
	r.Status = StatusRejected
	r.Reason = reason
	r.UpdatedAt = now
	return nil
}

// Release hands an approved server back.
func (r *ServerRequest) Release(now time.Time) error {
	if !r.Status.CanTransitionTo(StatusReleased) {
		return ErrNotApproved
	}
	r.Status = StatusReleased
	r.UpdatedAt = now
	return nil
}

// ChangePurpose edits the purpose of a request that is still pending.
func (r *ServerRequest) ChangePurpose(purpose string) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return ErrEmptyPurpose
	}
	r.Purpose = purpose
	return nil
}

// CheckTerminable reports whether the request may be deleted.
func (r *ServerRequest) CheckTerminable() error {
	if r.Status != StatusReleased {
		return ErrNotReleased
	}
	return nil
}

func (r *ServerRequest) checkDecision(next RequestStatus) error {
	switch {
	case r.Status == StatusApproved:
		return ErrAlreadyApproved
	case r.Status == StatusReleased:
		return ErrReleased
	case !r.Status.CanTransitionTo(next):
		return ErrInvalidState
	}
	return nil
}

// ServerAccount holds the credentials issued when a request is approved.
type ServerAccount struct {
	ID        string
	OwnerID   string
	RequestID string
	Username  string
	// Password is kept retrievable so an administrator can hand it over.
	Password  string
	CreatedAt time.Time
}
