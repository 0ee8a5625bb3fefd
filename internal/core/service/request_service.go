package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/policy"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// maxIssueAttempts bounds how often approval re-probes a username after losing
// a uniqueness race to a concurrent approval.
const maxIssueAttempts = 3

// RequestService runs the server request lifecycle.
type RequestService struct {
	requests ports.ServerRequestRepository
	accounts ports.ServerAccountRepository
	users    ports.UserRepository
	issuer   *Issuer
	locker   ports.TransitionLocker
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRequestService wires the lifecycle engine. locker may be nil, in which
// case only the repository version check guards concurrent transitions.
func NewRequestService(
	requests ports.ServerRequestRepository,
	accounts ports.ServerAccountRepository,
	users ports.UserRepository,
	locker ports.TransitionLocker,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		accounts: accounts,
		users:    users,
		issuer:   NewIssuer(accounts),
		locker:   locker,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *RequestService) Submit(ctx context.Context, p domain.Principal, purpose string) (*domain.ServerRequest, error) {
	if err := policy.Authorize(p, policy.SubmitRequest); err != nil {
		return nil, err
	}
	owner, err := currentUser(ctx, s.users, p)
	if err != nil {
		return nil, err
	}

	req, err := domain.NewServerRequest(owner.ID, purpose, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Str("request_id", req.ID).Str("owner", owner.Email).Msg("server request submitted")
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, p domain.Principal, id string) (*ports.RequestView, error) {
	req, owner, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanView(p, owner); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByRequestID(ctx, req.ID)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}
	return &ports.RequestView{Request: req, Owner: owner, Account: account}, nil
}

func (s *RequestService) ListAll(ctx context.Context, p domain.Principal, filter ports.ListRequestsFilter) (*ports.RequestPage, error) {
	if err := policy.Authorize(p, policy.ListAllRequests); err != nil {
		return nil, err
	}
	filter.OwnerID = ""
	return s.list(ctx, filter)
}

func (s *RequestService) ListMine(ctx context.Context, p domain.Principal, filter ports.ListRequestsFilter) (*ports.RequestPage, error) {
	if err := policy.Authorize(p, policy.ListOwnRequests); err != nil {
		return nil, err
	}
	owner, err := currentUser(ctx, s.users, p)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = owner.ID
	return s.list(ctx, filter)
}

func (s *RequestService) UpdatePurpose(ctx context.Context, p domain.Principal, id, purpose string) (*domain.ServerRequest, error) {
	if err := policy.Authorize(p, policy.UpdateRequest); err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, owner, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOwned(p, policy.UpdateRequest, owner); err != nil {
		return nil, err
	}

	expected := req.Version
	if err := req.ChangePurpose(purpose); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, req, expected, nil); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve moves the request to APPROVED and, the first time, issues its server
// account in the same atomic write.
func (s *RequestService) Approve(ctx context.Context, p domain.Principal, id string) (*ports.ApproveResult, error) {
	if err := policy.Authorize(p, policy.ApproveRequest); err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		result, err := s.approveOnce(ctx, id)
		if errors.Is(err, domain.ErrUsernameTaken) && attempt < maxIssueAttempts {
			s.logger.Warn().Str("request_id", id).Int("attempt", attempt).Msg("server account username raced, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		evt := s.logger.Info().Str("request_id", id).Str("by", p.Email)
		if result.Account != nil {
			evt = evt.Str("username", result.Account.Username)
		}
		evt.Msg("server request approved")
		return result, nil
	}
}

func (s *RequestService) approveOnce(ctx context.Context, id string) (*ports.ApproveResult, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expected := req.Version
	if err := req.Approve(now); err != nil {
		return nil, err
	}

	var issued *domain.ServerAccount
	_, err = s.accounts.FindByRequestID(ctx, req.ID)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		owner, err := s.users.FindByID(ctx, req.OwnerID)
		if err != nil {
			return nil, err
		}
		issued, err = s.issuer.Issue(ctx, req, owner, now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if err := s.requests.Save(ctx, req, expected, issued); err != nil {
		return nil, err
	}
	return &ports.ApproveResult{Request: req, Account: issued}, nil
}

func (s *RequestService) Reject(ctx context.Context, p domain.Principal, id, reason string) (*domain.ServerRequest, error) {
	if err := policy.Authorize(p, policy.RejectRequest); err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := req.Version
	if err := req.Reject(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, req, expected, nil); err != nil {
		return nil, err
	}

	s.logger.Info().Str("request_id", id).Str("by", p.Email).Str("reason", req.Reason).Msg("server request rejected")
	return req, nil
}

// Release lets the owner hand an approved server back.
func (s *RequestService) Release(ctx context.Context, p domain.Principal, id string) (*domain.ServerRequest, error) {
	if err := policy.Authorize(p, policy.ReleaseRequest); err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, owner, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOwned(p, policy.ReleaseRequest, owner); err != nil {
		return nil, err
	}

	expected := req.Version
	if err := req.Release(s.now()); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, req, expected, nil); err != nil {
		return nil, err
	}

	s.logger.Info().Str("request_id", id).Str("owner", p.Email).Msg("server released")
	return req, nil
}

// Terminate deletes a released request and its account.
func (s *RequestService) Terminate(ctx context.Context, p domain.Principal, id string) error {
	if err := policy.Authorize(p, policy.TerminateRequest); err != nil {
		return err
	}
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := req.CheckTerminable(); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id, req.Version); err != nil {
		return err
	}

	s.logger.Info().Str("request_id", id).Str("by", p.Email).Msg("server terminated")
	return nil
}

func (s *RequestService) list(ctx context.Context, filter ports.ListRequestsFilter) (*ports.RequestPage, error) {
	page, err := normalizePage(filter.PageRequest, requestSortKeys)
	if err != nil {
		return nil, err
	}
	filter.PageRequest = page

	reqs, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	owners, err := s.ownersOf(ctx, reqs)
	if err != nil {
		return nil, err
	}

	items := make([]ports.RequestView, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, ports.RequestView{Request: r, Owner: owners[r.OwnerID]})
	}
	return &ports.RequestPage{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

func (s *RequestService) ownersOf(ctx context.Context, reqs []*domain.ServerRequest) (map[string]*domain.User, error) {
	seen := make(map[string]bool, len(reqs))
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if !seen[r.OwnerID] {
			seen[r.OwnerID] = true
			ids = append(ids, r.OwnerID)
		}
	}
	if len(ids) == 0 {
		return map[string]*domain.User{}, nil
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// load fetches a request and its owner. A missing owner yields a nil user,
// which every ownership check rejects.
func (s *RequestService) load(ctx context.Context, id string) (*domain.ServerRequest, *domain.User, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	owner, err := s.users.FindByID(ctx, req.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}
	return req, owner, nil
}

// lock takes the transition lock when one is configured. Backend failures are
// logged and the version check in the repository still applies.
func (s *RequestService) lock(ctx context.Context, id string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransitionInProgress) {
			return nil, err
		}
		s.logger.Warn().Err(err).Str("request_id", id).Msg("transition lock unavailable")
		return func() {}, nil
	}
	return release, nil
}

// currentUser resolves the principal to a stored user. A valid token for a
// deleted user is treated as unauthenticated.
func currentUser(ctx context.Context, users ports.UserRepository, p domain.Principal) (*domain.User, error) {
	u, err := users.FindByEmail(ctx, domain.NormalizeEmail(p.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}
