package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// stubStore is an in-memory implementation of the user, request and account
// repositories sharing one lock, so cascades behave like the real stores.
type stubStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*domain.User
	requests map[string]*domain.ServerRequest
	accounts map[string]*domain.ServerAccount // by request id

	// saveHook, when set, runs before Save applies and may return an error.
	saveHook func(req *domain.ServerRequest, account *domain.ServerAccount) error
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[string]*domain.User),
		requests: make(map[string]*domain.ServerRequest),
		accounts: make(map[string]*domain.ServerAccount),
	}
}

func (s *stubStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func cloneRequest(r *domain.ServerRequest) *domain.ServerRequest {
	clone := *r
	return &clone
}

func cloneAccount(a *domain.ServerAccount) *domain.ServerAccount {
	clone := *a
	return &clone
}

// --- UserRepository ---

func (s *stubStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := cloneUser(user)
	c.ID = s.nextID("user")
	s.users[c.ID] = c
	return cloneUser(c), nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *stubStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	for rid, r := range s.requests {
		if r.OwnerID == id {
			delete(s.requests, rid)
			delete(s.accounts, rid)
		}
	}
	return nil
}

func (s *stubStore) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*domain.User
	for _, u := range s.users {
		if filter.Role == "" || u.Role == filter.Role {
			all = append(all, cloneUser(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, filter.PageRequest), int64(len(all)), nil
}

func paginate[T any](items []T, p ports.PageRequest) []T {
	start := p.Page * p.Size
	if start >= len(items) {
		return nil
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// --- ServerRequestRepository (exposed through requestRepo) ---

type requestRepo struct{ *stubStore }

func (r requestRepo) Create(_ context.Context, req *domain.ServerRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID("req")
	r.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r requestRepo) FindByID(_ context.Context, id string) (*domain.ServerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r requestRepo) List(_ context.Context, filter ports.ListRequestsFilter) ([]*domain.ServerRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.ServerRequest
	for _, req := range r.requests {
		if filter.OwnerID != "" && req.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		all = append(all, cloneRequest(req))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, filter.PageRequest), int64(len(all)), nil
}

func (r requestRepo) Save(_ context.Context, req *domain.ServerRequest, expectedVersion int64, account *domain.ServerAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[req.ID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConcurrentUpdate
	}
	if r.saveHook != nil {
		if err := r.saveHook(req, account); err != nil {
			return err
		}
	}
	if account != nil {
		if _, exists := r.accounts[req.ID]; exists {
			return domain.ErrAccountExists
		}
		for _, a := range r.accounts {
			if a.Username == account.Username {
				return domain.ErrUsernameTaken
			}
		}
		account.ID = r.nextID("acc")
		r.accounts[req.ID] = cloneAccount(account)
	}
	req.Version = expectedVersion + 1
	r.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r requestRepo) Delete(_ context.Context, id string, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConcurrentUpdate
	}
	delete(r.requests, id)
	delete(r.accounts, id)
	return nil
}

// --- ServerAccountRepository ---

type accountRepo struct{ *stubStore }

func (a accountRepo) FindByRequestID(_ context.Context, requestID string) (*domain.ServerAccount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[requestID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(acc), nil
}

func (a accountRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, acc := range a.accounts {
		if acc.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (a accountRepo) ListByOwners(_ context.Context, ownerIDs []string) ([]*domain.ServerAccount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	want := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		want[id] = true
	}
	var out []*domain.ServerAccount
	for _, acc := range a.accounts {
		if want[acc.OwnerID] {
			out = append(out, cloneAccount(acc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *stubStore) countAccounts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}
