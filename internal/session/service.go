package session

import "sync"

// Service is the single source of truth for the auth session. It is
// constructed once at startup in StateRestoring and mutated only through
// Authenticate, Logout and Restore. The invariant held on every path:
// IsAuthenticated() is true exactly when Token() is non-empty.
type Service struct {
	mu    sync.Mutex
	state State
	token string
	store TokenStore
	subs  []chan struct{}
}

func New(store TokenStore) *Service {
	return &Service{state: StateRestoring, store: store}
}

// Subscribe returns a channel signalled after every state change.
// Consumers pull the current state synchronously when notified.
func (s *Service) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Authenticate installs a credential and moves to StateAuthenticated.
// An empty token is rejected as a no-op; allowing it would break the
// token/state invariant. Persisting the token is the caller's explicit
// step after a successful login or signup response.
func (s *Service) Authenticate(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	s.token = token
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.notify()
}

// Logout clears the in-memory credential and removes the persisted
// token, so a later restoration cannot resurrect the session. The
// session always ends up unauthenticated; a store failure is returned
// for reporting only.
func (s *Service) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.state = StateUnauthenticated
	s.mu.Unlock()
	s.notify()
	return s.store.Clear()
}

// Restore resolves the initial StateRestoring by reading the token
// store. A present token authenticates; an absent token or a failed
// read fails open to unauthenticated. Invoked once at process start.
func (s *Service) Restore() State {
	token, err := s.store.Load()
	if err != nil || token == "" {
		s.mu.Lock()
		s.token = ""
		s.state = StateUnauthenticated
		s.mu.Unlock()
		s.notify()
		return StateUnauthenticated
	}
	s.Authenticate(token)
	return StateAuthenticated
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current credential, or "" when signed out. It
// satisfies the api.TokenSource contract.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated
}

func (s *Service) notify() {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
