// Package session holds the client-side login state: the current token and
// user, a loading flag, the last error, and a durable copy of the token.
package session

import (
	"context"
	"errors"
	"sync"

	pp "pokemon_portal"
	"pokemon_portal/internal/logger"
)

var (
	// ErrNoToken is returned by FetchUser when there is nothing to authenticate with.
	ErrNoToken = errors.New("no token")
	// ErrRequestInFlight rejects a Login or Register while another one is running.
	ErrRequestInFlight = errors.New("request already in flight")
)

const (
	msgLoginFailed    = "login failed"
	msgRegisterFailed = "registration failed"
)

// State is a point-in-time copy of the session.
type State struct {
	Token   string
	User    *pp.UserProfile
	Loading bool
	Error   string
}

// IsAuthenticated requires both a token and a resolved user.
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Store is safe for concurrent use. Every write replaces fields wholesale.
type Store struct {
	api     API
	storage Storage
	log     *logger.Logger

	mu    sync.Mutex
	state State
	// gen changes whenever the session identity changes (login, logout).
	gen uint64
}

func NewStore(api API, storage Storage, log *logger.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{api: api, storage: storage, log: log}
}

// Snapshot returns a copy that later mutations do not affect.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// IsAuthenticated is false for a nil store.
func (s *Store) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	return s.Snapshot().IsAuthenticated()
}

// Initialize restores a stored token and resolves its user. A token the
// backend rejects leaves the session fully cleared.
func (s *Store) Initialize(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return err
	}
	if !ok || token == "" {
		return nil
	}

	s.mu.Lock()
	s.state.Token = token
	s.mu.Unlock()

	if _, err := s.FetchUser(ctx); err != nil {
		s.log.Infow("session_restore_failed", "err", err)
	}
	return nil
}

// begin claims the loading flag.
func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return ErrRequestInFlight
	}
	s.state.Loading = true
	s.state.Error = ""
	return nil
}

// Login authenticates and persists the token. On failure token and user are untouched.
func (s *Store) Login(ctx context.Context, username, password string) (pp.UserProfile, error) {
	if err := s.begin(); err != nil {
		return pp.UserProfile{}, err
	}

	res, err := s.api.Login(ctx, username, password)

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = messageFor(err, msgLoginFailed)
		s.mu.Unlock()
		return pp.UserProfile{}, err
	}
	user := res.User
	s.state.Token = res.AccessToken
	s.state.User = &user
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if err := s.storage.Set(ctx, TokenKey, res.AccessToken); err != nil {
		s.log.Warnw("session_persist_failed", "err", err)
	}

	// a logout or another login landed while the token was being written
	s.mu.Lock()
	superseded := s.gen != gen && s.state.Token != res.AccessToken
	s.mu.Unlock()
	if superseded {
		s.undoPersist(ctx, res.AccessToken)
	}
	return user, nil
}

// Register creates an account. It never logs in.
func (s *Store) Register(ctx context.Context, username, password, confirmPassword string) (pp.RegisterResponse, error) {
	if err := s.begin(); err != nil {
		return pp.RegisterResponse{}, err
	}

	res, err := s.api.Register(ctx, username, password, confirmPassword)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = messageFor(err, msgRegisterFailed)
		return pp.RegisterResponse{}, err
	}
	return res, nil
}

// FetchUser resolves the current token to a profile. Any failure logs the client out.
func (s *Store) FetchUser(ctx context.Context) (pp.UserProfile, error) {
	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()
	if token == "" {
		return pp.UserProfile{}, ErrNoToken
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		s.mu.Lock()
		if s.state.Token != token {
			s.mu.Unlock()
			return pp.UserProfile{}, err
		}
		s.clearLocked()
		gen := s.gen
		s.mu.Unlock()
		s.removeToken(ctx, gen)
		return pp.UserProfile{}, err
	}

	s.mu.Lock()
	// a login or logout may have replaced the token meanwhile
	if s.state.Token == token {
		s.state.User = &user
	}
	s.mu.Unlock()
	return user, nil
}

// Logout clears memory and durable storage. It never calls the backend.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked()
	gen := s.gen
	s.mu.Unlock()
	s.removeToken(ctx, gen)
}

// clearLocked wipes the in-memory session. Callers hold mu.
func (s *Store) clearLocked() {
	s.state.Token = ""
	s.state.User = nil
	s.state.Error = ""
	s.gen++
}

// removeToken clears durable storage unless a login since gen owns it now.
func (s *Store) removeToken(ctx context.Context, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen && s.state.Token != "" {
		return
	}
	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		s.log.Warnw("session_storage_clear_failed", "err", err)
	}
}

// undoPersist removes token from durable storage if it is still the stored value.
func (s *Store) undoPersist(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token != "" {
		// a newer login persists its own token
		return
	}
	stored, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil || !ok || stored != token {
		return
	}
	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		s.log.Warnw("session_storage_clear_failed", "err", err)
	}
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}
