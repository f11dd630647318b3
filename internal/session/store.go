package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"mercadillo/internal/domain/entity"
	"mercadillo/internal/storage"
	"mercadillo/pkg/errors"
	"mercadillo/pkg/logger"
)

type Phase string

const (
	Anonymous     Phase = "anonymous"
	Authenticated Phase = "authenticated"
)

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type State struct {
	Phase  Phase
	User   entity.User
	Tokens TokenPair
}

// RefreshFunc exchanges a refresh token for a new token pair. Wired to the
// auth API by the application.
type RefreshFunc func(ctx context.Context, refreshToken string) (access, refresh string, err error)

// CacheClearer is satisfied by the cache store; logout clears the whole
// cached namespace so no authenticated data outlives the session.
type CacheClearer interface {
	Clear()
}

// Store holds the process-wide auth session: an explicit store with
// State/Subscribe/transition methods instead of ambient mutable state.
// Transitions persist to and clear durable local storage.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    []chan State
	local   *storage.LocalStore
	cache   CacheClearer
	refresh RefreshFunc

	// Tokens expiring within this margin are refreshed before use.
	refreshMargin time.Duration
}

func NewStore(local *storage.LocalStore, cache CacheClearer) *Store {
	return &Store{
		state:         State{Phase: Anonymous},
		local:         local,
		cache:         cache,
		refreshMargin: 30 * time.Second,
	}
}

// SetRefresher wires the token-refresh callback after the API client has
// been constructed (the client itself needs this store as token source).
func (s *Store) SetRefresher(refresh RefreshFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = refresh
}

// Load restores a persisted session at startup. Both the user descriptor
// and the token pair must be present; anything less stays anonymous.
func (s *Store) Load() error {
	var user entity.User
	var tokens TokenPair

	hasUser, err := s.local.Get(storage.KeyUser, &user)
	if err != nil {
		return err
	}
	hasTokens, err := s.local.Get(storage.KeyAuthTokens, &tokens)
	if err != nil {
		return err
	}

	if !hasUser || !hasTokens {
		return nil
	}

	s.mu.Lock()
	s.state = State{Phase: Authenticated, User: user, Tokens: tokens}
	s.mu.Unlock()
	s.publish()
	return nil
}

// Login performs the anonymous -> authenticated transition: persist the
// token pair and user descriptor, then publish the new state.
func (s *Store) Login(user entity.User, access, refresh string) error {
	tokens := TokenPair{Access: access, Refresh: refresh}
	if err := s.local.Set(storage.KeyAuthTokens, tokens); err != nil {
		return err
	}
	if err := s.local.Set(storage.KeyUser, user); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = State{Phase: Authenticated, User: user, Tokens: tokens}
	s.mu.Unlock()
	s.publish()
	return nil
}

// Logout performs the authenticated -> anonymous transition: clear every
// persisted session key, reset in-memory state and drop the entire cache
// namespace so protected resources cannot be served stale.
func (s *Store) Logout() error {
	if err := s.local.Delete(storage.KeyAuthTokens); err != nil {
		return err
	}
	if err := s.local.Delete(storage.KeyUser); err != nil {
		return err
	}
	if err := s.local.Delete(storage.KeyCart); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = State{Phase: Anonymous}
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Clear()
	}
	s.publish()
	return nil
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State().Phase == Authenticated
}

// Subscribe returns a channel receiving every state transition. Slow
// subscribers miss intermediate states rather than blocking transitions.
func (s *Store) Subscribe() <-chan State {
	ch := make(chan State, 4)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) publish() {
	s.mu.Lock()
	state := s.state
	subs := s.subs
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- state:
		default:
		}
	}
}

// AccessToken implements the API client's token source. Anonymous sessions
// yield an empty token; access tokens about to expire are refreshed first.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	state := s.state
	refresh := s.refresh
	margin := s.refreshMargin
	s.mu.Unlock()

	if state.Phase != Authenticated {
		return "", nil
	}
	if refresh == nil || !expiresWithin(state.Tokens.Access, margin) {
		return state.Tokens.Access, nil
	}

	access, refreshToken, err := refresh(ctx, state.Tokens.Refresh)
	if err != nil {
		logger.Warn("token refresh failed: %v", err)
		return "", errors.Unauthorized("session expired", err)
	}
	if refreshToken == "" {
		refreshToken = state.Tokens.Refresh
	}

	tokens := TokenPair{Access: access, Refresh: refreshToken}
	if err := s.local.Set(storage.KeyAuthTokens, tokens); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.state.Phase == Authenticated {
		s.state.Tokens = tokens
	}
	s.mu.Unlock()
	return access, nil
}

// expiresWithin reads the exp claim without verifying the signature; the
// client only schedules refreshes with it, the server stays the authority.
func expiresWithin(token string, margin time.Duration) bool {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < margin
}
