// Package services contains application services for the Mazury client.
// This file defines the session service: resolving a persisted session,
// signature-based login, logout and signed profile updates.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mazury/mazury-client/internal/client/client"
	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/client/wallet"
	"github.com/mazury/mazury-client/internal/common"
	"github.com/mazury/mazury-client/internal/logging"
)

// Status is the session state as seen by the front end.
type Status string

const (
	StatusLoading   Status = "loading"
	StatusLoggedIn  Status = "logged_in"
	StatusLoggedOut Status = "logged_out"
)

// ErrNotLoggedIn is returned by operations that need an established session.
var ErrNotLoggedIn = fmt.Errorf("%w: not logged in", common.ErrAuth)

// SessionStore is the part of the token store the session owns.
type SessionStore interface {
	Address(ctx context.Context) (string, error)
	SetAddress(ctx context.Context, address string) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, t models.Tokens) error
	IsExpired(token string) bool
	User(ctx context.Context) (*models.SessionUser, error)
	SetUser(ctx context.Context, u *models.SessionUser) error
	SetWalletConnector(ctx context.Context, id string) error
	ClearSession(ctx context.Context) error
}

// SIWEConfig describes the relying party placed in sign-in messages.
type SIWEConfig struct {
	Domain  string
	URI     string
	ChainID int
}

// Session resolves and owns the authenticated identity.
//
// State is guarded by mu; network calls run without holding it and their
// results are applied afterwards, so overlapping calls are last-write-wins.
type Session struct {
	api   client.Client
	store SessionStore
	log   logging.Logger
	siwe  SIWEConfig
	now   func() time.Time

	mu     sync.Mutex
	status Status
	user   *models.SessionUser
}

type SessionOption func(*Session)

func WithLogger(l logging.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

func WithSIWE(cfg SIWEConfig) SessionOption {
	return func(s *Session) { s.siwe = cfg }
}

// WithClock overrides the time stamped into sign-in messages.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession returns a Session in the loading state.
func NewSession(api client.Client, store SessionStore, opts ...SessionOption) *Session {
	s := &Session{
		api:    api,
		store:  store,
		log:    logging.Nop(),
		siwe:   SIWEConfig{Domain: "localhost", URI: "http://localhost", ChainID: 1},
		now:    time.Now,
		status: StatusLoading,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentUser returns a copy of the cached user, or nil when logged out.
func (s *Session) CurrentUser() *models.SessionUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) set(status Status, user *models.SessionUser) {
	s.mu.Lock()
	s.status = status
	s.user = user
	s.mu.Unlock()
}

// Resolve decides the session status from what is persisted locally,
// contacting the backend only when the cache cannot answer.
func (s *Session) Resolve(ctx context.Context) (Status, error) {
	address, err := s.store.Address(ctx)
	if err != nil {
		s.set(StatusLoggedOut, nil)
		return StatusLoggedOut, fmt.Errorf("read address: %w", err)
	}
	if address == "" {
		s.set(StatusLoggedOut, nil)
		return StatusLoggedOut, nil
	}

	access, err := s.store.AccessToken(ctx)
	if err != nil {
		s.set(StatusLoggedOut, nil)
		return StatusLoggedOut, fmt.Errorf("read access token: %w", err)
	}
	refresh, err := s.store.RefreshToken(ctx)
	if err != nil {
		s.set(StatusLoggedOut, nil)
		return StatusLoggedOut, fmt.Errorf("read refresh token: %w", err)
	}
	accessExpired := s.store.IsExpired(access)
	if accessExpired && s.store.IsExpired(refresh) {
		s.log.Info(ctx, "stored tokens expired", "address", address)
		s.set(StatusLoggedOut, nil)
		return StatusLoggedOut, nil
	}

	cached, err := s.store.User(ctx)
	if err != nil {
		s.log.Warn(ctx, "cached user unreadable", "error", err)
		cached = nil
	}
	if !accessExpired && cached != nil {
		s.set(StatusLoggedIn, cached)
		return StatusLoggedIn, nil
	}

	profile, err := s.api.GetProfile(ctx, address)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAuth):
			s.log.Info(ctx, "session rejected by backend", "address", address, "error", err)
			if cerr := s.store.ClearSession(ctx); cerr != nil {
				s.log.Error(ctx, "clear session", "error", cerr)
			}
			s.set(StatusLoggedOut, nil)
			return StatusLoggedOut, nil
		case errors.Is(err, common.ErrNetwork) && cached != nil:
			s.log.Warn(ctx, "backend unreachable, using cached user", "error", err)
			s.set(StatusLoggedIn, cached)
			return StatusLoggedIn, nil
		default:
			s.set(StatusLoggedOut, nil)
			return StatusLoggedOut, fmt.Errorf("fetch profile: %w", err)
		}
	}

	user := models.NewSessionUser(*profile)
	if err := s.store.SetUser(ctx, user); err != nil {
		s.log.Warn(ctx, "cache user", "error", err)
	}
	s.set(StatusLoggedIn, user)
	return StatusLoggedIn, nil
}

// Login proves control of the connector's address with a signed sign-in
// message, stores the issued tokens and loads the profile. On any failure
// everything stored so far is removed and the session is logged out.
func (s *Session) Login(ctx context.Context, conn wallet.Connector) (*models.SessionUser, error) {
	user, err := s.login(ctx, conn)
	if err != nil {
		if cerr := s.store.ClearSession(ctx); cerr != nil {
			s.log.Error(ctx, "rollback login", "error", cerr)
		}
		s.set(StatusLoggedOut, nil)
		return nil, err
	}
	s.set(StatusLoggedIn, user)
	s.log.Info(ctx, "logged in", "address", user.Address, "onboarded", user.Onboarded)

	u := *user
	return &u, nil
}

func (s *Session) login(ctx context.Context, conn wallet.Connector) (*models.SessionUser, error) {
	address := conn.Address()
	msg := wallet.NewSIWEMessage(s.siwe.Domain, s.siwe.URI, address, s.siwe.ChainID, s.now()).String()

	sig, err := conn.SignMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("sign in message: %w", err)
	}

	tokens, err := s.api.VerifySIWE(ctx, msg, address, sig)
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}

	if err := s.store.SetTokens(ctx, tokens); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}
	if err := s.store.SetAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("store address: %w", err)
	}
	if err := s.store.SetWalletConnector(ctx, conn.ID()); err != nil {
		return nil, fmt.Errorf("store connector: %w", err)
	}

	profile, err := s.api.GetProfile(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	user := models.NewSessionUser(*profile)
	if err := s.store.SetUser(ctx, user); err != nil {
		return nil, fmt.Errorf("cache user: %w", err)
	}
	return user, nil
}

// Logout removes every session key, including the connector cache. The
// onboarding snapshot survives.
func (s *Session) Logout(ctx context.Context) error {
	s.set(StatusLoggedOut, nil)
	if err := s.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdateProfile signs the serialized profile with conn and sends it. The
// cached user is replaced with the backend's response.
func (s *Session) UpdateProfile(ctx context.Context, conn wallet.Connector, profile models.Profile) (*models.SessionUser, error) {
	cur := s.CurrentUser()
	if cur == nil {
		return nil, ErrNotLoggedIn
	}
	if !strings.EqualFold(conn.Address(), cur.Address) {
		return nil, fmt.Errorf("%w: connector address %s does not own profile %s", common.ErrAuth, conn.Address(), cur.Address)
	}
	profile.Address = cur.Address

	body, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	sig, err := conn.SignMessage(ctx, string(body))
	if err != nil {
		return nil, fmt.Errorf("sign profile: %w", err)
	}

	updated, err := s.api.UpdateProfile(ctx, cur.Address, body, sig)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user := models.NewSessionUser(*updated)
	if err := s.store.SetUser(ctx, user); err != nil {
		s.log.Warn(ctx, "cache user", "error", err)
	}
	s.set(StatusLoggedIn, user)

	u := *user
	return &u, nil
}

// Validate proxies a uniqueness/validity check for a profile field.
func (s *Session) Validate(ctx context.Context, field, value string) (bool, error) {
	return s.api.Validate(ctx, field, value)
}

// Ping checks that the backend is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}
