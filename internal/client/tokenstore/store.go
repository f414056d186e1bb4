// Package tokenstore persists authentication tokens, the cached session user
// and the onboarding snapshot in the client's local SQLite database.
//
// Values are JSON-encoded per key. Writes are last-writer-wins; nothing here
// coordinates between processes beyond SQLite's own row semantics.
package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/client/repositories/kv"
	"github.com/mazury/mazury-client/internal/dbx"
)

// Key names a persisted value.
type Key string

const (
	KeyAccessToken     Key = "access_token"
	KeyRefreshToken    Key = "refresh_token"
	KeyAddress         Key = "address"
	KeyUser            Key = "user"
	KeyOnboarding      Key = "onboarding_snapshot"
	KeyWalletConnector Key = "wallet_connector"
)

// SessionKeys are removed together on logout. The onboarding snapshot is
// deliberately not among them.
var SessionKeys = []Key{KeyAccessToken, KeyRefreshToken, KeyAddress, KeyUser, KeyWalletConnector}

// Store is the token store.
type Store struct {
	db   *sql.DB
	repo kv.Repository
	now  func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used by IsExpired.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, repo: kv.NewSQLiteRepository(db), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open initializes the database at dsn and returns a Store over it.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("init token store: %w", err)
	}
	return New(db, opts...), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the value stored under key into dst. A missing key reports
// found=false with a nil error.
func (s *Store) Get(ctx context.Context, key Key, dst any) (bool, error) {
	raw, err := s.repo.Get(ctx, string(key))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Set(ctx, string(key), raw)
}

func (s *Store) Clear(ctx context.Context, keys ...Key) error {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	return s.repo.Delete(ctx, names...)
}

// ClearSession removes every session key in one transaction.
func (s *Store) ClearSession(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		names := make([]string, 0, len(SessionKeys))
		for _, k := range SessionKeys {
			names = append(names, string(k))
		}
		return kv.NewSQLiteRepository(tx).Delete(ctx, names...)
	})
}

// IsExpired reports whether token is unusable: empty, not a decodable JWT,
// missing an exp claim, or with exp at or before now. The signature is not
// checked; only the server can do that.
func (s *Store) IsExpired(token string) bool {
	return IsExpiredAt(token, s.now())
}

// IsExpiredAt is IsExpired against an explicit instant.
func IsExpiredAt(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(now)
}

func (s *Store) getString(ctx context.Context, key Key) (string, error) {
	var v string
	if _, err := s.Get(ctx, key, &v); err != nil {
		return "", err
	}
	return v, nil
}

// AccessToken returns the stored access token or "".
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.getString(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token or "".
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.getString(ctx, KeyRefreshToken)
}

func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	return s.Set(ctx, KeyAccessToken, token)
}

// SetTokens stores both tokens in one transaction.
func (s *Store) SetTokens(ctx context.Context, t models.Tokens) error {
	access, err := json.Marshal(t.Access)
	if err != nil {
		return err
	}
	refresh, err := json.Marshal(t.Refresh)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, string(KeyAccessToken), access); err != nil {
			return err
		}
		return repo.Set(ctx, string(KeyRefreshToken), refresh)
	})
}

// Address returns the stored identity address or "".
func (s *Store) Address(ctx context.Context) (string, error) {
	return s.getString(ctx, KeyAddress)
}

func (s *Store) SetAddress(ctx context.Context, address string) error {
	return s.Set(ctx, KeyAddress, address)
}

// User returns the cached session user, or nil when none is cached.
func (s *Store) User(ctx context.Context) (*models.SessionUser, error) {
	var u models.SessionUser
	found, err := s.Get(ctx, KeyUser, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SetUser(ctx context.Context, u *models.SessionUser) error {
	if u == nil {
		return s.Clear(ctx, KeyUser)
	}
	return s.Set(ctx, KeyUser, u)
}

// WalletConnector returns the id of the connector used at login or "".
func (s *Store) WalletConnector(ctx context.Context) (string, error) {
	return s.getString(ctx, KeyWalletConnector)
}

func (s *Store) SetWalletConnector(ctx context.Context, id string) error {
	return s.Set(ctx, KeyWalletConnector, id)
}

// ErrNoSnapshot is returned by LoadSnapshot when nothing is persisted.
var ErrNoSnapshot = errors.New("no snapshot")

// LoadSnapshot decodes the onboarding snapshot into dst.
func (s *Store) LoadSnapshot(ctx context.Context, dst any) error {
	found, err := s.Get(ctx, KeyOnboarding, dst)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoSnapshot
	}
	return nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot any) error {
	return s.Set(ctx, KeyOnboarding, snapshot)
}

func (s *Store) ClearSnapshot(ctx context.Context) error {
	return s.Clear(ctx, KeyOnboarding)
}
