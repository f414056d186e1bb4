package tokenstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return tok
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	return makeToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
}

func TestIsExpired(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "missing", token: "", want: true},
		{name: "garbage", token: "not-a-token", want: true},
		{name: "three segments but not json", token: "a.b.c", want: true},
		{name: "no exp claim", token: makeToken(t, jwt.MapClaims{"sub": "0xabc"}), want: true},
		{name: "expired", token: tokenExpiringAt(t, fixedNow.Add(-time.Minute)), want: true},
		{name: "expires exactly now", token: tokenExpiringAt(t, fixedNow), want: true},
		{name: "valid", token: tokenExpiringAt(t, fixedNow.Add(time.Minute)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsExpired(tt.token))
		})
	}
}

func TestIsExpired_IgnoresSignature(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
	}).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)

	assert.False(t, IsExpiredAt(tok, fixedNow))
}

func TestGetSetClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var v string
	found, err := s.Get(ctx, KeyAddress, &v)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Set(ctx, KeyAddress, "0xabc"))
	found, err = s.Get(ctx, KeyAddress, &v)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "0xabc", v)

	require.NoError(t, s.Clear(ctx, KeyAddress))
	addr, err := s.Address(ctx)
	require.NoError(t, err)
	require.Empty(t, addr)

	require.NoError(t, s.Clear(ctx, KeyAddress), "clearing a missing key is fine")
}

func TestTokensAndUser_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTokens(ctx, models.Tokens{Access: "A1", Refresh: "R1"}))
	require.NoError(t, s.SetAccessToken(ctx, "A2"))

	access, err := s.AccessToken(ctx)
	require.NoError(t, err)
	refresh, err := s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R1", refresh)

	u, err := s.User(ctx)
	require.NoError(t, err)
	require.Nil(t, u)

	want := models.NewSessionUser(models.Profile{Address: "0xabc", Username: "ada", ProfileType: "talent"})
	require.NoError(t, s.SetUser(ctx, want))
	got, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.SetUser(ctx, nil))
	got, err = s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClearSession_KeepsOnboardingSnapshot(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTokens(ctx, models.Tokens{Access: "A", Refresh: "R"}))
	require.NoError(t, s.SetAddress(ctx, "0xabc"))
	require.NoError(t, s.SetUser(ctx, &models.SessionUser{}))
	require.NoError(t, s.SetWalletConnector(ctx, "keystore"))
	require.NoError(t, s.SaveSnapshot(ctx, map[string]string{"active_step": "TALENT"}))

	require.NoError(t, s.ClearSession(ctx))

	for _, k := range SessionKeys {
		var raw any
		found, err := s.Get(ctx, k, &raw)
		require.NoError(t, err)
		assert.False(t, found, "key %s should be cleared", k)
	}

	var snap map[string]string
	require.NoError(t, s.LoadSnapshot(ctx, &snap))
	assert.Equal(t, "TALENT", snap["active_step"])
}

func TestSnapshot_MissingAndClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var snap map[string]any
	require.ErrorIs(t, s.LoadSnapshot(ctx, &snap), ErrNoSnapshot)

	require.NoError(t, s.SaveSnapshot(ctx, map[string]any{"a": 1}))
	require.NoError(t, s.ClearSnapshot(ctx))
	require.ErrorIs(t, s.LoadSnapshot(ctx, &snap), ErrNoSnapshot)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	s1, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s1.SetAddress(ctx, "0xabc"))
	require.NoError(t, s1.Close())

	s2, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s2.Close()

	addr, err := s2.Address(ctx)
	require.NoError(t, err)
	require.Equal(t, "0xabc", addr)
}

func TestGet_CorruptValue(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('user', 'not json')`)
	require.NoError(t, err)

	_, err = s.User(ctx)
	require.ErrorContains(t, err, "decode user")
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&n))
	require.Equal(t, 1, n)
}
