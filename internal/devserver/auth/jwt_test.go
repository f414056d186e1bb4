package auth

import (
	"testing"
	"time"

	"github.com/mazury/mazury-client/internal/client/tokenstore"
	"github.com/mazury/mazury-client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newIssuer(now *time.Time) *Issuer {
	return NewIssuer([]byte("super-secret"), time.Minute, time.Hour, WithClock(func() time.Time { return *now }))
}

func TestPairAndVerify(t *testing.T) {
	now := t0
	i := newIssuer(&now)

	access, refresh, err := i.Pair("0xABCdef")
	require.NoError(t, err)

	addr, err := i.Verify(access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef", addr)

	addr, err = i.Verify(refresh, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef", addr)
}

func TestVerify_WrongKind(t *testing.T) {
	now := t0
	i := newIssuer(&now)
	access, refresh, err := i.Pair("0xabc")
	require.NoError(t, err)

	_, err = i.Verify(refresh, KindAccess)
	require.ErrorIs(t, err, common.ErrInvalidToken)
	_, err = i.Verify(access, KindRefresh)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	now := t0
	i := newIssuer(&now)
	access, refresh, err := i.Pair("0xabc")
	require.NoError(t, err)

	now = t0.Add(2 * time.Minute)
	_, err = i.Verify(access, KindAccess)
	require.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = i.Verify(refresh, KindRefresh)
	require.NoError(t, err, "refresh token outlives the access token")
}

func TestVerify_WrongSecret(t *testing.T) {
	now := t0
	access, err := newIssuer(&now).Access("0xabc")
	require.NoError(t, err)

	other := NewIssuer([]byte("other"), time.Minute, time.Hour, WithClock(func() time.Time { return now }))
	_, err = other.Verify(access, KindAccess)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	now := t0
	_, err := newIssuer(&now).Verify("not.a.jwt", KindAccess)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAccess_ReadableByClientExpiryCheck(t *testing.T) {
	now := t0
	access, err := newIssuer(&now).Access("0xabc")
	require.NoError(t, err)

	assert.False(t, tokenstore.IsExpiredAt(access, t0))
	assert.True(t, tokenstore.IsExpiredAt(access, t0.Add(time.Minute)))
}
