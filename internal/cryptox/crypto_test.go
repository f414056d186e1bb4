package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey([]byte("pw"), salt)
	k2 := DeriveKey([]byte("pw"), salt)

	require.Len(t, k1, KeySize)
	require.Equal(t, k1, k2)
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	salt := []byte("0123456789abcdef")
	base := DeriveKey([]byte("pw"), salt)

	require.NotEqual(t, base, DeriveKey([]byte("pw2"), salt))
	require.NotEqual(t, base, DeriveKey([]byte("pw"), []byte("fedcba9876543210")))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt-salt-salt-s"))
	secret := []byte("ed25519 seed material")

	ct, nonce, err := Seal(secret, key)
	require.NoError(t, err)
	require.False(t, bytes.Contains(ct, secret))

	got, err := Open(ct, nonce, key)
	require.NoError(t, err)
	require.Equal(t, secret, got)
}

func TestOpen_WrongKey(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	ct, nonce, err := Seal([]byte("x"), key)
	require.NoError(t, err)

	_, err = Open(ct, nonce, DeriveKey([]byte("other"), []byte("salt")))
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestOpen_BadNonceAndKey(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	ct, _, err := Seal([]byte("x"), key)
	require.NoError(t, err)

	_, err = Open(ct, []byte{1, 2, 3}, key)
	require.ErrorIs(t, err, ErrDecrypt)

	_, _, err = Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}
