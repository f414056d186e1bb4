package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

func TestAddressFromPublicKey_Shape(t *testing.T) {
	priv := newKey(t)
	addr := AddressFromPublicKey(priv.Public().(ed25519.PublicKey))

	assert.True(t, strings.HasPrefix(addr, "0x"))
	assert.Len(t, addr, 2+2*addressLen)
}

func TestSignVerify(t *testing.T) {
	priv := newKey(t)
	addr := AddressFromPublicKey(priv.Public().(ed25519.PublicKey))
	msg := []byte("hello mazury")

	sig := Sign(priv, msg)
	require.NoError(t, Verify(addr, msg, sig))
	require.NoError(t, Verify(strings.ToUpper(addr[:2])+addr[2:], msg, sig), "address compare is case-insensitive")
}

func TestVerify_Failures(t *testing.T) {
	priv := newKey(t)
	other := newKey(t)
	addr := AddressFromPublicKey(priv.Public().(ed25519.PublicKey))
	msg := []byte("payload")
	sig := Sign(priv, msg)

	tests := []struct {
		name    string
		address string
		message []byte
		sig     string
		wantErr error
	}{
		{"not hex", addr, msg, "0xzz", ErrBadSignature},
		{"short", addr, msg, "0x0102", ErrBadSignature},
		{"other key", addr, msg, Sign(other, msg), ErrAddressMatch},
		{"tampered message", addr, []byte("payload!"), sig, ErrBadSignature},
		{"wrong address", AddressFromPublicKey(other.Public().(ed25519.PublicKey)), msg, sig, ErrAddressMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.address, tt.message, tt.sig)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
