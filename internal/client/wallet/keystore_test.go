package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mazury/mazury-client/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystore_CreateUnlockSign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "wallet.json")
	pw := []byte("correct horse")

	created, err := CreateKeystore(path, pw)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	addr, err := KeystoreAddress(path)
	require.NoError(t, err)
	assert.Equal(t, created.Address(), addr)

	unlocked, err := UnlockKeystore(path, pw)
	require.NoError(t, err)
	assert.Equal(t, created.Address(), unlocked.Address())
	assert.Equal(t, "keystore:"+path, unlocked.ID())

	sig, err := unlocked.SignMessage(context.Background(), "sign me")
	require.NoError(t, err)
	require.NoError(t, Verify(created.Address(), []byte("sign me"), sig))
}

func TestKeystore_WrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	_, err := CreateKeystore(path, []byte("pw"))
	require.NoError(t, err)

	_, err = UnlockKeystore(path, []byte("nope"))
	require.ErrorIs(t, err, cryptox.ErrDecrypt)
}

func TestKeystore_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	_, err := CreateKeystore(path, []byte("pw"))
	require.NoError(t, err)

	_, err = CreateKeystore(path, []byte("pw"))
	require.ErrorIs(t, err, ErrKeystoreExists)
}

func TestKeystore_Missing(t *testing.T) {
	_, err := UnlockKeystore(filepath.Join(t.TempDir(), "absent.json"), []byte("pw"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestKeystore_SignHonorsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	k, err := CreateKeystore(path, []byte("pw"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = k.SignMessage(ctx, "msg")
	require.ErrorIs(t, err, context.Canceled)
}
