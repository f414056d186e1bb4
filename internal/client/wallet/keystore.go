package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mazury/mazury-client/internal/common"
	"github.com/mazury/mazury-client/internal/cryptox"
)

const keystoreVersion = 1

// ErrKeystoreExists is returned by CreateKeystore when the file is present.
var ErrKeystoreExists = errors.New("keystore already exists")

// keystoreFile is the on-disk JSON layout. The ed25519 seed is sealed with
// a key derived from the user's password.
type keystoreFile struct {
	Version    int    `json:"version"`
	Address    string `json:"address"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// KeystoreConnector signs with an ed25519 key unlocked from a keystore file.
type KeystoreConnector struct {
	path    string
	address string
	priv    ed25519.PrivateKey
}

var _ Connector = (*KeystoreConnector)(nil)

// CreateKeystore generates a new key, seals it under password and writes it
// to path with owner-only permissions.
func CreateKeystore(path string, password []byte) (*KeystoreConnector, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, ErrKeystoreExists
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	salt := common.GenerateRandByteArray(16)
	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	ct, nonce, err := cryptox.Seal(priv.Seed(), key)
	if err != nil {
		return nil, fmt.Errorf("seal key: %w", err)
	}

	kf := keystoreFile{
		Version:    keystoreVersion,
		Address:    AddressFromPublicKey(pub),
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ct,
	}
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("keystore dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write keystore: %w", err)
	}

	return &KeystoreConnector{path: path, address: kf.Address, priv: priv}, nil
}

// UnlockKeystore reads the keystore at path and decrypts its key with
// password. A wrong password yields cryptox.ErrDecrypt.
func UnlockKeystore(path string, password []byte) (*KeystoreConnector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", kf.Version)
	}

	key := cryptox.DeriveKey(password, kf.Salt)
	defer common.WipeByteArray(key)

	seed, err := cryptox.Open(kf.Ciphertext, kf.Nonce, key)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(seed)
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("corrupt keystore seed")
	}

	priv := ed25519.NewKeyFromSeed(seed)
	address := AddressFromPublicKey(priv.Public().(ed25519.PublicKey))
	if address != kf.Address {
		return nil, fmt.Errorf("keystore address mismatch")
	}
	return &KeystoreConnector{path: path, address: address, priv: priv}, nil
}

// KeystoreAddress returns the address recorded in the keystore at path
// without unlocking it.
func KeystoreAddress(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return "", fmt.Errorf("parse keystore: %w", err)
	}
	return kf.Address, nil
}

func (k *KeystoreConnector) ID() string {
	return "keystore:" + k.path
}

func (k *KeystoreConnector) Address() string {
	return k.address
}

func (k *KeystoreConnector) SignMessage(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Sign(k.priv, []byte(message)), nil
}
