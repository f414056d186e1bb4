// Package cryptox holds the symmetric crypto used to keep wallet keys at rest:
// an argon2id key derivation and AES-GCM sealing with a random nonce.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/mazury/mazury-client/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey (AES-256).
const KeySize = 32

// ErrDecrypt is returned when a sealed blob cannot be opened, which almost
// always means a wrong password.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches a password with argon2id into a KeySize-byte key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key and returns the ciphertext
// and the freshly generated nonce.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open reverses Seal.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, ErrDecrypt
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
