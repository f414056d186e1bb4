// Package wallet provides the signer the session layer uses to prove control
// of an address. The session code only sees the Connector interface; the
// keystore implementation here is a development stand-in for a real wallet.
//
// Addresses and signatures follow an Ethereum-like shape over ed25519:
//
//	address   = "0x" + hex(last 20 bytes of sha256(public key))
//	signature = "0x" + hex(public key || ed25519 signature)
//
// so a verifier can recover the public key from the signature and check it
// against the claimed address.
package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Connector is an opaque signing capability bound to one address.
type Connector interface {
	// ID identifies the connector for the persisted connector cache.
	ID() string
	Address() string
	SignMessage(ctx context.Context, message string) (string, error)
}

var (
	ErrBadSignature = errors.New("bad signature")
	ErrAddressMatch = errors.New("signature does not match address")
)

const addressLen = 20

// AddressFromPublicKey derives the account address of pub.
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return "0x" + hex.EncodeToString(sum[len(sum)-addressLen:])
}

// Sign signs message with priv in the wire format described in the package doc.
func Sign(priv ed25519.PrivateKey, message []byte) string {
	pub := priv.Public().(ed25519.PublicKey)
	sig := ed25519.Sign(priv, message)
	return "0x" + hex.EncodeToString(append(append([]byte{}, pub...), sig...))
}

// Verify checks that signature is a valid signature of message made by the
// key behind address.
func Verify(address string, message []byte, signature string) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(raw) != ed25519.PublicKeySize+ed25519.SignatureSize {
		return ErrBadSignature
	}
	pub := ed25519.PublicKey(raw[:ed25519.PublicKeySize])
	if !strings.EqualFold(AddressFromPublicKey(pub), address) {
		return ErrAddressMatch
	}
	if !ed25519.Verify(pub, message, raw[ed25519.PublicKeySize:]) {
		return fmt.Errorf("%w: verification failed", ErrBadSignature)
	}
	return nil
}
