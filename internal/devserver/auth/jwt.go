// Package auth issues and verifies the development backend's HS256 tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mazury/mazury-client/internal/common"
)

// Token kinds.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims are the registered claims plus the wallet address and token kind.
type Claims struct {
	jwt.RegisteredClaims
	Address string `json:"address"`
	Kind    string `json:"kind"`
}

// Issuer signs and verifies access and refresh tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type IssuerOption func(*Issuer)

// WithClock overrides the time source for issuing and validating tokens.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration, opts ...IssuerOption) *Issuer {
	i := &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i
}

func (i *Issuer) generate(address, kind string, validity time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Address: strings.ToLower(address),
		Kind:    kind,
	})
	return token.SignedString(i.secret)
}

// Access issues an access token for address.
func (i *Issuer) Access(address string) (string, error) {
	return i.generate(address, KindAccess, i.accessTTL)
}

// Pair issues an access and a refresh token for address.
func (i *Issuer) Pair(address string) (access, refresh string, err error) {
	if access, err = i.generate(address, KindAccess, i.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = i.generate(address, KindRefresh, i.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify checks tokenString and returns the lower-cased address it was
// issued for. Expired tokens give common.ErrTokenExpired; anything else
// wrong, including a token of another kind, gives common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString, kind string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Kind != kind || claims.Address == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Address, nil
}
