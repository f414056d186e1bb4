package client

import (
	"context"

	"github.com/mazury/mazury-client/internal/client/models"
)

// Client is the Mazury backend API as seen by the session layer.
type Client interface {
	VerifySIWE(ctx context.Context, message, address, signature string) (models.Tokens, error)
	GetProfile(ctx context.Context, address string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, address string, body []byte, signature string) (*models.Profile, error)
	Validate(ctx context.Context, field, value string) (bool, error)
	Ping(ctx context.Context) error
}

// TokenSource is the slice of the token store the HTTP client needs.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	IsExpired(token string) bool
}
