package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/common"
)

var _ Client = (*HTTPClient)(nil)

type siweVerifyRequest struct {
	Message   string `json:"message"`
	User      string `json:"user"`
	Signature string `json:"signature"`
}

// VerifySIWE submits a signed sign-in message and returns the issued tokens.
func (c *HTTPClient) VerifySIWE(ctx context.Context, message, address, signature string) (models.Tokens, error) {
	var tokens models.Tokens
	req := siweVerifyRequest{Message: message, User: address, Signature: signature}
	if err := c.Do(ctx, http.MethodPost, "/auth/siwe/verify", req, &tokens); err != nil {
		return models.Tokens{}, err
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		return models.Tokens{}, fmt.Errorf("siwe verify: %w: incomplete token pair", common.ErrAuth)
	}
	return tokens, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, address string) (*models.Profile, error) {
	var p models.Profile
	if err := c.Do(ctx, http.MethodGet, "/profile/"+url.PathEscape(address), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sends body verbatim with its wallet signature; the server
// verifies the signature over exactly these bytes.
func (c *HTTPClient) UpdateProfile(ctx context.Context, address string, body []byte, signature string) (*models.Profile, error) {
	var p models.Profile
	err := c.Do(ctx, http.MethodPatch, "/profile/"+url.PathEscape(address), body, &p,
		WithHeader(common.SignatureHeaderName, signature))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// Validate asks the backend whether value is acceptable (e.g. unused) for field.
func (c *HTTPClient) Validate(ctx context.Context, field, value string) (bool, error) {
	var resp validateResponse
	path := "/validate/" + url.PathEscape(field) + "?" + url.Values{"value": {value}}.Encode()
	if err := c.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, "/health", nil, nil)
}

// RefreshAccess exchanges a refresh token for a new access token without
// touching the token source.
func (c *HTTPClient) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	return c.refresh(ctx, refreshToken)
}
