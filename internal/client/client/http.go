package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mazury/mazury-client/internal/common"
	"github.com/mazury/mazury-client/internal/logging"
	"golang.org/x/sync/singleflight"
)

const refreshPath = "/auth/refresh"

// maxErrorBody caps how much of an error response is kept in HTTPError.
const maxErrorBody = 4 << 10

// HTTPClient is a JSON REST client that injects the stored bearer token and,
// when a request fails with 401 because the access token expired, refreshes
// it once and re-issues the request.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger

	// refreshGroup is nil unless single-flight refresh is enabled; without
	// it concurrent 401s each run their own refresh.
	refreshGroup *singleflight.Group
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

// WithTimeout sets the request timeout on a copy of the underlying client,
// so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		hc := *c.hc
		hc.Timeout = d
		c.hc = &hc
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithSingleFlightRefresh makes concurrent refreshes of the same refresh
// token share a single call to the refresh endpoint.
func WithSingleFlightRefresh() Option {
	return func(c *HTTPClient) { c.refreshGroup = &singleflight.Group{} }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// request is one logical call; it survives the retry so the retried flag
// and body travel with it.
type request struct {
	method  string
	path    string
	body    []byte
	header  http.Header
	noAuth  bool
	retried bool
}

type RequestOption func(*request)

func WithHeader(key, value string) RequestOption {
	return func(r *request) { r.header.Set(key, value) }
}

// WithAuthorization sets an explicit Authorization header; the stored token
// is then not injected.
func WithAuthorization(value string) RequestOption {
	return WithHeader(common.AuthorizationHeaderName, value)
}

// Do sends in as the JSON body (a []byte is sent verbatim) and decodes the
// response into out when out is non-nil.
func (c *HTTPClient) Do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	req := &request{method: method, path: path, header: http.Header{}}
	switch v := in.(type) {
	case nil:
	case []byte:
		req.body = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.body = b
	}
	for _, o := range opts {
		o(req)
	}

	data, err := c.send(ctx, req)
	if err != nil {
		data, err = c.retryUnauthorized(ctx, req, err)
		if err != nil {
			return err
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// authorize is the request interceptor.
func (c *HTTPClient) authorize(ctx context.Context, req *request, h http.Header) {
	if req.noAuth || h.Get(common.AuthorizationHeaderName) != "" {
		return
	}
	access, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.log.Warn(ctx, "read access token", "error", err)
		return
	}
	if access != "" {
		h.Set(common.AuthorizationHeaderName, common.BearerPrefix+access)
	}
}

// retryUnauthorized is the response interceptor for the error path. It
// returns the original error unless the failure is a first 401 with an
// expired access token and a refresh token on hand.
func (c *HTTPClient) retryUnauthorized(ctx context.Context, req *request, origErr error) ([]byte, error) {
	var httpErr *HTTPError
	if !errors.As(origErr, &httpErr) || httpErr.Status != http.StatusUnauthorized || req.retried {
		return nil, origErr
	}

	access, err := c.tokens.AccessToken(ctx)
	if err != nil || !c.tokens.IsExpired(access) {
		return nil, origErr
	}

	refresh, err := c.tokens.RefreshToken(ctx)
	if err != nil || refresh == "" {
		return nil, origErr
	}

	newAccess, err := c.refresh(ctx, refresh)
	if err != nil {
		return nil, err
	}

	req.retried = true
	if err := c.tokens.SetAccessToken(ctx, newAccess); err != nil {
		return nil, fmt.Errorf("store refreshed access token: %w", err)
	}
	req.header.Set(common.AuthorizationHeaderName, common.BearerPrefix+newAccess)

	c.log.Debug(ctx, "retrying with refreshed access token", "method", req.method, "path", req.path)
	return c.send(ctx, req)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// refresh exchanges the refresh token for a new access token. Failures are
// reported as ErrAuth while keeping the underlying cause in the chain.
func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (string, error) {
	exchange := func() (any, error) {
		body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
		if err != nil {
			return "", err
		}
		data, err := c.send(ctx, &request{method: http.MethodPost, path: refreshPath, body: body, header: http.Header{}, noAuth: true})
		if err != nil {
			return "", err
		}
		var resp refreshResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("decode refresh response: %w", err)
		}
		if resp.Access == "" {
			return "", errors.New("empty access token in refresh response")
		}
		c.log.Info(ctx, "access token refreshed")
		return resp.Access, nil
	}

	var (
		v   any
		err error
	)
	if c.refreshGroup != nil {
		v, err, _ = c.refreshGroup.Do(refreshToken, exchange)
	} else {
		v, err = exchange()
	}
	if err != nil {
		return "", fmt.Errorf("%w: refresh access token: %w", common.ErrAuth, err)
	}
	return v.(string), nil
}

// send performs one HTTP round trip.
func (c *HTTPClient) send(ctx context.Context, req *request) ([]byte, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	c.authorize(ctx, req, httpReq.Header)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.method, req.path, common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %w", req.method, req.path, common.ErrNetwork, err)
	}

	c.log.Debug(ctx, "http request", "method", req.method, "path", req.path, "status", resp.StatusCode, "retried", req.retried)

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{
			Method:  req.method,
			Path:    req.path,
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}
	return data, nil
}

// errorMessage extracts {"error": "..."} from a response body, falling back
// to the (truncated) raw text.
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	if len(data) > maxErrorBody {
		data = data[:maxErrorBody]
	}
	return strings.TrimSpace(string(data))
}
