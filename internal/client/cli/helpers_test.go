package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mazury/mazury-client/internal/client/config"
	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/client/services"
	"github.com/mazury/mazury-client/internal/client/tokenstore"
	"github.com/mazury/mazury-client/internal/client/wallet"
	"github.com/mazury/mazury-client/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake session ----

type fakeSession struct {
	mu     sync.Mutex
	status services.Status
	user   *models.SessionUser

	resolveErr error
	loginErr   error
	logoutErr  error
	updateErr  error
	pingErr    error
	taken      map[string]bool

	loginCalls  int
	logoutCalls int
	pingCalls   int
	updated     []models.Profile
}

var _ sessionService = (*fakeSession)(nil)

func loggedInSession(address string) *fakeSession {
	return &fakeSession{
		status: services.StatusLoggedIn,
		user:   models.NewSessionUser(models.Profile{Address: address}),
	}
}

func (f *fakeSession) Resolve(context.Context) (services.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == "" {
		f.status = services.StatusLoggedOut
	}
	return f.status, f.resolveErr
}

func (f *fakeSession) Status() services.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSession) CurrentUser() *models.SessionUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil
	}
	u := *f.user
	return &u
}

func (f *fakeSession) Login(_ context.Context, conn wallet.Connector) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		f.status, f.user = services.StatusLoggedOut, nil
		return nil, f.loginErr
	}
	f.status = services.StatusLoggedIn
	f.user = models.NewSessionUser(models.Profile{Address: conn.Address()})
	u := *f.user
	return &u, nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.status, f.user = services.StatusLoggedOut, nil
	return f.logoutErr
}

func (f *fakeSession) UpdateProfile(_ context.Context, _ wallet.Connector, p models.Profile) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.user = models.NewSessionUser(p)
	u := *f.user
	return &u, nil
}

func (f *fakeSession) Validate(_ context.Context, field, value string) (bool, error) {
	return !f.taken[field+"="+value], nil
}

func (f *fakeSession) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

// ---- fake connector ----

type stubConnector struct{ address string }

func (c *stubConnector) ID() string      { return "stub" }
func (c *stubConnector) Address() string { return c.address }
func (c *stubConnector) SignMessage(context.Context, string) (string, error) {
	return "0xsig", nil
}

// ---- helpers ----

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(io.Writer) ([]byte, error) {
		pw := pws[i%len(pws)]
		i++
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

type testApp struct {
	*App
	out   *bytes.Buffer
	store *tokenstore.Store
}

func newTestApp(t *testing.T, sess sessionService, lines ...string) *testApp {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = dir

	store, err := tokenstore.Open(context.Background(), filepath.Join(dir, "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &testApp{
		App: &App{
			config:    cfg,
			session:   sess,
			snapshots: store,
			log:       logging.Nop(),
			reader:    readerFromLines(lines...),
			out:       out,
		},
		out:   out,
		store: store,
	}
}
