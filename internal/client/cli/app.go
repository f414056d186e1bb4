package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mazury/mazury-client/internal/client/client"
	"github.com/mazury/mazury-client/internal/client/config"
	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/client/onboarding"
	"github.com/mazury/mazury-client/internal/client/services"
	"github.com/mazury/mazury-client/internal/client/tokenstore"
	"github.com/mazury/mazury-client/internal/client/wallet"
	"github.com/mazury/mazury-client/internal/filex"
	"github.com/mazury/mazury-client/internal/logging"
)

// Mode is the backend reachability shown in the prompt.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionService is the part of services.Session the CLI drives.
type sessionService interface {
	Resolve(ctx context.Context) (services.Status, error)
	Status() services.Status
	CurrentUser() *models.SessionUser
	Login(ctx context.Context, conn wallet.Connector) (*models.SessionUser, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, conn wallet.Connector, profile models.Profile) (*models.SessionUser, error)
	Validate(ctx context.Context, field, value string) (bool, error)
	Ping(ctx context.Context) error
}

var _ sessionService = (*services.Session)(nil)

type App struct {
	config    *config.Config
	session   sessionService
	snapshots onboarding.SnapshotStore
	closer    io.Closer
	log       logging.Logger

	connector wallet.Connector
	reader    *bufio.Reader
	out       io.Writer

	// mode is written by the reachability watcher and read by the REPL.
	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the local store under the configured data directory and
// wires the HTTP client and session service on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	c.DataDir = dataDir

	if c.Keystore, err = filex.ExpandHome(c.Keystore); err != nil {
		return nil, err
	}

	store, err := tokenstore.Open(ctx, c.DatabasePath())
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	opts := []client.Option{client.WithTimeout(c.RequestTimeout), client.WithLogger(log)}
	if c.SingleFlightRefresh {
		opts = append(opts, client.WithSingleFlightRefresh())
	}
	api := client.NewHTTPClient(c.APIURL, store, opts...)

	sess := services.NewSession(api, store,
		services.WithLogger(log),
		services.WithSIWE(services.SIWEConfig{Domain: c.SIWEDomain, URI: c.SIWEURI, ChainID: c.ChainID}),
	)

	return &App{
		config:    c,
		session:   sess,
		snapshots: store,
		closer:    store,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Mode returns the last observed backend reachability.
func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "backend reachability changed", "mode", mode)
	}
}

// Run starts the REPL and releases the local store when it returns.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closer != nil {
			_ = a.closer.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Status() == services.StatusLoggedIn
}

// StartOnlineStatusWatcher pings the backend every interval and updates Mode
// until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.session.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
