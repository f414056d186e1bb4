package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mazury/mazury-client/internal/devserver/auth"
	"github.com/mazury/mazury-client/internal/devserver/config"
	"github.com/mazury/mazury-client/internal/devserver/profiles"
	"github.com/mazury/mazury-client/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	srv := NewServer(issuer, profiles.NewMemoryRepository(), c.SIWEDomain,
		WithLogger(logger),
		WithAllowedOrigins(c.AllowedOrigins...),
	)

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	hs := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting dev server", "addr", app.config.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.logger.Error(ctx, "dev server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.logger.Info(shutdownCtx, "shutting down dev server")
	return hs.Shutdown(shutdownCtx)
}
