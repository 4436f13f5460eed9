package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bean0-0/tli-strategy-app/internal/usecase"
	pkgch "github.com/Bean0-0/tli-strategy-app/pkg/clickhouse"
	"github.com/Bean0-0/tli-strategy-app/pkg/config"
	xhttp "github.com/Bean0-0/tli-strategy-app/pkg/http"
	applogger "github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	chClient   *pkgch.Client
	watcher    *usecase.AlertWatcher
	closers    []func() error
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	watcher *usecase.AlertWatcher,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		handler:  handler,
		chClient: chClient,
		watcher:  watcher,
	}
}

// AddCloser registers a resource to be closed on shutdown.
func (a *App) AddCloser(fn func() error) { a.closers = append(a.closers, fn) }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.watcher != nil && a.cfg.Stream.Enabled {
		go func() {
			if err := a.watcher.Start(ctx); err != nil {
				a.log.Error("alert watcher error", applogger.Error(err))
			}
		}()
		a.log.Info("alert watcher started")
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.watcher != nil {
		if err := a.watcher.Shutdown(ctx); err != nil {
			a.log.Warn("alert watcher stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for _, fn := range a.closers {
		if err := fn(); err != nil {
			a.log.Warn("resource close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
