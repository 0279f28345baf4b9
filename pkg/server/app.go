package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "SalesCast/internal/domain/repository"
	xhttp "SalesCast/pkg/http"
	applogger "SalesCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	httpServer *xhttp.Server
	store      domrepo.ArtifactStore
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(httpServer *xhttp.Server, store domrepo.ArtifactStore, l *applogger.Logger) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		httpServer: httpServer,
		store:      store,
		l:          l,
	}
}

// Server returns the HTTP server.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.l.Warn("artifact store close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return firstErr
}
