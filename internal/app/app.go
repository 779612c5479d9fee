package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webinara/webinara-backend/internal/config"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/retention"
)

// App ties together the HTTP server, the retention sweeper and the
// observability runtime for one process lifetime.
type App struct {
	Config          *config.Config
	Logger          *slog.Logger
	Server          *http.Server
	Observability   *observability.Runtime
	Sweeper         *retention.Sweeper
	ShutdownTimeout time.Duration
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, sweeper *retention.Sweeper) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		Server:          server,
		Observability:   runtime,
		Sweeper:         sweeper,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until the context ends or SIGINT/SIGTERM arrives, then drains
// in-flight requests and flushes telemetry.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.Sweeper != nil {
		g.Go(func() error {
			if err := a.Sweeper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down", "timeout", a.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := a.Observability.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("observability shutdown failed", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
