package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay-server/internal/config"
	"github.com/vovakirdan/roomrelay-server/internal/core"
	"github.com/vovakirdan/roomrelay-server/internal/emotes"
	"github.com/vovakirdan/roomrelay-server/internal/moderation"
	transporthttp "github.com/vovakirdan/roomrelay-server/internal/transport/http"
	"github.com/vovakirdan/roomrelay-server/internal/validate"
)

// App wires together the core relay and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	catalog         *emotes.Catalog
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	denylist, err := moderation.New(cfg.Denylist)
	if err != nil {
		return nil, fmt.Errorf("build denylist: %w", err)
	}

	catalog := emotes.New(cfg.EmoteCatalogURL, cfg.EmoteCacheTTL, logger)
	validator := validate.New(validate.DefaultLimits(), denylist)
	hub := core.NewHub(validator, cfg.HubOptions(), logger)
	server := transporthttp.NewServer(hub, catalog.Has, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		catalog:         catalog,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)
	go a.catalog.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
