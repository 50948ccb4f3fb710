// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/golazoapp/golazo/internal/api/auth"
	"github.com/golazoapp/golazo/internal/config"
	"github.com/golazoapp/golazo/internal/db"
	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/scheduler"
	"github.com/golazoapp/golazo/internal/upstream"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	sessions, err := db.New(cfg.Sessions.Filename)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session database")
	}
	defer sessions.Close()

	auth.Init(sessions, cfg.Sessions.TTL, cfg.App.Environment)

	client := upstream.NewClient(cfg.Upstream.BaseURL,
		upstream.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
	)
	client.SetUnauthorizedHook(auth.InvalidateBearer)

	tournaments := league.NewContext(client)
	{
		// The upstream may not be up yet; pages retry lazily on demand.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		if err := tournaments.Initialize(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load tournaments at startup")
		}
		cancel()
	}

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if _, err := scheduler.AddJob("session-sweep", cfg.Sessions.SweepSchedule, func() {
		auth.SweepExpired(context.Background())
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to register session sweep")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	server := newServer(cfg, client, tournaments)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
