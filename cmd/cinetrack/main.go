package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinetrack/cinetrack/internal/api"
	"github.com/cinetrack/cinetrack/internal/config"
	"github.com/cinetrack/cinetrack/internal/logger"
	"github.com/cinetrack/cinetrack/internal/metadata"
	"github.com/cinetrack/cinetrack/internal/scheduler"
	"github.com/cinetrack/cinetrack/internal/scheduler/tasks"
	"github.com/cinetrack/cinetrack/internal/startup"
	"github.com/cinetrack/cinetrack/internal/watchlist"
	"github.com/cinetrack/cinetrack/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	envFile := flag.String("env-file", ".env", "Path to .env file, ignored if missing")
	flag.Parse()

	// Variables already set in the environment win over the file.
	envErr := godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Str("path", *envFile).Msg("failed to load env file")
	}

	if cfg.TMDB.APIKey == "" && config.EmbeddedTMDBKey != "" {
		cfg.TMDB.APIKey = config.EmbeddedTMDBKey
	}

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Bool("tmdbConfigured", cfg.TMDB.APIKey != "").
		Msg("starting CineTrack")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metadataService := metadata.NewService(cfg.TMDB, metadata.OptionsFromConfig(cfg.TMDB, cfg.Cache), log.Logger)
	defer metadataService.Close()

	store := watchlist.NewStore(log.Logger)

	hub := websocket.NewHub(log.Logger)
	hub.SetSnapshot(watchlist.EventSnapshot, func() interface{} { return store.Snapshot() })
	go hub.Run(ctx)
	store.SetBroadcaster(hub)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := tasks.RegisterTrendingRefreshTask(sched, metadataService, cfg.Scheduler.TrendingRefresh, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("failed to register trending refresh task")
	}

	// Startup must not block on TMDB; pages report upstream errors until it is reachable.
	go func() {
		err := startup.VerifyConnectivity(ctx, metadataService.Client(), startup.DefaultRetryConfig(), log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("TMDB unreachable, pages will report upstream errors until it recovers")
		}
	}()

	server, err := api.NewServer(cfg, api.Services{
		Metadata:  metadataService,
		Watchlist: store,
		Hub:       hub,
		Scheduler: sched,
		Logs:      log,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}

	log.Info().Msg("server stopped")
}
