package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/config"
	"github.com/mauv0809/tampere-cricket/internal/database"
	server "github.com/mauv0809/tampere-cricket/internal/http"
	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/mauv0809/tampere-cricket/internal/notifier/slack"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/processor"
	"github.com/mauv0809/tampere-cricket/internal/profile"
	"github.com/mauv0809/tampere-cricket/internal/pubsub"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/rating"
	"github.com/mauv0809/tampere-cricket/internal/scheduler"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx := context.Background()
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var cache ranking.Cache = ranking.NoopCache{}
	if cfg.RedisURL != "" {
		client, err := ranking.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Leaderboard cache disabled", "error", err)
		} else {
			defer client.Close()
			cache = ranking.NewRedisCache(client, cfg.LeaderboardCacheTTL)
		}
	}

	pubsubClient, err := pubsub.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer pubsubClient.Close()

	players := player.New(db)
	statsStore := stats.New(db, rating.Default())
	rankings := ranking.NewService(ranking.New(db), cache)
	avail := availability.NewService(availability.New(db), cfg.SlotCapacity, loc)
	challengeStore := challenge.New(db)
	challenges := challenge.NewService(challengeStore, players, avail, loc)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, loc, metricsSvc)
	processor := processor.New(challenges, players, statsStore, rankings, notifier, metricsSvc, pubsubClient)
	profiles := profile.NewService(players, statsStore, rankings, challengeStore, cfg.TrendDays, loc)
	jobs := scheduler.NewJobs(statsStore, rankings, notifier, metricsSvc, cfg.RecomputeConcurrency)

	cron, err := scheduler.New(jobs, cfg.SnapshotCron, cfg.RecomputeCron, loc)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %s", err)
	}

	s := server.NewServer(server.Deps{
		DB:             db,
		Processor:      processor,
		Challenges:     challenges,
		Players:        players,
		Stats:          statsStore,
		Rankings:       rankings,
		Profiles:       profiles,
		Availability:   avail,
		Jobs:           jobs,
		Auth:           auth.New(cfg.JWTSecret, cfg.TokenTTL),
		PubSub:         pubsubClient,
		Slack:          notifier,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Location:       loc,
	})

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port, "timezone", loc.String())
		serverErrors <- srv.ListenAndServe()
	}()
	cron.Start()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
		cron.Stop(ctx)
	}

	log.Info("Server process shutting down")
}
