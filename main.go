package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/tickerd/internal/api"
	"github.com/jonesrussell/tickerd/internal/config"
	"github.com/jonesrussell/tickerd/internal/database"
	"github.com/jonesrussell/tickerd/internal/dedup"
	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/metrics"
	"github.com/jonesrussell/tickerd/internal/redis"
	"github.com/jonesrussell/tickerd/internal/ticker"
	"github.com/jonesrussell/tickerd/internal/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = database.Close(db) }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies the database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sqlx.DB) int {
	content := database.NewContentRepository(db)

	engine, err := ticker.NewEngine(ticker.Options{
		Content:         content,
		Weather:         database.NewWeatherRepository(db),
		Elections:       database.NewElectionRepository(db),
		Closings:        database.NewClosingsRepository(db),
		DefaultTimezone: cfg.Ticker.DefaultTimezone,
		ImageCachePath:  cfg.Ticker.ImageCachePath,
		Logger:          log,
	})
	if err != nil {
		log.Error("Failed to create feed engine", logger.Error(err))
		return 1
	}

	// Redis only backs render statistics; the feed keeps serving without it.
	var tracker metrics.RenderTracker
	redisClient, err := redis.NewClient(cfg.Redis.URL)
	if err != nil {
		log.Warn("Redis unavailable, render statistics disabled", logger.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		tracker = metrics.NewTracker(redisClient, log)
	}

	if cfg.Ticker.ImageCachePath != "" && len(cfg.Ticker.PrefetchChannels) > 0 {
		var fetched *dedup.Tracker
		if redisClient != nil {
			fetched = dedup.NewTracker(redisClient, dedup.DefaultFetchedTTL, log)
		}
		prefetch := worker.NewPrefetchWorker(engine, fetched, worker.PrefetchConfig{
			CachePath:     cfg.Ticker.ImageCachePath,
			Channels:      cfg.Ticker.PrefetchChannels,
			SweepInterval: cfg.Ticker.PrefetchInterval,
		}, log)
		prefetch.Start(context.Background())
		defer prefetch.Stop()
	}

	feedMetrics := metrics.NewFeedMetrics(nil)

	router := api.NewRouter(engine, tracker, feedMetrics, content, redisClient, cfg.Service.Version, log)
	server := api.NewServer(cfg.Service.Port, cfg.Service.Debug, log, router.SetupRoutes)

	log.Info("Tickerd starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("default_timezone", cfg.Ticker.DefaultTimezone),
	)

	if err := server.RunWithGracefulShutdown(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Tickerd exited cleanly")
	return 0
}
