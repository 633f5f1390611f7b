package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"movie-reservation/cmd"
	"movie-reservation/internal/catalog"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/scheduler"
	"movie-reservation/internal/usecase"
	"movie-reservation/internal/wire"
	"movie-reservation/pkg/database"
	"movie-reservation/pkg/event"
	"movie-reservation/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos := openRepository(ctx, config, logger)
	defer closeRepos()

	movies := newCatalog(config, logger)

	broker := event.NewBroker(logger)
	defer broker.Close()

	publishers := event.Multi{broker}
	if config.AMQP.URL != "" {
		amqpPub, err := event.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, events stay in process", zap.Error(err))
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
		}
	}

	service := usecase.NewService(repos, movies, publishers, config, logger)
	if err := service.Screening.Bootstrap(ctx); err != nil {
		logger.Error("Failed to generate initial schedule", zap.Error(err))
	}

	if delay := config.Schedule.AutoWatchDelay; delay > 0 {
		watcher := scheduler.NewAutoWatcher(service.Reservation, broker, delay, logger)
		wait := watcher.Start(ctx)
		defer wait()
		logger.Info("Auto-watch enabled", zap.Duration("delay", delay))
	}

	app := wire.Wiring(ctx, service, repos, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
	stop()
	logger.Info("Application stopped")
}

// openRepository picks the store from DB_DRIVER.
func openRepository(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.Database.Driver != "postgres" {
		logger.Info("Using in-memory store")
		return repository.NewMemoryRepository(logger), func() {}
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	return repository.NewRepository(db, logger), db.Close
}

func newCatalog(config *utils.Config, logger *zap.Logger) *catalog.Client {
	opts := []catalog.Option{
		catalog.WithHTTPClient(&http.Client{Timeout: config.Catalog.Timeout}),
		catalog.WithRateLimit(config.Catalog.RateLimit, config.Catalog.Burst),
	}

	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		opts = append(opts, catalog.WithCache(catalog.NewRedisCache(rdb, "catalog:"), config.Catalog.CacheTTL))
		logger.Info("Catalog cache enabled", zap.String("redis_addr", config.Redis.Addr))
	}

	return catalog.NewClient(config.Catalog.BaseURL, logger, opts...)
}
