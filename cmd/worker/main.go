package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hewitt/pool-pilot/internal/database"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"github.com/hewitt/pool-pilot/internal/tasks"
	"github.com/hewitt/pool-pilot/pkg/config"
	"github.com/hewitt/pool-pilot/pkg/queue"
	"github.com/hewitt/pool-pilot/pkg/util"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Pool-Pilot worker")

	if err := util.ValidateCronExpr(cfg.Schedule.PrecomputeCron); err != nil {
		logger.Error("invalid SCHEDULE_PRECOMPUTE_CRON", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Redis backs the precompute cache the tick handler warms.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis cache", "error", err)
		redisClient = nil
	}

	scheduleService := schedule.NewService(db, redisClient, logger,
		schedule.TimeOfDay(cfg.Schedule.DefaultTime), cfg.Schedule.CacheTTL())

	// Asynq client for the tick handler's fan-out and the periodic enqueuer
	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Create task handler
	handler := tasks.NewHandler(db, logger, scheduleService, client)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm the cache right away, then keep ticking on the cron cadence.
	if _, err := client.Enqueue(tasks.NewTickTask(), asynq.Queue("critical")); err != nil {
		logger.Warn("failed to enqueue startup tick", "error", err)
	}
	go runTickLoop(ctx, client, cfg.Schedule.PrecomputeCron, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...",
		"precompute_cron", cfg.Schedule.PrecomputeCron)

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}

// runTickLoop enqueues a schedule tick at every cron occurrence until ctx is done.
func runTickLoop(ctx context.Context, client *asynq.Client, cronExpr string, logger *slog.Logger) {
	for {
		next, err := util.NextCronTime(cronExpr, time.Now())
		if err != nil {
			logger.Error("failed to compute next tick time", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if _, err := client.EnqueueContext(ctx, tasks.NewTickTask(), asynq.Queue("critical")); err != nil {
			logger.Error("failed to enqueue tick", "error", err)
			continue
		}
		logger.Info("enqueued schedule tick", "scheduled_for", next)
	}
}
