package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blog-comment-service/internal/api"
	"github.com/blog-comment-service/internal/config"
	"github.com/blog-comment-service/internal/database"
	"github.com/blog-comment-service/internal/ratelimit"
	"github.com/blog-comment-service/internal/repository"
	"github.com/blog-comment-service/internal/sensitive"
	"github.com/blog-comment-service/internal/service"
	"github.com/blog-comment-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting blog comment service...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Rate-limit store. A failed ping is logged, not fatal: the limiter
	// fails open and the service still serves traffic.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).
				Msg("Rate-limit store unreachable, limiter will fail open")
		}
		cancel()
	}
	limiter := ratelimit.NewLimiter(rdb, cfg.Redis.Timeout, log)

	// Per-IP limiter for the outer HTTP surface
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	ipLimiter := ratelimit.NewIPLimiter(cfg.RateLimit.IPRate, cfg.RateLimit.IPBurst)
	ipLimiter.StartJanitor(janitorCtx, 5*time.Minute)

	// Sensitive-word engine, loaded eagerly so the first comment does not
	// pay the load latency.
	engine := sensitive.New(repos.Word, cfg.Filter.CacheTTL, cfg.Filter.LoadTimeout, log)
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Filter.LoadTimeout)
		if err := engine.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial sensitive-word load failed, starting with empty rule set")
		}
		cancel()
	}

	// Initialize services
	services := service.NewServices(repos, engine, limiter, cfg, log)

	// Scheduled maintenance: expired-blacklist sweep
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Moderation.BlacklistSweep, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := services.Moderation.CleanupExpiredBlacklist(ctx); err != nil {
			log.Error().Err(err).Msg("Blacklist sweep failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Moderation.BlacklistSweep).
			Msg("Invalid blacklist sweep schedule")
	}
	// Reload rules on the cache interval even when no comment traffic
	// triggers the lazy refresh.
	scheduler.Schedule(cron.Every(cfg.Filter.CacheTTL), cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Filter.LoadTimeout)
		defer cancel()
		if err := engine.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled sensitive-word reload failed")
		}
	}))
	scheduler.Start()
	log.Info().Str("spec", cfg.Moderation.BlacklistSweep).Msg("Blacklist sweep scheduled")

	// Initialize router
	router := api.NewRouter(services, ipLimiter, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Let an in-flight sweep finish before the store goes away
	<-scheduler.Stop().Done()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
