package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberredis "github.com/gofiber/storage/redis/v3"

	"atelier/internal/config"
	"atelier/internal/db"
	"atelier/internal/generation"
	"atelier/internal/handlers"
	"atelier/internal/jobs"
	"atelier/internal/llm"
	"atelier/internal/metrics"
	"atelier/internal/questionnaire"
	"atelier/internal/quota"
	"atelier/internal/server"
	"atelier/internal/usage"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	logger := slog.Default()

	// Model provider
	llmCfg := llm.ConfigFromEnv()
	provider, err := llm.NewProvider(ctx, llmCfg, metrics.Recorder{}, logger)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			log.Fatalf("⚠️ Aucune clé API trouvée. Configurez OPENAI_API_KEY (%v)", err)
		}
		log.Fatalf("Failed to initialize model provider: %v", err)
	}
	log.Printf("Using model %s", provider.ModelID())

	// Questionnaire, with optional overlay
	catalog := questionnaire.Default()
	if err := catalog.LoadOverlay(cfg.QuestionnaireFile); err != nil {
		log.Fatalf("Failed to load questionnaire overlay: %v", err)
	}

	checks := map[string]handlers.Check{}

	// Usage ledger
	var ledger usage.Ledger
	var archive generation.Archive
	var attempts func(context.Context) (map[string]int, error)
	if cfg.UsePostgres() {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")

		pgLedger := database.NewUsageLedger()
		ledger = pgLedger
		archive = database
		attempts = pgLedger.MaxAttemptsByUser
		checks["database"] = database.Ping

		retention := time.Duration(cfg.ArchiveRetentionDays) * 24 * time.Hour
		go jobs.NewArchivePruner(database, 6*time.Hour, retention).Start(jobsCtx)
	} else {
		csvLedger := usage.NewCSVLedger(cfg.UsageLogPath)
		ledger = csvLedger
		attempts = func(ctx context.Context) (map[string]int, error) {
			records, err := csvLedger.All(ctx)
			return usage.MaxAttempts(records), err
		}
		checks["ledger"] = func(ctx context.Context) error {
			_, err := csvLedger.All(ctx)
			return err
		}
		log.Printf("Usage ledger: %s", csvLedger.Path())
	}

	// Sessions, rate limits and quota counters share Redis when configured
	var storage fiber.Storage
	var store quota.Store
	if cfg.RedisURL != "" {
		redisStorage := fiberredis.New(fiberredis.Config{URL: cfg.RedisURL})
		defer redisStorage.Close()

		client := redisStorage.Conn()
		storage = redisStorage
		store = quota.NewRedisStore(client)
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	} else {
		log.Println("REDIS_URL not set, sessions and quotas are kept in memory")
	}

	tracker := quota.NewTracker(cfg.AttemptLimit, store)

	// Counters restart from the ledger so a restart never hands out fresh attempts
	seed, err := attempts(ctx)
	if err != nil {
		log.Fatalf("Failed to read usage ledger: %v", err)
	}
	if err := tracker.Seed(ctx, seed); err != nil {
		log.Fatalf("Failed to seed quota counters: %v", err)
	}

	metrics.Init(ledger)

	svc := generation.NewService(provider, tracker, ledger)
	svc.Logger = logger
	svc.Timeout = llmCfg.Timeout
	svc.Archive = archive

	srv := server.New(cfg, storage)
	if err := srv.RegisterRoutes(ctx, server.Dependencies{
		Service: svc,
		Catalog: catalog,
		Ledger:  ledger,
		Checks:  checks,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopJobs()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
