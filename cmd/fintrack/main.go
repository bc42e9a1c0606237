package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	ledgermem "fintrack/internal/ledger/memory"
	"fintrack/internal/log"
	"fintrack/internal/middleware/metrics"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

const summaryCacheSize = 1024

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	var store ledger.Store
	switch cfg.DataBackend {
	case "memory":
		store = ledgermem.New()
		logger.Info("Initialized memory backend")
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	}
	defer store.Close()

	// Optional AMQP publisher; without it, records stay pending until the
	// worker's sweep picks them up.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized",
			log.FieldExchange, cfg.AMQPExchange, log.FieldQueue, cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	cacheManager := cache.NewManager()
	summaryCache := cache.NewLRUCache[*services.SummaryView](summaryCacheSize, 5*time.Minute)
	cacheManager.Register(summaryCache)
	cacheManager.StartCleanup(time.Minute)

	dashboard := services.NewDashboardService(store, summaryCache, logger, time.Now)
	records := services.NewRecordService(store, publisher, dashboard, logger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	password := auth.NewPasswordAuthenticator(store)
	var google *auth.GoogleAuthenticator
	if cfg.OAuthEnabled() {
		google = auth.NewGoogleAuthenticator(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, store)
		logger.Info("Google sign-in enabled")
	}

	collector := metrics.NewCollector()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:              ":" + cfg.Port,
		Store:             store,
		Records:           records,
		Dashboard:         dashboard,
		Password:          password,
		Google:            google,
		JWT:               jwtManager,
		Collector:         collector,
		Logger:            logger,
		RateLimitPerMin:   cfg.RateLimitPerMinute,
		SummaryCacheOwner: cacheManager,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
