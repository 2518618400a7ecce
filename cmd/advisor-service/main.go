package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-options-advisor/internal/advisor/config"
	delivery "go-options-advisor/internal/advisor/delivery/http"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/advisor/service"
	"go-options-advisor/pkg/logger"
	"go-options-advisor/pkg/postgres"
	"go-options-advisor/pkg/redis"
	"go-options-advisor/pkg/telegram"

	"google.golang.org/genai"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the options advisor service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Options Advisor Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.DB)
	watchlistRepo := repository.NewWatchlistRepository(db.DB)
	recommendationRepo := repository.NewRecommendationRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)

	marketDataRepo, err := repository.NewMarketDataRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize market data repository", logger.ErrorField(err))
	}

	// Initialize reasoning provider
	var reasoningRepo repository.ReasoningRepository
	if cfg.Reasoning.Enabled {
		switch cfg.Reasoning.Provider {
		case "gemini":
			genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
				APIKey: cfg.Gemini.APIKey,
			})
			if err != nil {
				appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
			}
			repo, err := repository.NewGeminiReasoningRepository(cfg, appLogger, genAiClient)
			if err != nil {
				appLogger.Fatal("Failed to initialize Gemini reasoning repository", logger.ErrorField(err))
			}
			reasoningRepo = repo
		case "grok":
			reasoningRepo = repository.NewGrokReasoningRepository(cfg, appLogger)
		default:
			appLogger.Fatal("Invalid reasoning provider specified in config",
				logger.StringField("provider", cfg.Reasoning.Provider))
		}
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	escalator := service.NewEscalator(cfg, appLogger, reasoningRepo)
	store := service.NewRecommendationStore(appLogger, recommendationRepo, alertRepo, redisClient)
	scanSvc := service.NewScanService(cfg, appLogger, accountRepo, watchlistRepo, marketDataRepo, escalator, store)
	alertSvc := service.NewAlertService(appLogger, alertRepo)

	// Start scheduled scans
	scanRunner := service.NewScheduledScanRunner(cfg, appLogger, scanSvc, notifier)
	if err := scanRunner.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduled scans", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	apiV1 := e.Group("/api/v1")

	scanHandler := delivery.NewScanHandler(scanSvc, appLogger)
	scansGroup := apiV1.Group("/scans")
	scanHandler.RegisterRoutes(scansGroup)

	alertHandler := delivery.NewAlertHandler(alertSvc, appLogger)
	alertsGroup := apiV1.Group("/alerts")
	alertHandler.RegisterRoutes(alertsGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "advisor-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
