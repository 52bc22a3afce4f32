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

	"go-crypto-analyst/internal/analyst/config"
	delivery "go-crypto-analyst/internal/analyst/delivery/http"
	"go-crypto-analyst/internal/analyst/repository"
	"go-crypto-analyst/internal/analyst/service"
	"go-crypto-analyst/pkg/logger"
	"go-crypto-analyst/pkg/postgres"
	"go-crypto-analyst/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analyst service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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

	appLogger.Info("Starting Analyst Service", zap.String("name", cfg.App.Name))

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
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
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
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	chatRepo := repository.NewChatRepository(db.DB)
	marketRepo := repository.NewCoinGeckoRepository(cfg, appLogger)
	newsRepo := repository.NewCryptoPanicRepository(cfg, appLogger)
	fearGreedRepo := repository.NewFearGreedRepository(cfg, appLogger, redisClient)
	completionRepo := repository.NewDeepSeekRepository(cfg, appLogger)

	// Initialize services
	extractor := service.NewSymbolExtractor(marketRepo, appLogger)
	sentimentAgg := service.NewSentimentAggregator(newsRepo, fearGreedRepo, appLogger, cfg.Analyst.TopArticles)
	marketAgg := service.NewMarketDataAggregator(marketRepo, sentimentAgg, appLogger, cfg.Analyst.BranchTimeout)
	analystSvc := service.NewAnalystService(completionRepo, marketAgg, extractor, appLogger)
	chatSvc := service.NewChatService(chatRepo, analystSvc, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	chatHandler := delivery.NewChatHandler(chatSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	chatsGroup := apiV1.Group("/chats")
	chatHandler.RegisterRoutes(chatsGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "analyst-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-analyst.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyst-service CLI: %s\n", err)
		os.Exit(1)
	}
}
