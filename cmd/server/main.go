package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "campustrade-backend/internal/api/http"
	"campustrade-backend/internal/config"
	"campustrade-backend/internal/logger"
	"campustrade-backend/internal/repository/postgres"
	"campustrade-backend/internal/security"
	"campustrade-backend/internal/service"
	"campustrade-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting CampusTrade Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Deduction Engine
	feePolicy := utils.FeePolicy{
		MinimumFee:      cfg.MinimumFee(),
		MinimumFeeBasis: cfg.MinimumFeeBasis(),
	}
	engine := service.NewDeductionEngine(
		store.WalletRepository,
		store.OrderRepository,
		store.TradeRepository,
		store.ProductRepository,
		store.SettingRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
		cfg.DefaultRate(),
		feePolicy,
	)

	// Initialize Services
	walletSvc := service.NewWalletService(store.WalletRepository, store.UserRepository, emailSvc)
	tradeSvc := service.NewTradeService(
		store.TradeRepository,
		store.ProductRepository,
		store.WalletRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
		engine,
	)
	orderSvc := service.NewOrderService(store.OrderRepository, store.UserRepository, engine)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP server
	server := httpapi.NewServer(tokenManager, walletSvc, tradeSvc, orderSvc, noteSvc)
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
