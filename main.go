package main

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"aletheia/internal/alert"
	"aletheia/internal/config"
	"aletheia/internal/repository"
	"aletheia/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	log := logrus.New()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, "migrations", logger)

	// Telegram alerts for attack detections
	notifier, err := alert.NewNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram alerts, continuing without them", zap.Error(err))
		notifier = nil
	}

	// Initialize and run the server
	srv := server.NewServer(db, cfg, notifier, log, logger)
	srv.Run(cfg.Server.Port)
}
