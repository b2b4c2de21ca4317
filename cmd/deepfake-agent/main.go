package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/capture"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/config"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/logging"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)
	log.Info().Str("version", Version).Str("commit", Commit).Msg("deepfake-agent starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var service *capture.Service
	trayUI := tray.New(cfg, log, func() {
		if service != nil {
			service.Stop()
		}
	})

	service = capture.New(capture.Config{
		Config:   cfg,
		Logger:   log,
		Reporter: trayUI,
	})

	if err := service.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start capture session")
	}

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		service.Stop()
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
