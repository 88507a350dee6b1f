package main

import (
	"fmt"
	"os"

	"github.com/amanf244/mars4/internal/config"
	"github.com/amanf244/mars4/internal/gateway"
	"github.com/amanf244/mars4/internal/logger"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// Create gateway server
	srv, err := gateway.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gateway")
	}

	log.Info().Str("version", version).Msg("Starting Mars4 gateway...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Gateway failed to start")
	}
}
