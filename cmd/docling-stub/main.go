// Command docling-stub serves a fake conversion API for local development.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"doclingo/internal/config"
	"doclingo/internal/logging"
	"doclingo/internal/stubserver"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log, os.Stderr)

	gin.SetMode(gin.ReleaseMode)
	r := stubserver.New(stubserver.Options{APIKey: cfg.Client.APIKey, Logger: logger})

	logger.Info().Str("addr", cfg.Stub.Port).Msg("docling stub starting")
	if err := r.Run(cfg.Stub.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
