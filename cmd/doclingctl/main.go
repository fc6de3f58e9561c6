// Command doclingctl converts documents through a Docling Serve instance.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"doclingo/internal/cli"
	"doclingo/internal/config"
	"doclingo/internal/discovery"
	"doclingo/internal/logging"
	_ "doclingo/internal/plugins"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log, stderr)

	app := cli.New(logger, stdout, discovery.Default())
	app.Command().SetArgs(args)
	if err := app.Execute(); err != nil {
		logger.Error().Err(err).Msg("doclingctl failed")
		return err
	}
	return nil
}
