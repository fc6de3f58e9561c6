// Package cli provides the doclingctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"doclingo/internal/client"
	"doclingo/internal/config"
	"doclingo/internal/discovery"
	"doclingo/internal/domain"
	"doclingo/internal/output"
	"doclingo/internal/port"
	s3storage "doclingo/internal/storage/s3"
)

// CLI holds the command tree and the flag values shared by its commands.
type CLI struct {
	log      zerolog.Logger
	stdout   io.Writer
	registry *discovery.Registry
	rootCmd  *cobra.Command

	baseURL    string
	apiKey     string
	transport  string
	serializer string

	format     string
	outputDest string
	async      bool
	ocrEngine  string
	pdfBackend string
	forceOCR   bool
}

// New creates the CLI. Commands print their results to stdout and log to log.
func New(log zerolog.Logger, stdout io.Writer, registry *discovery.Registry) *CLI {
	c := &CLI{log: log, stdout: stdout, registry: registry}

	c.rootCmd = &cobra.Command{
		Use:           "doclingctl",
		Short:         "Convert documents with a Docling Serve instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.rootCmd.SetOut(stdout)

	pf := c.rootCmd.PersistentFlags()
	pf.StringVar(&c.baseURL, "base-url", "", "Service base URL (default from DOCLING_CLIENT_BASE_URL)")
	pf.StringVar(&c.apiKey, "api-key", "", "API key sent as X-Api-Key")
	pf.StringVar(&c.transport, "transport", "", "Transport plugin name (default: first registered)")
	pf.StringVar(&c.serializer, "serializer", "", "Serializer plugin name (default: first registered)")

	c.rootCmd.AddCommand(c.convertCmd(), c.healthCmd(), c.infoCmd(), c.pluginsCmd())
	return c
}

// Command exposes the root command, mainly so tests can set arguments.
func (c *CLI) Command() *cobra.Command {
	return c.rootCmd
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

func (c *CLI) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <url>",
		Short: "Convert the document at a URL",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runConvert,
	}
	f := cmd.Flags()
	f.StringVarP(&c.format, "format", "f", "md", "Output format: md, json, html, html_split_page, text, doctags")
	f.StringVarP(&c.outputDest, "output", "o", "-", "Destination: '-' for stdout, a file path, or s3://bucket/key")
	f.BoolVar(&c.async, "async", false, "Use the asynchronous call path")
	f.StringVar(&c.ocrEngine, "ocr-engine", "", "OCR engine name")
	f.StringVar(&c.pdfBackend, "pdf-backend", "", "PDF backend name")
	f.BoolVar(&c.forceOCR, "force-ocr", false, "Force OCR on every page")
	return cmd
}

func (c *CLI) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the service is reachable and healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(func(_ *config.Config, cl *client.Client) error {
				if !cl.Health(cmd.Context()) {
					return fmt.Errorf("service at %s is unhealthy", cl.BaseURL())
				}
				_, _ = fmt.Fprintln(c.stdout, "healthy")
				return nil
			})
		},
	}
}

func (c *CLI) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the transport, serializer and base URL in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(func(_ *config.Config, cl *client.Client) error {
				_, _ = fmt.Fprintln(c.stdout, cl.Info())
				return nil
			})
		},
	}
}

func (c *CLI) pluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List registered transports and serializers in discovery order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.printPlugins(discovery.CapabilityTransport, c.registry.Transports())
			c.printPlugins(discovery.CapabilitySerializer, c.registry.Serializers())
			return nil
		},
	}
}

func (c *CLI) printPlugins(capability string, names []string) {
	_, _ = fmt.Fprintf(c.stdout, "%ss:\n", capability)
	for i, name := range names {
		marker := ""
		if i == 0 {
			marker = " (default)"
		}
		_, _ = fmt.Fprintf(c.stdout, "  %s%s\n", name, marker)
	}
}

func (c *CLI) runConvert(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseOutputFormat(strings.ToLower(c.format))
	if err != nil {
		return err
	}

	req := domain.ConversionRequest{
		Sources: []string{args[0]},
		Formats: []domain.OutputFormat{format},
	}
	if opts := c.conversionOptions(cmd); opts != nil {
		req.Options = opts
	}

	return c.withClient(func(cfg *config.Config, cl *client.Client) error {
		ctx := cmd.Context()
		c.log.Info().Str("source", args[0]).Str("format", format.WireToken()).Bool("async", c.async).Msg("converting")

		var (
			resp *domain.ConversionResponse
			err  error
		)
		if c.async {
			resp, err = cl.ConvertAsync(ctx, req).Await(ctx)
		} else {
			resp, err = cl.Convert(ctx, req)
		}
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
		for _, msg := range resp.Errors {
			c.log.Warn().Str("source", args[0]).Msg(msg)
		}
		if resp.Document == nil {
			return fmt.Errorf("conversion returned no document (status %s)", resp.Status)
		}

		w := output.NewWriter(c.stdout, func(ctx context.Context) (port.ObjectStorage, error) {
			store, err := s3storage.New(ctx, cfg.S3)
			if err != nil {
				return nil, err
			}
			return store, nil
		})
		loc, err := w.Write(ctx, c.outputDest, []byte(resp.Document.Content(format)), output.ContentType(format))
		if err != nil {
			return err
		}
		c.log.Info().
			Str("document", resp.Document.Filename).
			Float64("processing_time", resp.ProcessingTime).
			Str("location", loc).
			Msg("converted")
		return nil
	})
}

func (c *CLI) conversionOptions(cmd *cobra.Command) *domain.ConversionOptions {
	f := cmd.Flags()
	if !f.Changed("ocr-engine") && !f.Changed("pdf-backend") && !f.Changed("force-ocr") {
		return nil
	}
	opts := &domain.ConversionOptions{OCREngine: c.ocrEngine, PDFBackend: c.pdfBackend}
	if f.Changed("force-ocr") {
		force := c.forceOCR
		opts.ForceOCR = &force
	}
	return opts
}

// loadConfig reads the environment and applies flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.baseURL != "" {
		cfg.Client.BaseURL = c.baseURL
	}
	if c.apiKey != "" {
		cfg.Client.APIKey = c.apiKey
	}
	if c.transport != "" {
		cfg.Client.Transport = c.transport
	}
	if c.serializer != "" {
		cfg.Client.Serializer = c.serializer
	}
	return cfg, nil
}

func (c *CLI) withClient(fn func(*config.Config, *client.Client) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cl, err := client.FromConfig(cfg, c.registry, c.log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()
	return fn(cfg, cl)
}
