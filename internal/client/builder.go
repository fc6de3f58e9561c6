package client

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"doclingo/internal/config"
	"doclingo/internal/discovery"
	"doclingo/internal/port"
	"doclingo/internal/transport/instrumented"
)

// Builder accumulates client settings. Unset transport or serializer are
// discovered from the plugin registry by Build.
type Builder struct {
	baseURL      string
	apiKey       string
	transport    port.Transport
	serializer   port.Serializer
	logger       zerolog.Logger
	registry     *discovery.Registry
	transportCfg *config.TransportConfig
}

// NewBuilder returns a Builder targeting DefaultBaseURL with a no-op logger
// and the process-wide plugin registry.
func NewBuilder() *Builder {
	return &Builder{
		baseURL:  DefaultBaseURL,
		logger:   zerolog.Nop(),
		registry: discovery.Default(),
	}
}

// BaseURL sets the service address. It is not validated; a trailing slash is
// dropped so paths join cleanly.
func (b *Builder) BaseURL(u string) *Builder {
	b.baseURL = strings.TrimRight(u, "/")
	return b
}

// APIKey sets the key sent in the X-Api-Key header. Empty sends no header.
func (b *Builder) APIKey(key string) *Builder {
	b.apiKey = key
	return b
}

func (b *Builder) Transport(t port.Transport) *Builder {
	b.transport = t
	return b
}

func (b *Builder) Serializer(s port.Serializer) *Builder {
	b.serializer = s
	return b
}

func (b *Builder) Logger(l zerolog.Logger) *Builder {
	b.logger = l
	return b
}

// Registry replaces the registry consulted for discovery.
func (b *Builder) Registry(r *discovery.Registry) *Builder {
	b.registry = r
	return b
}

// TransportConfig is passed to a discovered transport's factory.
func (b *Builder) TransportConfig(cfg *config.TransportConfig) *Builder {
	b.transportCfg = cfg
	return b
}

// Build freezes the settings into a Client. It fails with a
// *domain.ConfigError when a capability is neither set nor discoverable.
func (b *Builder) Build() (*Client, error) {
	tr := b.transport
	discovered := false
	if tr == nil {
		var err error
		tr, err = b.registry.FirstTransport(b.transportCfg)
		if err != nil {
			return nil, err
		}
		discovered = true
	}

	s := b.serializer
	if s == nil {
		var err error
		s, err = b.registry.FirstSerializer()
		if err != nil {
			if discovered {
				_ = tr.Close()
			}
			return nil, err
		}
	}

	if ev := b.logger.Debug(); ev.Enabled() {
		ev.Str("transport", tr.Name()).
			Str("serializer", s.Name()).
			Str("base_url", b.baseURL).
			Msg("docling client built")
	}

	return &Client{
		baseURL:    b.baseURL,
		apiKey:     b.apiKey,
		transport:  tr,
		serializer: s,
		logger:     b.logger,
	}, nil
}

// FromConfig builds a client from loaded configuration. Named plugins are
// created from the registry; empty names fall back to discovery. When metrics
// are enabled the transport is wrapped and its collectors registered with reg
// (prometheus.DefaultRegisterer if nil).
func FromConfig(cfg *config.Config, registry *discovery.Registry, logger zerolog.Logger, reg prometheus.Registerer) (*Client, error) {
	if registry == nil {
		registry = discovery.Default()
	}

	b := NewBuilder().
		BaseURL(cfg.Client.BaseURL).
		APIKey(cfg.Client.APIKey).
		Logger(logger).
		Registry(registry)

	var tr port.Transport
	if name := cfg.Client.Transport; name != "" {
		var err error
		tr, err = registry.NewTransport(name, &cfg.Transport)
		if err != nil {
			return nil, fmt.Errorf("selecting transport: %w", err)
		}
	} else {
		var err error
		tr, err = registry.FirstTransport(&cfg.Transport)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Metrics.Enabled {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		wrapped, err := instrumented.New(tr, reg, cfg.Metrics.Namespace)
		if err != nil {
			_ = tr.Close()
			return nil, err
		}
		tr = wrapped
	}
	b.Transport(tr)

	if name := cfg.Client.Serializer; name != "" {
		s, err := registry.NewSerializer(name)
		if err != nil {
			_ = tr.Close()
			return nil, fmt.Errorf("selecting serializer: %w", err)
		}
		b.Serializer(s)
	}

	c, err := b.Build()
	if err != nil {
		_ = tr.Close()
		return nil, err
	}
	return c, nil
}
