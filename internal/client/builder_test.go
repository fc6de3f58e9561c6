package client_test

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclingo/internal/client"
	"doclingo/internal/codec/stdjson"
	"doclingo/internal/config"
	"doclingo/internal/discovery"
	"doclingo/internal/domain"
	"doclingo/internal/plugins"
	"doclingo/internal/port"
	"doclingo/mocks"
)

func TestBuild_NoImplementationsFails(t *testing.T) {
	c, err := client.NewBuilder().Registry(discovery.New()).Build()

	assert.Nil(t, c)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "transport", cfgErr.Capability)
	assert.Contains(t, err.Error(), "no transport implementation available")
}

func TestBuild_MissingSerializerClosesDiscoveredTransport(t *testing.T) {
	tr := &mocks.MockTransport{}
	tr.On("Close").Return(nil).Once()
	r := discovery.New()
	r.RegisterTransport("stub", func(*config.TransportConfig) (port.Transport, error) { return tr, nil })

	c, err := client.NewBuilder().Registry(r).Build()

	assert.Nil(t, c)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "serializer", cfgErr.Capability)
	tr.AssertExpectations(t)
}

func TestBuild_ExplicitTransportWithoutSerializer(t *testing.T) {
	tr := &mocks.MockTransport{}

	_, err := client.NewBuilder().Registry(discovery.New()).Transport(tr).Build()

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "serializer", cfgErr.Capability)
	tr.AssertNotCalled(t, "Close")
}

func TestBuild_DiscoversOneOfEach(t *testing.T) {
	r := discovery.New()
	r.RegisterTransport("stub-transport", func(*config.TransportConfig) (port.Transport, error) {
		tr := &mocks.MockTransport{}
		tr.On("Name").Return("stub-transport")
		return tr, nil
	})
	r.RegisterSerializer("stub-serializer", func() (port.Serializer, error) {
		s := &mocks.MockSerializer{}
		s.On("Name").Return("stub-serializer")
		return s, nil
	})

	c, err := client.NewBuilder().Registry(r).BaseURL("http://docling:9000/").Build()

	require.NoError(t, err)
	info := c.Info()
	assert.Contains(t, info, "stub-transport")
	assert.Contains(t, info, "stub-serializer")
	assert.Contains(t, info, "http://docling:9000")
	assert.Equal(t, "http://docling:9000", c.BaseURL())
}

func TestBuild_DefaultBaseURL(t *testing.T) {
	c, err := client.NewBuilder().Transport(&mocks.MockTransport{}).Serializer(stdjson.New()).Build()

	require.NoError(t, err)
	assert.Equal(t, client.DefaultBaseURL, c.BaseURL())
}

func TestBuild_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	tr := &mocks.MockTransport{}
	tr.On("Name").Return("stub")

	_, err := client.NewBuilder().
		Transport(tr).
		Serializer(stdjson.New()).
		Logger(zerolog.New(&buf).Level(zerolog.DebugLevel)).
		Build()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"transport":"stub"`)
	assert.Contains(t, buf.String(), `"serializer":"encoding/json"`)
}

func bundledRegistry() *discovery.Registry {
	r := discovery.New()
	plugins.Register(r)
	return r
}

func TestFromConfig_DiscoveryDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	c, err := client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), nil)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "DoclingClient[transport=net/http, serializer=encoding/json, baseUrl=http://localhost:5001]", c.Info())
}

func TestFromConfig_NamedPlugins(t *testing.T) {
	cfg := &config.Config{
		Client:    config.ClientConfig{BaseURL: "https://docling.example", Transport: "http3", Serializer: "sonic"},
		Transport: *config.DefaultTransportConfig(),
	}

	c, err := client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), nil)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "DoclingClient[transport=http3, serializer=sonic, baseUrl=https://docling.example]", c.Info())
}

func TestFromConfig_UnknownPlugin(t *testing.T) {
	cfg := &config.Config{Client: config.ClientConfig{Transport: "carrier-pigeon"}}

	_, err := client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownPlugin)

	cfg = &config.Config{Client: config.ClientConfig{Serializer: "xml"}}
	_, err = client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownPlugin)
}

func TestFromConfig_MetricsWrapTransport(t *testing.T) {
	cfg := &config.Config{
		Client:  config.ClientConfig{BaseURL: "http://localhost:5001"},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "doclingo_test"},
	}
	reg := prometheus.NewRegistry()

	c, err := client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), reg)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Contains(t, c.Info(), "transport=net/http+prometheus")
}

func TestFromConfig_MetricsSharedRegistry(t *testing.T) {
	cfg := &config.Config{
		Client:  config.ClientConfig{BaseURL: "http://localhost:5001"},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "doclingo_test"},
	}
	reg := prometheus.NewRegistry()

	first, err := client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), reg)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	var second *client.Client
	require.NotPanics(t, func() {
		second, err = client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), reg)
	})
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	assert.Contains(t, second.Info(), "transport=net/http+prometheus")
}

func TestFromConfig_MetricsConflictingRegistration(t *testing.T) {
	cfg := &config.Config{
		Client:  config.ClientConfig{BaseURL: "http://localhost:5001"},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "doclingo_test"},
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "doclingo_test",
		Name:      "transport_requests_total",
		Help:      "conflicting help text",
	}))

	_, err := client.FromConfig(cfg, bundledRegistry(), zerolog.Nop(), reg)

	assert.Error(t, err)
}
