package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Client    ClientConfig
	Transport TransportConfig
	Log       LogConfig
	Metrics   MetricsConfig
	S3        S3Config
	Stub      StubConfig
}

// ClientConfig holds conversion client settings. Empty Transport or
// Serializer names fall back to plugin discovery.
type ClientConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Transport  string `mapstructure:"transport"`
	Serializer string `mapstructure:"serializer"`
}

// TransportConfig holds settings shared by the transport plugins.
type TransportConfig struct {
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
	InsecureSkipVerify  bool          `mapstructure:"insecure_skip_verify"`
}

// DefaultTransportConfig returns the settings used when a transport is
// created by discovery without explicit configuration.
func DefaultTransportConfig() *TransportConfig {
	return &TransportConfig{
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus transport decorator.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// S3Config holds settings for writing converted documents to S3.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// StubConfig holds settings for the local fake conversion service.
type StubConfig struct {
	Port string `mapstructure:"port"`
}

// Load reads configuration from environment variables with the DOCLING_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Client defaults
	v.SetDefault("client.base_url", "http://localhost:5001")
	v.SetDefault("client.api_key", "")
	v.SetDefault("client.transport", "")
	v.SetDefault("client.serializer", "")

	// Transport defaults
	v.SetDefault("transport.max_idle_conns_per_host", 10)
	v.SetDefault("transport.idle_conn_timeout", "90s")
	v.SetDefault("transport.insecure_skip_verify", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "doclingo")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")

	v.SetDefault("stub.port", ":5001")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"client.base_url":                   "DOCLING_CLIENT_BASE_URL",
		"client.api_key":                    "DOCLING_CLIENT_API_KEY",
		"client.transport":                  "DOCLING_CLIENT_TRANSPORT",
		"client.serializer":                 "DOCLING_CLIENT_SERIALIZER",
		"transport.max_idle_conns_per_host": "DOCLING_TRANSPORT_MAX_IDLE_CONNS_PER_HOST",
		"transport.idle_conn_timeout":       "DOCLING_TRANSPORT_IDLE_CONN_TIMEOUT",
		"transport.insecure_skip_verify":    "DOCLING_TRANSPORT_INSECURE_SKIP_VERIFY",
		"log.level":                         "DOCLING_LOG_LEVEL",
		"log.format":                        "DOCLING_LOG_FORMAT",
		"metrics.enabled":                   "DOCLING_METRICS_ENABLED",
		"metrics.namespace":                 "DOCLING_METRICS_NAMESPACE",
		"s3.region":                         "DOCLING_S3_REGION",
		"s3.endpoint":                       "DOCLING_S3_ENDPOINT",
		"s3.access_key":                     "DOCLING_S3_ACCESS_KEY",
		"s3.secret_key":                     "DOCLING_S3_SECRET_KEY",
		"stub.port":                         "DOCLING_STUB_PORT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.Client = ClientConfig{
		BaseURL:    v.GetString("client.base_url"),
		APIKey:     v.GetString("client.api_key"),
		Transport:  v.GetString("client.transport"),
		Serializer: v.GetString("client.serializer"),
	}
	cfg.Transport = TransportConfig{
		MaxIdleConnsPerHost: v.GetInt("transport.max_idle_conns_per_host"),
		IdleConnTimeout:     v.GetDuration("transport.idle_conn_timeout"),
		InsecureSkipVerify:  v.GetBool("transport.insecure_skip_verify"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled:   v.GetBool("metrics.enabled"),
		Namespace: v.GetString("metrics.namespace"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Stub = StubConfig{
		Port: v.GetString("stub.port"),
	}

	return cfg, nil
}
