// Package h3 implements port.Transport over HTTP/3 using quic-go.
package h3

import (
	"crypto/tls"
	"net/http"

	"github.com/quic-go/quic-go/http3"

	"doclingo/internal/config"
	"doclingo/internal/port"
	"doclingo/internal/transport/nethttp"
)

// Name identifies this transport in the plugin registry.
const Name = "http3"

// New creates an HTTP/3 transport. The returned transport owns the QUIC
// connections and closes them on Close.
func New(cfg *config.TransportConfig) *nethttp.Transport {
	if cfg == nil {
		cfg = config.DefaultTransportConfig()
	}
	rt := &http3.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
			NextProtos:         []string{http3.NextProtoH3},
		},
	}
	return nethttp.NewWithClient(Name, &http.Client{Transport: rt}, rt.Close)
}

// Factory adapts New to discovery.TransportFactory.
func Factory(cfg *config.TransportConfig) (port.Transport, error) {
	return New(cfg), nil
}
