// Package nethttp implements port.Transport on top of net/http with a pooled
// connection transport.
package nethttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"doclingo/internal/config"
	"doclingo/internal/future"
	"doclingo/internal/port"
)

// Name identifies this transport in the plugin registry.
const Name = "net/http"

// Transport executes requests with an *http.Client.
type Transport struct {
	name      string
	client    *http.Client
	closeFn   func() error
	closeOnce sync.Once
	closeErr  error
}

// New creates a net/http transport with its own connection pool.
func New(cfg *config.TransportConfig) *Transport {
	if cfg == nil {
		cfg = config.DefaultTransportConfig()
	}
	rt := http.DefaultTransport.(*http.Transport).Clone()
	rt.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	rt.IdleConnTimeout = cfg.IdleConnTimeout
	if cfg.InsecureSkipVerify && rt.TLSClientConfig != nil {
		rt.TLSClientConfig.InsecureSkipVerify = true
	}
	return NewWithClient(Name, &http.Client{Transport: rt}, func() error {
		rt.CloseIdleConnections()
		return nil
	})
}

// Factory adapts New to discovery.TransportFactory.
func Factory(cfg *config.TransportConfig) (port.Transport, error) {
	return New(cfg), nil
}

// NewWithClient wraps an existing client. closeFn, if non-nil, runs once on
// the first Close.
func NewWithClient(name string, client *http.Client, closeFn func() error) *Transport {
	return &Transport{name: name, client: client, closeFn: closeFn}
}

// Execute sends req and reads the whole response body. Non-2xx statuses are
// returned as responses, not errors.
func (t *Transport) Execute(ctx context.Context, req *port.Request) (*port.Response, error) {
	if req.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout())
		defer cancel()
	}

	var body io.Reader
	if b := req.Body(); b != nil {
		body = bytes.NewReader(b)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), req.URL(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers() {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &port.Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Header:     resp.Header.Clone(),
	}, nil
}

// ExecuteAsync runs Execute on its own goroutine.
func (t *Transport) ExecuteAsync(ctx context.Context, req *port.Request) *future.Future[*port.Response] {
	return future.Go(func() (*port.Response, error) {
		return t.Execute(ctx, req)
	})
}

func (t *Transport) Name() string {
	return t.name
}

// Close releases pooled connections. Later calls return the first result.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		if t.closeFn != nil {
			t.closeErr = t.closeFn()
		}
	})
	return t.closeErr
}
