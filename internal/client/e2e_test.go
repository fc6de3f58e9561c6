package client_test

import (
	"context"
	"net"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclingo/internal/client"
	"doclingo/internal/discovery"
	"doclingo/internal/domain"
	"doclingo/internal/plugins"
	"doclingo/internal/stubserver"
	"doclingo/internal/transport/nethttp"
)

func newStub(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(stubserver.New(stubserver.Options{APIKey: apiKey, Logger: zerolog.Nop()}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEndToEnd_EverySerializer(t *testing.T) {
	srv := newStub(t, "")
	r := discovery.New()
	plugins.Register(r)

	for _, name := range r.Serializers() {
		t.Run(name, func(t *testing.T) {
			s, err := r.NewSerializer(name)
			require.NoError(t, err)
			c, err := client.NewBuilder().BaseURL(srv.URL).Transport(nethttp.New(nil)).Serializer(s).Build()
			require.NoError(t, err)
			defer func() { _ = c.Close() }()

			assert.True(t, c.Health(context.Background()))

			resp, err := c.ConvertURL(context.Background(), "https://example.com/docs/report.pdf", domain.FormatMarkdown)
			require.NoError(t, err)
			assert.Equal(t, "success", resp.Status)
			assert.Equal(t, "report.pdf", resp.Document.Filename)
			assert.Contains(t, resp.Document.MDContent, "Converted from https://example.com/docs/report.pdf")

			async, err := c.ConvertURLAsync(context.Background(), "https://example.com/docs/report.pdf", domain.FormatMarkdown).
				Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, resp.Document, async.Document)
		})
	}
}

func TestEndToEnd_APIKeyRejected(t *testing.T) {
	srv := newStub(t, "right")
	c, err := client.NewBuilder().BaseURL(srv.URL).APIKey("wrong").Registry(bundledRegistry()).Build()
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, err = c.ConvertURL(context.Background(), "https://example.com/a.pdf", domain.FormatText)

	var clientErr *domain.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, 401, clientErr.StatusCode)
	assert.Contains(t, clientErr.Body, "invalid api key")
}

func TestEndToEnd_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := client.NewBuilder().BaseURL("http://" + addr).Registry(bundledRegistry()).Build()
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.False(t, c.Health(context.Background()))
	_, err = c.ConvertURL(context.Background(), "https://example.com/a.pdf", domain.FormatText)
	assert.Error(t, err)
	_, err = c.ConvertURLAsync(context.Background(), "https://example.com/a.pdf", domain.FormatText).Get()
	assert.Error(t, err)
}

func TestEndToEnd_ConcurrentCalls(t *testing.T) {
	srv := newStub(t, "")
	c, err := client.NewBuilder().BaseURL(srv.URL).Registry(bundledRegistry()).Build()
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ConvertURL(context.Background(), "https://example.com/a.pdf", domain.FormatHTML)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
