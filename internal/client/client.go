// Package client is the conversion client: it builds Docling Serve request
// bodies, sends them through a pluggable port.Transport and decodes replies
// with a pluggable port.Serializer.
//
// A *Client holds no per-call state and may be shared by concurrent callers
// provided its transport tolerates concurrent use. Calling any method other
// than Close after Close is a precondition violation.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doclingo/internal/domain"
	"doclingo/internal/future"
	"doclingo/internal/port"
)

const (
	// DefaultBaseURL is the address a locally started docling-serve listens on.
	DefaultBaseURL = "http://localhost:5001"

	ConvertPath = "/v1/convert/source"
	HealthPath  = "/health"

	// ConvertTimeout covers worst-case server-side processing of a document.
	ConvertTimeout = 120 * time.Second
	healthTimeout  = 10 * time.Second

	acceptConvert  = "application/json, application/zip"
	headerAPIKey   = "X-Api-Key"
	headerReqID    = "X-Request-ID"
	contentTypeKey = "Content-Type"
)

// Client is the immutable conversion client produced by Builder.Build.
type Client struct {
	baseURL    string
	apiKey     string
	transport  port.Transport
	serializer port.Serializer
	logger     zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// ConvertURL converts the document at url into format and blocks until the
// service replies. A non-2xx reply yields a *domain.ClientError; transport
// and decoding errors are returned unchanged.
func (c *Client) ConvertURL(ctx context.Context, url string, format domain.OutputFormat) (*domain.ConversionResponse, error) {
	return c.Convert(ctx, domain.ConversionRequest{
		Sources: []string{url},
		Formats: []domain.OutputFormat{format},
	})
}

// ConvertURLAsync is ConvertURL on the transport's async path. Every failure,
// including request encoding, is delivered through the returned Future.
func (c *Client) ConvertURLAsync(ctx context.Context, url string, format domain.OutputFormat) *future.Future[*domain.ConversionResponse] {
	return c.ConvertAsync(ctx, domain.ConversionRequest{
		Sources: []string{url},
		Formats: []domain.OutputFormat{format},
	})
}

// Convert converts every source in req. Unlike ConvertURL it also sends
// req.Options and rejects a request without sources.
func (c *Client) Convert(ctx context.Context, req domain.ConversionRequest) (*domain.ConversionResponse, error) {
	httpReq, err := c.newConvertRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.transport.Execute(ctx, httpReq)
	if err != nil {
		c.logFailure(httpReq, start, err)
		return nil, err
	}
	return c.decode(httpReq, start, resp)
}

// ConvertAsync is Convert on the transport's async path.
func (c *Client) ConvertAsync(ctx context.Context, req domain.ConversionRequest) *future.Future[*domain.ConversionResponse] {
	httpReq, err := c.newConvertRequest(req)
	if err != nil {
		return future.Failed[*domain.ConversionResponse](err)
	}

	start := time.Now()
	return future.Then(c.transport.ExecuteAsync(ctx, httpReq), func(resp *port.Response) (*domain.ConversionResponse, error) {
		return c.decode(httpReq, start, resp)
	})
}

// Health probes the service. It reports true only when a 2xx reply was
// received; any failure is logged at debug level and reported as false.
func (c *Client) Health(ctx context.Context) bool {
	req := c.newRequest(http.MethodGet, HealthPath).Timeout(healthTimeout).Build()

	resp, err := c.transport.Execute(ctx, req)
	if err != nil {
		c.logger.Debug().Err(err).Str("request_id", req.Header(headerReqID)).Msg("health probe failed")
		return false
	}
	return resp.IsSuccess()
}

// Info describes the active transport, serializer and base URL.
func (c *Client) Info() string {
	return fmt.Sprintf("DoclingClient[transport=%s, serializer=%s, baseUrl=%s]",
		c.transport.Name(), c.serializer.Name(), c.baseURL)
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases the transport. Later calls return the first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}

func (c *Client) newRequest(method, path string) *port.RequestBuilder {
	b := port.NewRequest(method, c.baseURL+path).
		Header(headerReqID, uuid.New().String())
	if c.apiKey != "" {
		b.Header(headerAPIKey, c.apiKey)
	}
	return b
}

func (c *Client) newConvertRequest(req domain.ConversionRequest) (*port.Request, error) {
	if len(req.Sources) == 0 {
		return nil, domain.ErrNoSources
	}
	payload, err := convertPayload(req)
	if err != nil {
		return nil, err
	}
	body, err := c.serializer.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding conversion request: %w", err)
	}

	httpReq := c.newRequest(http.MethodPost, ConvertPath).
		Header(contentTypeKey, "application/json").
		Header("Accept", acceptConvert).
		Body(body).
		Timeout(ConvertTimeout).
		Build()

	if ev := c.logger.Debug(); ev.Enabled() {
		ev.Str("request_id", httpReq.Header(headerReqID)).
			Strs("sources", req.Sources).
			Str("transport", c.transport.Name()).
			Msg("sending conversion request")
	}
	return httpReq, nil
}

// convertPayload builds the request body understood by /v1/convert/source:
//
//	{"sources":[{"kind":"http","url":...,"headers":{}}],
//	 "options":{"to_formats":[...]},
//	 "target":{"kind":"inbody"}}
func convertPayload(req domain.ConversionRequest) (map[string]any, error) {
	sources := make([]map[string]any, 0, len(req.Sources))
	for _, src := range req.Sources {
		sources = append(sources, map[string]any{
			"kind":    string(domain.SourceKindHTTP),
			"url":     src,
			"headers": map[string]string{},
		})
	}

	formats := make([]string, 0, len(req.Formats))
	for _, f := range req.Formats {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, string(f))
		}
		formats = append(formats, f.WireToken())
	}

	options := map[string]any{"to_formats": formats}
	if o := req.Options; o != nil {
		if o.OCREngine != "" {
			options["ocr_engine"] = o.OCREngine
		}
		if o.PDFBackend != "" {
			options["pdf_backend"] = o.PDFBackend
		}
		if o.ForceOCR != nil {
			options["force_ocr"] = *o.ForceOCR
		}
	}

	return map[string]any{
		"sources": sources,
		"options": options,
		"target":  map[string]any{"kind": string(domain.TargetKindInBody)},
	}, nil
}

func (c *Client) decode(req *port.Request, start time.Time, resp *port.Response) (*domain.ConversionResponse, error) {
	c.logger.Debug().
		Str("request_id", req.Header(headerReqID)).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("conversion response received")

	if !resp.IsSuccess() {
		return nil, &domain.ClientError{StatusCode: resp.StatusCode, Body: resp.BodyString()}
	}

	var out domain.ConversionResponse
	if err := c.serializer.Unmarshal(resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) logFailure(req *port.Request, start time.Time, err error) {
	c.logger.Debug().
		Err(err).
		Str("request_id", req.Header(headerReqID)).
		Dur("latency", time.Since(start)).
		Msg("conversion request failed")
}
