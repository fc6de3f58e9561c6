package port

import (
	"context"
	"net/http"
	"time"

	"doclingo/internal/future"
)

// Transport abstracts the HTTP mechanics used by the client.
//
// Execute returns a Response for any status code; only failures to complete
// the exchange (connection refused, timeout, DNS) are errors. ExecuteAsync
// runs the same exchange without blocking the caller. Close releases pooled
// resources and is safe to call more than once.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
	ExecuteAsync(ctx context.Context, req *Request) *future.Future[*Response]
	Name() string
	Close() error
}

// Request is an immutable HTTP request description. Build one with NewRequest.
type Request struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
	timeout time.Duration
}

func (r *Request) Method() string         { return r.method }
func (r *Request) URL() string            { return r.url }
func (r *Request) Timeout() time.Duration { return r.timeout }

// Header returns the value for name, matched case-insensitively.
func (r *Request) Header(name string) string {
	return r.headers[http.CanonicalHeaderKey(name)]
}

// Headers returns a copy of the header mapping.
func (r *Request) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// Body returns a copy of the payload, or nil when the request has none.
func (r *Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// RequestBuilder accumulates request fields until Build is called.
type RequestBuilder struct {
	req Request
}

// NewRequest starts building a request for method and url.
func NewRequest(method, url string) *RequestBuilder {
	return &RequestBuilder{req: Request{
		method:  method,
		url:     url,
		headers: map[string]string{},
	}}
}

// Header sets a header, replacing any previous value for the same key.
func (b *RequestBuilder) Header(name, value string) *RequestBuilder {
	b.req.headers[http.CanonicalHeaderKey(name)] = value
	return b
}

func (b *RequestBuilder) Body(body []byte) *RequestBuilder {
	b.req.body = body
	return b
}

func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.req.timeout = d
	return b
}

// Build freezes the accumulated fields. The builder must not be reused.
func (b *RequestBuilder) Build() *Request {
	r := b.req
	r.headers = make(map[string]string, len(b.req.headers))
	for k, v := range b.req.headers {
		r.headers[k] = v
	}
	if b.req.body != nil {
		r.body = make([]byte, len(b.req.body))
		copy(r.body, b.req.body)
	}
	return &r
}

// Response is the raw result of a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BodyString decodes the payload as text.
func (r *Response) BodyString() string {
	return string(r.Body)
}
