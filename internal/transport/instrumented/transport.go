// Package instrumented wraps a port.Transport with Prometheus metrics.
package instrumented

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"doclingo/internal/future"
	"doclingo/internal/port"
)

// Transport records request counts, latency and in-flight requests for the
// wrapped transport. It is safe for concurrent use if the wrapped one is.
type Transport struct {
	next port.Transport

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// New wraps next and registers its collectors with reg. Collectors already
// registered by an earlier Transport with the same namespace and transport
// name are reused, so several clients can share one registry. A nil reg
// leaves the collectors unregistered.
func New(next port.Transport, reg prometheus.Registerer, namespace string) (*Transport, error) {
	labels := []string{"method", "status_code", "endpoint"}
	constLabels := prometheus.Labels{"transport": next.Name()}

	requestsTotal, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "transport_requests_total",
			Help:        "Total number of requests sent to the conversion service",
			ConstLabels: constLabels,
		},
		labels,
	))
	if err != nil {
		return nil, err
	}
	requestDuration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "transport_request_duration_seconds",
			Help:        "Duration of requests sent to the conversion service",
			ConstLabels: constLabels,
			Buckets:     []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
		labels,
	))
	if err != nil {
		return nil, err
	}
	requestsInFlight, err := register(reg, prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "transport_requests_in_flight",
			Help:        "Requests currently awaiting a response",
			ConstLabels: constLabels,
		},
	))
	if err != nil {
		return nil, err
	}

	return &Transport{
		next:             next,
		requestsTotal:    requestsTotal,
		requestDuration:  requestDuration,
		requestsInFlight: requestsInFlight,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("registering transport metrics: %w", err)
	}
	return c, nil
}

func (t *Transport) Execute(ctx context.Context, req *port.Request) (*port.Response, error) {
	t.requestsInFlight.Inc()
	start := time.Now()
	resp, err := t.next.Execute(ctx, req)
	t.observe(req, resp, err, time.Since(start))
	t.requestsInFlight.Dec()
	return resp, err
}

func (t *Transport) ExecuteAsync(ctx context.Context, req *port.Request) *future.Future[*port.Response] {
	t.requestsInFlight.Inc()
	start := time.Now()
	pending := t.next.ExecuteAsync(ctx, req)
	return future.Go(func() (*port.Response, error) {
		resp, err := pending.Get()
		t.observe(req, resp, err, time.Since(start))
		t.requestsInFlight.Dec()
		return resp, err
	})
}

func (t *Transport) observe(req *port.Request, resp *port.Response, err error, elapsed time.Duration) {
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	endpoint := req.URL()
	if u, perr := url.Parse(endpoint); perr == nil {
		endpoint = u.Path
	}
	t.requestsTotal.WithLabelValues(req.Method(), status, endpoint).Inc()
	t.requestDuration.WithLabelValues(req.Method(), status, endpoint).Observe(elapsed.Seconds())
}

// Name reports the wrapped transport's name with a metrics suffix.
func (t *Transport) Name() string {
	return t.next.Name() + "+prometheus"
}

func (t *Transport) Close() error {
	return t.next.Close()
}
