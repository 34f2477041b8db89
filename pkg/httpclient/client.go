// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpclient provides the http.Client used by networked sources.
//
// Every client traces its requests with OpenTelemetry and logs them.
// Retries and a circuit breaker can be enabled with options.
package httpclient

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/z5labs/strata/pkg/noop"
	"github.com/z5labs/strata/pkg/otelslog"
	"github.com/z5labs/strata/pkg/slogfield"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

type circuitOptions struct {
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	tripCount   uint32
	statusCodes []int
}

type retryOptions struct {
	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration
}

type options struct {
	timeout time.Duration
	rt      http.RoundTripper

	name           string
	logHandler     slog.Handler
	tracerProvider trace.TracerProvider

	co *circuitOptions
	ro *retryOptions
}

// Option configures the client returned by New.
type Option func(*options)

// Name identifies the client in logs and in the circuit breaker.
func Name(s string) Option {
	return func(o *options) {
		o.name = s
	}
}

// RoundTripper sets the transport requests are finally sent with.
// The default is http.DefaultTransport.
func RoundTripper(rt http.RoundTripper) Option {
	return func(o *options) {
		o.rt = rt
	}
}

// Timeout bounds each request attempt made by the client.
func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// LogHandler sets the slog.Handler for request logs.
func LogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}

// TracerProvider sets where request spans are sent. The default is the
// global provider.
func TracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// Retry retries failed requests and responses with retryable status
// codes, e.g. 429 or 5xx, up to max times with exponential backoff
// between waitMin and waitMax.
func Retry(max int, waitMin, waitMax time.Duration) Option {
	return func(o *options) {
		o.ro = &retryOptions{
			maxRetries: max,
			waitMin:    waitMin,
			waitMax:    waitMax,
		}
	}
}

func withCircuitOption(f func(*circuitOptions)) Option {
	return func(o *options) {
		if o.co == nil {
			o.co = &circuitOptions{tripCount: 5}
		}
		f(o.co)
	}
}

// TripAfter opens the circuit after n consecutive failures.
func TripAfter(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.tripCount = n
	})
}

// HalfOpenRequests sets how many requests are let through while the
// circuit is half open.
func HalfOpenRequests(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.maxRequests = n
	})
}

// OpenStateTimeout sets how long the circuit stays open before it
// becomes half open.
func OpenStateTimeout(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.timeout = d
	})
}

// CountResetInterval sets how often failure counts are cleared while
// the circuit is closed.
func CountResetInterval(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.interval = d
	})
}

// TripOn sets the response status codes counted as failures by the
// circuit breaker. The default is 429 and every 5xx code.
func TripOn(codes ...int) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.statusCodes = codes
	})
}

// New returns an http.Client configured with opts.
func New(opts ...Option) *http.Client {
	o := &options{
		rt:         http.DefaultTransport,
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := otelslog.New(o.logHandler, otelslog.SpanEvents(slog.LevelWarn))
	if o.name != "" {
		logger = logger.With(slogfield.String("http_client", o.name))
	}

	var otelOpts []otelhttp.Option
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(o.tracerProvider))
	}

	var rt http.RoundTripper = &logRoundTripper{
		base: otelhttp.NewTransport(o.rt, otelOpts...),
		log:  logger,
	}
	if o.co != nil {
		rt = newCircuitRoundTripper(rt, o.name, o.co, logger)
	}

	client := &http.Client{
		Timeout:   o.timeout,
		Transport: rt,
	}
	if o.ro == nil {
		return client
	}

	rc := &retryablehttp.Client{
		HTTPClient:   client,
		RetryWaitMin: o.ro.waitMin,
		RetryWaitMax: o.ro.waitMax,
		RetryMax:     o.ro.maxRetries,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return rc.StandardClient()
}

type logRoundTripper struct {
	base http.RoundTripper
	log  *slog.Logger
}

func (rt *logRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()
	rt.log.DebugContext(
		ctx,
		"request sent",
		slogfield.String("method", req.Method),
		slogfield.String("url", req.URL.Redacted()),
	)
	resp, err := rt.base.RoundTrip(req)
	if err != nil {
		rt.log.ErrorContext(
			ctx,
			"request failed",
			slogfield.String("url", req.URL.Redacted()),
			slogfield.Error(err),
		)
		return nil, err
	}
	rt.log.InfoContext(
		ctx,
		"response received",
		slogfield.String("url", req.URL.Redacted()),
		slogfield.Int("status_code", resp.StatusCode),
		slogfield.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

type statusCodeError struct {
	code int
}

func (e statusCodeError) Error() string {
	return fmt.Sprintf("unsuccessful status code: %d", e.code)
}

type circuitRoundTripper struct {
	base http.RoundTripper
	cb   *gobreaker.CircuitBreaker
	trip func(int) bool
}

func newCircuitRoundTripper(base http.RoundTripper, name string, co *circuitOptions, logger *slog.Logger) *circuitRoundTripper {
	trip := func(code int) bool {
		return code == http.StatusTooManyRequests || code >= 500
	}
	if len(co.statusCodes) > 0 {
		codes := make(map[int]struct{}, len(co.statusCodes))
		for _, code := range co.statusCodes {
			codes[code] = struct{}{}
		}
		trip = func(code int) bool {
			_, ok := codes[code]
			return ok
		}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: co.maxRequests,
		Interval:    co.interval,
		Timeout:     co.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= co.tripCount
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				logger.Error("circuit has been opened")
			case gobreaker.StateHalfOpen:
				logger.Warn("circuit is now half open", slogfield.Int("max_requests", int(co.maxRequests)))
			case gobreaker.StateClosed:
				logger.Info("circuit has been closed")
			}
		},
	})

	return &circuitRoundTripper{
		base: base,
		cb:   cb,
		trip: trip,
	}
}

// RoundTrip implements the http.RoundTripper interface. Responses with a
// tripping status code count against the circuit but are still returned.
func (rt *circuitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	v, err := rt.cb.Execute(func() (any, error) {
		resp, err := rt.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if rt.trip(resp.StatusCode) {
			return resp, statusCodeError{code: resp.StatusCode}
		}
		return resp, nil
	})

	var serr statusCodeError
	if errors.As(err, &serr) {
		return v.(*http.Response), nil
	}
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}
