// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpsource provides a strata.AsyncSource which fetches its
// payload over HTTP.
package httpsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/internal/try"
	"github.com/z5labs/strata/pkg/httpclient"
)

// StatusError is the cause of the ForeignError returned when the server
// responds with a status code outside of the 2xx range.
type StatusError struct {
	URI        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URI)
}

// ErrTooLarge is the cause of the ForeignError returned when the
// response body exceeds the configured maximum size.
var ErrTooLarge = errors.New("response body too large")

// Option configures a Source.
type Option func(*Source)

// Client sets the http.Client requests are sent with.
func Client(c *http.Client) Option {
	return func(s *Source) {
		s.client = c
	}
}

// Header adds a request header.
func Header(key, value string) Option {
	return func(s *Source) {
		s.header.Add(key, value)
	}
}

// MaxBytes bounds the size of the response body. Zero means unbounded.
func MaxBytes(n int64) Option {
	return func(s *Source) {
		s.maxBytes = n
	}
}

// Source is a strata.AsyncSource for a document served over HTTP.
type Source struct {
	uri      string
	name     string
	format   strata.Format
	client   *http.Client
	header   http.Header
	maxBytes int64
}

// New returns a Source which GETs uri and parses the body with f. Values
// are attributed to uri with any password redacted.
// The default client comes from httpclient.New.
func New(uri string, f strata.Format, opts ...Option) *Source {
	s := &Source{
		uri:    uri,
		name:   redact(uri),
		format: f,
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = httpclient.New(httpclient.Name("httpsource"))
	}
	return s
}

// String implements the fmt.Stringer interface. Passwords in the URI
// are redacted.
func (s *Source) String() string {
	return s.name
}

func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return u.Redacted()
}

// CollectContext implements the strata.AsyncSource interface.
func (s *Source) CollectContext(ctx context.Context) (*strata.Table, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, strata.Foreign(s.name, err)
	}

	t, err := s.format.Parse(s.name, raw)
	if err != nil {
		return nil, strata.Foreign(s.name, err)
	}
	return t, nil
}

func (s *Source) fetch(ctx context.Context) (b []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.uri, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range s.header {
		req.Header[k] = vs
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URI: s.name, StatusCode: resp.StatusCode}
	}

	if s.maxBytes <= 0 {
		return io.ReadAll(resp.Body)
	}
	b, err = io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	return b, nil
}
