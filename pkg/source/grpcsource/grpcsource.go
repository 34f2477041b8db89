// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package grpcsource provides a strata.AsyncSource which calls a unary
// gRPC method returning a google.protobuf.Struct.
package grpcsource

import (
	"context"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/format"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Option configures a Source.
type Option func(*Source)

// Request sets the fields of the request message.
func Request(m map[string]any) Option {
	return func(s *Source) {
		s.req = m
	}
}

// CallOptions are passed to every Invoke.
func CallOptions(opts ...grpc.CallOption) Option {
	return func(s *Source) {
		s.callOpts = append(s.callOpts, opts...)
	}
}

// Source is a strata.AsyncSource backed by a unary gRPC method.
type Source struct {
	conn     grpc.ClientConnInterface
	method   string
	req      map[string]any
	callOpts []grpc.CallOption
}

// New returns a Source which invokes method, e.g. "/pkg.Service/Get",
// on conn. Both the request and response messages are
// google.protobuf.Struct.
func New(conn grpc.ClientConnInterface, method string, opts ...Option) *Source {
	s := &Source{
		conn:   conn,
		method: method,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// String implements the fmt.Stringer interface.
func (s *Source) String() string {
	return "grpc " + s.method
}

// CollectContext implements the strata.AsyncSource interface.
func (s *Source) CollectContext(ctx context.Context) (*strata.Table, error) {
	req, err := structpb.NewStruct(s.req)
	if err != nil {
		return nil, strata.Messagef("grpc request for %s: %s", s.method, err)
	}

	var resp structpb.Struct
	err = s.conn.Invoke(ctx, s.method, req, &resp, s.callOpts...)
	if err != nil {
		return nil, strata.Foreign(s.String(), err)
	}
	return format.FromStruct(s.String(), &resp), nil
}

// Dial creates a client connection to target which traces every call
// with OpenTelemetry.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithStatsHandler(otelgrpc.NewClientHandler())}, opts...)
	return grpc.Dial(target, opts...)
}
