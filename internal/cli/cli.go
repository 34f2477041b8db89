// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the strata command line tool.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/internal/try"
	"github.com/z5labs/strata/pkg/format"
	"github.com/z5labs/strata/pkg/httpclient"
	"github.com/z5labs/strata/pkg/maskslog"
	"github.com/z5labs/strata/pkg/noop"
	"github.com/z5labs/strata/pkg/source"
	"github.com/z5labs/strata/pkg/source/httpsource"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Run executes the strata command with args. The context passed to
// commands is cancelled when the process is interrupted.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

type layerKind int

const (
	fileLayer layerKind = iota
	envLayer
	urlLayer
)

type layer struct {
	kind  layerKind
	value string
}

// layerFlag appends every occurrence of a flag to a list shared by all
// source flags, so sources are merged in command line order.
type layerFlag struct {
	kind   layerKind
	layers *[]layer
}

func (f layerFlag) String() string { return "" }

func (f layerFlag) Set(s string) error {
	*f.layers = append(*f.layers, layer{kind: f.kind, value: s})
	return nil
}

func (f layerFlag) Type() string { return "string" }

type options struct {
	layers         []layer
	envSeparator   string
	overrides      map[string]string
	timeout        time.Duration
	retries        int
	maxConcurrency uint
	verbose        bool
	trace          bool
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "strata",
		Short: "Inspect layered configuration",
		Long: `strata merges configuration from files, environment variables and
remote documents, in the order their flags are given, and prints the
result. Values set with --set are applied last.`,
		SilenceUsage: true,
	}

	fs := cmd.PersistentFlags()
	fs.VarP(layerFlag{kind: fileLayer, layers: &o.layers}, "file", "f", "configuration file, repeatable")
	fs.Var(layerFlag{kind: urlLayer, layers: &o.layers}, "url", "remote configuration document, repeatable")
	fs.Var(layerFlag{kind: envLayer, layers: &o.layers}, "env-prefix", "merge environment variables with this prefix, repeatable")
	fs.StringVar(&o.envSeparator, "env-separator", "__", "separator for nested environment variable keys")
	fs.StringToStringVar(&o.overrides, "set", nil, "override a value, e.g. --set server.port=8080")
	fs.DurationVar(&o.timeout, "timeout", 10*time.Second, "timeout for each remote request")
	fs.IntVar(&o.retries, "retries", 2, "retries for failed remote requests")
	fs.UintVar(&o.maxConcurrency, "max-concurrency", 0, "limit on sources collected at once, 0 is unlimited")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log build details to stderr")
	fs.BoolVar(&o.trace, "trace", false, "print trace spans to stderr")

	cmd.AddCommand(
		newGetCmd(o),
		newDumpCmd(o),
	)
	return cmd
}

type configFunc func(cmd *cobra.Command, args []string, cfg *strata.Config) error

// withConfig builds the configuration described by o before calling f.
func (o *options) withConfig(f configFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer try.Recover(&err)

		tp, shutdown, err := o.tracerProvider(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, shutdown(context.Background()))
		}()

		cfg, err := o.build(cmd.Context(), tp, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return f(cmd, args, cfg)
	}
}

func (o *options) tracerProvider(w io.Writer) (trace.TracerProvider, func(context.Context) error, error) {
	if !o.trace {
		return otel.GetTracerProvider(), func(context.Context) error { return nil }, nil
	}

	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exp),
	)
	return tp, tp.Shutdown, nil
}

func (o *options) logHandler(w io.Writer) slog.Handler {
	if !o.verbose {
		return noop.LogHandler{}
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})
	return maskslog.NewHandler(h, maskslog.Attr("url", maskslog.RedactURL))
}

func (o *options) build(ctx context.Context, tp trace.TracerProvider, stderr io.Writer) (*strata.Config, error) {
	h := o.logHandler(stderr)

	b := strata.NewAsyncBuilder(
		strata.LogHandler(h),
		strata.TracerProvider(tp),
		strata.MaxConcurrency(o.maxConcurrency),
	)

	var client *http.Client
	for _, l := range o.layers {
		switch l.kind {
		case fileLayer:
			b.AddSource(source.File(os.DirFS(filepath.Dir(l.value)), filepath.Base(l.value)))
		case envLayer:
			b.AddSource(source.Env(
				source.Prefix(l.value),
				source.Separator(o.envSeparator),
			))
		case urlLayer:
			if client == nil {
				client = httpclient.New(
					httpclient.Name("strata"),
					httpclient.LogHandler(h),
					httpclient.TracerProvider(tp),
					httpclient.Timeout(o.timeout),
					httpclient.Retry(o.retries, 100*time.Millisecond, 2*time.Second),
				)
			}
			f, err := urlFormat(l.value)
			if err != nil {
				return nil, err
			}
			b.AddAsyncSource(httpsource.New(l.value, f, httpsource.Client(client)))
		}
	}

	keys := make([]string, 0, len(o.overrides))
	for k := range o.overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.SetOverride(k, o.overrides[k])
	}

	return b.Build(ctx)
}

// urlFormat picks the Format for uri from the extension of its path,
// falling back to JSON.
func urlFormat(uri string) (strata.Format, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	_, f, ok := format.ForPath(u.Path)
	if !ok {
		return format.JSON, nil
	}
	return f, nil
}
