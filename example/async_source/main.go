// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command async_source serves a configuration document over HTTP and
// consumes it with an AsyncBuilder.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/format"
	"github.com/z5labs/strata/pkg/slogfield"
	"github.com/z5labs/strata/pkg/source/httpsource"

	"golang.org/x/sync/errgroup"
)

func serve(ctx context.Context, ls net.Listener) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{ "value" : 123 }`)
	})

	srv := &http.Server{
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-egctx.Done()
		return srv.Shutdown(context.Background())
	})
	eg.Go(func() error {
		err := srv.Serve(ls)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	return eg.Wait()
}

func consume(ctx context.Context, uri string, log *slog.Logger) error {
	cfg, err := strata.NewAsyncBuilder(strata.LogHandler(log.Handler())).
		AddAsyncSource(httpsource.New(uri, format.JSON)).
		Build(ctx)
	if err != nil {
		return err
	}

	value, err := cfg.Int("value")
	if err != nil {
		return err
	}
	fmt.Printf("Config value is %d\n", value)
	return nil
}

func run() error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{AddSource: true}))

	ls, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	uri := "http://" + ls.Addr().String() + "/configuration"
	log.Info("serving configuration", slogfield.String("uri", uri))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return serve(egctx, ls)
	})
	eg.Go(func() error {
		defer cancel()
		return consume(egctx, uri, log)
	})
	return eg.Wait()
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
