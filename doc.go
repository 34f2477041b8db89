// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package strata aggregates layered configuration.
//
// Configuration is collected from any number of sources, e.g. files,
// environment variables, flags or remote endpoints. Each source produces
// a [Table], usually by parsing a raw payload with a [Format]. The tables
// are deep merged in the order their sources were registered, so later
// sources win, and the result is exposed as an immutable [Config].
//
// # Building
//
// A [Builder] only accepts synchronous [Source] implementations and
// builds on the calling goroutine:
//
//	cfg, err := strata.NewBuilder().
//		SetDefault("server.port", 8080).
//		AddSource(source.File(os.DirFS("."), "config.yaml")).
//		AddSource(source.Env(source.Prefix("APP_"))).
//		Build()
//
// An [AsyncBuilder] additionally accepts [AsyncSource] implementations,
// collects every source concurrently and merges the results in
// registration order once all of them have finished:
//
//	cfg, err := strata.NewAsyncBuilder().
//		AddSource(source.File(os.DirFS("."), "config.toml")).
//		AddAsyncSource(httpsource.New("http://config.internal/app.json", format.JSON)).
//		Build(ctx)
//
// # Reading
//
// Values are addressed with paths such as "server.port" or
// "servers[0].host" and read with [Get] or the typed accessors on
// [Config]:
//
//	port, err := strata.Get[uint16](cfg, "server.port")
//
// # Errors
//
// Every error strata returns implements [Error]. Use errors.As to
// distinguish a missing key ([NotFoundError]) from a value of the wrong
// type ([TypeMismatchError]) or a source which failed ([SourceError]).
package strata
