// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	buildDuration   *prometheus.HistogramVec
	collectDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) metrics {
	m := metrics{
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "strata",
			Name:      "build_duration_seconds",
			Help:      "Time taken to collect and merge every source of a build.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode", "result"}),
		collectDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "strata",
			Name:      "source_collect_duration_seconds",
			Help:      "Time taken by a single source to produce its table.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "result"}),
	}
	if reg == nil {
		return m
	}
	m.buildDuration = register(reg, m.buildDuration)
	m.collectDuration = register(reg, m.collectDuration)
	return m
}

// register returns the collector already registered under the same
// descriptor if there is one, so several builders can share a registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var alreadyRegErr prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegErr) {
		if existing, ok := alreadyRegErr.ExistingCollector.(T); ok {
			return existing
		}
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
