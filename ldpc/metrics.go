//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ldpc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "silent_ldpc"

var (
	buildAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "build_attempts_total",
		Help:      "Number of block size attempts of the full strategy.",
	}, []string{"family"})

	buildRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "build_retries_total",
		Help:      "Number of block size retries by reason.",
	}, []string{"family", "reason"})

	onlineFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "online_fallbacks_total",
		Help:      "Number of online builds that fell back to the full strategy.",
	}, []string{"family"})

	builds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "builds_total",
		Help:      "Number of completed builds by strategy.",
	}, []string{"family", "strategy"})
)

// RegisterMetrics registers the code construction metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		buildAttempts, buildRetries, onlineFallbacks, builds,
	} {
		err := reg.Register(c)
		if err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func retryReason(err error) string {
	if errors.Is(err, ErrCollisionExceeded) {
		return "collision"
	}
	return "singular"
}
