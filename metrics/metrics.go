// Package metrics exposes Prometheus instrumentation for the demo agent:
// session lifecycle, delivered frames, tracked token usage and demo routine
// dispatch counts. All collectors are registered on the default registry and
// served by Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dummy_agent"

var (
	// SessionsStarted counts sessions opened by the handler.
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Number of sessions opened",
		},
	)

	// SessionsClosed counts sessions closed.
	SessionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Number of sessions closed",
		},
	)

	// FramesDelivered counts frames sent to streaming consumers by kind.
	FramesDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_delivered_total",
			Help:      "Number of frames delivered to sinks by frame kind",
		},
		[]string{"kind"},
	)

	// TokensTracked counts tokens recorded through usage tracking by type.
	TokensTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_tracked_total",
			Help:      "Number of tokens recorded via usage tracking",
		},
		[]string{"token_type"},
	)

	// DemoRuns counts dispatched demonstration routines by selector.
	DemoRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demo_runs_total",
			Help:      "Number of demonstration routines dispatched by selector",
		},
		[]string{"selector", "status"},
	)
)

// Handler returns the HTTP handler serving the default Prometheus registry.
func Handler() http.Handler { return promhttp.Handler() }
