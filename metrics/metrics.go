// Package metrics exposes the selector's internal state through
// go-kit/prometheus gauges and histograms, in the same NewGaugeFrom /
// NewHistogramFrom style as the teacher node's metrics package.
package metrics

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprome "github.com/prometheus/client_golang/prometheus"
)

const (
	promNamespace = "avalanche_selector"
	promSubsystem = ""
)

var (
	SlotCount = prometheus.NewGaugeFrom(stdprome.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "slot_count",
		Help:      "Exclusive upper bound of the selection domain",
	}, []string{"instance"})

	Fragmentation = prometheus.NewGaugeFrom(stdprome.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "fragmentation",
		Help:      "Arithmetic space currently wasted by tombstones and shrink-deltas",
	}, []string{"instance"})

	FragmentationRatio = prometheus.NewGaugeFrom(stdprome.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "fragmentation_ratio",
		Help:      "Fragmentation as a fraction of slot count",
	}, []string{"instance"})

	PeerCount = prometheus.NewGaugeFrom(stdprome.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "peer_count",
		Help:      "Number of live peers in the index",
	}, []string{"instance"})

	SelectRetries = prometheus.NewHistogramFrom(stdprome.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "select_retries",
		Help:      "Retries consumed by a single Select call before it returned",
		Buckets:   []float64{0, 1, 2, 3},
	}, []string{"instance"})

	SelectMisses = prometheus.NewCounterFrom(stdprome.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "select_misses_total",
		Help:      "Select calls that exhausted their retry budget and returned NoPeer",
	}, []string{"instance"})

	CompactReclaimed = prometheus.NewHistogramFrom(stdprome.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "compact_reclaimed",
		Help:      "Space reclaimed by a single Compact call",
		Buckets:   []float64{0, 1, 10, 100, 1000, 10000, 100000},
	}, []string{"instance"})

	RequestCount = prometheus.NewCounterFrom(stdprome.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "request_count",
		Help:      "HTTP API requests",
	}, []string{"instance", "method", "route", "code"})

	RequestDuration = prometheus.NewHistogramFrom(stdprome.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "request_duration_seconds",
		Help:      "HTTP API request latency",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"instance", "method", "route"})
)
