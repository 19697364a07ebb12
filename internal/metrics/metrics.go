// Package metrics holds the Prometheus collectors for a collector run.
//
// A run is a short-lived batch job, so nothing is scraped: when a
// Pushgateway is configured the registry is pushed once at the end.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"ad-tracker/youtube-trending-collector/internal/lookup"
)

const namespace = "youtube_trending_collector"

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	APICalls        *prometheus.CounterVec
	QuotaUnits      prometheus.Counter
	Lookups         *prometheus.CounterVec
	VideosFetched   prometheus.Gauge
	RowsExported    prometheus.Gauge
	RunDuration     prometheus.Gauge
	LastSuccessTime prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		APICalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_calls_total",
				Help:      "YouTube Data API calls, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		QuotaUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_units_total",
			Help:      "YouTube Data API quota units spent by the run.",
		}),
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Per-row lookups and derived fields, by field and status.",
			},
			[]string{"field", "status"},
		),
		VideosFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "videos_fetched",
			Help:      "Videos returned by the trending chart.",
		}),
		RowsExported: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_exported",
			Help:      "Data rows written to the CSV file.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that wrote a file.",
		}),
	}

	m.registry.MustRegister(
		m.APICalls,
		m.QuotaUnits,
		m.Lookups,
		m.VideosFetched,
		m.RowsExported,
		m.RunDuration,
		m.LastSuccessTime,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCall implements youtube.CallObserver.
func (m *Metrics) ObserveCall(operation string, quotaCost int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.APICalls.WithLabelValues(operation, outcome).Inc()
	m.QuotaUnits.Add(float64(quotaCost))
}

// ObserveLookup counts the outcome of one per-row field.
func (m *Metrics) ObserveLookup(field string, status lookup.Status) {
	m.Lookups.WithLabelValues(field, status.String()).Inc()
}

// ObserveRun records the outcome of a whole run.
func (m *Metrics) ObserveRun(fetched, exported int, elapsed time.Duration, succeededAt time.Time) {
	m.VideosFetched.Set(float64(fetched))
	m.RowsExported.Set(float64(exported))
	m.RunDuration.Set(elapsed.Seconds())
	if !succeededAt.IsZero() {
		m.LastSuccessTime.Set(float64(succeededAt.Unix()))
	}
}

// Push sends every collector to the Pushgateway at url under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
