package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	SyncBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncBatchesTotal,
			Help: HelpTextSyncBatchesTotal,
		},
		[]string{LabelResult},
	)

	SyncConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSyncConflictsTotal,
			Help: HelpTextSyncConflictsTotal,
		},
	)

	SyncActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncActionsTotal,
			Help: HelpTextSyncActionsTotal,
		},
		[]string{LabelAction},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCacheHitsTotal,
			Help: HelpTextCacheHitsTotal,
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCacheMissesTotal,
			Help: HelpTextCacheMissesTotal,
		},
	)
)
