package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameSyncBatchesTotal   = "inventory_sync_batches_total"
	MetricNameSyncConflictsTotal = "inventory_sync_conflicts_total"
	MetricNameSyncActionsTotal   = "inventory_sync_actions_total"
	MetricNameCacheHitsTotal     = "inventory_cache_hits_total"
	MetricNameCacheMissesTotal   = "inventory_cache_misses_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextSyncBatchesTotal   = "Total number of sync batches processed"
	HelpTextSyncConflictsTotal = "Total number of sync batches rejected for stale timestamps"
	HelpTextSyncActionsTotal   = "Total number of sync actions applied"
	HelpTextCacheHitsTotal     = "Total number of inventory read cache hits"
	HelpTextCacheMissesTotal   = "Total number of inventory read cache misses"
)

// ============================================================================
// Metric Labels
// ============================================================================

const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelResult = "result"
	LabelAction = "action"
)

// Label values for the sync batch result
const (
	ResultCommitted = "committed"
	ResultRejected  = "rejected"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
