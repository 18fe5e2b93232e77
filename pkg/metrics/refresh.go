package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RefreshMetrics records metadata for stats refresh passes and the upstream
// fetches they perform.
type RefreshMetrics struct {
	duration       *prometheus.HistogramVec
	success        *prometheus.CounterVec
	failure        *prometheus.CounterVec
	sourceFailure  *prometheus.CounterVec
	mirrorFallback *prometheus.CounterVec
}

// NewRefreshMetrics registers the refresh metrics on the provided registerer.
func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	if reg == nil {
		return &RefreshMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stats_refresh_duration_seconds",
		Help:    "Duration of stats refresh passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_refresh_success",
		Help: "Successful stats refresh passes.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_refresh_failure",
		Help: "Failed stats refresh passes.",
	}, []string{"job"})
	sourceFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "source_fetch_failure",
		Help: "Upstream collection fetches that returned an error.",
	}, []string{"source"})
	mirrorFallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_fallback",
		Help: "Refresh passes that served a collection from the local mirror.",
	}, []string{"source"})
	reg.MustRegister(duration, success, failure, sourceFailure, mirrorFallback)
	return &RefreshMetrics{
		duration:       duration,
		success:        success,
		failure:        failure,
		sourceFailure:  sourceFailure,
		mirrorFallback: mirrorFallback,
	}
}

// ObserveDuration records the duration for the named refresh job.
func (r *RefreshMetrics) ObserveDuration(job string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named refresh job.
func (r *RefreshMetrics) IncSuccess(job string) {
	if r == nil || r.success == nil {
		return
	}
	r.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named refresh job.
func (r *RefreshMetrics) IncFailure(job string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncSourceFailure counts a failed upstream fetch for the named source.
func (r *RefreshMetrics) IncSourceFailure(source string) {
	if r == nil || r.sourceFailure == nil {
		return
	}
	r.sourceFailure.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncMirrorFallback counts a collection served from the local mirror.
func (r *RefreshMetrics) IncMirrorFallback(source string) {
	if r == nil || r.mirrorFallback == nil {
		return
	}
	r.mirrorFallback.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
