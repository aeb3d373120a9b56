package handler

import (
	"fmt"
	"net/http"

	"github.com/hostlink/hostlink/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "hostlink_redirect_cache_hits_total %d\n", snap.RedirectCacheHits)
	writeMetric(w, "hostlink_redirect_cache_misses_total %d\n", snap.RedirectCacheMisses)
	writeMetric(w, "hostlink_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "hostlink_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationTotalNs)/1e9)

	writeMetric(w, "hostlink_short_urls_created_total %d\n", snap.ShortURLsCreated)
	writeMetric(w, "hostlink_short_urls_updated_total %d\n", snap.ShortURLsUpdated)
	writeMetric(w, "hostlink_short_urls_deleted_total %d\n", snap.ShortURLsDeleted)

	writeMetric(w, "hostlink_clicks_recorded_total{status=\"success\"} %d\n", snap.ClicksRecorded)
	writeMetric(w, "hostlink_clicks_recorded_total{status=\"failed\"} %d\n", snap.ClicksFailed)

	writeMetric(w, "hostlink_domains_configured_total %d\n", snap.DomainsConfigured)
	writeMetric(w, "hostlink_domains_removed_total %d\n", snap.DomainsRemoved)
	writeMetric(w, "hostlink_domain_validations_total{result=\"allow\"} %d\n", snap.DomainValidationsAllow)
	writeMetric(w, "hostlink_domain_validations_total{result=\"deny\"} %d\n", snap.DomainValidationsDeny)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
