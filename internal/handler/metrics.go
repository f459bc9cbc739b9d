package handler

import (
	"fmt"
	"net/http"

	"github.com/jainamshah2028/ai-resume-grader/internal/metrics"
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

	writeMetric(w, "resume_grader_analyses_created_total %d\n", snap.AnalysesCreated)
	writeMetric(w, "resume_grader_analyses_deleted_total %d\n", snap.AnalysesDeleted)
	writeMetric(w, "resume_grader_analyze_duration_seconds_count %d\n", snap.AnalyzeDurationCount)
	writeMetric(w, "resume_grader_analyze_duration_seconds_sum %.6f\n", float64(snap.AnalyzeDurationTotalNs)/1e9)

	writeMetric(w, "resume_grader_analysis_cache_hits_total %d\n", snap.AnalysisCacheHits)
	writeMetric(w, "resume_grader_analysis_cache_misses_total %d\n", snap.AnalysisCacheMisses)

	writeMetric(w, "resume_grader_extraction_cache_hits_total %d\n", snap.ExtractionCacheHits)
	writeMetric(w, "resume_grader_extraction_cache_misses_total %d\n", snap.ExtractionCacheMisses)
	writeMetric(w, "resume_grader_extractions_total %d\n", snap.ExtractionCount)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
