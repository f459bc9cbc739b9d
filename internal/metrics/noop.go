package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncAnalysisCreated is a no-op.
func (n *NoopRecorder) IncAnalysisCreated() {}

// IncAnalysisDeleted is a no-op.
func (n *NoopRecorder) IncAnalysisDeleted() {}

// ObserveAnalyzeDuration is a no-op.
func (n *NoopRecorder) ObserveAnalyzeDuration(duration time.Duration) {}

// IncAnalysisCacheHit is a no-op.
func (n *NoopRecorder) IncAnalysisCacheHit() {}

// IncAnalysisCacheMiss is a no-op.
func (n *NoopRecorder) IncAnalysisCacheMiss() {}

// IncExtractionCacheHit is a no-op.
func (n *NoopRecorder) IncExtractionCacheHit() {}

// IncExtractionCacheMiss is a no-op.
func (n *NoopRecorder) IncExtractionCacheMiss() {}

// ObserveExtractionDuration is a no-op.
func (n *NoopRecorder) ObserveExtractionDuration(format string, duration time.Duration) {}
