// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Analysis lifecycle metrics
	IncAnalysisCreated()
	IncAnalysisDeleted()
	ObserveAnalyzeDuration(duration time.Duration)

	// Analysis read path metrics
	IncAnalysisCacheHit()
	IncAnalysisCacheMiss()

	// Resume text extraction metrics
	IncExtractionCacheHit()
	IncExtractionCacheMiss()
	ObserveExtractionDuration(format string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
