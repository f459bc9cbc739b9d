package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	AnalysesCreated        uint64
	AnalysesDeleted        uint64
	AnalyzeDurationCount   uint64
	AnalyzeDurationTotalNs int64
	AnalysisCacheHits      uint64
	AnalysisCacheMisses    uint64
	ExtractionCacheHits    uint64
	ExtractionCacheMisses  uint64
	ExtractionCount        uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	analysesCreated        uint64
	analysesDeleted        uint64
	analyzeDurationCount   uint64
	analyzeDurationTotalNs int64
	analysisCacheHits      uint64
	analysisCacheMisses    uint64
	extractionCacheHits    uint64
	extractionCacheMisses  uint64
	extractionCount        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		AnalysesCreated:        atomic.LoadUint64(&m.analysesCreated),
		AnalysesDeleted:        atomic.LoadUint64(&m.analysesDeleted),
		AnalyzeDurationCount:   atomic.LoadUint64(&m.analyzeDurationCount),
		AnalyzeDurationTotalNs: atomic.LoadInt64(&m.analyzeDurationTotalNs),
		AnalysisCacheHits:      atomic.LoadUint64(&m.analysisCacheHits),
		AnalysisCacheMisses:    atomic.LoadUint64(&m.analysisCacheMisses),
		ExtractionCacheHits:    atomic.LoadUint64(&m.extractionCacheHits),
		ExtractionCacheMisses:  atomic.LoadUint64(&m.extractionCacheMisses),
		ExtractionCount:        atomic.LoadUint64(&m.extractionCount),
	}
}

// IncAnalysisCreated increments the analysis created counter.
func (m *InMemoryRecorder) IncAnalysisCreated() {
	atomic.AddUint64(&m.analysesCreated, 1)
}

// IncAnalysisDeleted increments the analysis deleted counter.
func (m *InMemoryRecorder) IncAnalysisDeleted() {
	atomic.AddUint64(&m.analysesDeleted, 1)
}

// ObserveAnalyzeDuration records end-to-end analysis duration.
func (m *InMemoryRecorder) ObserveAnalyzeDuration(duration time.Duration) {
	atomic.AddUint64(&m.analyzeDurationCount, 1)
	atomic.AddInt64(&m.analyzeDurationTotalNs, duration.Nanoseconds())
}

// IncAnalysisCacheHit increments the analysis cache hit counter.
func (m *InMemoryRecorder) IncAnalysisCacheHit() {
	atomic.AddUint64(&m.analysisCacheHits, 1)
}

// IncAnalysisCacheMiss increments the analysis cache miss counter.
func (m *InMemoryRecorder) IncAnalysisCacheMiss() {
	atomic.AddUint64(&m.analysisCacheMisses, 1)
}

// IncExtractionCacheHit increments the extraction cache hit counter.
func (m *InMemoryRecorder) IncExtractionCacheHit() {
	atomic.AddUint64(&m.extractionCacheHits, 1)
}

// IncExtractionCacheMiss increments the extraction cache miss counter.
func (m *InMemoryRecorder) IncExtractionCacheMiss() {
	atomic.AddUint64(&m.extractionCacheMisses, 1)
}

// ObserveExtractionDuration records text extraction duration per format.
func (m *InMemoryRecorder) ObserveExtractionDuration(format string, duration time.Duration) {
	atomic.AddUint64(&m.extractionCount, 1)
}
