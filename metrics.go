package hyperlsh

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAdd is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordAdd(duration time.Duration, err error)

	// RecordNearest is called after each nearest-neighbor query.
	// count is the number of neighbors requested, candidates is the number
	// of distinct keys scored, duration is the time taken.
	RecordNearest(count, candidates int, duration time.Duration, err error)

	// RecordAutotune is called after each plane-count search.
	RecordAutotune(planes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)               {}
func (NoopMetricsCollector) RecordNearest(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordAutotune(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount          atomic.Int64
	AddErrors         atomic.Int64
	AddTotalNanos     atomic.Int64
	NearestCount      atomic.Int64
	NearestErrors     atomic.Int64
	NearestTotalNanos atomic.Int64
	CandidatesScored  atomic.Int64
	AutotuneCount     atomic.Int64
	AutotuneErrors    atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordNearest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNearest(count, candidates int, duration time.Duration, err error) {
	b.NearestCount.Add(1)
	b.NearestTotalNanos.Add(duration.Nanoseconds())
	b.CandidatesScored.Add(int64(candidates))
	if err != nil {
		b.NearestErrors.Add(1)
	}
}

// RecordAutotune implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAutotune(planes int, duration time.Duration, err error) {
	b.AutotuneCount.Add(1)
	if err != nil {
		b.AutotuneErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:         b.AddCount.Load(),
		AddErrors:        b.AddErrors.Load(),
		AddAvgNanos:      avg(b.AddTotalNanos.Load(), b.AddCount.Load()),
		NearestCount:     b.NearestCount.Load(),
		NearestErrors:    b.NearestErrors.Load(),
		NearestAvgNanos:  avg(b.NearestTotalNanos.Load(), b.NearestCount.Load()),
		CandidatesScored: b.CandidatesScored.Load(),
		AutotuneCount:    b.AutotuneCount.Load(),
		AutotuneErrors:   b.AutotuneErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount         int64
	AddErrors        int64
	AddAvgNanos      int64
	NearestCount     int64
	NearestErrors    int64
	NearestAvgNanos  int64
	CandidatesScored int64
	AutotuneCount    int64
	AutotuneErrors   int64
}
