package telemetry

import (
	"sync"
	"time"
)

// RateBucket counts handshakes observed in a fixed-width time window.
type RateBucket struct {
	WindowStart time.Time
	Count       int64
}

// RateAnalyzer maintains a ring of RateBuckets at a fixed resolution,
// giving a rolling view of connection volume without retaining every
// individual event.
type RateAnalyzer struct {
	mu         sync.RWMutex
	resolution time.Duration
	buckets    []RateBucket
}

func NewRateAnalyzer(resolution time.Duration, bucketCount int) *RateAnalyzer {
	if bucketCount <= 0 {
		bucketCount = 1
	}
	if resolution <= 0 {
		resolution = time.Second
	}
	return &RateAnalyzer{
		resolution: resolution,
		buckets:    make([]RateBucket, bucketCount),
	}
}

func (t *RateAnalyzer) OnEvent(ev FingerprintEvent) {
	ts := ev.Timestamp
	if ts.IsZero() {
		return
	}
	quantized := ts.UTC().Truncate(t.resolution)
	slot := t.indexFor(quantized)

	t.mu.Lock()
	defer t.mu.Unlock()

	b := &t.buckets[slot]
	if b.WindowStart.IsZero() || !b.WindowStart.Equal(quantized) {
		*b = RateBucket{WindowStart: quantized}
	}
	b.Count++
}

func (t *RateAnalyzer) indexFor(quantized time.Time) int {
	seq := quantized.UnixNano() / int64(t.resolution)
	n := int64(len(t.buckets))
	if n <= 0 {
		return 0
	}
	mod := seq % n
	if mod < 0 {
		mod += n
	}
	return int(mod)
}

// Snapshot returns a copy of the current buckets for export.
func (t *RateAnalyzer) Snapshot() []RateBucket {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]RateBucket, len(t.buckets))
	copy(out, t.buckets)
	return out
}
