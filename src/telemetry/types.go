// Package telemetry tracks connection-level trends across the fingerprints
// the rest of the system produces: reconnect bursts, connection-rate
// buckets, per-JA3 handshake latency, and per-client fingerprint drift.
// It is a read side effect only. Nothing here feeds back into
// analyzer.Analyze; the analyzer stays a pure function of a single
// fingerprint, and telemetry stays a pure function of the event stream.
package telemetry

import "time"

// FingerprintEvent is the normalized unit every telemetry analyzer
// consumes, built once per completed handshake.
type FingerprintEvent struct {
	Timestamp time.Time
	ClientIP  string
	JA3Hash   string
	JA4       string
	HTTP2     string // Akamai hash, empty for HTTP/1.1 connections
	UserAgent string
	Latency   time.Duration // time from first byte read to handshake complete
}

// Analyzer is the generic interface for all telemetry modules.
type Analyzer interface {
	OnEvent(ev FingerprintEvent)
}

// Registry fans out events to every registered analyzer.
type Registry struct {
	analyzers []Analyzer
}

func NewRegistry(analyzers ...Analyzer) *Registry {
	return &Registry{analyzers: analyzers}
}

func (r *Registry) OnEvent(ev FingerprintEvent) {
	for _, a := range r.analyzers {
		a.OnEvent(ev)
	}
}

// NewDefaultRegistry wires up the standard telemetry set used by the
// /api/telemetry handler.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewReconnectAnalyzer(30*time.Second),
		NewRateAnalyzer(time.Second, 300),
		NewLatencyAnalyzer(),
		NewDriftAnalyzer(),
	)
}

func (r *Registry) Reconnect() *ReconnectAnalyzer {
	for _, a := range r.analyzers {
		if ra, ok := a.(*ReconnectAnalyzer); ok {
			return ra
		}
	}
	return nil
}

func (r *Registry) Rate() *RateAnalyzer {
	for _, a := range r.analyzers {
		if ra, ok := a.(*RateAnalyzer); ok {
			return ra
		}
	}
	return nil
}

func (r *Registry) Latency() *LatencyAnalyzer {
	for _, a := range r.analyzers {
		if la, ok := a.(*LatencyAnalyzer); ok {
			return la
		}
	}
	return nil
}

func (r *Registry) Drift() *DriftAnalyzer {
	for _, a := range r.analyzers {
		if da, ok := a.(*DriftAnalyzer); ok {
			return da
		}
	}
	return nil
}
