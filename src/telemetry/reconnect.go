package telemetry

import (
	"sync"
	"time"
)

// ReconnectState tracks how many handshakes a client IP has opened in
// quick succession.
type ReconnectState struct {
	LastTimestamp time.Time
	Count         int64
	LastJA3       string
}

// ReconnectAnalyzer detects reconnect bursts: the same client IP opening
// many new connections within a short window. A scanner or a scripted
// client that never reuses a session tends to show up here long before
// it shows up in any single fingerprint's anomaly list.
type ReconnectAnalyzer struct {
	mu     sync.RWMutex
	Window time.Duration
	byIP   map[string]*ReconnectState
}

func NewReconnectAnalyzer(window time.Duration) *ReconnectAnalyzer {
	if window <= 0 {
		window = 30 * time.Second
	}
	return &ReconnectAnalyzer{
		Window: window,
		byIP:   make(map[string]*ReconnectState),
	}
}

func (a *ReconnectAnalyzer) OnEvent(ev FingerprintEvent) {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.byIP[ev.ClientIP]
	if !ok {
		a.byIP[ev.ClientIP] = &ReconnectState{LastTimestamp: ts, Count: 1, LastJA3: ev.JA3Hash}
		return
	}

	if ts.Sub(st.LastTimestamp) <= a.Window {
		st.Count++
	} else {
		st.Count = 1
	}
	st.LastTimestamp = ts
	st.LastJA3 = ev.JA3Hash
}

// ReconnectSnapshot is a read-only view of one client's burst state.
type ReconnectSnapshot struct {
	ClientIP      string    `json:"client_ip"`
	Count         int64     `json:"count"`
	LastTimestamp time.Time `json:"last_timestamp"`
	LastJA3       string    `json:"last_ja3"`
}

// Snapshot returns every client IP whose current burst count is at
// least minCount and whose last connection is still inside the window.
func (a *ReconnectAnalyzer) Snapshot(minCount int64) []ReconnectSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := time.Now()
	out := make([]ReconnectSnapshot, 0, len(a.byIP))
	for ip, st := range a.byIP {
		if st.Count < minCount {
			continue
		}
		if now.Sub(st.LastTimestamp) > a.Window {
			continue
		}
		out = append(out, ReconnectSnapshot{
			ClientIP:      ip,
			Count:         st.Count,
			LastTimestamp: st.LastTimestamp,
			LastJA3:       st.LastJA3,
		})
	}
	return out
}
