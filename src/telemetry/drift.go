package telemetry

import (
	"sync"
	"time"
)

// ClientDrift tracks how a single client IP's fingerprints change over
// time. A stable human browsing session presents the same JA3/JA4/UA on
// every connection; frequent drift on one IP usually means a pool of
// automated clients sitting behind shared NAT, or a single client
// deliberately rotating its signature.
type ClientDrift struct {
	FirstSeen        time.Time
	LastSeen         time.Time
	ObservationCount int64

	CurrentJA3 string
	JA3Changes int64
	CurrentJA4 string
	JA4Changes int64
	CurrentUA  string
	UAChanges  int64
}

// DriftSnapshot is a read-only export of one client's drift state.
type DriftSnapshot struct {
	ClientIP         string    `json:"client_ip"`
	FirstSeen        time.Time `json:"first_seen"`
	LastSeen         time.Time `json:"last_seen"`
	ObservationCount int64     `json:"observation_count"`
	CurrentJA3       string    `json:"current_ja3"`
	JA3Changes       int64     `json:"ja3_changes"`
	CurrentJA4       string    `json:"current_ja4"`
	JA4Changes       int64     `json:"ja4_changes"`
	CurrentUA        string    `json:"current_ua"`
	UAChanges        int64     `json:"ua_changes"`
}

// DriftAnalyzer keeps per-client-IP fingerprint history.
type DriftAnalyzer struct {
	mu       sync.RWMutex
	byClient map[string]*ClientDrift
}

func NewDriftAnalyzer() *DriftAnalyzer {
	return &DriftAnalyzer{byClient: make(map[string]*ClientDrift)}
}

func (a *DriftAnalyzer) OnEvent(ev FingerprintEvent) {
	now := ev.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	d, ok := a.byClient[ev.ClientIP]
	if !ok {
		d = &ClientDrift{FirstSeen: now, CurrentJA3: ev.JA3Hash, CurrentJA4: ev.JA4, CurrentUA: ev.UserAgent}
		a.byClient[ev.ClientIP] = d
	}

	d.LastSeen = now
	d.ObservationCount++

	if ev.JA3Hash != "" && d.ObservationCount > 1 && ev.JA3Hash != d.CurrentJA3 {
		d.JA3Changes++
	}
	if ev.JA3Hash != "" {
		d.CurrentJA3 = ev.JA3Hash
	}

	if ev.JA4 != "" && d.ObservationCount > 1 && ev.JA4 != d.CurrentJA4 {
		d.JA4Changes++
	}
	if ev.JA4 != "" {
		d.CurrentJA4 = ev.JA4
	}

	if ev.UserAgent != "" && d.ObservationCount > 1 && ev.UserAgent != d.CurrentUA {
		d.UAChanges++
	}
	if ev.UserAgent != "" {
		d.CurrentUA = ev.UserAgent
	}
}

// Snapshot returns drift state for every client whose total change
// count is at least minChanges. minChanges == 0 returns everyone.
func (a *DriftAnalyzer) Snapshot(minChanges int64) []DriftSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]DriftSnapshot, 0, len(a.byClient))
	for ip, d := range a.byClient {
		total := d.JA3Changes + d.JA4Changes + d.UAChanges
		if total < minChanges {
			continue
		}
		out = append(out, DriftSnapshot{
			ClientIP:         ip,
			FirstSeen:        d.FirstSeen,
			LastSeen:         d.LastSeen,
			ObservationCount: d.ObservationCount,
			CurrentJA3:       d.CurrentJA3,
			JA3Changes:       d.JA3Changes,
			CurrentJA4:       d.CurrentJA4,
			JA4Changes:       d.JA4Changes,
			CurrentUA:        d.CurrentUA,
			UAChanges:        d.UAChanges,
		})
	}
	return out
}
