package tcpfp

import "sync"

// DefaultCapacity is the hard cap on the number of source IPs the table
// will track before a cleanup pass wipes it.
const DefaultCapacity = 10000

// Table is the internal map the TCP Capture Agent publishes into: source
// IP -> latest Fingerprint, protected by a single reader-writer lock.
// There is no per-entry TTL; a periodic Cleanup call enforces the
// capacity bound by replacing the whole map, exactly as TCPFingerprint
// rows are only ever overwritten, never merged.
type Table struct {
	mu       sync.RWMutex
	byIP     map[string]Fingerprint
	capacity int
}

// NewTable constructs an empty table with the given capacity. A
// non-positive capacity falls back to DefaultCapacity.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{byIP: make(map[string]Fingerprint), capacity: capacity}
}

// Put overwrites any previous row for fp.SourceIP.
func (t *Table) Put(fp Fingerprint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byIP[fp.SourceIP] = fp
}

// Get returns the latest fingerprint for ip, if any.
func (t *Table) Get(ip string) (Fingerprint, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fp, ok := t.byIP[ip]
	return fp, ok
}

// Cleanup enforces the capacity bound: once the table grows past
// capacity, the whole map is replaced with an empty one. This is
// acceptable because the table is a short-lived cache, not a database,
// and traffic rate naturally rotates entries back in.
func (t *Table) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.byIP) > t.capacity {
		t.byIP = make(map[string]Fingerprint)
	}
}

// Len reports the current number of tracked source IPs.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byIP)
}
