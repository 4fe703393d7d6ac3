// Package combined defines the cross-layer fingerprint record that the
// connection multiplexer assembles and the analyzer consumes. It owns
// its children; nothing downstream mutates them in place.
package combined

import (
	"time"

	"stackprint/src/http2fp"
	"stackprint/src/tcpfp"
	"stackprint/src/tlsfp"
)

// Fingerprint is the per-connection join of TLS, HTTP/2 and TCP
// signals. HTTP2 and TCP are optional: a bare TLS connection never sees
// HTTP/2 frames, and TCP is absent whenever the capture agent is
// disabled or simply hasn't seen the SYN yet.
type Fingerprint struct {
	ClientIP string    `json:"client_ip"`
	Observed time.Time `json:"observed"`

	TLS   *tlsfp.Fingerprint   `json:"tls,omitempty"`
	HTTP2 *http2fp.Fingerprint `json:"http2,omitempty"`
	TCP   *tcpfp.Fingerprint   `json:"tcp,omitempty"`
}
