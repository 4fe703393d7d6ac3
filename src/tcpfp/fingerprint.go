package tcpfp

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Fingerprint is the p0f-style signature derived from a single SYN packet.
type Fingerprint struct {
	SourceIP string    `json:"source_ip"`
	Time     time.Time `json:"observed"`

	IPVersion   int    `json:"ip_version"`
	IPFlags     byte   `json:"ip_flags"`
	ObservedTTL uint8  `json:"observed_ttl"`
	InitialTTL  uint8  `json:"initial_ttl"`
	Window      uint16 `json:"window"`

	Options    []Option `json:"options"`
	OptionsStr string   `json:"options_str"`

	MSS            uint16 `json:"mss"`
	WindowScale    uint8  `json:"window_scale"`
	HasTimestamp   bool   `json:"has_timestamp"`
	TSVal          uint32 `json:"ts_val,omitempty"`
	TSEcr          uint32 `json:"ts_ecr,omitempty"`
	UptimeEstimate string `json:"uptime_estimate,omitempty"`

	SignatureHash string   `json:"signature_hash"`
	InferredOS    string   `json:"inferred_os"`
	Confidence    string   `json:"confidence"`
	Anomalies     []string `json:"anomalies,omitempty"`
}

// Build derives a Fingerprint from raw option bytes, as they'd appear on
// the wire. It is the pure computation step exercised by tests.
func Build(sourceIP string, ipVersion int, ipFlags byte, ttl uint8, window uint16, rawOptions []byte, observedAt time.Time) Fingerprint {
	return build(sourceIP, ipVersion, ipFlags, ttl, window, parseOptions(rawOptions), observedAt)
}

// buildFromFields is the gopacket-facing entry point: the TCP layer has
// already split options into (kind, data) pairs, so there is no raw byte
// buffer to re-parse.
func buildFromFields(sourceIP string, ipVersion int, ipFlags byte, ttl uint8, window uint16, fields []tcpOptionLike, observedAt time.Time) Fingerprint {
	return build(sourceIP, ipVersion, ipFlags, ttl, window, parseOptionsFromFields(fields), observedAt)
}

func build(sourceIP string, ipVersion int, ipFlags byte, ttl uint8, window uint16, opts parsedOptions, observedAt time.Time) Fingerprint {
	initialTTL := InitialTTL(ttl)
	inferredOS, confidence := InferOS(initialTTL, opts.HasTS, window)

	fp := Fingerprint{
		SourceIP:       sourceIP,
		Time:           observedAt,
		IPVersion:      ipVersion,
		IPFlags:        ipFlags,
		ObservedTTL:    ttl,
		InitialTTL:     initialTTL,
		Window:         window,
		Options:        opts.Options,
		OptionsStr:     opts.CompactStr,
		MSS:            opts.MSS,
		WindowScale:    opts.WindowScale,
		HasTimestamp:   opts.HasTS,
		TSVal:          opts.TSVal,
		TSEcr:          opts.TSEcr,
		InferredOS:     inferredOS,
		Confidence:     confidence,
	}
	if opts.HasTS {
		fp.UptimeEstimate = estimateUptime(opts.TSVal)
	}
	fp.SignatureHash = signatureHash(fp)
	return fp
}

// signatureHash is MD5 over the canonical signature string.
func signatureHash(fp Fingerprint) string {
	s := fmt.Sprintf("%d:%d:%s:%d:%d", fp.IPVersion, fp.InitialTTL, fp.OptionsStr, fp.Window, fp.IPFlags)
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// estimateUptime assumes a 1000 Hz tick on the TSval counter. This is
// best-effort only; BSD/macOS use other rates, so callers must not treat
// the result as authoritative.
func estimateUptime(tsval uint32) string {
	seconds := int64(tsval) / 1000
	days := seconds / 86400
	seconds -= days * 86400
	hours := seconds / 3600
	seconds -= hours * 3600
	minutes := seconds / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
