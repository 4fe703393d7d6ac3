// Package analyzer implements the rule-driven cross-layer analysis: a
// pure function from a combined fingerprint, client IP and User-Agent
// string to an AnalysisResult. It never mutates its inputs and never
// consults anything beyond the loaded fpdb.Database, so the same
// arguments always produce the same result.
package analyzer

import "stackprint/src/combined"

// Summary is the top-level verdict block.
type Summary struct {
	RiskLevel      string   `json:"risk_level"`
	Uniqueness     string   `json:"uniqueness"`
	DetectedClient string   `json:"detected_client"`
	DetectedOS     string   `json:"detected_os"`
	IsBot          bool     `json:"is_bot"`
	IsSpoofed      bool     `json:"is_spoofed"`
	Warnings       []string `json:"warnings"`
}

// TLSAnalysis is the TLS sub-analysis block.
type TLSAnalysis struct {
	Protocol       string   `json:"protocol"`
	ClientType     string   `json:"client_type"`
	ClientName     string   `json:"client_name"`
	ClientVersion  string   `json:"client_version,omitempty"`
	JA3Popularity  string   `json:"ja3_popularity"`
	JA4Popularity  string   `json:"ja4_popularity"`
	CipherStrength string   `json:"cipher_strength"`
	Observations   []string `json:"observations"`
}

// HTTP2Analysis is the HTTP/2 sub-analysis block, present only when the
// connection actually negotiated h2.
type HTTP2Analysis struct {
	Detected         bool     `json:"detected"`
	ClientMatch      string   `json:"client_match,omitempty"`
	IsImpersonator   bool     `json:"is_impersonator"`
	ImpersonatorType string   `json:"impersonator_type,omitempty"`
	Observations     []string `json:"observations"`
}

// TCPAnalysis is the TCP sub-analysis block, present only when a TCP
// fingerprint for the caller's IP was available.
type TCPAnalysis struct {
	Detected     bool     `json:"detected"`
	InferredOS   string   `json:"inferred_os,omitempty"`
	OSConfidence string   `json:"os_confidence,omitempty"`
	TTLAnalysis  string   `json:"ttl_analysis,omitempty"`
	Observations []string `json:"observations"`
}

// ConsistencyCheck is the cross-layer scoring block.
type ConsistencyCheck struct {
	Passed    bool     `json:"passed"`
	Score     int      `json:"score"`
	Anomalies []string `json:"anomalies"`
	Details   []string `json:"details"`
}

// AdviceItem is one fixed-rule-table recommendation.
type AdviceItem struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // low, medium, high
}

// SecurityAdvice groups advice items by audience.
type SecurityAdvice struct {
	OverallRisk     string       `json:"overall_risk"`
	ForDefenders    []AdviceItem `json:"for_defenders"`
	ForPentesters   []AdviceItem `json:"for_pentesters"`
	Recommendations []string     `json:"recommendations"`
}

// Result is the full analyzer output.
type Result struct {
	Summary          Summary               `json:"summary"`
	TLSAnalysis      TLSAnalysis           `json:"tls_analysis"`
	HTTP2Analysis    *HTTP2Analysis        `json:"http2_analysis,omitempty"`
	TCPAnalysis      *TCPAnalysis          `json:"tcp_analysis,omitempty"`
	ConsistencyCheck ConsistencyCheck      `json:"consistency_check"`
	SecurityAdvice   SecurityAdvice        `json:"security_advice"`
	RawFingerprint   *combined.Fingerprint `json:"raw_fingerprint"`
}
