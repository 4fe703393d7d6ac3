package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"stackprint/src/analyzer"
	"stackprint/src/combined"
	"stackprint/src/tcpfp"
	"stackprint/src/telemetry"
)

// fingerprintResponse mirrors §4.8: GET /api/fingerprint.
type fingerprintResponse struct {
	Success     bool                  `json:"success"`
	ClientIP    string                `json:"client_ip"`
	Fingerprint *combined.Fingerprint `json:"fingerprint"`
}

// analysisFingerprints is the compact fingerprints block embedded in
// the default /api/analysis response, per §6.5.
type analysisFingerprints struct {
	JA3    string `json:"ja3"`
	JA4    string `json:"ja4"`
	HTTP2  string `json:"http2,omitempty"`
	TCP    string `json:"tcp,omitempty"`
	TCPOS  string `json:"tcp_os,omitempty"`
}

type analysisClient struct {
	Type     string `json:"type"`
	Claimed  string `json:"claimed"`
	Detected string `json:"detected"`
	Match    bool   `json:"match"`
}

// analysisResponse is the default shape from §6.5; Details is populated
// only when the caller passed ?details=true.
type analysisResponse struct {
	RiskScore    int                  `json:"risk_score"`
	RiskLevel    string               `json:"risk_level"`
	IsBot        bool                 `json:"is_bot"`
	IsSpoofed    bool                 `json:"is_spoofed"`
	Client       analysisClient       `json:"client"`
	Fingerprints analysisFingerprints `json:"fingerprints"`
	Anomalies    []string             `json:"anomalies,omitempty"`
	Details      *analyzer.Result     `json:"details,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// buildResponseBody routes the single request every fingerprinting
// connection serves, per §4.8/§6.5. Unknown paths fall back to the
// analysis response, matching a bare fingerprinting GET with no path
// opinion of its own.
func (s *fingerprintServer) buildResponseBody(rawPath, clientIP, ua string) []byte {
	path := rawPath
	wantDetails := false
	if u, err := url.Parse(rawPath); err == nil {
		path = u.Path
		wantDetails = u.Query().Get("details") == "true"
	}

	switch path {
	case "/api/fingerprint":
		return s.fingerprintBody(clientIP)
	case "/api/telemetry":
		return s.telemetryBody()
	case "/", "":
		return s.statusBody()
	default:
		return s.analysisBody(clientIP, ua, wantDetails)
	}
}

// telemetryResponse is a side channel, not part of the fingerprinting
// contract in §4.8/§6.5: it reports connection-level trends rather than
// any single connection's fingerprint, and is never consulted by
// analyzer.Analyze.
type telemetryResponse struct {
	Reconnects []telemetry.ReconnectSnapshot `json:"reconnects"`
	Rate       []telemetry.RateBucket        `json:"connection_rate"`
	Latency    []telemetry.LatencySnapshot   `json:"handshake_latency"`
	Drift      []telemetry.DriftSnapshot     `json:"fingerprint_drift"`
}

func (s *fingerprintServer) telemetryBody() []byte {
	resp := telemetryResponse{}
	if s.telemetry != nil {
		if r := s.telemetry.Reconnect(); r != nil {
			resp.Reconnects = r.Snapshot(3)
		}
		if rate := s.telemetry.Rate(); rate != nil {
			resp.Rate = rate.Snapshot()
		}
		if l := s.telemetry.Latency(); l != nil {
			resp.Latency = l.Snapshot(1)
		}
		if d := s.telemetry.Drift(); d != nil {
			resp.Drift = d.Snapshot(1)
		}
	}
	b, _ := json.Marshal(resp)
	return b
}

func (s *fingerprintServer) fingerprintBody(clientIP string) []byte {
	fp, ok := s.store.GetByIP(clientIP)
	b, _ := json.Marshal(fingerprintResponse{
		Success:     ok,
		ClientIP:    clientIP,
		Fingerprint: fp,
	})
	return b
}

func (s *fingerprintServer) analysisBody(clientIP, ua string, details bool) []byte {
	fp, ok := s.store.GetByIP(clientIP)
	if !ok {
		b, _ := json.Marshal(analysisResponse{
			RiskScore: 0,
			RiskLevel: "unknown",
			Error:     "No fingerprint found for this client yet",
		})
		return b
	}

	result := analyzer.Analyze(fp, clientIP, ua, s.db)

	resp := analysisResponse{
		RiskScore: result.ConsistencyCheck.Score,
		RiskLevel: result.Summary.RiskLevel,
		IsBot:     result.Summary.IsBot,
		IsSpoofed: result.Summary.IsSpoofed,
		Client: analysisClient{
			Type:     clientTypeLabel(result),
			Claimed:  ua,
			Detected: result.Summary.DetectedClient,
			Match:    !result.Summary.IsSpoofed,
		},
		Anomalies: result.ConsistencyCheck.Anomalies,
	}

	if fp.TLS != nil {
		resp.Fingerprints.JA3 = fp.TLS.JA3Hash
		resp.Fingerprints.JA4 = fp.TLS.JA4
	}
	if fp.HTTP2 != nil {
		resp.Fingerprints.HTTP2 = fp.HTTP2.AkamaiHash
	}
	if fp.TCP != nil {
		resp.Fingerprints.TCP = tcpCompactString(fp.TCP)
		resp.Fingerprints.TCPOS = fp.TCP.InferredOS
	}

	if details {
		resp.Details = &result
	}

	b, _ := json.Marshal(resp)
	return b
}

// tcpCompactString renders the <initial_ttl>:<window>:<options> shape
// from §6.5's compact fingerprints block.
func tcpCompactString(fp *tcpfp.Fingerprint) string {
	return fmt.Sprintf("%d:%d:%s", fp.InitialTTL, fp.Window, fp.OptionsStr)
}

func clientTypeLabel(r analyzer.Result) string {
	if r.HTTP2Analysis != nil && r.HTTP2Analysis.IsImpersonator {
		return "impersonator"
	}
	switch r.TLSAnalysis.ClientType {
	case "Browser", "Browser (likely)":
		return "browser"
	case "Library", "Library (likely)":
		return "library"
	case "Bot":
		return "bot"
	default:
		return "unknown"
	}
}
