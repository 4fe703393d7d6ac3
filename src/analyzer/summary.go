package analyzer

import (
	"strings"

	"stackprint/src/useragent"
)

func buildSummary(ua useragent.ParsedUserAgent, tls TLSAnalysis, http2 *HTTP2Analysis, tcp *TCPAnalysis, consistency ConsistencyCheck, http2Impersonator bool) Summary {
	s := Summary{}

	switch {
	case http2 != nil && http2.IsImpersonator:
		s.DetectedClient = "Impersonator (" + http2.ImpersonatorType + ")"
	case tls.ClientName != "":
		s.DetectedClient = tls.ClientName
	case ua.Browser != "":
		s.DetectedClient = ua.Browser + " (from UA, TLS unknown)"
	default:
		s.DetectedClient = "Unknown"
	}

	switch {
	case tcp != nil && tcp.InferredOS != "":
		s.DetectedOS = tcp.InferredOS
		if tcp.OSConfidence == "high" {
			s.DetectedOS += " (high confidence)"
		}
	case ua.OS != "":
		s.DetectedOS = ua.OS + " (from UA only)"
	default:
		s.DetectedOS = "Unknown"
	}

	botSignals := 0
	if tls.ClientType == "Library" || tls.ClientType == "Library (likely)" || strings.HasPrefix(tls.ClientType, "Bot") {
		botSignals++
	}
	if consistency.Score < 70 {
		botSignals++
	}
	// SNI empty is visible via the TLS observations recorded in
	// classifyClientType, which does not run when the JA3 catalog already
	// names the client a bot or malware.
	for _, o := range tls.Observations {
		if o == "No SNI" {
			botSignals++
			break
		}
	}
	if ua.Raw == "" {
		botSignals++
	}
	if ua.SelfIDBot || ua.Library != "" {
		botSignals++
	}
	if http2Impersonator {
		botSignals += 2
	}

	s.IsBot = botSignals >= 2
	s.IsSpoofed = len(consistency.Anomalies) > 0 || http2Impersonator

	// A client whose TLS stack is itself classified as Library/Bot (e.g. a
	// bare python-requests/curl handshake) is automation confirmed at the
	// TLS layer, not merely inferred from cross-layer disagreement — the
	// consistency score alone can't see it, since there's no browser claim
	// for it to contradict. Treat that combination as high regardless of
	// the otherwise-untouched consistency score.
	tlsConfirmedAutomation := s.IsBot && (tls.ClientType == "Library" || tls.ClientType == "Library (likely)" || strings.HasPrefix(tls.ClientType, "Bot"))

	switch {
	case http2Impersonator:
		if consistency.Score >= 80 {
			s.RiskLevel = "medium"
		} else {
			s.RiskLevel = "high"
		}
	case tlsConfirmedAutomation:
		s.RiskLevel = "high"
	case consistency.Score >= 90 && !s.IsBot:
		s.RiskLevel = "low"
	case consistency.Score >= 60:
		s.RiskLevel = "medium"
	default:
		s.RiskLevel = "high"
	}

	s.Uniqueness = uniquenessLabel(tls.JA3Popularity, tls.JA4Popularity)

	if s.IsSpoofed {
		s.Warnings = append(s.Warnings, "cross-layer signals disagree with the declared client")
	}
	if s.IsBot {
		s.Warnings = append(s.Warnings, "multiple automation signals detected")
	}

	return s
}

func uniquenessLabel(ja3Pop, ja4Pop string) string {
	if ja3Pop == "Known" || ja4Pop == "low" || ja4Pop == "medium" || ja4Pop == "high" {
		return "common"
	}
	return "rare"
}
