package analyzer

import (
	"stackprint/src/combined"
	"stackprint/src/fpdb"
	"stackprint/src/useragent"
)

// Analyze is the pure entry point described in §4.7: same inputs and
// same loaded database always produce the same Result. It never writes
// to fp, db or any package-level state.
func Analyze(fp *combined.Fingerprint, clientIP string, ua string, db *fpdb.Database) Result {
	parsedUA := useragent.Parse(ua)

	var tlsOut TLSAnalysis
	var tlsClientName, tlsClientType string
	if fp.TLS != nil {
		tlsOut = analyzeTLS(fp.TLS, ua, db)
		tlsClientName = tlsOut.ClientName
		tlsClientType = tlsOut.ClientType
	}

	var http2Out *HTTP2Analysis
	var http2Match string
	var http2Impersonator bool
	if fp.HTTP2 != nil {
		h := analyzeHTTP2(fp.HTTP2)
		h.ClientMatch = http2ClientMatch(fp.HTTP2)
		if entry, bucket, ok := db.LookupHTTP2(fp.HTTP2.Akamai); ok {
			h.Observations = append(h.Observations, "Akamai fingerprint matches catalogued "+bucket+" entry: "+entry.Name)
			if h.ClientMatch == "" {
				h.ClientMatch = entry.Name
			}
		}
		http2Out = &h
		http2Match = h.ClientMatch
		http2Impersonator = h.IsImpersonator
	}

	var tcpOut *TCPAnalysis
	if fp.TCP != nil {
		t := analyzeTCP(fp.TCP)
		tcpOut = &t
	}

	consistency := buildConsistency(parsedUA, tlsClientName, http2Match, http2Impersonator, fp.TCP, tlsClientType)

	summary := buildSummary(parsedUA, tlsOut, http2Out, tcpOut, consistency, http2Impersonator)

	risk := summary.RiskLevel
	advice := buildAdvice(risk, summary.IsBot, summary.IsSpoofed, http2Impersonator, tlsOut.CipherStrength)

	return Result{
		Summary:          summary,
		TLSAnalysis:      tlsOut,
		HTTP2Analysis:    http2Out,
		TCPAnalysis:      tcpOut,
		ConsistencyCheck: consistency,
		SecurityAdvice:   advice,
		RawFingerprint:   fp,
	}
}
