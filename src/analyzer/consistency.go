package analyzer

import (
	"strings"

	"stackprint/src/tcpfp"
	"stackprint/src/useragent"
)

const startingScore = 100

func containsFold(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// osMismatch applies the OS matrix from §4.7.3: returns true when a
// claimed UA OS is implausible given the TCP-inferred OS.
func osMismatch(uaOS, tcpOS string, tcpWindow uint16) bool {
	switch uaOS {
	case "Windows":
		return tcpOS == "Linux" || tcpOS == "Linux/Unix" || tcpOS == "macOS/iOS"
	case "macOS":
		if tcpOS == "Windows" {
			return true
		}
		if (tcpOS == "Linux" || tcpOS == "Linux/Unix") && tcpWindow != 65535 {
			return true
		}
		return false
	case "Linux":
		return tcpOS == "macOS/iOS" || tcpOS == "Windows"
	case "iOS":
		return tcpOS == "Windows" || tcpOS == "Linux" || tcpOS == "Linux/Unix"
	case "Android":
		return tcpOS != "Linux" && tcpOS != "Linux/Unix" && tcpOS != "Android"
	default:
		return false
	}
}

// buildConsistency implements §4.7.3. All of tlsClientName, http2Match
// may be empty strings when that layer is absent.
func buildConsistency(ua useragent.ParsedUserAgent, tlsClientName string, http2Match string, http2Impersonator bool, tcpFp *tcpfp.Fingerprint, tlsClientType string) ConsistencyCheck {
	score := startingScore
	var anomalies, details []string

	deduct := func(amount int, anomaly string) {
		score -= amount
		anomalies = append(anomalies, anomaly)
		details = append(details, anomaly)
	}

	isEdgeException := ua.Browser == "Edge" && containsFold(tlsClientName, "Chrome")

	if ua.Browser != "" && tlsClientName != "" && !isEdgeException {
		if !containsFold(tlsClientName, ua.Browser) {
			deduct(25, "UA claims "+ua.Browser+" but TLS client fingerprint suggests "+tlsClientName)
		}
	}

	if ua.Browser != "" && http2Match != "" && !(ua.Browser == "Edge" && http2Match == "Chrome") {
		if !containsFold(http2Match, ua.Browser) {
			deduct(20, "UA claims "+ua.Browser+" but HTTP/2 fingerprint suggests "+http2Match)
		}
	}

	if tlsClientName != "" && http2Match != "" {
		if !containsFold(tlsClientName, http2Match) && !containsFold(http2Match, tlsClientName) {
			deduct(20, "TLS client fingerprint and HTTP/2 fingerprint disagree")
		}
	}

	if http2Impersonator {
		deduct(30, "HTTP/2 layer flags this connection as an impersonator")
	}

	if tcpFp != nil && ua.OS != "" {
		if osMismatch(ua.OS, tcpFp.InferredOS, tcpFp.Window) {
			deduct(35, "UA claims "+ua.OS+" but TCP fingerprint suggests "+tcpFp.InferredOS)
		}
		for _, a := range tcpFp.Anomalies {
			deduct(10, a)
		}
	}

	if ua.Browser != "" && tlsClientType == "Library" {
		deduct(25, "UA claims a browser but TLS fingerprint classifies as Library")
	}

	if tcpFp != nil && ua.IsMobile && tcpFp.InitialTTL == 128 {
		deduct(20, "UA claims a mobile client but TCP initial TTL is 128 (Windows desktop)")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ConsistencyCheck{
		Passed:    len(anomalies) == 0,
		Score:     score,
		Anomalies: anomalies,
		Details:   details,
	}
}
