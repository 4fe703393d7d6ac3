package analyzer

import (
	"fmt"

	"stackprint/src/http2fp"
)

const (
	chromeWU   = 15663105
	safariWU   = 10420225
	firefoxWU  = 12517377
	impersonatorSignalThreshold = 3
)

func settingsHas(fp *http2fp.Fingerprint, id uint32, val uint32) bool {
	for _, s := range fp.Settings {
		if uint32(s.ID) == id && s.Value == val {
			return true
		}
	}
	return false
}

func isChromeLikeSettings(fp *http2fp.Fingerprint) bool {
	return settingsHas(fp, 4, 6291456) && settingsHas(fp, 6, 262144)
}

func isSafariLikeSettings(fp *http2fp.Fingerprint) bool {
	startsWithTwoZero := len(fp.Settings) > 0 && uint32(fp.Settings[0].ID) == 2 && fp.Settings[0].Value == 0
	has91 := settingsHas(fp, 9, 1)
	return startsWithTwoZero && has91
}

func isFirefoxLikeSettings(fp *http2fp.Fingerprint) bool {
	return settingsHas(fp, 4, 131072) && settingsHas(fp, 5, 16384)
}

// analyzeHTTP2 implements §4.7.2's impersonator rule set R1-R7.
func analyzeHTTP2(fp *http2fp.Fingerprint) HTTP2Analysis {
	out := HTTP2Analysis{Detected: true}
	signals := 0
	pseudo := fp.PseudoOrder
	wu := fp.WindowUpdate

	chromeSettings := isChromeLikeSettings(fp)
	safariSettings := isSafariLikeSettings(fp)
	firefoxSettings := isFirefoxLikeSettings(fp)

	if chromeSettings && wu == chromeWU && pseudo != "m,a,s,p" {
		signals += 3
		out.Observations = append(out.Observations, "R1: Chrome SETTINGS+WU but pseudo_header_order='"+pseudo+"'")
	}
	if chromeSettings && wu != chromeWU && wu != 0 {
		signals++
		out.Observations = append(out.Observations, fmt.Sprintf("R2: Chrome SETTINGS but WINDOW_UPDATE=%d", wu))
	}
	if safariSettings && wu == safariWU && pseudo != "m,s,a" && pseudo != "m,s,p,a" {
		signals += 3
		out.Observations = append(out.Observations, "R3: Safari SETTINGS+WU but pseudo_header_order='"+pseudo+"'")
	}
	if firefoxSettings && wu == firefoxWU && pseudo != "m,p,a,s" {
		signals += 3
		out.Observations = append(out.Observations, "R4: Firefox SETTINGS+WU but pseudo_header_order='"+pseudo+"'")
	}
	if chromeSettings && pseudo == "m,a,s" {
		signals += 2
		out.Observations = append(out.Observations, "R5: Chrome SETTINGS with truncated pseudo order 'm,a,s'")
	}
	if chromeSettings && wu == safariWU {
		signals += 2
		out.Observations = append(out.Observations, "R6: Chrome SETTINGS with Safari WINDOW_UPDATE")
	}
	if safariSettings && wu == chromeWU {
		signals += 2
		out.Observations = append(out.Observations, "R7: Safari SETTINGS with Chrome WINDOW_UPDATE")
	}

	if signals >= impersonatorSignalThreshold {
		out.IsImpersonator = true
		out.ImpersonatorType = "curl-impersonate/curl_cffi"
	} else if signals > 0 && len(out.Observations) == 0 {
		out.Observations = append(out.Observations, "minor SETTINGS/WINDOW_UPDATE/pseudo-order inconsistency observed")
	}

	return out
}

// http2ClientMatch is a best-effort label for the consistency checker:
// "Chrome", "Safari", "Firefox" or "" when the SETTINGS shape doesn't
// resemble a catalogued browser family.
func http2ClientMatch(fp *http2fp.Fingerprint) string {
	switch {
	case isChromeLikeSettings(fp):
		return "Chrome"
	case isSafariLikeSettings(fp):
		return "Safari"
	case isFirefoxLikeSettings(fp):
		return "Firefox"
	default:
		return ""
	}
}
