package analyzer

// buildAdvice emits the fixed rule table from §4.7.5: no heuristic
// reasoning, just boolean-gated entries for defenders and pentesters.
func buildAdvice(overallRisk string, isBot, isSpoofed, isImpersonator bool, cipherStrength string) SecurityAdvice {
	advice := SecurityAdvice{OverallRisk: overallRisk}

	if isImpersonator {
		advice.ForDefenders = append(advice.ForDefenders, AdviceItem{
			Category:    "impersonation",
			Title:       "Block or challenge impersonator traffic",
			Description: "HTTP/2 frame ordering does not match the claimed browser; route through a CAPTCHA or rate limiter.",
			Priority:    "high",
		})
		advice.ForPentesters = append(advice.ForPentesters, AdviceItem{
			Category:    "impersonation",
			Title:       "Align HTTP/2 frame order with the TLS fingerprint",
			Description: "curl-impersonate / curl_cffi profiles still leak at the frame layer; patch pseudo-header order to match.",
			Priority:    "medium",
		})
	}

	if isBot {
		advice.ForDefenders = append(advice.ForDefenders, AdviceItem{
			Category:    "automation",
			Title:       "Treat this client as automated traffic",
			Description: "Multiple independent bot signals triggered; apply bot-management policy.",
			Priority:    "medium",
		})
	}

	if isSpoofed {
		advice.ForDefenders = append(advice.ForDefenders, AdviceItem{
			Category:    "spoofing",
			Title:       "Do not trust the declared User-Agent",
			Description: "Cross-layer signals disagree with the claimed client; base access decisions on the fingerprint, not the header.",
			Priority:    "high",
		})
	}

	if cipherStrength == "Weak" {
		advice.ForDefenders = append(advice.ForDefenders, AdviceItem{
			Category:    "crypto",
			Title:       "Reject legacy cipher suites",
			Description: "Client offered RC4/DES/EXPORT/NULL suites; these should not be negotiable on a modern listener.",
			Priority:    "medium",
		})
	}

	if !isBot && !isSpoofed && !isImpersonator {
		advice.Recommendations = append(advice.Recommendations, "No action needed; fingerprint is internally consistent.")
	} else {
		advice.Recommendations = append(advice.Recommendations, "Re-verify this client's identity out of band before granting elevated access.")
	}

	return advice
}
