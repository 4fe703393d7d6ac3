package analyzer

import (
	"strings"

	"stackprint/src/fpdb"
	"stackprint/src/tlsfp"
)

// browserOnlyExtensions are extensions real browsers send but hand-rolled
// TLS stacks almost never bother implementing.
var browserOnlyExtensions = map[string]bool{
	"encrypted_client_hello": true,
	"application_settings":   true,
	"compress_certificate":   true,
}

func tlsVersionLabel(v uint16) string {
	switch v {
	case 0x0304:
		return "TLS 1.3"
	case 0x0303:
		return "TLS 1.2"
	default:
		return "older"
	}
}

// analyzeTLS implements §4.7.1. fp is never nil when this is called.
func analyzeTLS(fp *tlsfp.Fingerprint, ua string, db *fpdb.Database) TLSAnalysis {
	out := TLSAnalysis{
		Protocol:      tlsVersionLabel(effectiveVersion(fp)),
		JA3Popularity: "Unknown",
		JA4Popularity: "Unknown",
	}

	var ja3Kind string
	if entry, ok := db.LookupJA3(fp.JA3Hash); ok {
		out.ClientName = entry.Name
		out.ClientVersion = entry.Version
		out.JA3Popularity = "Known"
		ja3Kind = entry.Kind
		if entry.Kind == "malware" {
			out.Observations = append(out.Observations, "JA3 hash matches a known malware signature")
		}
	}

	if len(fp.JA4) >= 10 {
		if entry, ok := db.LookupJA4Prefix(fp.JA4[:10]); ok {
			out.JA4Popularity = entry.Risk
			out.Observations = append(out.Observations, "JA4 prefix matches "+entry.Description)
		}
	}

	switch ja3Kind {
	case "bot":
		out.ClientType = "Bot"
	case "malware":
		out.ClientType = "Malware"
	default:
		out.ClientType = classifyClientType(fp, ua, &out.Observations)
	}
	out.CipherStrength = classifyCipherStrength(fp)

	return out
}

func effectiveVersion(fp *tlsfp.Fingerprint) uint16 {
	if fp.NegotiatedVersion != 0 {
		return fp.NegotiatedVersion
	}
	return fp.ClientVersion
}

// classifyClientType runs the pattern-based browser-vs-library scoring
// rubric from §4.7.1. ua is the raw User-Agent string; a library
// substring match there short-circuits straight to Library.
func classifyClientType(fp *tlsfp.Fingerprint, ua string, observations *[]string) string {
	if len(fp.Ciphers) < 10 {
		*observations = append(*observations, "Few cipher suites")
	}
	if fp.SNI == "" {
		*observations = append(*observations, "No SNI")
	}

	lowerUA := strings.ToLower(ua)
	for _, lib := range []string{"python", "curl", "go-http", "node", "java", "urllib", "axios", "requests", "httpx", "aiohttp", "scrapy"} {
		if strings.Contains(lowerUA, lib) {
			return "Library"
		}
	}

	var browserScore, libraryScore int

	cipherCount := len(fp.Ciphers)
	switch {
	case cipherCount >= 20:
		browserScore += 2
	case cipherCount >= 15:
		browserScore++
	case cipherCount < 10:
		libraryScore += 2
	}

	extCount := len(fp.Extensions)
	switch {
	case extCount >= 12:
		browserScore += 2
	case extCount >= 8:
		browserScore++
	case extCount < 6:
		libraryScore += 2
	}

	if hasGREASE(fp) {
		browserScore += 3
	}

	switch {
	case hasALPN(fp, "h2") && hasALPN(fp, "http/1.1"):
		browserScore += 2
	case hasALPN(fp, "h2"):
		browserScore++
	case len(fp.ALPN) == 0:
		libraryScore += 2
	}

	if fp.SNI == "" {
		libraryScore += 2
	} else {
		browserScore++
	}

	for _, ext := range fp.Extensions {
		if browserOnlyExtensions[ext.Name] {
			browserScore += 2
			break
		}
	}

	supVersions := supportedVersionsCount(fp)
	switch {
	case supVersions >= 4:
		browserScore++
	case supVersions <= 2:
		libraryScore++
	}

	sigAlgoCount := signatureAlgorithmsCount(fp)
	switch {
	case sigAlgoCount >= 10:
		browserScore++
	case sigAlgoCount < 5:
		libraryScore++
	}

	switch {
	case browserScore >= libraryScore+3:
		return "Browser"
	case libraryScore >= browserScore+2:
		return "Library"
	case browserScore > libraryScore:
		return "Browser (likely)"
	case libraryScore > browserScore:
		return "Library (likely)"
	default:
		return "Unknown"
	}
}

func hasGREASE(fp *tlsfp.Fingerprint) bool {
	for _, c := range fp.Ciphers {
		if tlsfp.IsGREASE(c.ID) {
			return true
		}
	}
	for _, e := range fp.Extensions {
		if tlsfp.IsGREASE(e.ID) {
			return true
		}
	}
	return false
}

func hasALPN(fp *tlsfp.Fingerprint, proto string) bool {
	for _, p := range fp.ALPN {
		if p == proto {
			return true
		}
	}
	return false
}

func supportedVersionsCount(fp *tlsfp.Fingerprint) int {
	for _, e := range fp.Extensions {
		if e.Name == "supported_versions" {
			return len(e.SupportedVersions)
		}
	}
	return 0
}

func signatureAlgorithmsCount(fp *tlsfp.Fingerprint) int {
	for _, e := range fp.Extensions {
		if e.Name == "signature_algorithms" {
			return len(e.SignatureAlgos)
		}
	}
	return 0
}

func classifyCipherStrength(fp *tlsfp.Fingerprint) string {
	weak, strong := false, false
	for _, c := range fp.Ciphers {
		name := c.Name
		if tlsfp.IsWeakCipherName(name) {
			weak = true
		}
		if tlsfp.IsStrongCipherName(name) {
			strong = true
		}
	}
	switch {
	case weak:
		return "Weak"
	case strong:
		return "Strong"
	default:
		return "Medium"
	}
}
