// Package useragent implements the deterministic User-Agent matcher the
// design notes call for: an ordered list of (substring, label) pairs,
// not a grammar. Order matters — more specific substrings are listed
// before the generic ones they'd otherwise shadow.
package useragent

import "strings"

// ParsedUserAgent is what the analyzer consumes; fields are empty when
// nothing matched.
type ParsedUserAgent struct {
	Raw        string
	Browser    string // Chrome, Firefox, Safari, Edge, Opera, ""
	OS         string // Windows, macOS, Linux, Android, iOS, ""
	IsMobile   bool
	Library    string // first matched entry of librarySubstrings: python, curl, go-http, ...
	SelfIDBot  bool
}

// browserRules is checked in order; Edge and Opera must precede Chrome
// since both carry "Chrome" in their UA string.
var browserRules = []struct {
	substr, label string
}{
	{"Edg/", "Edge"},
	{"OPR/", "Opera"},
	{"Chrome/", "Chrome"},
	{"CriOS/", "Chrome"},
	{"Firefox/", "Firefox"},
	{"FxiOS/", "Firefox"},
	{"Version/", "Safari"}, // combined with Safari/ below via hasSafariToken
}

var osRules = []struct {
	substr, label string
	mobile        bool
}{
	{"Windows NT", "Windows", false},
	{"Android", "Android", true},
	{"iPhone", "iOS", true},
	{"iPad", "iOS", true},
	{"CPU iPhone OS", "iOS", true},
	{"Mac OS X", "macOS", false},
	{"Linux", "Linux", false},
}

// librarySubstrings is the fixed list from the TLS sub-analysis rubric:
// any of these in the UA forces a Library classification outright.
var librarySubstrings = []string{
	"python", "curl", "go-http", "node", "java", "urllib",
	"axios", "requests", "httpx", "aiohttp", "scrapy",
}

var botSubstrings = []string{"bot", "crawler", "spider", "scraper"}

// Parse applies the ordered matcher to raw and returns the populated
// ParsedUserAgent. An empty raw string yields a zero-value result with
// Raw == "".
func Parse(raw string) ParsedUserAgent {
	p := ParsedUserAgent{Raw: raw}
	if raw == "" {
		return p
	}
	lower := strings.ToLower(raw)

	for _, lib := range librarySubstrings {
		if strings.Contains(lower, lib) {
			p.Library = lib
			break
		}
	}

	if p.Library == "" {
		for _, r := range browserRules {
			if strings.Contains(raw, r.substr) {
				if r.label == "Safari" && !strings.Contains(raw, "Safari/") {
					continue
				}
				p.Browser = r.label
				break
			}
		}
	}

	for _, r := range osRules {
		if strings.Contains(raw, r.substr) {
			p.OS = r.label
			p.IsMobile = r.mobile
			break
		}
	}

	for _, b := range botSubstrings {
		if strings.Contains(lower, b) {
			p.SelfIDBot = true
			break
		}
	}

	return p
}
