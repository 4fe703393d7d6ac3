// Package fpdb loads the read-only reference catalogs the analyzer
// consults: known JA3/JA4 hashes, HTTP/2 Akamai signatures, and
// reference browser signatures. It is loaded once at startup and never
// mutated afterward.
package fpdb

// JA3Entry describes one catalogued JA3 hash.
type JA3Entry struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Version  string `json:"version"`
	Kind     string `json:"kind"` // browser, library, bot, malware, mobile, app
}

// ja3CategoryOrder is the fixed category search order: browsers before
// libraries, bots, malware, mobile, apps. A hash that (erroneously)
// appears in more than one category's source list resolves to whichever
// category comes first here.
var ja3CategoryOrder = []string{"browsers", "libraries", "bots", "malware", "mobile", "apps"}

// JA4Entry describes one catalogued JA4 prefix or full fingerprint.
type JA4Entry struct {
	Description string `json:"description"`
	ClientType  string `json:"client_type"`
	Risk        string `json:"risk"` // low, medium, high
}

// HTTP2Entry describes one catalogued Akamai fingerprint string.
type HTTP2Entry struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Platform string `json:"platform"`
	Notes    string `json:"notes"`
}

// HTTP2Buckets groups catalogued Akamai fingerprints by client category.
type HTTP2Buckets struct {
	Browsers      map[string]HTTP2Entry `json:"browsers"`
	Impersonators map[string]HTTP2Entry `json:"impersonators"`
	Libraries     map[string]HTTP2Entry `json:"libraries"`
}

// ReferenceSignature is a known-good browser signature: the
// WINDOW_UPDATE and pseudo-header order a real browser sends. It is
// loaded and served by ReferenceFor; the analyzer's impersonator rules
// do not read it.
type ReferenceSignature struct {
	WindowUpdate      uint32 `json:"window_update"`
	PseudoHeaderOrder string `json:"pseudo_header_order"`
}

// ja3File, ja4File and http2File mirror the on-disk JSON document shapes.
type ja3File struct {
	Browsers  map[string]JA3Entry `json:"browsers"`
	Libraries map[string]JA3Entry `json:"libraries"`
	Bots      map[string]JA3Entry `json:"bots"`
	Malware   map[string]JA3Entry `json:"malware"`
	Mobile    map[string]JA3Entry `json:"mobile"`
	Apps      map[string]JA3Entry `json:"apps"`
}

func (f ja3File) byCategory() map[string]map[string]JA3Entry {
	return map[string]map[string]JA3Entry{
		"browsers":  f.Browsers,
		"libraries": f.Libraries,
		"bots":      f.Bots,
		"malware":   f.Malware,
		"mobile":    f.Mobile,
		"apps":      f.Apps,
	}
}

type ja4File struct {
	Prefixes map[string]JA4Entry `json:"prefixes"`
	Known    map[string]JA4Entry `json:"known"`
}

type http2File struct {
	Buckets    HTTP2Buckets                  `json:"buckets"`
	References map[string]ReferenceSignature `json:"references"`
}
