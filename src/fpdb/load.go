package fpdb

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Database is the loaded, read-only reference catalog. All exposed
// queries acquire a shared lock even though the maps never change after
// Load, matching the contract in §4.6 rather than assuming callers know
// that.
type Database struct {
	mu sync.RWMutex

	ja3      map[string]JA3Entry
	ja4Pfx   map[string]JA4Entry
	ja4Known map[string]JA4Entry
	http2    HTTP2Buckets
	refs     map[string]ReferenceSignature

	ja3Loaded   bool
	ja4Loaded   bool
	http2Loaded bool
}

// ResolveDataDir finds the data/ directory relative to the executable,
// the working directory, or a fixed fallback, in that order, per §6.3.
func ResolveDataDir() string {
	candidates := []string{}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "data"))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, "data"))
	}
	candidates = append(candidates, "/etc/stackprint/data", "./data")

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "data"
}

// Load reads ja3.json, ja4.json and http2.json from dir. A missing or
// unparseable file disables that class of lookups but never fails
// startup (DatabaseMissing is handled locally, logged once).
func Load(dir string) *Database {
	db := &Database{
		ja3:      make(map[string]JA3Entry),
		ja4Pfx:   make(map[string]JA4Entry),
		ja4Known: make(map[string]JA4Entry),
		refs:     make(map[string]ReferenceSignature),
	}

	if f, ok := readJA3(filepath.Join(dir, "ja3.json")); ok {
		for _, cat := range ja3CategoryOrder {
			for hash, entry := range f.byCategory()[cat] {
				if _, exists := db.ja3[hash]; exists {
					continue
				}
				entry.Kind = singularKind(cat)
				db.ja3[hash] = entry
			}
		}
		db.ja3Loaded = true
	}

	if f, ok := readJA4(filepath.Join(dir, "ja4.json")); ok {
		db.ja4Pfx = f.Prefixes
		db.ja4Known = f.Known
		db.ja4Loaded = true
	}

	if f, ok := readHTTP2(filepath.Join(dir, "http2.json")); ok {
		db.http2 = f.Buckets
		db.refs = f.References
		db.http2Loaded = true
	}

	return db
}

func singularKind(category string) string {
	switch category {
	case "browsers":
		return "browser"
	case "libraries":
		return "library"
	case "bots":
		return "bot"
	case "malware":
		return "malware"
	case "mobile":
		return "mobile"
	case "apps":
		return "app"
	default:
		return category
	}
}

func readJA3(path string) (ja3File, bool) {
	var f ja3File
	if !readJSON(path, &f) {
		return f, false
	}
	return f, true
}

func readJA4(path string) (ja4File, bool) {
	var f ja4File
	if !readJSON(path, &f) {
		return f, false
	}
	return f, true
}

func readHTTP2(path string) (http2File, bool) {
	var f http2File
	if !readJSON(path, &f) {
		return f, false
	}
	return f, true
}

func readJSON(path string, v any) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("fpdb: %s unavailable, disabling its lookups: %v", path, err)
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		log.Printf("fpdb: %s is unparseable, disabling its lookups: %v", path, err)
		return false
	}
	return true
}
