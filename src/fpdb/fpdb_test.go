package fpdb

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestCatalogs(t *testing.T, dir string) {
	t.Helper()
	ja3 := `{
		"browsers": {"aaaa": {"name": "Chrome", "platform": "Windows", "version": "120", "kind": ""}},
		"libraries": {"aaaa": {"name": "python-requests", "platform": "any", "version": "2", "kind": ""}}
	}`
	ja4 := `{
		"prefixes": {"t13d1516h2": {"description": "Chrome desktop", "client_type": "browser", "risk": "low"}},
		"known": {}
	}`
	http2 := `{
		"buckets": {
			"browsers": {"00|65535|3|m,a,s,p": {"name": "Chrome", "version": "120", "platform": "Windows", "notes": ""}},
			"impersonators": {},
			"libraries": {}
		},
		"references": {"chrome": {"window_update": 6291456, "pseudo_header_order": "m,a,s,p"}}
	}`
	for name, content := range map[string]string{"ja3.json": ja3, "ja4.json": ja4, "http2.json": http2} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadAndCategoryPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeTestCatalogs(t, dir)

	db := Load(dir)
	if !db.JA3Loaded() || !db.JA4Loaded() || !db.HTTP2Loaded() {
		t.Fatalf("expected all catalogs to load")
	}

	entry, ok := db.LookupJA3("aaaa")
	if !ok {
		t.Fatalf("expected hash aaaa to resolve")
	}
	if entry.Name != "Chrome" || entry.Kind != "browser" {
		t.Fatalf("browsers should win over libraries on collision, got %+v", entry)
	}
}

func TestLookupJA4PrefixAndHTTP2(t *testing.T) {
	dir := t.TempDir()
	writeTestCatalogs(t, dir)
	db := Load(dir)

	if _, ok := db.LookupJA4Prefix("t13d1516h2"); !ok {
		t.Fatalf("expected JA4 prefix to resolve")
	}
	entry, bucket, ok := db.LookupHTTP2("00|65535|3|m,a,s,p")
	if !ok || bucket != "browsers" || entry.Name != "Chrome" {
		t.Fatalf("expected browsers bucket match, got %+v %s %v", entry, bucket, ok)
	}
	if _, _, ok := db.LookupHTTP2("does-not-exist"); ok {
		t.Fatalf("unexpected match for unknown akamai string")
	}
}

func TestMissingFilesDisableLookupsWithoutPanicking(t *testing.T) {
	dir := t.TempDir()
	db := Load(dir)
	if db.JA3Loaded() || db.JA4Loaded() || db.HTTP2Loaded() {
		t.Fatalf("expected no catalogs to load from an empty directory")
	}
	if _, ok := db.LookupJA3("anything"); ok {
		t.Fatalf("expected no match with catalogs disabled")
	}
}

func TestResolveDataDirFallsBackToRelative(t *testing.T) {
	if dir := ResolveDataDir(); dir == "" {
		t.Fatalf("expected a non-empty fallback directory")
	}
}
