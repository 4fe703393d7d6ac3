package fpdb

// LookupJA3 returns the catalogued entry for hash, if any. The category
// precedence baked in at Load time means a single map lookup suffices
// here; category ordering only matters when a hash appears in more than
// one category of ja3.json.
func (db *Database) LookupJA3(hash string) (JA3Entry, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.ja3[hash]
	return e, ok
}

// LookupJA4Known returns the catalogued entry for a full JA4 fingerprint.
func (db *Database) LookupJA4Known(fingerprint string) (JA4Entry, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.ja4Known[fingerprint]
	return e, ok
}

// LookupJA4Prefix returns the catalogued entry for a JA4 prefix (the
// first 10 characters: version, SNI flag, cipher/extension counts, ALPN).
func (db *Database) LookupJA4Prefix(prefix string) (JA4Entry, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.ja4Pfx[prefix]
	return e, ok
}

// LookupHTTP2 searches the Akamai fingerprint buckets in fixed order:
// browsers, impersonators, libraries. It reports which bucket matched so
// callers can weigh the impersonator case specially.
func (db *Database) LookupHTTP2(akamai string) (entry HTTP2Entry, bucket string, ok bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if e, found := db.http2.Browsers[akamai]; found {
		return e, "browsers", true
	}
	if e, found := db.http2.Impersonators[akamai]; found {
		return e, "impersonators", true
	}
	if e, found := db.http2.Libraries[akamai]; found {
		return e, "libraries", true
	}
	return HTTP2Entry{}, "", false
}

// ReferenceFor returns the known-good browser signature named key: the
// WINDOW_UPDATE and pseudo-header order a real browser of that name
// sends. The analyzer's impersonator rules do not call it; they compare
// against fixed constants in the analyzer package.
func (db *Database) ReferenceFor(key string) (ReferenceSignature, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	r, ok := db.refs[key]
	return r, ok
}

// JA3Loaded, JA4Loaded and HTTP2Loaded report whether each catalog file
// was found and parsed at startup. Nothing fails when one is missing;
// lookups against it simply find no match.
func (db *Database) JA3Loaded() bool   { return db.ja3Loaded }
func (db *Database) JA4Loaded() bool   { return db.ja4Loaded }
func (db *Database) HTTP2Loaded() bool { return db.http2Loaded }
