package tlsfp

import (
	"regexp"
	"testing"
)

// buildClientHello assembles a minimal but well-formed ClientHello record
// for use as test fixture data.
func buildClientHello(ciphers []uint16, extensions []byte) []byte {
	var hs []byte
	hs = append(hs, 0x03, 0x03) // client_version TLS1.2
	hs = append(hs, make([]byte, 32)...) // client_random
	hs = append(hs, 0x00)                // session id len = 0

	cipherBytes := make([]byte, 0, len(ciphers)*2)
	for _, c := range ciphers {
		cipherBytes = append(cipherBytes, byte(c>>8), byte(c))
	}
	hs = append(hs, byte(len(cipherBytes)>>8), byte(len(cipherBytes)))
	hs = append(hs, cipherBytes...)

	hs = append(hs, 0x01, 0x00) // compression methods: len=1, null

	hs = append(hs, byte(len(extensions)>>8), byte(len(extensions)))
	hs = append(hs, extensions...)

	var handshake []byte
	handshake = append(handshake, 0x01) // ClientHello
	handshake = append(handshake, byte(len(hs)>>16), byte(len(hs)>>8), byte(len(hs)))
	handshake = append(handshake, hs...)

	var record []byte
	record = append(record, 0x16)       // Handshake
	record = append(record, 0x03, 0x01) // record version
	record = append(record, byte(len(handshake)>>8), byte(len(handshake)))
	record = append(record, handshake...)
	return record
}

var hexChars = regexp.MustCompile(`^[0-9a-f]+$`)

func TestParseJA3Shape(t *testing.T) {
	raw := buildClientHello([]uint16{0xc02b, 0xc02f, 0x1301}, nil)
	fp, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fp.JA3Hash) != 32 || !hexChars.MatchString(fp.JA3Hash) {
		t.Fatalf("JA3 hash not 32 lowercase hex chars: %q", fp.JA3Hash)
	}
}

func TestParseZeroExtensionsJA3Shape(t *testing.T) {
	raw := buildClientHello([]uint16{0xc02b}, nil)
	fp, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "771,49195,,,"
	if fp.JA3 != want {
		t.Fatalf("JA3 = %q, want %q", fp.JA3, want)
	}
	prefixPattern := regexp.MustCompile(`^t(13|12|11|10|00)[di]\d{2}00\d{2}$`)
	if !prefixPattern.MatchString(fp.JA4[:10]) {
		t.Fatalf("JA4 prefix malformed (want ec=00): %q", fp.JA4)
	}
}

func TestGREASEStrippedFromJA3(t *testing.T) {
	raw := buildClientHello([]uint16{0x0a0a, 0xc02b, 0x1a1a}, nil)
	fp, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, c := range stripGREASE16([]uint16{0x0a0a, 0xc02b, 0x1a1a}) {
		if IsGREASE(c) {
			t.Fatalf("GREASE value leaked into stripped list")
		}
	}
	if fp.JA3 == "" || containsGreaseDecimal(fp.JA3) {
		t.Fatalf("JA3 string retained a GREASE id: %q", fp.JA3)
	}
}

func containsGreaseDecimal(s string) bool {
	// 0x0a0a = 2570, 0x1a1a = 6682 — neither should appear in the JA3 string.
	return regexp.MustCompile(`\b(2570|6682)\b`).MatchString(s)
}

func TestNonHandshakeRejected(t *testing.T) {
	raw := []byte{0x17, 0x03, 0x03, 0x00, 0x01, 0x00}
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected error for non-Handshake content type")
	}
}

func TestTruncatedRejected(t *testing.T) {
	raw := []byte{0x16, 0x03, 0x01, 0x00, 0x10, 0x01}
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected error for truncated record")
	}
}
