package tcpfp

import (
	"testing"
	"time"
)

func TestInitialTTLRounding(t *testing.T) {
	cases := []struct {
		observed uint8
		want     uint8
	}{
		{1, 32}, {32, 32}, {33, 64}, {64, 64}, {100, 128}, {128, 128}, {200, 255},
	}
	for _, c := range cases {
		if got := InitialTTL(c.observed); got != c.want {
			t.Errorf("InitialTTL(%d) = %d, want %d", c.observed, got, c.want)
		}
		if InitialTTL(c.observed) < c.observed {
			t.Errorf("InitialTTL(%d) = %d is below observed TTL", c.observed, InitialTTL(c.observed))
		}
	}
}

func TestOSInferenceTable(t *testing.T) {
	os, conf := InferOS(128, false, 8192)
	if os != "Windows" || conf != "high" {
		t.Fatalf("got %s/%s, want Windows/high", os, conf)
	}
	os, conf = InferOS(64, false, 65535)
	if os != "macOS/iOS" || conf != "medium" {
		t.Fatalf("got %s/%s, want macOS/iOS/medium", os, conf)
	}
	os, _ = InferOS(255, false, 0)
	if os != "Network Device" {
		t.Fatalf("got %s, want Network Device", os)
	}
}

func TestParseOptionsCompactString(t *testing.T) {
	raw := []byte{
		2, 4, 0x05, 0xb4, // MSS 1460
		4, 2, // SACK permitted
		8, 10, 0, 0, 0, 1, 0, 0, 0, 2, // timestamp
		1,          // NOP
		3, 3, 0x07, // window scale 7
	}
	opts := parseOptions(raw)
	if opts.CompactStr != "M1460,S,T,N,W7" {
		t.Fatalf("CompactStr = %q, want M1460,S,T,N,W7", opts.CompactStr)
	}
	if !opts.HasTS || opts.TSVal != 1 || opts.TSEcr != 2 {
		t.Fatalf("timestamp not parsed: %+v", opts)
	}
}

func TestNoOptionsProducesEmptyString(t *testing.T) {
	opts := parseOptions(nil)
	if opts.CompactStr != "" {
		t.Fatalf("CompactStr = %q, want empty", opts.CompactStr)
	}
}

func TestTableWholesaleClearOnOverflow(t *testing.T) {
	tbl := NewTable(2)
	tbl.Put(Fingerprint{SourceIP: "1.1.1.1"})
	tbl.Put(Fingerprint{SourceIP: "2.2.2.2"})
	tbl.Put(Fingerprint{SourceIP: "3.3.3.3"})
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 entries before cleanup, got %d", tbl.Len())
	}
	tbl.Cleanup()
	if tbl.Len() != 0 {
		t.Fatalf("expected wholesale clear on overflow, got %d entries", tbl.Len())
	}
}

func TestSignatureHashStable(t *testing.T) {
	fp1 := Build("10.0.0.1", 4, 0, 60, 65535, nil, time.Time{})
	fp2 := Build("10.0.0.2", 4, 0, 60, 65535, nil, time.Time{})
	if fp1.SignatureHash != fp2.SignatureHash {
		t.Fatalf("signature hash should not depend on source IP")
	}
	if len(fp1.SignatureHash) != 32 {
		t.Fatalf("signature hash length = %d, want 32", len(fp1.SignatureHash))
	}
}
