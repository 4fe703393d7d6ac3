package http2fp

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/http2"
)

func TestAkamaiStringShapeFourParts(t *testing.T) {
	var buf bytes.Buffer
	clientFr := http2.NewFramer(&buf, nil)
	if err := clientFr.WriteSettings(
		http2.Setting{ID: http2.SettingHeaderTableSize, Val: 65536},
		http2.Setting{ID: http2.SettingInitialWindowSize, Val: 6291456},
	); err != nil {
		t.Fatal(err)
	}
	if err := clientFr.WriteWindowUpdate(0, 15663105); err != nil {
		t.Fatal(err)
	}

	serverFr := http2.NewFramer(&buf, &buf)
	fp, err := Intercept(serverFr)
	if err != nil {
		t.Fatalf("Intercept: %v", err)
	}

	parts := strings.Split(fp.Akamai, "|")
	if len(parts) != 4 {
		t.Fatalf("Akamai string has %d parts, want 4: %q", len(parts), fp.Akamai)
	}
	if fp.PseudoOrder != "m,a,s,p" {
		t.Fatalf("expected fallback pseudo order, got %q", fp.PseudoOrder)
	}
	if len(fp.AkamaiHash) != 32 {
		t.Fatalf("Akamai hash length = %d, want 32", len(fp.AkamaiHash))
	}
}
