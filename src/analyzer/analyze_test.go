package analyzer

import (
	"strconv"
	"testing"
	"time"

	"stackprint/src/combined"
	"stackprint/src/fpdb"
	"stackprint/src/http2fp"
	"stackprint/src/tcpfp"
	"stackprint/src/tlsfp"
)

func emptyDB() *fpdb.Database {
	return fpdb.Load("/does/not/exist")
}

func chromeTLS() *tlsfp.Fingerprint {
	fp := &tlsfp.Fingerprint{
		ClientVersion:     0x0303,
		NegotiatedVersion: 0x0304,
		SNI:               "example.com",
		ALPN:              []string{"h2", "http/1.1"},
	}
	for i := 0; i < 22; i++ {
		fp.Ciphers = append(fp.Ciphers, tlsfp.CipherSuite{ID: uint16(0x1301 + i)})
	}
	for i := 0; i < 14; i++ {
		fp.Extensions = append(fp.Extensions, tlsfp.Extension{ID: uint16(100 + i), Name: "unknown_x"})
	}
	fp.Extensions = append(fp.Extensions, tlsfp.Extension{ID: 0x0a0a}) // GREASE
	fp.JA3Hash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	fp.JA4 = "t13d2214h2_abcdefabcdef_abcdefabcdef"
	return fp
}

func chromeHTTP2(pseudo string, wu uint32) *http2fp.Fingerprint {
	return &http2fp.Fingerprint{
		Settings: []http2fp.SettingEntry{
			{ID: 4, Value: 6291456},
			{ID: 6, Value: 262144},
		},
		WindowUpdate: wu,
		PseudoOrder:  pseudo,
		Akamai:       "4:6291456;6:262144|" + strconv.FormatUint(uint64(wu), 10) + "|0|" + pseudo,
	}
}

func TestAnalyzeIsPure(t *testing.T) {
	db := emptyDB()
	fp := &combined.Fingerprint{TLS: chromeTLS(), HTTP2: chromeHTTP2("m,a,s,p", 15663105)}
	r1 := Analyze(fp, "1.2.3.4", "Mozilla/5.0 Chrome/131", db)
	r2 := Analyze(fp, "1.2.3.4", "Mozilla/5.0 Chrome/131", db)
	if r1.Summary.RiskLevel != r2.Summary.RiskLevel || r1.Summary.IsBot != r2.Summary.IsBot ||
		r1.Summary.IsSpoofed != r2.Summary.IsSpoofed || r1.ConsistencyCheck.Score != r2.ConsistencyCheck.Score {
		t.Fatalf("Analyze is not pure: %+v vs %+v", r1.Summary, r2.Summary)
	}
}

func TestRealChromeLowRisk(t *testing.T) {
	db := emptyDB()
	tcpFp := tcpfp.Build("1.2.3.4", 4, 0, 60, 65535, nil, time.Time{})
	fp := &combined.Fingerprint{
		TLS:   chromeTLS(),
		HTTP2: chromeHTTP2("m,a,s,p", 15663105),
		TCP:   &tcpFp,
	}
	result := Analyze(fp, "1.2.3.4", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Chrome/131", db)
	if result.Summary.IsBot {
		t.Fatalf("expected is_bot=false, got signals that made it true: %+v", result.Summary)
	}
	if result.Summary.IsSpoofed {
		t.Fatalf("expected is_spoofed=false, got anomalies=%v", result.ConsistencyCheck.Anomalies)
	}
}

func TestImpersonatorTriggersSpoofed(t *testing.T) {
	db := emptyDB()
	tcpFp := tcpfp.Build("5.6.7.8", 4, 0, 60, 29200, nil, time.Time{})
	fp := &combined.Fingerprint{
		TLS:   chromeTLS(),
		HTTP2: chromeHTTP2("m,a,s", 15663105),
		TCP:   &tcpFp,
	}
	result := Analyze(fp, "5.6.7.8", "Mozilla/5.0 (Windows NT 10.0) Chrome/131", db)
	if !result.HTTP2Analysis.IsImpersonator {
		t.Fatalf("expected R1 to flag impersonator, got %+v", result.HTTP2Analysis)
	}
	if !result.Summary.IsSpoofed {
		t.Fatalf("expected is_spoofed=true")
	}
}

func TestBotSignalCountInvariant(t *testing.T) {
	db := emptyDB()
	fp := &combined.Fingerprint{TLS: &tlsfp.Fingerprint{JA3Hash: "deadbeefdeadbeefdeadbeefdeadbeef"}}
	result := Analyze(fp, "9.9.9.9", "", db)
	if result.Summary.IsBot {
		count := 0
		if result.TLSAnalysis.ClientType == "Library" {
			count++
		}
		if result.ConsistencyCheck.Score < 70 {
			count++
		}
		for _, o := range result.TLSAnalysis.Observations {
			if o == "No SNI" {
				count++
				break
			}
		}
		count++ // empty User-Agent
		if count < 2 {
			t.Fatalf("is_bot true without 2 signals")
		}
	}
}
