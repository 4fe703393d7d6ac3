package tlsfp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ja4Version maps a TLS version number to the two-character JA4 version
// token; unrecognized versions fall back to "00".
func ja4Version(v uint16) string {
	switch v {
	case 0x0304:
		return "13"
	case 0x0303:
		return "12"
	case 0x0302:
		return "11"
	case 0x0301:
		return "10"
	case 0x0300:
		return "00"
	default:
		return "00"
	}
}

func clampCount(n int) int {
	if n > 99 {
		return 99
	}
	return n
}

// deriveJA4 fills fp.JA4 and fp.JA4R using the format from §3 of the data
// model: t<ver><sni><cc><ec><alpn>_<h1>_<h2>.
func deriveJA4(fp *Fingerprint) {
	ver := fp.ClientVersion
	if fp.NegotiatedVersion != 0 {
		ver = fp.NegotiatedVersion
	}

	sniFlag := "i"
	if fp.SNI != "" {
		sniFlag = "d"
	}

	var ciphers []uint16
	for _, c := range fp.Ciphers {
		if !IsGREASE(c.ID) {
			ciphers = append(ciphers, c.ID)
		}
	}

	var extIDs []uint16
	var sigAlgos []uint16
	for _, e := range fp.Extensions {
		if IsGREASE(e.ID) {
			continue
		}
		extIDs = append(extIDs, e.ID)
		if e.ID == extSignatureAlgorithms {
			sigAlgos = append(sigAlgos, e.SignatureAlgos...)
		}
	}

	alpn := "00"
	if len(fp.ALPN) > 0 && len(fp.ALPN[0]) >= 2 {
		alpn = fp.ALPN[0][:2]
	} else if len(fp.ALPN) > 0 && len(fp.ALPN[0]) == 1 {
		alpn = fp.ALPN[0] + "0"
	}

	cc := clampCount(len(ciphers))
	ec := clampCount(len(extIDs))

	prefix := fmt.Sprintf("t%s%s%02d%02d%s", ja4Version(ver), sniFlag, cc, ec, alpn)

	sortedCiphers := sortedCopy(ciphers)
	h1 := sha256Prefix12(hex4Join(sortedCiphers))

	// Extension hash excludes SNI(0) and ALPN(16), then appends the
	// sorted signature-algorithm list.
	var hashExts []uint16
	for _, id := range extIDs {
		if id == extServerName || id == extALPN {
			continue
		}
		hashExts = append(hashExts, id)
	}
	sortedExts := sortedCopy(hashExts)
	sortedSigAlgos := sortedCopy(sigAlgos)
	h2 := sha256Prefix12(hex4Join(sortedExts) + "_" + hex4Join(sortedSigAlgos))

	fp.JA4 = fmt.Sprintf("%s_%s_%s", prefix, h1, h2)
	fp.JA4R = fmt.Sprintf("%s_%s_%s", prefix, hex4Join(sortedCiphers), hex4Join(append(sortedExts, sortedSigAlgos...)))
}

func sortedCopy(vs []uint16) []uint16 {
	out := append([]uint16(nil), vs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func hex4Join(vs []uint16) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%04x", v)
	}
	return strings.Join(parts, ",")
}

func sha256Prefix12(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
