package tlsfp

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// deriveJA3 fills fp.JA3 and fp.JA3Hash from the already-parsed fields.
// JA3 = version,ciphers,extensions,groups,ec_point_formats with GREASE
// stripped everywhere and wire order preserved.
func deriveJA3(fp *Fingerprint) {
	ciphers := make([]uint16, 0, len(fp.Ciphers))
	for _, c := range fp.Ciphers {
		ciphers = append(ciphers, c.ID)
	}
	ciphers = stripGREASE16(ciphers)

	extIDs := make([]uint16, 0, len(fp.Extensions))
	var groups []uint16
	var ecFormats []byte
	for _, e := range fp.Extensions {
		if !IsGREASE(e.ID) {
			extIDs = append(extIDs, e.ID)
		}
		if e.ID == extSupportedGroups {
			groups = stripGREASE16(e.SupportedGroups)
		}
		if e.ID == extECPointFormats {
			ecFormats = e.ECPointFormats
		}
	}

	fp.JA3 = strings.Join([]string{
		strconv.Itoa(int(fp.ClientVersion)),
		joinUint16Dash(ciphers),
		joinUint16Dash(extIDs),
		joinUint16Dash(groups),
		joinByteDash(ecFormats),
	}, ",")

	sum := md5.Sum([]byte(fp.JA3))
	fp.JA3Hash = hex.EncodeToString(sum[:])
}

func joinUint16Dash(vs []uint16) string {
	if len(vs) == 0 {
		return ""
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, "-")
}

func joinByteDash(vs []byte) string {
	if len(vs) == 0 {
		return ""
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, "-")
}
