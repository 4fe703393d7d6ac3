// Package tlsfp parses a raw TLS ClientHello record without going through
// crypto/tls, and derives the JA3/JA4 fingerprints from it.
package tlsfp

import (
	"encoding/hex"
	"fmt"
)

// Extension ids the parser understands; everything else is kept by id only.
const (
	extServerName          uint16 = 0
	extSupportedGroups     uint16 = 10
	extECPointFormats      uint16 = 11
	extSignatureAlgorithms uint16 = 13
	extALPN                uint16 = 16
	extSupportedVersions   uint16 = 43
)

var extensionNames = map[uint16]string{
	0:  "server_name",
	5:  "status_request",
	10: "supported_groups",
	11: "ec_point_formats",
	13: "signature_algorithms",
	16: "application_layer_protocol_negotiation",
	18: "signed_certificate_timestamp",
	21: "padding",
	23: "extended_master_secret",
	35: "session_ticket",
	41: "pre_shared_key",
	43: "supported_versions",
	45: "psk_key_exchange_modes",
	51: "key_share",
}

func extensionName(id uint16) string {
	if n, ok := extensionNames[id]; ok {
		return n
	}
	return fmt.Sprintf("unknown_%d", id)
}

// CipherSuite is a single entry from the ClientHello cipher_suites list.
type CipherSuite struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// Extension is a single ClientHello extension, parsed when the id is known.
type Extension struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`

	// Populated for known extension types only; zero value otherwise.
	ServerName        string   `json:"server_name,omitempty"`
	SupportedGroups   []uint16 `json:"supported_groups,omitempty"`
	ECPointFormats    []byte   `json:"ec_point_formats,omitempty"`
	SignatureAlgos    []uint16 `json:"signature_algorithms,omitempty"`
	ALPNProtocols     []string `json:"alpn_protocols,omitempty"`
	SupportedVersions []uint16 `json:"supported_versions,omitempty"`
}

// Fingerprint is the parsed ClientHello plus its derived JA3/JA4 strings.
type Fingerprint struct {
	RecordVersion     uint16 `json:"record_version"`
	ClientVersion     uint16 `json:"client_version"`
	NegotiatedVersion uint16 `json:"negotiated_version,omitempty"` // first non-GREASE supported_versions entry, 0 if absent
	ClientRandomHex   string `json:"client_random"`
	SessionIDHex      string `json:"session_id"`

	Ciphers            []CipherSuite `json:"ciphers"` // wire order, includes GREASE
	CompressionMethods []byte        `json:"compression_methods"`
	Extensions         []Extension   `json:"extensions"` // wire order, includes GREASE-id entries

	SNI  string   `json:"sni,omitempty"`
	ALPN []string `json:"alpn,omitempty"`

	JA3     string `json:"ja3"`
	JA3Hash string `json:"ja3_hash"`
	JA4     string `json:"ja4"`
	JA4R    string `json:"ja4_r"`
}

// MalformedClientHelloError reports why raw-byte parsing gave up. Per the
// error handling design, callers close the connection and store nothing.
type MalformedClientHelloError struct {
	Reason string
}

func (e *MalformedClientHelloError) Error() string {
	return "malformed ClientHello: " + e.Reason
}

func malformed(reason string) error { return &MalformedClientHelloError{Reason: reason} }

// LooksLikeClientHello performs the cheap content-type/handshake-type check
// used to decide whether to hand a connection's first bytes to Parse.
func LooksLikeClientHello(b []byte) bool {
	return len(b) >= 6 && b[0] == 0x16 && b[5] == 0x01
}

type cursor struct {
	b   []byte
	off int
}

func (c *cursor) remaining() int { return len(c.b) - c.off }

func (c *cursor) u8() (byte, error) {
	if c.remaining() < 1 {
		return 0, malformed("truncated u8")
	}
	v := c.b[c.off]
	c.off++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, malformed("truncated u16")
	}
	v := uint16(c.b[c.off])<<8 | uint16(c.b[c.off+1])
	c.off += 2
	return v, nil
}

func (c *cursor) u24() (int, error) {
	if c.remaining() < 3 {
		return 0, malformed("truncated u24")
	}
	v := int(c.b[c.off])<<16 | int(c.b[c.off+1])<<8 | int(c.b[c.off+2])
	c.off += 3
	return v, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, malformed("truncated field")
	}
	v := c.b[c.off : c.off+n]
	c.off += n
	return v, nil
}

// Parse runs the single-pass ClientHello algorithm described in the
// TLS Record Parser component: record header, handshake header, the fixed
// fields, then extensions dispatched by id.
func Parse(raw []byte) (*Fingerprint, error) {
	c := &cursor{b: raw}

	contentType, err := c.u8()
	if err != nil {
		return nil, err
	}
	if contentType != 22 {
		return nil, malformed("content type is not Handshake(22)")
	}
	recordVersion, err := c.u16()
	if err != nil {
		return nil, err
	}
	recordLen, err := c.u16()
	if err != nil {
		return nil, err
	}
	if c.remaining() < int(recordLen) {
		return nil, malformed("record length exceeds available bytes")
	}
	// Restrict the cursor to the record body so a malformed inner length
	// cannot read past it.
	body := &cursor{b: c.b[:c.off+int(recordLen)]}
	body.off = c.off

	hsType, err := body.u8()
	if err != nil {
		return nil, err
	}
	if hsType != 1 {
		return nil, malformed("handshake type is not ClientHello(1)")
	}
	hsLen, err := body.u24()
	if err != nil {
		return nil, err
	}
	if body.remaining() < hsLen {
		return nil, malformed("handshake length exceeds record")
	}
	hs := &cursor{b: body.b[:body.off+hsLen]}
	hs.off = body.off

	clientVersion, err := hs.u16()
	if err != nil {
		return nil, err
	}
	clientRandom, err := hs.bytes(32)
	if err != nil {
		return nil, err
	}
	sessIDLen, err := hs.u8()
	if err != nil {
		return nil, err
	}
	sessID, err := hs.bytes(int(sessIDLen))
	if err != nil {
		return nil, err
	}

	cipherLen, err := hs.u16()
	if err != nil {
		return nil, err
	}
	if cipherLen%2 != 0 {
		return nil, malformed("odd cipher_suites length")
	}
	ciphers := make([]CipherSuite, 0, cipherLen/2)
	for i := 0; i < int(cipherLen); i += 2 {
		id, err := hs.u16()
		if err != nil {
			return nil, err
		}
		ciphers = append(ciphers, CipherSuite{ID: id, Name: cipherSuiteName(id)})
	}

	compLen, err := hs.u8()
	if err != nil {
		return nil, err
	}
	compMethods, err := hs.bytes(int(compLen))
	if err != nil {
		return nil, err
	}

	fp := &Fingerprint{
		RecordVersion:      recordVersion,
		ClientVersion:      clientVersion,
		ClientRandomHex:    hex.EncodeToString(clientRandom),
		SessionIDHex:       hex.EncodeToString(sessID),
		Ciphers:            ciphers,
		CompressionMethods: append([]byte(nil), compMethods...),
	}

	// Extensions are optional: a ClientHello may end right after
	// compression methods.
	if hs.remaining() >= 2 {
		extTotalLen, err := hs.u16()
		if err != nil {
			return nil, err
		}
		if hs.remaining() < int(extTotalLen) {
			return nil, malformed("extensions length exceeds handshake body")
		}
		exts := &cursor{b: hs.b[:hs.off+int(extTotalLen)]}
		exts.off = hs.off
		for exts.remaining() > 0 {
			ext, err := parseExtension(exts)
			if err != nil {
				return nil, err
			}
			fp.Extensions = append(fp.Extensions, ext)
			switch ext.ID {
			case extServerName:
				fp.SNI = ext.ServerName
			case extALPN:
				fp.ALPN = ext.ALPNProtocols
			case extSupportedVersions:
				for _, v := range ext.SupportedVersions {
					if !IsGREASE(v) {
						fp.NegotiatedVersion = v
						break
					}
				}
			}
		}
	}

	deriveJA3(fp)
	deriveJA4(fp)
	return fp, nil
}

func parseExtension(c *cursor) (Extension, error) {
	id, err := c.u16()
	if err != nil {
		return Extension{}, err
	}
	length, err := c.u16()
	if err != nil {
		return Extension{}, err
	}
	if c.remaining() < int(length) {
		return Extension{}, malformed("extension inner length exceeds enclosing data")
	}
	data := &cursor{b: c.b[:c.off+int(length)]}
	data.off = c.off
	c.off += int(length)

	ext := Extension{ID: id, Name: extensionName(id)}

	switch id {
	case extServerName:
		if data.remaining() >= 2 {
			listLen, err := data.u16()
			if err == nil && data.remaining() >= int(listLen) && listLen >= 3 {
				nameType, _ := data.u8()
				nameLen, _ := data.u16()
				if nameType == 0 {
					if nb, err := data.bytes(int(nameLen)); err == nil {
						ext.ServerName = string(nb)
					}
				}
			}
		}
	case extSupportedGroups:
		if data.remaining() >= 2 {
			listLen, _ := data.u16()
			n := int(listLen) / 2
			for i := 0; i < n && data.remaining() >= 2; i++ {
				v, _ := data.u16()
				ext.SupportedGroups = append(ext.SupportedGroups, v)
			}
		}
	case extECPointFormats:
		if data.remaining() >= 1 {
			listLen, _ := data.u8()
			if b, err := data.bytes(int(listLen)); err == nil {
				ext.ECPointFormats = append([]byte(nil), b...)
			}
		}
	case extSignatureAlgorithms:
		if data.remaining() >= 2 {
			listLen, _ := data.u16()
			n := int(listLen) / 2
			for i := 0; i < n && data.remaining() >= 2; i++ {
				v, _ := data.u16()
				ext.SignatureAlgos = append(ext.SignatureAlgos, v)
			}
		}
	case extALPN:
		if data.remaining() >= 2 {
			listLen, _ := data.u16()
			end := data.off + int(listLen)
			for data.off < end && data.remaining() >= 1 {
				n, _ := data.u8()
				if b, err := data.bytes(int(n)); err == nil {
					ext.ALPNProtocols = append(ext.ALPNProtocols, string(b))
				}
			}
		}
	case extSupportedVersions:
		if data.remaining() >= 1 {
			listLen, _ := data.u8()
			n := int(listLen) / 2
			for i := 0; i < n && data.remaining() >= 2; i++ {
				v, _ := data.u16()
				ext.SupportedVersions = append(ext.SupportedVersions, v)
			}
		}
	}

	return ext, nil
}
