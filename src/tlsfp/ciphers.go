package tlsfp

import (
	"fmt"
	"strings"
)

// cipherSuiteNames covers the suites that show up in real browser and
// library ClientHellos; anything else falls back to a hex label.
var cipherSuiteNames = map[uint16]string{
	0x1301: "TLS_AES_128_GCM_SHA256",
	0x1302: "TLS_AES_256_GCM_SHA384",
	0x1303: "TLS_CHACHA20_POLY1305_SHA256",
	0xc02b: "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
	0xc02c: "TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384",
	0xc02f: "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
	0xc030: "TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384",
	0xcca8: "TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256",
	0xcca9: "TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256",
	0xc013: "TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA",
	0xc014: "TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA",
	0x009c: "TLS_RSA_WITH_AES_128_GCM_SHA256",
	0x009d: "TLS_RSA_WITH_AES_256_GCM_SHA384",
	0x002f: "TLS_RSA_WITH_AES_128_CBC_SHA",
	0x0035: "TLS_RSA_WITH_AES_256_CBC_SHA",
	0x000a: "TLS_RSA_WITH_3DES_EDE_CBC_SHA",
	0x0004: "TLS_RSA_WITH_RC4_128_MD5",
	0x0005: "TLS_RSA_WITH_RC4_128_SHA",
	0x0000: "TLS_NULL_WITH_NULL_NULL",
}

func cipherSuiteName(id uint16) string {
	if n, ok := cipherSuiteNames[id]; ok {
		return n
	}
	if IsGREASE(id) {
		return "GREASE"
	}
	return fmt.Sprintf("UNKNOWN_CIPHER_0x%04x", id)
}

// IsWeakCipherName reports whether the given cipher name is RC4, DES,
// EXPORT or NULL-keyed — used by the analyzer's cipher-strength classification.
func IsWeakCipherName(name string) bool {
	for _, bad := range []string{"RC4", "DES", "EXPORT", "NULL"} {
		if strings.Contains(name, bad) {
			return true
		}
	}
	return false
}

// IsStrongCipherName reports whether the given cipher name uses AES-256,
// CHACHA20 or a GCM mode.
func IsStrongCipherName(name string) bool {
	return strings.Contains(name, "AES_256") || strings.Contains(name, "CHACHA20") || strings.Contains(name, "GCM")
}
