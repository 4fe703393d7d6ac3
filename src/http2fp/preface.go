// Package http2fp validates the HTTP/2 connection preface and the client's
// initial control frames, deriving the Akamai-style fingerprint, then
// serves a minimal JSON response on the first request stream.
package http2fp

import (
	"bufio"
	"errors"
	"io"
)

// ClientPreface is the fixed 24-byte HTTP/2 connection preface every
// compliant client must send before any frame.
const ClientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// ErrBadPreface is returned when the first 24 bytes read from the
// connection do not match ClientPreface exactly.
var ErrBadPreface = errors.New("http2fp: missing or malformed connection preface")

// ReadPreface consumes and validates the client connection preface from r.
func ReadPreface(r *bufio.Reader) error {
	buf := make([]byte, len(ClientPreface))
	if _, err := io.ReadFull(r, buf); err != nil {
		return ErrBadPreface
	}
	if string(buf) != ClientPreface {
		return ErrBadPreface
	}
	return nil
}
