package http2fp

import (
	"bytes"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"
)

// Responder serves the single JSON response a fingerprinting connection
// needs, after Intercept has already derived the Akamai fingerprint from
// the client's opening frames.
type Responder struct {
	fr *http2.Framer
}

// NewResponder wraps a framer that has already exchanged the connection
// preface with the client.
func NewResponder(fr *http2.Framer) *Responder {
	return &Responder{fr: fr}
}

// ServerPreamble sends the server's own SETTINGS frame and a SETTINGS ACK
// for whatever the client sent, matching the handshake order a real HTTP/2
// server performs before answering the first request.
func (r *Responder) ServerPreamble() error {
	if err := r.fr.WriteSettings(
		http2.Setting{ID: http2.SettingMaxConcurrentStreams, Val: 100},
		http2.Setting{ID: http2.SettingInitialWindowSize, Val: 65535},
	); err != nil {
		return err
	}
	return r.fr.WriteSettingsAck()
}

// Respond answers the stream with a 200, application/json headers (with a
// permissive CORS header) and the given JSON body, ending the stream.
func (r *Responder) Respond(streamID uint32, body []byte) error {
	var hbuf bytes.Buffer
	enc := hpack.NewEncoder(&hbuf)
	_ = enc.WriteField(hpack.HeaderField{Name: ":status", Value: "200"})
	_ = enc.WriteField(hpack.HeaderField{Name: "content-type", Value: "application/json"})
	_ = enc.WriteField(hpack.HeaderField{Name: "access-control-allow-origin", Value: "*"})

	if err := r.fr.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: hbuf.Bytes(),
		EndHeaders:    true,
	}); err != nil {
		return err
	}
	return r.fr.WriteData(streamID, true, body)
}
