package main

import (
	"bufio"
	"crypto/tls"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/http2"

	"stackprint/src/combined"
	"stackprint/src/fpdb"
	"stackprint/src/fpstore"
	"stackprint/src/http2fp"
	"stackprint/src/tcpfp"
	"stackprint/src/telemetry"
	"stackprint/src/tlsfp"
)

const (
	firstReadDeadline    = 10 * time.Second
	subsequentDeadline   = 30 * time.Second
	maxClientHelloPeek   = 16 * 1024
)

// fingerprintServer owns the listener and the shared state every
// connection's handler consults: the correlation store, the TCP table
// populated independently by the capture agent, and the reference
// database.
type fingerprintServer struct {
	store     *fpstore.Store
	tcp       *tcpfp.Table
	db        *fpdb.Database
	telemetry *telemetry.Registry
	tlsConf   *tls.Config
	startedAt time.Time
}

func newFingerprintServer(cert tls.Certificate, store *fpstore.Store, tcpTable *tcpfp.Table, db *fpdb.Database, tel *telemetry.Registry) *fingerprintServer {
	return &fingerprintServer{
		store:     store,
		tcp:       tcpTable,
		db:        db,
		telemetry: tel,
		startedAt: time.Now(),
		tlsConf: &tls.Config{
			Certificates: []tls.Certificate{cert},
			NextProtos:   []string{"h2", "http/1.1"},
			MinVersion:   tls.VersionTLS12,
		},
	}
}

// Serve runs the accept loop for the process lifetime. Each accepted
// connection is handled in its own goroutine; a per-connection error
// never affects any other connection.
func (s *fingerprintServer) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *fingerprintServer) handleConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()

	_ = conn.SetReadDeadline(time.Now().Add(firstReadDeadline))
	buf := make([]byte, maxClientHelloPeek)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return // Timeout or client hung up before sending anything; drop silently.
	}
	raw := buf[:n]

	if !tlsfp.LooksLikeClientHello(raw) {
		return // not a TLS ClientHello at all; nothing to fingerprint or serve
	}

	tlsFp, err := tlsfp.Parse(raw)
	if err != nil {
		return // MalformedClientHello: close, store nothing, log nothing (too noisy under scan traffic)
	}

	replay := newReplayConn(conn, raw)
	tlsConn := tls.Server(replay, s.tlsConf)
	_ = tlsConn.SetReadDeadline(time.Now().Add(subsequentDeadline))
	if err := tlsConn.Handshake(); err != nil {
		log.Printf("debug: TLS handshake with %s failed: %v", conn.RemoteAddr(), err)
		return // HandshakeFailed: close, emit debug log only
	}

	host, port, _ := net.SplitHostPort(conn.RemoteAddr().String())
	if host == "" {
		host = conn.RemoteAddr().String()
	}

	var tcpFp *tcpfp.Fingerprint
	if s.tcp != nil {
		if found, ok := s.tcp.Get(host); ok {
			fpCopy := found
			tcpFp = &fpCopy
		}
	}

	state := tlsConn.ConnectionState()
	if state.NegotiatedProtocol == "h2" {
		s.serveHTTP2(tlsConn, host, port, tlsFp, tcpFp, start)
		return
	}
	s.serveHTTP1(tlsConn, host, port, tlsFp, tcpFp, start)
}

func (s *fingerprintServer) serveHTTP2(conn net.Conn, host, port string, tlsFp *tlsfp.Fingerprint, tcpFp *tcpfp.Fingerprint, start time.Time) {
	br := bufio.NewReader(conn)
	if err := http2fp.ReadPreface(br); err != nil {
		return
	}

	fr := http2.NewFramer(conn, br)
	h2Fp, err := http2fp.Intercept(fr)
	if err != nil {
		return
	}

	fp := &combined.Fingerprint{
		ClientIP: host,
		Observed: time.Now(),
		TLS:      tlsFp,
		HTTP2:    h2Fp,
		TCP:      tcpFp,
	}
	s.store.Put(net.JoinHostPort(host, port), host, fp)
	s.recordTelemetry(host, tlsFp, h2Fp.AkamaiHash, h2Fp.UserAgent, start)

	responder := http2fp.NewResponder(fr)
	if err := responder.ServerPreamble(); err != nil {
		return
	}
	body := s.buildResponseBody(h2Fp.RequestPath, host, h2Fp.UserAgent)
	_ = responder.Respond(h2Fp.FirstStreamID, body)
}

func (s *fingerprintServer) serveHTTP1(conn net.Conn, host, port string, tlsFp *tlsfp.Fingerprint, tcpFp *tcpfp.Fingerprint, start time.Time) {
	br := bufio.NewReader(conn)
	req, err := http.ReadRequest(br)
	if err != nil {
		return
	}

	fp := &combined.Fingerprint{
		ClientIP: host,
		Observed: time.Now(),
		TLS:      tlsFp,
		HTTP2:    nil,
		TCP:      tcpFp,
	}
	s.store.Put(net.JoinHostPort(host, port), host, fp)
	s.recordTelemetry(host, tlsFp, "", req.UserAgent(), start)

	body := s.buildResponseBody(req.URL.Path, host, req.UserAgent())

	status := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: application/json\r\n" +
		"Access-Control-Allow-Origin: *\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n" +
		"Connection: close\r\n\r\n"
	_, _ = conn.Write([]byte(status))
	_, _ = conn.Write(body)
}

// recordTelemetry feeds the trend analyzers. It never influences the
// fingerprint stored for this connection or the result of a later
// analyzer.Analyze call on it; telemetry is purely a side channel for
// the /api/telemetry endpoint.
func (s *fingerprintServer) recordTelemetry(host string, tlsFp *tlsfp.Fingerprint, http2Hash, ua string, start time.Time) {
	if s.telemetry == nil {
		return
	}
	ev := telemetry.FingerprintEvent{
		Timestamp: time.Now(),
		ClientIP:  host,
		HTTP2:     http2Hash,
		UserAgent: ua,
		Latency:   time.Since(start),
	}
	if tlsFp != nil {
		ev.JA3Hash = tlsFp.JA3Hash
		ev.JA4 = tlsFp.JA4
	}
	s.telemetry.OnEvent(ev)
}
