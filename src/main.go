package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"stackprint/src/fpdb"
	"stackprint/src/fpstore"
	"stackprint/src/tcpfp"
	"stackprint/src/telemetry"
)

func main() {
	var (
		port       = flag.Int("port", 8443, "listen port")
		host       = flag.String("host", "0.0.0.0", "listen address")
		certPath   = flag.String("cert", "./cert.pem", "TLS certificate path")
		keyPath    = flag.String("key", "./key.pem", "TLS private key path")
		iface      = flag.String("iface", "", "capture interface (empty = auto-detect)")
		disableTCP = flag.Bool("disable-tcp", false, "disable the TCP capture agent")
	)
	flag.Parse()

	log.Printf("stackprint starting: host=%s port=%d iface=%q disable-tcp=%v", *host, *port, *iface, *disableTCP)

	cert, err := loadOrGenerateCert(*certPath, *keyPath)
	if err != nil {
		log.Fatalf("failed to load TLS material: %v", err)
	}

	db := fpdb.Load(fpdb.ResolveDataDir())
	log.Printf("fingerprint database loaded: ja3=%v ja4=%v http2=%v", db.JA3Loaded(), db.JA4Loaded(), db.HTTP2Loaded())

	store := fpstore.New(fpstore.DefaultCapacity)
	tcpTable := tcpfp.NewTable(tcpfp.DefaultCapacity)

	stop := make(chan struct{})
	go store.RunPeriodicCleanup(stop, 30*time.Second)
	go runTCPCleanup(tcpTable, stop)

	if !*disableTCP {
		go runCaptureAgent(*iface, *port, tcpTable, stop)
	}

	tel := telemetry.NewDefaultRegistry()

	srv := newFingerprintServer(cert, store, tcpTable, db, tel)

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("failed to bind %s: %v", addr, err)
	}
	log.Printf("listening on %s (ALPN h2, http/1.1)", addr)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		log.Printf("shutting down")
		close(stop)
		ln.Close()
		os.Exit(0)
	}()

	if err := srv.Serve(ln); err != nil {
		log.Printf("listener closed: %v", err)
	}
}

func runTCPCleanup(table *tcpfp.Table, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			table.Cleanup()
		}
	}
}

// runCaptureAgent launches the TCP capture agent. It is not fatal if the
// capture backend is unavailable: NewSource falls back to a stub that
// never publishes, and the rest of the system continues to run without
// TCP signals.
func runCaptureAgent(iface string, port int, table *tcpfp.Table, stop <-chan struct{}) {
	src := tcpfp.NewSource(iface, port)
	if err := src.Run(stop, table.Put); err != nil {
		log.Printf("tcp capture agent stopped: %v", err)
	}
}
