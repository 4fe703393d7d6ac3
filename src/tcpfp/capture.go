package tcpfp

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// Source is the capability interface the capture agent runs behind: a
// Live variant backed by libpcap and a Stub variant for hosts without
// capture privileges. Selecting the stub is a build/runtime decision and
// must never surface as an error.
type Source interface {
	// Run blocks, publishing one Fingerprint per observed SYN until stop
	// is closed or the interface becomes unusable. Live implementations
	// return a non-nil error only when the capture backend itself could
	// not be opened; callers treat that as CaptureUnavailable and
	// disable the component rather than aborting startup.
	Run(stop <-chan struct{}, publish func(Fingerprint)) error
}

// LiveSource captures SYN packets on one interface via libpcap.
type LiveSource struct {
	Iface string
	Port  int
}

func (s LiveSource) Run(stop <-chan struct{}, publish func(Fingerprint)) error {
	handle, err := pcap.OpenLive(s.Iface, 128, true, pcap.BlockForever)
	if err != nil {
		return fmt.Errorf("tcpfp: open %s: %w", s.Iface, err)
	}
	defer handle.Close()

	filter := fmt.Sprintf("tcp dst port %d and tcp[tcpflags] & (tcp-syn|tcp-ack) == tcp-syn", s.Port)
	if err := handle.SetBPFFilter(filter); err != nil {
		return fmt.Errorf("tcpfp: set filter on %s: %w", s.Iface, err)
	}

	src := gopacket.NewPacketSource(handle, handle.LinkType())
	packets := src.Packets()
	for {
		select {
		case <-stop:
			return nil
		case pkt, ok := <-packets:
			if !ok {
				return nil
			}
			if fp, ok := fromPacket(pkt); ok {
				publish(fp)
			}
		}
	}
}

// fromPacket extracts IP/TCP header fields from a captured SYN packet and
// builds its Fingerprint. Only the SYN itself is inspected, never a
// SYN-ACK or later segment.
func fromPacket(pkt gopacket.Packet) (Fingerprint, bool) {
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return Fingerprint{}, false
	}
	tcp, ok := tcpLayer.(*layers.TCP)
	if !ok || !tcp.SYN || tcp.ACK {
		return Fingerprint{}, false
	}

	var srcIP net.IP
	var ipVersion int
	var ttl uint8
	var ipFlags byte

	if ip4 := pkt.Layer(layers.LayerTypeIPv4); ip4 != nil {
		v4 := ip4.(*layers.IPv4)
		srcIP = v4.SrcIP
		ipVersion = 4
		ttl = v4.TTL
		ipFlags = byte(v4.Flags)
	} else if ip6 := pkt.Layer(layers.LayerTypeIPv6); ip6 != nil {
		v6 := ip6.(*layers.IPv6)
		srcIP = v6.SrcIP
		ipVersion = 6
		ttl = v6.HopLimit
	} else {
		return Fingerprint{}, false
	}

	fields := make([]tcpOptionLike, 0, len(tcp.Options))
	for _, o := range tcp.Options {
		fields = append(fields, tcpOptionLike{Kind: byte(o.OptionType), Data: o.OptionData})
	}

	fp := buildFromFields(srcIP.String(), ipVersion, ipFlags, ttl, uint16(tcp.Window), fields, time.Now())
	return fp, true
}

// StubSource never observes anything; it exists so the rest of the
// system can run identically when capture privileges are unavailable.
type StubSource struct{}

func (StubSource) Run(stop <-chan struct{}, publish func(Fingerprint)) error {
	<-stop
	return nil
}

// MultiSource runs one LiveSource loop per interface concurrently, as
// required when no --iface is given: every non-loopback interface with
// addresses, plus loopback for same-host testing, each gets its own
// capture loop so a SYN arriving on any of them is seen.
type MultiSource struct {
	Sources []LiveSource
}

func (m MultiSource) Run(stop <-chan struct{}, publish func(Fingerprint)) error {
	if len(m.Sources) == 0 {
		<-stop
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(m.Sources))
	for _, src := range m.Sources {
		wg.Add(1)
		go func(s LiveSource) {
			defer wg.Done()
			if err := s.Run(stop, publish); err != nil {
				log.Printf("tcpfp: capture loop on %s stopped: %v", s.Iface, err)
				errCh <- err
			}
		}(src)
	}
	wg.Wait()
	close(errCh)

	// Only report failure if every interface failed to open; one bad
	// interface (permissions, link down) shouldn't take the others down.
	failed := 0
	var lastErr error
	for err := range errCh {
		failed++
		lastErr = err
	}
	if failed == len(m.Sources) {
		return lastErr
	}
	return nil
}

// NewSource builds a capture source for iface, falling back to a Stub and
// logging once if libpcap cannot be used at all (missing privileges or
// missing library). This must never be treated as a fatal error.
//
// With a non-empty iface, a single LiveSource is returned. With iface
// empty, per §4.1/§5, every usable interface is enumerated and run as its
// own dedicated capture loop via MultiSource.
func NewSource(iface string, port int) Source {
	if _, err := pcap.FindAllDevs(); err != nil {
		log.Printf("tcpfp: capture backend unavailable, disabling TCP fingerprinting: %v", err)
		return StubSource{}
	}

	if iface != "" {
		return LiveSource{Iface: iface, Port: port}
	}

	names, err := usableDeviceNames()
	if err != nil || len(names) == 0 {
		log.Printf("tcpfp: no usable capture interfaces found, disabling TCP fingerprinting: %v", err)
		return StubSource{}
	}

	sources := make([]LiveSource, 0, len(names))
	for _, name := range names {
		sources = append(sources, LiveSource{Iface: name, Port: port})
	}
	if len(sources) == 1 {
		return sources[0]
	}
	return MultiSource{Sources: sources}
}

// usableDeviceNames enumerates every non-loopback device libpcap reports
// an address for, plus any loopback device regardless of address (so
// same-host testing against 127.0.0.1/::1 is always captured).
func usableDeviceNames() ([]string, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range devices {
		isLoopback := d.Flags&pcap.PCAP_IF_LOOPBACK != 0
		if isLoopback || len(d.Addresses) > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}
