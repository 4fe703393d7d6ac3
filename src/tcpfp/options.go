// Package tcpfp derives a p0f-style TCP/IP fingerprint from an inbound
// SYN packet: initial-TTL inference, an option-order signature, and an
// OS guess from a fixed lookup table.
package tcpfp

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// TCP option kinds this parser understands by name; anything else keeps a
// synthetic "kind<N>" label.
const (
	optEndOfList     = 0
	optNOP           = 1
	optMSS           = 2
	optWindowScale   = 3
	optSACKPermitted = 4
	optSACK          = 5
	optTimestamp     = 8
)

// Option is a single parsed TCP option, in wire order.
type Option struct {
	Kind  byte   `json:"kind"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// parsedOptions is the set of option-derived fields the rest of the
// fingerprint needs.
type parsedOptions struct {
	Options     []Option
	CompactStr  string
	MSS         uint16
	WindowScale uint8
	HasTS       bool
	TSVal       uint32
	TSEcr       uint32
}

// parseOptions walks a TCP header's raw option bytes in wire order,
// building both the structured list and the compact p0f-style string.
func parseOptions(b []byte) parsedOptions {
	var out parsedOptions
	var compact []string

	for len(b) > 0 {
		kind := b[0]
		switch kind {
		case optEndOfList:
			out.Options = append(out.Options, Option{Kind: kind, Name: "eol"})
			b = b[1:]
		case optNOP:
			out.Options = append(out.Options, Option{Kind: kind, Name: "nop"})
			compact = append(compact, "N")
			b = b[1:]
		default:
			if len(b) < 2 {
				b = nil
				break
			}
			length := int(b[1])
			if length < 2 || length > len(b) {
				b = nil
				break
			}
			data := b[2:length]
			b = b[length:]

			switch kind {
			case optMSS:
				if len(data) >= 2 {
					out.MSS = binary.BigEndian.Uint16(data[:2])
					out.Options = append(out.Options, Option{Kind: kind, Name: "mss", Value: fmt.Sprint(out.MSS)})
					compact = append(compact, fmt.Sprintf("M%d", out.MSS))
				}
			case optWindowScale:
				if len(data) >= 1 {
					out.WindowScale = data[0]
					out.Options = append(out.Options, Option{Kind: kind, Name: "wscale", Value: fmt.Sprint(out.WindowScale)})
					compact = append(compact, fmt.Sprintf("W%d", out.WindowScale))
				}
			case optSACKPermitted:
				out.Options = append(out.Options, Option{Kind: kind, Name: "sackOK"})
				compact = append(compact, "S")
			case optSACK:
				out.Options = append(out.Options, Option{Kind: kind, Name: "sack"})
				compact = append(compact, "K")
			case optTimestamp:
				if len(data) >= 8 {
					out.HasTS = true
					out.TSVal = binary.BigEndian.Uint32(data[0:4])
					out.TSEcr = binary.BigEndian.Uint32(data[4:8])
					out.Options = append(out.Options, Option{Kind: kind, Name: "timestamp", Value: fmt.Sprintf("%d,%d", out.TSVal, out.TSEcr)})
					compact = append(compact, "T")
				}
			default:
				name := fmt.Sprintf("kind%d", kind)
				out.Options = append(out.Options, Option{Kind: kind, Name: name})
			}
		}
	}

	out.CompactStr = strings.Join(compact, ",")
	return out
}

// tcpOptionLike is a (kind, data) pair that fromPacket copies out of
// gopacket's layers.TCPOption, so the parsing logic here works on plain
// values rather than on the gopacket type.
type tcpOptionLike struct {
	Kind byte
	Data []byte
}

// parseOptionsFromFields builds the same result as parseOptions but from
// already-split (kind, data) pairs, which is what a decoded gopacket TCP
// layer gives us directly.
func parseOptionsFromFields(fields []tcpOptionLike) parsedOptions {
	var out parsedOptions
	var compact []string

	for _, f := range fields {
		switch f.Kind {
		case optEndOfList:
			out.Options = append(out.Options, Option{Kind: f.Kind, Name: "eol"})
		case optNOP:
			out.Options = append(out.Options, Option{Kind: f.Kind, Name: "nop"})
			compact = append(compact, "N")
		case optMSS:
			if len(f.Data) >= 2 {
				out.MSS = binary.BigEndian.Uint16(f.Data[:2])
				out.Options = append(out.Options, Option{Kind: f.Kind, Name: "mss", Value: fmt.Sprint(out.MSS)})
				compact = append(compact, fmt.Sprintf("M%d", out.MSS))
			}
		case optWindowScale:
			if len(f.Data) >= 1 {
				out.WindowScale = f.Data[0]
				out.Options = append(out.Options, Option{Kind: f.Kind, Name: "wscale", Value: fmt.Sprint(out.WindowScale)})
				compact = append(compact, fmt.Sprintf("W%d", out.WindowScale))
			}
		case optSACKPermitted:
			out.Options = append(out.Options, Option{Kind: f.Kind, Name: "sackOK"})
			compact = append(compact, "S")
		case optSACK:
			out.Options = append(out.Options, Option{Kind: f.Kind, Name: "sack"})
			compact = append(compact, "K")
		case optTimestamp:
			if len(f.Data) >= 8 {
				out.HasTS = true
				out.TSVal = binary.BigEndian.Uint32(f.Data[0:4])
				out.TSEcr = binary.BigEndian.Uint32(f.Data[4:8])
				out.Options = append(out.Options, Option{Kind: f.Kind, Name: "timestamp", Value: fmt.Sprintf("%d,%d", out.TSVal, out.TSEcr)})
				compact = append(compact, "T")
			}
		default:
			out.Options = append(out.Options, Option{Kind: f.Kind, Name: fmt.Sprintf("kind%d", f.Kind)})
		}
	}

	out.CompactStr = strings.Join(compact, ",")
	return out
}
