package http2fp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"
)

// maxFramesToInspect bounds how many frames the interceptor will read
// before giving up on finding a complete HEADERS block, capping attack
// surface from a client that never sends one.
const maxFramesToInspect = 50

// SettingEntry is a single (id,value) pair from a SETTINGS frame, in wire order.
type SettingEntry struct {
	ID    http2.SettingID `json:"id"`
	Value uint32          `json:"value"`
}

// PriorityEntry is a single PRIORITY frame observation.
type PriorityEntry struct {
	StreamID   uint32 `json:"stream_id"`
	Exclusive  bool   `json:"exclusive"`
	Dependency uint32 `json:"dependency"`
	Weight     uint8  `json:"weight"`
}

// Fingerprint is the parsed preamble plus the derived Akamai string.
type Fingerprint struct {
	Settings       []SettingEntry  `json:"settings"`
	WindowUpdate   uint32          `json:"window_update,omitempty"` // increment of the first stream-0 WINDOW_UPDATE, 0 if none
	Priorities     []PriorityEntry `json:"priorities,omitempty"`
	PseudoOrder    string          `json:"pseudo_order"` // comma-joined m/a/s/p in observed order
	FrameTypeOrder []string        `json:"frame_type_order,omitempty"`
	Akamai         string          `json:"akamai"`
	AkamaiHash     string          `json:"akamai_hash"` // first 32 hex chars of SHA-256(Akamai)
	FirstStreamID  uint32          `json:"-"`

	RequestPath string `json:"-"` // :path value from the first HEADERS frame, if any
	UserAgent   string `json:"-"` // user-agent header value from the first HEADERS frame, if any
}

// pseudoLetters maps HTTP/2 pseudo-header names to the single-letter code
// used in the Akamai pseudo-header-order signal.
var pseudoLetters = map[string]string{
	":method":    "m",
	":authority": "a",
	":scheme":    "s",
	":path":      "p",
}

// Intercept reads up to maxFramesToInspect frames from fr looking for
// SETTINGS, WINDOW_UPDATE, PRIORITY and the first HEADERS frame, and
// derives the Akamai fingerprint from what it observes. Continuation
// frames for an oversized first header block are not chased; a bare
// fingerprinting GET never needs one.
func Intercept(fr *http2.Framer) (*Fingerprint, error) {
	fp := &Fingerprint{}
	var pseudoOrder []string
	windowUpdateSeen := false
	sawHeaders := false

	dec := hpack.NewDecoder(4096, func(f hpack.HeaderField) {
		if letter, ok := pseudoLetters[f.Name]; ok {
			pseudoOrder = append(pseudoOrder, letter)
		}
		switch f.Name {
		case ":path":
			fp.RequestPath = f.Value
		case "user-agent":
			fp.UserAgent = f.Value
		}
	})

	for i := 0; i < maxFramesToInspect && !sawHeaders; i++ {
		frame, err := fr.ReadFrame()
		if err != nil {
			break
		}
		fp.FrameTypeOrder = append(fp.FrameTypeOrder, frame.Header().Type.String())

		switch f := frame.(type) {
		case *http2.SettingsFrame:
			if f.IsAck() {
				continue
			}
			f.ForeachSetting(func(s http2.Setting) error {
				fp.Settings = append(fp.Settings, SettingEntry{ID: s.ID, Value: s.Val})
				return nil
			})
		case *http2.WindowUpdateFrame:
			if f.StreamID == 0 && !windowUpdateSeen {
				fp.WindowUpdate = f.Increment
				windowUpdateSeen = true
			}
		case *http2.PriorityFrame:
			fp.Priorities = append(fp.Priorities, PriorityEntry{
				StreamID:   f.StreamID,
				Exclusive:  f.PriorityParam.Exclusive,
				Dependency: f.PriorityParam.StreamDep,
				Weight:     f.PriorityParam.Weight,
			})
		case *http2.HeadersFrame:
			dec.Write(f.HeaderBlockFragment())
			fp.FirstStreamID = f.StreamID
			sawHeaders = true
		}
	}

	if len(pseudoOrder) == 0 {
		pseudoOrder = []string{"m", "a", "s", "p"}
	}
	fp.PseudoOrder = strings.Join(pseudoOrder, ",")

	fp.Akamai = buildAkamaiString(fp)
	sum := sha256.Sum256([]byte(fp.Akamai))
	fp.AkamaiHash = hex.EncodeToString(sum[:])[:32]
	return fp, nil
}

func buildAkamaiString(fp *Fingerprint) string {
	settings := make([]SettingEntry, len(fp.Settings))
	copy(settings, fp.Settings)
	sort.Slice(settings, func(i, j int) bool { return settings[i].ID < settings[j].ID })
	parts := make([]string, len(settings))
	for i, s := range settings {
		parts[i] = fmt.Sprintf("%d:%d", s.ID, s.Value)
	}
	settingsStr := strings.Join(parts, ";")

	wu := "0"
	if fp.WindowUpdate != 0 {
		wu = fmt.Sprintf("%d", fp.WindowUpdate)
	}

	prio := "0"
	if len(fp.Priorities) > 0 {
		pparts := make([]string, len(fp.Priorities))
		for i, p := range fp.Priorities {
			excl := 0
			if p.Exclusive {
				excl = 1
			}
			pparts[i] = fmt.Sprintf("%d:%d:%d:%d", p.StreamID, excl, p.Dependency, p.Weight)
		}
		prio = strings.Join(pparts, ",")
	}

	return fmt.Sprintf("%s|%s|%s|%s", settingsStr, wu, prio, fp.PseudoOrder)
}
