package main

import (
	"encoding/json"
	"time"
)

// statusResponse is the minimal status page spec.md §1 still allows once
// the dynamic capture-browsing UI is out of scope: no embedded asset
// tree, no SSE push, no saved searches or color rules, just enough for
// an operator to see the process is alive and what it has loaded.
type statusResponse struct {
	Uptime       string `json:"uptime"`
	JA3Loaded    bool   `json:"ja3_loaded"`
	JA4Loaded    bool   `json:"ja4_loaded"`
	HTTP2Loaded  bool   `json:"http2_loaded"`
	StoreEntries int    `json:"store_entries"`
	TCPEntries   int    `json:"tcp_table_entries"`
}

func (s *fingerprintServer) statusBody() []byte {
	resp := statusResponse{
		Uptime:      time.Since(s.startedAt).Truncate(time.Second).String(),
		JA3Loaded:   s.db.JA3Loaded(),
		JA4Loaded:   s.db.JA4Loaded(),
		HTTP2Loaded: s.db.HTTP2Loaded(),
	}
	if s.store != nil {
		resp.StoreEntries = s.store.Len()
	}
	if s.tcp != nil {
		resp.TCPEntries = s.tcp.Len()
	}
	b, _ := json.Marshal(resp)
	return b
}
