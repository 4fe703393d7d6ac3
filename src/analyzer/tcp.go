package analyzer

import (
	"fmt"

	"stackprint/src/tcpfp"
)

// analyzeTCP implements the TCP sub-analysis block; it never scores
// anything itself, it just surfaces what the collector already derived.
func analyzeTCP(fp *tcpfp.Fingerprint) TCPAnalysis {
	out := TCPAnalysis{
		Detected:     true,
		InferredOS:   fp.InferredOS,
		OSConfidence: fp.Confidence,
		TTLAnalysis:  fmt.Sprintf("observed=%d initial=%d", fp.ObservedTTL, fp.InitialTTL),
		Observations: append([]string(nil), fp.Anomalies...),
	}
	return out
}
