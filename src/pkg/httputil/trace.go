package httputil

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewTraceParent returns a sampled W3C traceparent value with a fresh
// trace id and span id, so a failing request can be found in server logs.
func NewTraceParent() string {
	traceID := uuid.New()
	spanID := uuid.New()
	return fmt.Sprintf("00-%s-%s-01", hex.EncodeToString(traceID[:]), hex.EncodeToString(spanID[:8]))
}

// TraceID extracts the trace id from a traceparent value.
// Values that are not in traceparent form are returned unchanged.
func TraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}
	return traceParent
}
