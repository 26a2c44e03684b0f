// internal/models/trace.go

package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Event categories and phases consumed by the analyzer. Everything else in a
// trace is ignored.
const (
	CategoryProfileStep = "ProfileStep"
	CategoryKernel      = "Kernel"
	CategoryMemcpy      = "Memcpy"
	CategoryMemset      = "Memset"

	// PhaseComplete marks a complete event carrying both endpoints.
	PhaseComplete = "X"
)

// TraceFile is the trace container: a single top-level array of heterogeneous
// records. Events are kept raw so that one malformed record cannot fail the
// whole decode.
type TraceFile struct {
	TraceEvents []json.RawMessage `json:"traceEvents"`
}

// TraceEvent is one record from the trace. Only name, cat, ph and the
// start/end timestamps inside args are consumed.
type TraceEvent struct {
	Name     string     `json:"name"`
	Category string     `json:"cat,omitempty"`
	Phase    string     `json:"ph,omitempty"`
	Args     *TraceArgs `json:"args,omitempty"`
}

// TraceArgs carries the textual device-clock timestamps, e.g. "6609483.000 us".
type TraceArgs struct {
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// IsStep reports whether the event is a profile step marker.
func (e *TraceEvent) IsStep() bool {
	return e.Category == CategoryProfileStep && e.Phase == PhaseComplete
}

// IsDeviceOperation reports whether the event is a kernel launch, memory copy
// or memory set.
func (e *TraceEvent) IsDeviceOperation() bool {
	switch e.Category {
	case CategoryKernel, CategoryMemcpy, CategoryMemset:
		return e.Phase == PhaseComplete
	}
	return false
}

// Times parses the start/end timestamps from the args block. It returns
// ok=false when either timestamp is missing or unparsable.
func (e *TraceEvent) Times() (start, end float64, ok bool) {
	if e.Args == nil {
		return 0, 0, false
	}
	start, ok = ParseTimeValue(e.Args.StartTime)
	if !ok {
		return 0, 0, false
	}
	end, ok = ParseTimeValue(e.Args.EndTime)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// ParseTimeValue parses a timestamp string of the form "NUMBER unit"
// ("6609483.000 us"). Only the leading number is significant; the unit token
// is ignored. ok=false means no value, not an error.
func ParseTimeValue(s string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeOperationName strips the volatile duration annotation the
// instrumentation appends to operation names, e.g.
// "MEMCPY_DtoH[2.464 us]" -> "MEMCPY_DtoH". Names without the bracketed
// suffix come back unchanged, so normalization is idempotent.
func NormalizeOperationName(name string) string {
	bracket := strings.LastIndex(name, "[")
	if bracket < 0 {
		return name
	}
	suffix := name[bracket:]
	if strings.HasSuffix(suffix, " us]") || strings.HasSuffix(suffix, " ms]") {
		return name[:bracket]
	}
	return name
}
