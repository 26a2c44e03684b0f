package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"gputrace/internal/models"
	"gputrace/pkg/logutil"
)

// progressInterval is how many records pass between progress log lines.
const progressInterval = 100000

// ErrNoTraceEvents is returned when the container lacks the top-level
// traceEvents array.
var ErrNoTraceEvents = errors.New("traceEvents not found or not an array")

// Options controls how events are decoded.
type Options struct {
	// NormalizeNames strips volatile duration suffixes from operation names.
	// The stats pipeline needs this so repeated occurrences compare equal;
	// the raw extractor keeps names verbatim.
	NormalizeNames bool
}

// Result holds the classified contents of one trace file.
type Result struct {
	Steps      []models.ProfileStep
	Operations []models.GpuOperation

	// TotalEvents counts every record in the container, including the ones
	// that were skipped.
	TotalEvents int
}

// Parser decodes a trace container into steps and device operations. Records
// that fail to decode or lack a usable timestamp pair are skipped, never
// fatal.
type Parser struct {
	reader io.Reader
	opts   Options
}

// NewParser creates a parser reading a trace container from reader.
func NewParser(reader io.Reader, opts Options) *Parser {
	return &Parser{
		reader: reader,
		opts:   opts,
	}
}

// Parse reads the whole container and classifies its records. The only fatal
// condition is a container without a traceEvents array.
func (p *Parser) Parse() (*Result, error) {
	logger := logutil.GetLogger()

	var file models.TraceFile
	if err := json.NewDecoder(p.reader).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding trace container: %w", err)
	}
	if file.TraceEvents == nil {
		return nil, ErrNoTraceEvents
	}

	result := &Result{TotalEvents: len(file.TraceEvents)}

	for i, raw := range file.TraceEvents {
		if i > 0 && i%progressInterval == 0 {
			logger.Info("Decoding trace events",
				zap.Int("processed", i),
				zap.Int("total", result.TotalEvents))
		}

		var event models.TraceEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		start, end, ok := event.Times()
		if !ok {
			continue
		}

		switch {
		case event.IsStep():
			result.Steps = append(result.Steps, models.ProfileStep{
				Name:      event.Name,
				StartTime: start,
				EndTime:   end,
			})
		case event.IsDeviceOperation():
			name := event.Name
			if p.opts.NormalizeNames {
				name = models.NormalizeOperationName(name)
			}
			result.Operations = append(result.Operations, models.GpuOperation{
				Name:      name,
				StartTime: start,
				EndTime:   end,
				Duration:  end - start,
			})
		}
	}

	return result, nil
}
