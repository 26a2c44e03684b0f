package reporters

import (
	"fmt"
	"io"

	"gputrace/internal/models"
	"gputrace/internal/reporters/csv"
	"gputrace/internal/reporters/json"
	"gputrace/internal/reporters/stdout"
)

// Reporter defines the interface for profile report generators
type Reporter interface {
	Generate() error
}

// Options holds configuration for report generation
type Options struct {
	Format      string
	OutputPath  string // csv report target
	OutputDir   string // json report directory
	PreviewRows int
	Writer      io.Writer
	Run         *models.ProfileRun
}

// NewReporter creates a new reporter based on the specified format
func NewReporter(opts Options) (Reporter, error) {
	switch opts.Format {
	case "csv":
		return csv.NewReporter(opts.Run, opts.OutputPath), nil
	case "json":
		return json.NewReporter(opts.Run, opts.OutputDir), nil
	case "stdout":
		return stdout.NewReporter(opts.Run, opts.PreviewRows, opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", opts.Format)
	}
}
