// internal/reporters/stdout/reporter.go

package stdout

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gputrace/internal/models"
)

const maxNameWidth = 47

// Reporter prints a bounded preview of a run's stat records plus the run
// counters.
type Reporter struct {
	run    *models.ProfileRun
	limit  int
	writer io.Writer
}

// NewReporter creates a preview reporter. A nil writer means stdout.
func NewReporter(run *models.ProfileRun, limit int, writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if limit <= 0 {
		limit = 10
	}
	return &Reporter{
		run:    run,
		limit:  limit,
		writer: writer,
	}
}

func (r *Reporter) Generate() error {
	c := r.run.Counters
	fmt.Fprintf(r.writer, "Steps: %d found, %d filtered as prefill, %d remaining\n",
		c.StepsFound, c.StepsFiltered, c.StepsRemaining)
	fmt.Fprintf(r.writer, "Reference sequence: %d operations (tally %d)\n",
		c.ReferenceLength, c.ReferenceTally)
	if c.LengthMismatches > 0 || c.NameMismatches > 0 {
		fmt.Fprintf(r.writer, "Skipped: %d count mismatches, %d name mismatches\n",
			c.LengthMismatches, c.NameMismatches)
	}

	records := r.run.Records
	if len(records) == 0 {
		return nil
	}

	limit := r.limit
	if limit > len(records) {
		limit = len(records)
	}
	fmt.Fprintf(r.writer, "\n--- Preview (first %d records) ---\n", limit)

	w := tabwriter.NewWriter(r.writer, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Operation\tStart(us)\tEnd(us)\tDur(us)\tBubble(us)\t\n")
	for _, rec := range records[:limit] {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			truncate(rec.OperationName),
			rec.AvgStartTime,
			rec.AvgEndTime,
			rec.AvgDuration,
			rec.BubbleTime)
	}
	return nil
}

// PreviewOperations prints the first limit extracted operations, numbered.
func PreviewOperations(w io.Writer, ops []models.GpuOperation, limit int) {
	if len(ops) == 0 {
		return
	}
	if limit > len(ops) {
		limit = len(ops)
	}
	fmt.Fprintf(w, "\n--- Preview (first %d records) ---\n", limit)
	for i, op := range ops[:limit] {
		fmt.Fprintf(w, "%d. %s | %.3f -> %.3f us | %.3f us\n",
			i+1, op.Name, op.StartTime, op.EndTime, op.Duration)
	}
}

func truncate(name string) string {
	if len(name) > maxNameWidth {
		return name[:maxNameWidth] + "..."
	}
	return name
}
