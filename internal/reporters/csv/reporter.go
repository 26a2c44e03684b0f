package csv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gputrace/internal/models"
)

// statsHeader is the report column order; readers depend on it.
var statsHeader = []string{
	"operation_name",
	"avg_start_time_us",
	"avg_end_time_us",
	"avg_duration_us",
	"bubble_time_us",
}

var operationsHeader = []string{
	"kernel_name",
	"start_time_us",
	"end_time_us",
	"duration_us",
}

// Reporter writes a profile run's stat records to a CSV file.
type Reporter struct {
	run  *models.ProfileRun
	path string
}

// NewReporter creates a CSV reporter writing to path.
func NewReporter(run *models.ProfileRun, path string) *Reporter {
	return &Reporter{
		run:  run,
		path: path,
	}
}

// Generate writes the report file.
func (r *Reporter) Generate() error {
	file, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := WriteStats(w, r.run.Records); err != nil {
		return err
	}
	return w.Flush()
}

// WriteStats writes stat records as CSV, one row per record.
func WriteStats(w io.Writer, records []models.ProfileStatsRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statsHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.OperationName,
			formatFloat(rec.AvgStartTime),
			formatFloat(rec.AvgEndTime),
			formatFloat(rec.AvgDuration),
			formatFloat(rec.BubbleTime),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadStats parses a stats report back into records.
func ReadStats(r io.Reader) ([]models.ProfileStatsRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []models.ProfileStatsRecord
	for _, row := range rows[1:] {
		if len(row) != len(statsHeader) {
			return nil, fmt.Errorf("expected %d columns, got %d", len(statsHeader), len(row))
		}
		rec := models.ProfileStatsRecord{OperationName: row[0]}
		if rec.AvgStartTime, err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, fmt.Errorf("parsing avg_start_time_us: %w", err)
		}
		if rec.AvgEndTime, err = strconv.ParseFloat(row[2], 64); err != nil {
			return nil, fmt.Errorf("parsing avg_end_time_us: %w", err)
		}
		if rec.AvgDuration, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, fmt.Errorf("parsing avg_duration_us: %w", err)
		}
		if rec.BubbleTime, err = strconv.ParseFloat(row[4], 64); err != nil {
			return nil, fmt.Errorf("parsing bubble_time_us: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteOperations writes time-window extraction results as CSV.
func WriteOperations(w io.Writer, ops []models.GpuOperation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(operationsHeader); err != nil {
		return err
	}
	for _, op := range ops {
		row := []string{
			op.Name,
			formatFloat(op.StartTime),
			formatFloat(op.EndTime),
			formatFloat(op.Duration),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOperationsFile writes extraction results to path.
func WriteOperationsFile(path string, ops []models.GpuOperation) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := WriteOperations(w, ops); err != nil {
		return err
	}
	return w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
