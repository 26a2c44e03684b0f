package csv

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"gputrace/internal/models"
)

func TestStatsRoundTrip(t *testing.T) {
	records := []models.ProfileStatsRecord{
		{OperationName: "load_kv", AvgStartTime: 0, AvgEndTime: 10.5, AvgDuration: 10.5, BubbleTime: 0},
		{OperationName: "gemm, fused", AvgStartTime: 11.25, AvgEndTime: 40, AvgDuration: 28.75, BubbleTime: 0.75},
		{OperationName: "MEMCPY_DtoH", AvgStartTime: 41.333333333333336, AvgEndTime: 50, AvgDuration: 8.666666666666666, BubbleTime: 1.3333333333333333},
	}

	var buf bytes.Buffer
	if err := WriteStats(&buf, records); err != nil {
		t.Fatalf("WriteStats() error: %v", err)
	}

	got, err := ReadStats(&buf)
	if err != nil {
		t.Fatalf("ReadStats() error: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i, want := range records {
		if got[i].OperationName != want.OperationName {
			t.Errorf("row %d: name = %q, want %q", i, got[i].OperationName, want.OperationName)
		}
		checkClose(t, i, "avg_start_time_us", got[i].AvgStartTime, want.AvgStartTime)
		checkClose(t, i, "avg_end_time_us", got[i].AvgEndTime, want.AvgEndTime)
		checkClose(t, i, "avg_duration_us", got[i].AvgDuration, want.AvgDuration)
		checkClose(t, i, "bubble_time_us", got[i].BubbleTime, want.BubbleTime)
	}
}

func TestStatsHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStats(&buf, nil); err != nil {
		t.Fatalf("WriteStats() error: %v", err)
	}

	want := "operation_name,avg_start_time_us,avg_end_time_us,avg_duration_us,bubble_time_us\n"
	if buf.String() != want {
		t.Errorf("header = %q, want %q", buf.String(), want)
	}
}

func TestWriteOperations(t *testing.T) {
	ops := []models.GpuOperation{
		{Name: "gemm[2.5 us]", StartTime: 10, EndTime: 12.5, Duration: 2.5},
	}

	var buf bytes.Buffer
	if err := WriteOperations(&buf, ops); err != nil {
		t.Fatalf("WriteOperations() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "kernel_name,start_time_us,end_time_us,duration_us" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "gemm[2.5 us],10,12.5,2.5" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestReadStatsRejectsBadRows(t *testing.T) {
	input := "operation_name,avg_start_time_us,avg_end_time_us,avg_duration_us,bubble_time_us\nk,abc,1,2,3\n"
	if _, err := ReadStats(strings.NewReader(input)); err == nil {
		t.Error("ReadStats() = nil error for unparsable number")
	}
}

func checkClose(t *testing.T, row int, col string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("row %d: %s = %v, want %v", row, col, got, want)
	}
}
