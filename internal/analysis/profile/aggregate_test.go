package profile

import (
	"math"
	"testing"

	"gputrace/internal/models"
)

func seqOf(ops ...models.GpuOperation) models.StepSequence {
	return models.StepSequence{Operations: ops}
}

func TestAggregateCountMismatch(t *testing.T) {
	// Three steps with operation counts [3, 3, 2]: the length-2 step is
	// skipped whole and counted exactly once.
	ref := []models.GpuOperation{op("a", 0, 1), op("b", 2, 3), op("c", 4, 5)}
	seqs := []models.StepSequence{
		seqOf(op("a", 0, 1), op("b", 2, 3), op("c", 4, 5)),
		seqOf(op("a", 0, 1), op("b", 2, 3), op("c", 4, 5)),
		seqOf(op("a", 0, 1), op("b", 2, 3)),
	}

	records, lengthMismatches, nameMismatches := aggregate(seqs, ref)
	if lengthMismatches != 1 {
		t.Errorf("lengthMismatches = %d, want 1", lengthMismatches)
	}
	if nameMismatches != 0 {
		t.Errorf("nameMismatches = %d, want 0", nameMismatches)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// The mismatched step contributed to no accumulator.
	for _, rec := range records {
		if rec.AvgDuration != 1 {
			t.Errorf("%s: avg duration = %v, want 1", rec.OperationName, rec.AvgDuration)
		}
	}
}

func TestAggregateNameMismatch(t *testing.T) {
	ref := []models.GpuOperation{op("a", 0, 1), op("b", 2, 3)}
	seqs := []models.StepSequence{
		seqOf(op("a", 0, 1), op("b", 2, 3)),
		seqOf(op("a", 0, 1), op("z", 2, 3)),
	}

	records, lengthMismatches, nameMismatches := aggregate(seqs, ref)
	if lengthMismatches != 0 || nameMismatches != 1 {
		t.Errorf("mismatches = %d, %d; want 0, 1", lengthMismatches, nameMismatches)
	}
	for _, rec := range records {
		if rec.AvgStartTime != ref[0].StartTime && rec.AvgStartTime != ref[1].StartTime {
			t.Errorf("%s: unexpected average %v", rec.OperationName, rec.AvgStartTime)
		}
	}
}

func TestAggregateBubbleAverages(t *testing.T) {
	// Reference [op_a(dur=10), op_b(dur=5)]. Step 1 has op_b at 12..17
	// (bubble 2), step 2 at 10..15 (bubble 0). Expected op_b row:
	// start 11, end 16, duration 5, bubble 1.
	ref := []models.GpuOperation{op("op_a", 0, 10), op("op_b", 12, 17)}
	seqs := []models.StepSequence{
		seqOf(op("op_a", 0, 10), op("op_b", 12, 17)),
		seqOf(op("op_a", 0, 10), op("op_b", 10, 15)),
	}

	records, _, _ := aggregate(seqs, ref)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	b := records[1]
	if b.OperationName != "op_b" {
		t.Fatalf("records[1] = %q, want op_b", b.OperationName)
	}
	checkFloat(t, "avg start", b.AvgStartTime, 11)
	checkFloat(t, "avg end", b.AvgEndTime, 16)
	checkFloat(t, "avg duration", b.AvgDuration, 5)
	checkFloat(t, "avg bubble", b.BubbleTime, 1)

	// op_a starts at the step origin, so its bubble is its start offset.
	a := records[0]
	checkFloat(t, "op_a bubble", a.BubbleTime, 0)
}

func TestAggregateBubbleClampedToZero(t *testing.T) {
	// The second operation starts before the first ends; the negative gap
	// counts as zero idle time.
	ref := []models.GpuOperation{op("a", 0, 10), op("b", 8, 14)}
	seqs := []models.StepSequence{
		seqOf(op("a", 0, 10), op("b", 8, 14)),
	}

	records, _, _ := aggregate(seqs, ref)
	for _, rec := range records {
		if rec.BubbleTime < 0 {
			t.Errorf("%s: bubble = %v, want >= 0", rec.OperationName, rec.BubbleTime)
		}
	}
	if records[1].BubbleTime != 0 {
		t.Errorf("overlapping bubble = %v, want 0", records[1].BubbleTime)
	}
}

func TestAggregateNoMatchingSteps(t *testing.T) {
	// Every step mismatches: no positions accumulate, no rows come out.
	ref := []models.GpuOperation{op("a", 0, 1), op("b", 2, 3)}
	seqs := []models.StepSequence{
		seqOf(op("a", 0, 1)),
		seqOf(op("x", 0, 1), op("y", 2, 3)),
	}

	records, lengthMismatches, nameMismatches := aggregate(seqs, ref)
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if lengthMismatches != 1 || nameMismatches != 1 {
		t.Errorf("mismatches = %d, %d; want 1, 1", lengthMismatches, nameMismatches)
	}
}

func checkFloat(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}
