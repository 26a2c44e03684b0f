// internal/analysis/profile/aggregate.go

package profile

import (
	"gputrace/internal/models"
)

// positionStats accumulates sums for one reference position. It never leaves
// the aggregation pass; only the finalized averages are exposed.
type positionStats struct {
	totalStart    float64
	totalEnd      float64
	totalDuration float64
	totalBubble   float64
	count         int
}

// aggregate walks every sequence that structurally matches the reference and
// accumulates per-position sums, then finalizes them into averages. Sequences
// with a different operation count or differing names at any position are
// skipped whole and counted; partial alignment is never attempted.
func aggregate(sequences []models.StepSequence, ref []models.GpuOperation) (records []models.ProfileStatsRecord, lengthMismatches, nameMismatches int) {
	stats := make([]positionStats, len(ref))

	for _, seq := range sequences {
		if len(seq.Operations) != len(ref) {
			lengthMismatches++
			continue
		}
		if !namesMatch(seq.Operations, ref) {
			nameMismatches++
			continue
		}

		// Bubble time is relative to the previous operation in this step,
		// starting from the step-relative origin.
		prevEnd := 0.0
		for i, op := range seq.Operations {
			s := &stats[i]
			s.totalStart += op.StartTime
			s.totalEnd += op.EndTime
			s.totalDuration += op.Duration

			bubble := op.StartTime - prevEnd
			if bubble < 0 {
				// Overlapping or out-of-order operations mean zero idle
				// time, never negative.
				bubble = 0
			}
			s.totalBubble += bubble

			prevEnd = op.EndTime
			s.count++
		}
	}

	for i, refOp := range ref {
		s := stats[i]
		if s.count == 0 {
			continue
		}
		n := float64(s.count)
		records = append(records, models.ProfileStatsRecord{
			OperationName: refOp.Name,
			AvgStartTime:  s.totalStart / n,
			AvgEndTime:    s.totalEnd / n,
			AvgDuration:   s.totalDuration / n,
			BubbleTime:    s.totalBubble / n,
		})
	}

	return records, lengthMismatches, nameMismatches
}

func namesMatch(ops, ref []models.GpuOperation) bool {
	for i := range ops {
		if ops[i].Name != ref[i].Name {
			return false
		}
	}
	return true
}
