// internal/analysis/profile/reference.go

package profile

import (
	"gputrace/internal/models"
)

// selectReference chooses the representative operation count across all
// non-empty sequences and returns the first sequence with that count as the
// alignment template. The most frequent count wins; equal tallies break
// toward the smaller count so the choice never depends on map iteration
// order.
func selectReference(sequences []models.StepSequence) (ref []models.GpuOperation, length, tally int, err error) {
	counts := make(map[int]int)
	for _, seq := range sequences {
		if len(seq.Operations) > 0 {
			counts[len(seq.Operations)]++
		}
	}
	if len(counts) == 0 {
		return nil, 0, 0, ErrAllStepsEmpty
	}

	for l, n := range counts {
		if n > tally || (n == tally && l < length) {
			length = l
			tally = n
		}
	}

	for _, seq := range sequences {
		if len(seq.Operations) == length {
			return seq.Operations, length, tally, nil
		}
	}

	// Unreachable: the tally was built from these sequences.
	return nil, 0, 0, ErrAllStepsEmpty
}
