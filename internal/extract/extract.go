// Package extract filters device operations down to a caller-specified time
// window.
package extract

import (
	"sort"

	"gputrace/internal/models"
)

// Window is a closed interval on the device clock, in microseconds.
type Window struct {
	Start float64
	End   float64
}

// Contains reports whether the operation's interval lies fully inside the
// window.
func (w Window) Contains(op models.GpuOperation) bool {
	return op.StartTime >= w.Start && op.EndTime <= w.End
}

// Operations returns the operations whose interval is fully contained in the
// window, sorted ascending by start time. The input is not mutated.
func Operations(ops []models.GpuOperation, window Window) []models.GpuOperation {
	var selected []models.GpuOperation
	for _, op := range ops {
		if window.Contains(op) {
			selected = append(selected, op)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].StartTime < selected[j].StartTime
	})

	return selected
}
