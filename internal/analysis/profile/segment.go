// internal/analysis/profile/segment.go

package profile

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"gputrace/internal/models"
)

// segment buckets operations under the step whose interval contains them and
// rewrites their times relative to the step start. Steps are assumed disjoint;
// if they overlap, an operation lands in every containing step, matching the
// upstream behavior.
func (a *Analyzer) segment(steps []models.ProfileStep, ops []models.GpuOperation) []models.StepSequence {
	sequences := make([]models.StepSequence, 0, len(steps))

	for _, step := range steps {
		var contained []models.GpuOperation
		for _, op := range ops {
			if op.StartTime >= step.StartTime && op.EndTime <= step.EndTime {
				contained = append(contained, models.GpuOperation{
					Name:      op.Name,
					StartTime: op.StartTime - step.StartTime,
					EndTime:   op.EndTime - step.StartTime,
					Duration:  op.Duration,
				})
			}
		}

		sort.SliceStable(contained, func(i, j int) bool {
			return contained[i].StartTime < contained[j].StartTime
		})

		if a.opts.AnchorName != "" {
			trimmed, found := trimToAnchor(contained, a.opts.AnchorName)
			if found {
				a.logger.Debug("Trimmed step to anchor",
					zap.String("step", step.Name),
					zap.String("anchor", a.opts.AnchorName),
					zap.Int("operations", len(trimmed)))
			} else {
				a.logger.Debug("Anchor not found in step, keeping sequence",
					zap.String("step", step.Name),
					zap.String("anchor", a.opts.AnchorName),
					zap.Int("operations", len(trimmed)))
			}
			contained = trimmed
		}

		sequences = append(sequences, models.StepSequence{
			Step:       step,
			Operations: contained,
		})
	}

	return sequences
}

// trimToAnchor drops every operation before the first whose name contains
// anchor and re-bases the remainder so the anchor starts at time zero. When no
// operation matches, the sequence is returned unchanged and found is false.
func trimToAnchor(ops []models.GpuOperation, anchor string) (trimmed []models.GpuOperation, found bool) {
	start := -1
	for i, op := range ops {
		if strings.Contains(op.Name, anchor) {
			start = i
			break
		}
	}
	if start < 0 {
		return ops, false
	}

	base := ops[start].StartTime
	trimmed = make([]models.GpuOperation, 0, len(ops)-start)
	for _, op := range ops[start:] {
		trimmed = append(trimmed, models.GpuOperation{
			Name:      op.Name,
			StartTime: op.StartTime - base,
			EndTime:   op.EndTime - base,
			Duration:  op.Duration,
		})
	}
	return trimmed, true
}
