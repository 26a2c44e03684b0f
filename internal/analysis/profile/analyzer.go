// internal/analysis/profile/analyzer.go

package profile

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"gputrace/internal/models"
	"gputrace/pkg/logutil"
)

// DefaultDecodeMaxDuration is the default prefill cutoff in microseconds.
// Decode steps typically run 10-20ms; prefill steps run 40-50ms and have a
// structurally different operation sequence, so they must not be averaged in.
const DefaultDecodeMaxDuration = 30000.0

var (
	// ErrNoSteps means the trace contained no step markers at all.
	ErrNoSteps = errors.New("no ProfileStep events found")

	// ErrNoDecodeSteps means the duration filter removed every step.
	ErrNoDecodeSteps = errors.New("no decode ProfileStep events found after filtering")

	// ErrAllStepsEmpty means no step contained any operation, so there is
	// nothing to choose a reference sequence from.
	ErrAllStepsEmpty = errors.New("all ProfileSteps are empty")
)

// Options configures one analysis run.
type Options struct {
	// AnchorName, when non-empty, names the operation each step sequence is
	// trimmed and re-based to (case-sensitive substring match, first match
	// wins). A step with no matching operation is kept untrimmed.
	AnchorName string

	// DecodeMaxDuration is the prefill cutoff in microseconds. Steps longer
	// than this are dropped before segmentation. Zero means
	// DefaultDecodeMaxDuration.
	DecodeMaxDuration float64
}

// Result is the outcome of one analysis run: the averaged records plus the
// counters the reporting layer exposes.
type Result struct {
	Records   []models.ProfileStatsRecord
	Sequences []models.StepSequence
	Counters  models.RunCounters
}

// Analyzer aligns repeated step sequences across a trace and averages them
// position by position.
type Analyzer struct {
	steps  []models.ProfileStep
	ops    []models.GpuOperation
	opts   Options
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer over the classified trace contents. The
// inputs are not mutated.
func NewAnalyzer(steps []models.ProfileStep, ops []models.GpuOperation, opts Options) *Analyzer {
	if opts.DecodeMaxDuration <= 0 {
		opts.DecodeMaxDuration = DefaultDecodeMaxDuration
	}
	return &Analyzer{
		steps:  steps,
		ops:    ops,
		opts:   opts,
		logger: logutil.GetLogger(),
	}
}

// Analyze runs the full pipeline: duration filter, segmentation, anchor
// trimming, reference selection and positional aggregation.
func (a *Analyzer) Analyze() (*Result, error) {
	if len(a.steps) == 0 {
		return nil, ErrNoSteps
	}

	result := &Result{}
	result.Counters.StepsFound = len(a.steps)
	result.Counters.OperationsFound = len(a.ops)

	steps := make([]models.ProfileStep, len(a.steps))
	copy(steps, a.steps)
	ops := make([]models.GpuOperation, len(a.ops))
	copy(ops, a.ops)

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StartTime < steps[j].StartTime
	})
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].StartTime < ops[j].StartTime
	})

	steps = a.filterPrefill(steps)
	result.Counters.StepsFiltered = result.Counters.StepsFound - len(steps)
	result.Counters.StepsRemaining = len(steps)

	a.logger.Info("Filtered prefill steps",
		zap.Int("filtered", result.Counters.StepsFiltered),
		zap.Float64("cutoffUs", a.opts.DecodeMaxDuration),
		zap.Int("remaining", len(steps)))

	if len(steps) == 0 {
		return nil, ErrNoDecodeSteps
	}

	result.Sequences = a.segment(steps, ops)

	ref, refLen, tally, err := selectReference(result.Sequences)
	if err != nil {
		return nil, err
	}
	result.Counters.ReferenceLength = refLen
	result.Counters.ReferenceTally = tally

	a.logger.Info("Selected reference sequence",
		zap.Int("operations", refLen),
		zap.Int("tally", tally),
		zap.Int("steps", len(result.Sequences)))

	records, lengthMismatches, nameMismatches := aggregate(result.Sequences, ref)
	result.Records = records
	result.Counters.LengthMismatches = lengthMismatches
	result.Counters.NameMismatches = nameMismatches

	if lengthMismatches > 0 {
		a.logger.Info("Skipped steps with operation count mismatch",
			zap.Int("skipped", lengthMismatches),
			zap.Int("expected", refLen))
	}
	if nameMismatches > 0 {
		a.logger.Info("Skipped steps with operation name mismatch",
			zap.Int("skipped", nameMismatches))
	}

	return result, nil
}

// filterPrefill keeps only steps at or below the decode duration cutoff.
func (a *Analyzer) filterPrefill(steps []models.ProfileStep) []models.ProfileStep {
	kept := steps[:0]
	for _, step := range steps {
		if step.Duration() <= a.opts.DecodeMaxDuration {
			kept = append(kept, step)
		}
	}
	return kept
}
