// internal/models/profile.go

package models

import "time"

// GpuOperation is a single kernel launch, memory copy or memory set with
// device-clock timestamps in microseconds. The name is already normalized.
type GpuOperation struct {
	Name      string  `json:"name"`
	StartTime float64 `json:"startTimeUs"`
	EndTime   float64 `json:"endTimeUs"`
	Duration  float64 `json:"durationUs"`
}

// ProfileStep is one occurrence of a recurring unit of device work, e.g. one
// decode iteration.
type ProfileStep struct {
	Name      string  `json:"name"`
	StartTime float64 `json:"startTimeUs"`
	EndTime   float64 `json:"endTimeUs"`
}

// Duration returns the step length in microseconds.
func (s ProfileStep) Duration() float64 {
	return s.EndTime - s.StartTime
}

// StepSequence is the ordered sequence of operations contained in one step,
// with times re-based to the step start (or to the anchor operation when
// trimming is in effect).
type StepSequence struct {
	Step       ProfileStep    `json:"step"`
	Operations []GpuOperation `json:"operations"`
}

// ProfileStatsRecord is one emitted report row: per-position averages across
// all steps that matched the reference sequence.
type ProfileStatsRecord struct {
	OperationName string  `json:"operationName"`
	AvgStartTime  float64 `json:"avgStartTimeUs"`
	AvgEndTime    float64 `json:"avgEndTimeUs"`
	AvgDuration   float64 `json:"avgDurationUs"`
	BubbleTime    float64 `json:"bubbleTimeUs"`
}

// RunCounters are the queryable counts of one pipeline run.
type RunCounters struct {
	TotalEvents      int `json:"totalEvents"`
	OperationsFound  int `json:"operationsFound"`
	StepsFound       int `json:"stepsFound"`
	StepsFiltered    int `json:"stepsFiltered"`
	StepsRemaining   int `json:"stepsRemaining"`
	LengthMismatches int `json:"lengthMismatches"`
	NameMismatches   int `json:"nameMismatches"`
	ReferenceLength  int `json:"referenceLength"`
	ReferenceTally   int `json:"referenceTally"`
}

// ProfileRun is a complete analysis run: inputs, results, counters and the
// environment it was produced on.
type ProfileRun struct {
	ID        string    `json:"id"`
	TracePath string    `json:"tracePath"`
	CreatedAt time.Time `json:"createdAt"`

	// Analysis options
	AnchorName        string  `json:"anchorName,omitempty"`
	DecodeMaxDuration float64 `json:"decodeMaxDurationUs"`

	Records     []ProfileStatsRecord `json:"records"`
	Counters    RunCounters          `json:"counters"`
	Environment Environment          `json:"environment"`
}

// Environment describes the host a run was recorded on.
type Environment struct {
	Hostname    string    `json:"hostname"`
	OS          string    `json:"os"`
	Arch        string    `json:"arch"`
	CPUModel    string    `json:"cpuModel"`
	CPUCores    int       `json:"cpuCores"`
	MemoryTotal int64     `json:"memoryTotal"`
	GPUs        []GPUInfo `json:"gpus,omitempty"`
}

// GPUInfo describes one GPU device on the host.
type GPUInfo struct {
	Model  string `json:"model"`
	Memory int64  `json:"memory"`
	Driver string `json:"driver"`
}
