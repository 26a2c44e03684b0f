// internal/server/db/models/models.go

package models

import (
	"time"
)

// ProfileRun is one persisted analysis run.
type ProfileRun struct {
	ID        string `gorm:"primarykey"`
	TracePath string

	// Options the run was produced with
	AnchorName          string
	DecodeMaxDurationUs float64

	// Counters
	TotalEvents      int
	OperationsFound  int
	StepsFound       int
	StepsFiltered    int
	StepsRemaining   int
	LengthMismatches int
	NameMismatches   int
	ReferenceLength  int
	ReferenceTally   int

	Environment Environment     `gorm:"foreignKey:RunID"`
	Operations  []OperationStat `gorm:"foreignKey:RunID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OperationStat is one averaged report row, keyed by reference position.
type OperationStat struct {
	RunID          string `gorm:"primarykey"`
	Position       int    `gorm:"primarykey"`
	Name           string `gorm:"type:text"`
	AvgStartTimeUs float64
	AvgEndTimeUs   float64
	AvgDurationUs  float64
	BubbleTimeUs   float64
}

type Environment struct {
	RunID       string `gorm:"primarykey"`
	Hostname    string
	OS          string
	Arch        string
	CPUModel    string
	CPUCores    int
	MemoryTotal int64
	GPUs        []GPU `gorm:"foreignKey:RunID"`
}

type GPU struct {
	ID     uint `gorm:"primarykey"`
	RunID  string
	Model  string
	Memory int64
	Driver string
}
