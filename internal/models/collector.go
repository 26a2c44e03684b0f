package models

import (
	"context"
)

// Collector defines the interface for metadata collectors that enrich a
// profile run.
type Collector interface {
	// Collect gathers data
	Collect(ctx context.Context) error

	// GetData returns the collected data
	GetData() interface{}
}
