package extract

import (
	"reflect"
	"testing"

	"gputrace/internal/models"
)

func op(name string, start, end float64) models.GpuOperation {
	return models.GpuOperation{Name: name, StartTime: start, EndTime: end, Duration: end - start}
}

func TestOperationsWindow(t *testing.T) {
	ops := []models.GpuOperation{
		op("late", 300, 310),
		op("inside_b", 150, 160),
		op("straddles_start", 90, 110),
		op("inside_a", 100, 120),
		op("straddles_end", 190, 210),
		op("early", 10, 20),
	}

	got := Operations(ops, Window{Start: 100, End: 200})

	want := []models.GpuOperation{
		op("inside_a", 100, 120),
		op("inside_b", 150, 160),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Operations() = %+v, want %+v", got, want)
	}
}

func TestOperationsBoundaries(t *testing.T) {
	// The window is closed: operations touching either edge are included.
	ops := []models.GpuOperation{
		op("exact", 100, 200),
		op("at_start", 100, 101),
		op("at_end", 199, 200),
	}

	got := Operations(ops, Window{Start: 100, End: 200})
	if len(got) != 3 {
		t.Errorf("got %d operations, want 3", len(got))
	}
}

func TestOperationsEmpty(t *testing.T) {
	if got := Operations(nil, Window{Start: 0, End: 100}); got != nil {
		t.Errorf("Operations(nil) = %+v, want nil", got)
	}

	ops := []models.GpuOperation{op("out", 500, 600)}
	if got := Operations(ops, Window{Start: 0, End: 100}); got != nil {
		t.Errorf("Operations() = %+v, want nil", got)
	}
}

func TestOperationsDoesNotMutateInput(t *testing.T) {
	ops := []models.GpuOperation{
		op("b", 150, 160),
		op("a", 100, 110),
	}
	Operations(ops, Window{Start: 0, End: 1000})

	if ops[0].Name != "b" {
		t.Errorf("input reordered: %+v", ops)
	}
}
