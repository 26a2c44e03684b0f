package profile

import (
	"errors"
	"reflect"
	"testing"

	"gputrace/internal/models"
)

func sequence(names ...string) models.StepSequence {
	var ops []models.GpuOperation
	for i, name := range names {
		ops = append(ops, op(name, float64(i*10), float64(i*10+5)))
	}
	return models.StepSequence{Operations: ops}
}

func TestSelectReferenceMostCommonLength(t *testing.T) {
	seqs := []models.StepSequence{
		sequence("a", "b", "c"),
		sequence("x", "y"),
		sequence("a", "b", "c"),
		sequence("a", "b", "c"),
	}

	ref, length, tally, err := selectReference(seqs)
	if err != nil {
		t.Fatalf("selectReference() error: %v", err)
	}
	if length != 3 || tally != 3 {
		t.Errorf("length, tally = %d, %d; want 3, 3", length, tally)
	}
	// The first step with the chosen length is the template.
	if !reflect.DeepEqual(ref, seqs[0].Operations) {
		t.Errorf("reference = %+v, want first length-3 sequence", ref)
	}
}

func TestSelectReferenceSkipsEmpty(t *testing.T) {
	seqs := []models.StepSequence{
		{},
		sequence("a"),
		{},
		sequence("b"),
	}

	ref, length, tally, err := selectReference(seqs)
	if err != nil {
		t.Fatalf("selectReference() error: %v", err)
	}
	if length != 1 || tally != 2 {
		t.Errorf("length, tally = %d, %d; want 1, 2", length, tally)
	}
	if ref[0].Name != "a" {
		t.Errorf("reference = %+v, want the first non-empty sequence", ref)
	}
}

func TestSelectReferenceTieBreak(t *testing.T) {
	// Two lengths tie at two steps each; the smaller length must win so the
	// choice never depends on map iteration order.
	seqs := []models.StepSequence{
		sequence("p", "q", "r", "s"),
		sequence("a", "b"),
		sequence("p", "q", "r", "s"),
		sequence("c", "d"),
	}

	_, length, tally, err := selectReference(seqs)
	if err != nil {
		t.Fatalf("selectReference() error: %v", err)
	}
	if length != 2 || tally != 2 {
		t.Errorf("length, tally = %d, %d; want 2, 2", length, tally)
	}
}

func TestSelectReferenceDeterministic(t *testing.T) {
	seqs := []models.StepSequence{
		sequence("a", "b", "c"),
		sequence("d", "e"),
		sequence("f", "g", "h"),
		sequence("i", "j"),
		sequence("k"),
	}

	firstRef, firstLen, firstTally, err := selectReference(seqs)
	if err != nil {
		t.Fatalf("selectReference() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		ref, length, tally, err := selectReference(seqs)
		if err != nil {
			t.Fatalf("selectReference() error: %v", err)
		}
		if length != firstLen || tally != firstTally || !reflect.DeepEqual(ref, firstRef) {
			t.Fatalf("run %d: selection differs (%d, %d) vs (%d, %d)",
				i, length, tally, firstLen, firstTally)
		}
	}
}

func TestSelectReferenceAllEmpty(t *testing.T) {
	seqs := []models.StepSequence{{}, {}}
	if _, _, _, err := selectReference(seqs); !errors.Is(err, ErrAllStepsEmpty) {
		t.Errorf("error = %v, want ErrAllStepsEmpty", err)
	}
}
