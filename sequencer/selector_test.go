package sequencer_test

import (
	"testing"

	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/sequencer"
)

func TestSelectorSuppressesSameSlot(t *testing.T) {
	store := sequencer.NewStore(nil)
	if err := store.Set(2, scaleseq.NewTuning(scaleseq.EvenScale(19), scaleseq.LinearMapping())); err != nil {
		t.Fatalf("could not set slot 2: %v", err)
	}
	steps := [sequencer.NumSteps]int{1, 1, 2, 2, 9}
	var s sequencer.Selector
	var target scaleseq.FrequencyTable
	if slot, switched := s.Select(0, &steps, store, &target); slot != 1 || !switched {
		t.Fatalf("the first selection should switch to slot 1, got %d, %v", slot, switched)
	}
	target[0] = -1 // marker: must survive a selection of the same slot
	if _, switched := s.Select(1, &steps, store, &target); switched || target[0] != -1 {
		t.Fatalf("selecting the active slot again should not touch the target")
	}
	if s.Recomputes() != 1 {
		t.Fatalf("expected 1 recompute, got %d", s.Recomputes())
	}
	if slot, switched := s.Select(2, &steps, store, &target); slot != 2 || !switched {
		t.Fatalf("step 2 should switch to slot 2, got %d, %v", slot, switched)
	}
	var want scaleseq.FrequencyTable
	store.Tuning(2).Table(&want)
	if target != want {
		t.Fatalf("the target should be the table of slot 2")
	}
	s.Select(3, &steps, store, &target)
	if s.Recomputes() != 2 {
		t.Fatalf("expected 2 recomputes, got %d", s.Recomputes())
	}
	if slot, _ := s.Select(4, &steps, store, &target); slot != sequencer.NumSlots {
		t.Fatalf("slot 9 should clamp to %d, got %d", sequencer.NumSlots, slot)
	}
	if slot, _ := s.Select(5, &steps, store, &target); slot != 1 {
		t.Fatalf("slot 0 should clamp to 1, got %d", slot)
	}
	s.Reset()
	if s.Active() != 0 {
		t.Fatalf("Reset should forget the active slot")
	}
	if _, switched := s.Select(0, &steps, store, &target); !switched {
		t.Fatalf("the first selection after Reset should switch")
	}
}
