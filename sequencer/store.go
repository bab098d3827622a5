package sequencer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/scaleseq/scaleseq"
)

// NumSlots is the number of tuning slots steps can select from. Slots are
// numbered from 1.
const NumSlots = 4

// Store holds the tunings of the slots. Readers load a slot with a single
// atomic pointer load, so the real-time thread can read the store while the
// control thread is loading files. Writers are serialized with a mutex and
// never touch a published Tuning: they build a new one and swap the pointer.
type Store struct {
	slots    [NumSlots]atomic.Pointer[scaleseq.Tuning]
	versions [NumSlots]atomic.Uint64
	mu       sync.Mutex
	loader   *Loader
}

var ErrSlot = errors.New("no such tuning slot")

// NewStore returns a Store with every slot at the default tuning. Files are
// loaded with loader.
func NewStore(loader *Loader) *Store {
	if loader == nil {
		loader = NewLoader(nil)
	}
	s := &Store{loader: loader}
	for i := range s.slots {
		s.slots[i].Store(scaleseq.DefaultTuning())
	}
	return s
}

// ClampSlot limits a slot number to 1..NumSlots.
func ClampSlot(slot int) int {
	return max(min(slot, NumSlots), 1)
}

// Tuning returns the tuning of a slot. Slot numbers outside 1..NumSlots are
// clamped.
func (s *Store) Tuning(slot int) *scaleseq.Tuning {
	return s.slots[ClampSlot(slot)-1].Load()
}

// Version returns how many times the tuning of the slot has been replaced.
func (s *Store) Version(slot int) uint64 {
	return s.versions[ClampSlot(slot)-1].Load()
}

// Set replaces the tuning of a slot.
func (s *Store) Set(slot int, t *scaleseq.Tuning) error {
	if slot < 1 || slot > NumSlots {
		return fmt.Errorf("%w: %d", ErrSlot, slot)
	}
	if t == nil {
		t = scaleseq.DefaultTuning()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(slot, t)
	return nil
}

// LoadScale loads the .scl file at path into a slot. See Loader.LoadScale for
// the outcomes.
func (s *Store) LoadScale(slot int, path string) (LoadOutcome, error) {
	return s.load(slot, path, s.loader.LoadScale)
}

// LoadMapping loads the .kbm file at path into a slot. See
// Loader.LoadMapping for the outcomes.
func (s *Store) LoadMapping(slot int, path string) (LoadOutcome, error) {
	return s.load(slot, path, s.loader.LoadMapping)
}

func (s *Store) load(slot int, path string, f func(*scaleseq.Tuning, string) (*scaleseq.Tuning, LoadOutcome, error)) (LoadOutcome, error) {
	if slot < 1 || slot > NumSlots {
		return LoadSkipped, fmt.Errorf("%w: %d", ErrSlot, slot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, outcome, err := f(s.slots[slot-1].Load(), path)
	if outcome != LoadSkipped {
		s.publish(slot, t)
	}
	if err != nil {
		return outcome, fmt.Errorf("loading %q into slot %d failed: %w", path, slot, err)
	}
	return outcome, nil
}

func (s *Store) publish(slot int, t *scaleseq.Tuning) {
	s.slots[slot-1].Store(t)
	s.versions[slot-1].Add(1)
}
