package sequencer

import "github.com/scaleseq/scaleseq"

// Selector tracks which slot is active and retargets the glide when the
// current step selects a different one. The active slot starts at 0, which
// matches no slot, so the first Select always switches.
type Selector struct {
	active     int
	recomputes uint64
}

// Select looks up the slot of step in steps. If it differs from the active
// slot, the slot's frequency table is copied to target and switched is true.
// Selecting the active slot again does nothing, even if the tuning in the
// slot was reloaded meanwhile.
func (s *Selector) Select(step int, steps *[NumSteps]int, store *Store, target *scaleseq.FrequencyTable) (slot int, switched bool) {
	slot = ClampSlot(steps[((step%NumSteps)+NumSteps)%NumSteps])
	if slot == s.active {
		return slot, false
	}
	store.Tuning(slot).Table(target)
	s.active = slot
	s.recomputes++
	return slot, true
}

// Active returns the active slot, or 0 if nothing has been selected since the
// last Reset.
func (s *Selector) Active() int { return s.active }

// Reset forgets the active slot.
func (s *Selector) Reset() { s.active = 0 }

// Recomputes returns how many times Select switched slots.
func (s *Selector) Recomputes() uint64 { return s.recomputes }
