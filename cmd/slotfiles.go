package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/scaleseq/scaleseq/sequencer"
)

// SlotFiles are the -scl1..4 and -kbm1..4 flags of a command.
type SlotFiles struct {
	scl [sequencer.NumSlots]*string
	kbm [sequencer.NumSlots]*string
}

// SlotFlags defines a scale and a mapping flag for every tuning slot on fs.
func SlotFlags(fs *flag.FlagSet) *SlotFiles {
	f := &SlotFiles{}
	for i := range f.scl {
		f.scl[i] = fs.String(fmt.Sprintf("scl%d", i+1), "", fmt.Sprintf("Scale file (.scl) of tuning slot %d.", i+1))
		f.kbm[i] = fs.String(fmt.Sprintf("kbm%d", i+1), "", fmt.Sprintf("Keyboard mapping file (.kbm) of tuning slot %d.", i+1))
	}
	return f
}

// Any reports whether any of the flags was given.
func (f *SlotFiles) Any() bool {
	for i := range f.scl {
		if *f.scl[i] != "" || *f.kbm[i] != "" {
			return true
		}
	}
	return false
}

// Apply loads the given files into the slots of seq, the scale of a slot
// before its mapping. Slots without flags are left alone. Unlike
// Sequencer.SetState, a file that cannot be opened is reported, although its
// path is still recorded.
func (f *SlotFiles) Apply(seq *sequencer.Sequencer) error {
	var errs []error
	for i := range f.scl {
		slot := i + 1
		errs = append(errs,
			setState(seq, sequencer.SCLKey(slot), *f.scl[i], fmt.Sprintf("scl%d", slot)),
			setState(seq, sequencer.KBMKey(slot), *f.kbm[i], fmt.Sprintf("kbm%d", slot)))
	}
	return errors.Join(errs...)
}

func setState(seq *sequencer.Sequencer, key, path, flagName string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		seq.SetState(key, path)
		return fmt.Errorf("-%s: %w", flagName, err)
	}
	if err := seq.SetState(key, path); err != nil {
		return fmt.Errorf("-%s: %w", flagName, err)
	}
	return nil
}
