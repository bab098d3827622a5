package cmd_test

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/scaleseq/scaleseq/cmd"
	"github.com/scaleseq/scaleseq/sequencer"
)

func TestSlotFlags(t *testing.T) {
	dir := t.TempDir()
	scl := filepath.Join(dir, "third.scl")
	if err := os.WriteFile(scl, []byte("thirds\n1\n5/4\n"), 0644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	missing := filepath.Join(dir, "missing.kbm")

	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	files := cmd.SlotFlags(flags)
	if files.Any() {
		t.Fatalf("no slot flags were given yet")
	}
	if err := flags.Parse([]string{"-scl2", scl, "-kbm3", missing}); err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if !files.Any() {
		t.Fatalf("slot flags were given")
	}

	seq := sequencer.New(nil)
	err := files.Apply(seq)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("the missing mapping should be reported, got %v", err)
	}
	if got := seq.Store().Tuning(2).Scale().Count(); got != 1 {
		t.Fatalf("slot 2 should have the one-tone scale, got %d tones", got)
	}
	if v, _ := seq.State(sequencer.KBMKey(3)); v != missing {
		t.Fatalf("the path of the missing mapping should still be recorded, got %q", v)
	}
	for _, slot := range []int{1, 3, 4} {
		if seq.Store().Version(slot) != 0 {
			t.Fatalf("slot %d should not have been touched", slot)
		}
	}
}
