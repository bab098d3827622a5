//go:build !cgo

package cmd

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var errNoMIDI = errors.New("MIDI output is not available in builds without cgo")

func NewTuningOutput(portPrefix string, log logrus.FieldLogger) (TuningOutput, error) {
	// with no cgo, there are no MIDI drivers
	return nil, errNoMIDI
}

func MIDIPortNames() []string {
	return nil
}
