//go:build cgo

package cmd

import (
	"github.com/scaleseq/scaleseq/mts/gomidi"
	"github.com/sirupsen/logrus"
)

// NewTuningOutput opens the first MIDI output whose name starts with
// portPrefix for sending tuning changes.
func NewTuningOutput(portPrefix string, log logrus.FieldLogger) (TuningOutput, error) {
	out, err := gomidi.Open(portPrefix, gomidi.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MIDIPortNames lists the MIDI outputs NewTuningOutput can open.
func MIDIPortNames() []string {
	return gomidi.PortNames()
}
