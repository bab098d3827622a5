/*
Package mts implements the host-wide tuning facility that a scale sequencer
publishes its note frequencies to.

Exactly one client at a time can hold the master role of a Registry. The master
sets the frequencies of all 128 MIDI notes; any number of consumers (synths,
MIDI outputs) read them back. The package also encodes frequency tables as MIDI
Tuning Standard real-time single note tuning change messages, for consumers
outside the process.
*/
package mts

import "github.com/scaleseq/scaleseq"

type (
	// Host is the interface a tuning master uses to publish note frequencies.
	// RegisterMaster returns false if another master already holds the role;
	// publishing without the role is silently ignored. SetNoteTunings is called
	// from the real-time thread and must not block or allocate.
	Host interface {
		RegisterMaster() bool
		DeregisterMaster()
		SetNoteTunings(freqs *scaleseq.FrequencyTable)
	}

	// Output receives every table published by the master of a Registry. Like
	// SetNoteTunings, WriteTunings is called from the real-time thread.
	Output interface {
		WriteTunings(freqs *scaleseq.FrequencyTable)
	}

	// NullHost refuses the master role, so nothing is ever published.
	NullHost struct{}
)

func (NullHost) RegisterMaster() bool                    { return false }
func (NullHost) DeregisterMaster()                       {}
func (NullHost) SetNoteTunings(*scaleseq.FrequencyTable) {}
