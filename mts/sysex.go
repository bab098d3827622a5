package mts

import (
	"math"

	"github.com/scaleseq/scaleseq"
)

// NoteTuning is a frequency in the MIDI Tuning Standard three byte format: the
// nearest equal tempered semitone at or below the frequency, and a 14-bit
// fraction of a semitone above it (units of 100/16384 cents).
type NoteTuning [3]byte

const (
	// AllDevices is the sysex device ID that addresses every device.
	AllDevices = 0x7F

	// MaxNotesPerMessage is how many note changes EncodeNoteChange puts in one
	// message at most.
	MaxNotesPerMessage = 64

	noteChangeHeaderLen = 6
	noteChangeEntryLen  = 4
)

// NoChange is reserved by the standard to mean "leave this note as it is".
var NoChange = NoteTuning{0x7F, 0x7F, 0x7F}

// FrequencyToNoteTuning encodes a frequency in Hz. Frequencies below MIDI
// note 0 and above the highest encodable value are clamped; NoChange is never
// returned.
func FrequencyToNoteTuning(freq float64) NoteTuning {
	if !(freq > 0) || math.IsInf(freq, 0) {
		if math.IsInf(freq, 1) {
			return NoteTuning{0x7F, 0x7F, 0x7E}
		}
		return NoteTuning{}
	}
	semitones := 69 + 12*math.Log2(freq/440)
	if semitones <= 0 {
		return NoteTuning{}
	}
	note := math.Floor(semitones)
	frac := math.Round((semitones - note) * 16384)
	if frac >= 16384 {
		note++
		frac = 0
	}
	if note > 127 {
		return NoteTuning{0x7F, 0x7F, 0x7E}
	}
	t := NoteTuning{byte(note), byte(int(frac) >> 7), byte(int(frac) & 0x7F)}
	if t == NoChange {
		t[2] = 0x7E
	}
	return t
}

// Frequency decodes a NoteTuning back to Hz.
func (t NoteTuning) Frequency() float64 {
	frac := float64(int(t[1])<<7|int(t[2])) / 16384
	return 440 * math.Pow(2, (float64(t[0])+frac-69)/12)
}

// EncodeNoteTable encodes all notes of a frequency table.
func EncodeNoteTable(freqs *scaleseq.FrequencyTable, dst *[scaleseq.NumNotes]NoteTuning) {
	for i, f := range freqs {
		dst[i] = FrequencyToNoteTuning(f)
	}
}

// AppendNoteChange appends the body of a real-time single note tuning change
// message (universal real-time sysex, sub-IDs 08 02) to buf and returns the
// extended buffer. The body excludes the F0 and F7 framing bytes. At most
// MaxNotesPerMessage of the given keys are included; the caller is expected to
// split larger changes.
func AppendNoteChange(buf []byte, device, program byte, keys []byte, tunings *[scaleseq.NumNotes]NoteTuning) []byte {
	if len(keys) > MaxNotesPerMessage {
		keys = keys[:MaxNotesPerMessage]
	}
	buf = append(buf, 0x7F, device&0x7F, 0x08, 0x02, program&0x7F, byte(len(keys)))
	for _, k := range keys {
		k &= 0x7F
		t := tunings[k]
		buf = append(buf, k, t[0], t[1], t[2])
	}
	return buf
}

// NoteChangeLen returns the length of a message body built by
// AppendNoteChange for n keys.
func NoteChangeLen(n int) int {
	return noteChangeHeaderLen + noteChangeEntryLen*min(n, MaxNotesPerMessage)
}
