package scaleseq

import "math"

type (
	// Mapping associates MIDI notes with scale degrees and anchors the scale to
	// a reference frequency, as described by a Scala keyboard mapping (.kbm)
	// file.
	//
	// The mapping pattern Keys repeats every Size keys, starting from
	// MiddleNote, and each repetition moves up by OctaveDegree scale degrees.
	// A Size of 0 is the linear mapping: every key is the next scale degree.
	Mapping struct {
		Name string

		Size          int
		FirstNote     int // first MIDI note that is retuned
		LastNote      int // last MIDI note that is retuned
		MiddleNote    int // MIDI note where the mapping pattern starts
		ReferenceNote int
		// ReferenceFrequency is the frequency of ReferenceNote, in Hz.
		ReferenceFrequency float64
		// OctaveDegree is the scale degree that the mapping pattern repeats
		// at. 0 means the period of the scale.
		OctaveDegree int

		// Keys contains Size entries; each is a scale degree or Unmapped.
		Keys []int `yaml:",flow"`
	}
)

// Unmapped marks a key in the mapping pattern that is not assigned a scale
// degree ("x" in .kbm files).
const Unmapped = -1

const (
	NumNotes = 128

	// DefaultReferenceFrequency is the frequency of middle C (MIDI 60) when
	// A4 (MIDI 69) is 440 Hz in 12-tone equal temperament.
	DefaultReferenceFrequency = 261.6255653005986
)

// LinearMapping is the default Mapping: every MIDI note maps to the next scale
// degree, with middle C at DefaultReferenceFrequency.
func LinearMapping() Mapping {
	return Mapping{
		FirstNote:          0,
		LastNote:           NumNotes - 1,
		MiddleNote:         60,
		ReferenceNote:      60,
		ReferenceFrequency: DefaultReferenceFrequency,
	}
}

// Copy makes a deep copy of a Mapping.
func (m Mapping) Copy() Mapping {
	keys := make([]int, len(m.Keys))
	copy(keys, m.Keys)
	m.Keys = keys
	return m
}

// Degree returns the scale degree of a MIDI note relative to the scale root,
// which sits at MiddleNote. ok is false when the note falls on an unmapped
// key. scaleCount is needed for the linear mapping and for an OctaveDegree
// of 0.
func (m Mapping) Degree(note, scaleCount int) (degree int, ok bool) {
	offset := note - m.MiddleNote
	if m.Size <= 0 || len(m.Keys) == 0 {
		return offset, true
	}
	size := min(m.Size, len(m.Keys))
	rep := offset / size
	idx := offset % size
	if idx < 0 {
		idx += size
		rep--
	}
	key := m.Keys[idx]
	if key == Unmapped {
		return 0, false
	}
	octave := m.OctaveDegree
	if octave <= 0 {
		octave = scaleCount
	}
	return key + rep*octave, true
}

// InRange reports whether the mapping retunes the given MIDI note.
func (m Mapping) InRange(note int) bool {
	return note >= m.FirstNote && note <= m.LastNote
}

// standardFrequency is the 12-TET frequency of a MIDI note with A4 = 440 Hz,
// used for notes outside the retuned range of a mapping.
func standardFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}
