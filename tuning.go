package scaleseq

import "math"

type (
	// FrequencyTable holds one frequency in Hz for every MIDI note.
	FrequencyTable [NumNotes]float64

	// Tuning pairs a Scale with a Mapping and knows the resulting frequency of
	// every MIDI note. A Tuning is immutable once constructed: it owns deep
	// copies of its Scale and Mapping, and the frequency table is computed
	// up front, so a *Tuning can be handed to another goroutine without
	// synchronization. Use WithScale and WithMapping to derive new Tunings.
	Tuning struct {
		scale   Scale
		mapping Mapping
		table   FrequencyTable
	}
)

// NewTuning constructs a Tuning from a Scale and a Mapping.
func NewTuning(scale Scale, mapping Mapping) *Tuning {
	t := &Tuning{scale: scale.Copy(), mapping: mapping.Copy()}
	t.computeTable()
	return t
}

// DefaultTuning is 12-tone equal temperament with the linear mapping, A4 at
// 440 Hz.
func DefaultTuning() *Tuning {
	return NewTuning(EvenScale(12), LinearMapping())
}

// Scale returns a copy of the Scale of the tuning.
func (t *Tuning) Scale() Scale { return t.scale.Copy() }

// Mapping returns a copy of the Mapping of the tuning.
func (t *Tuning) Mapping() Mapping { return t.mapping.Copy() }

// WithScale returns a new Tuning with the scale replaced and the mapping kept.
func (t *Tuning) WithScale(s Scale) *Tuning { return NewTuning(s, t.mapping) }

// WithMapping returns a new Tuning with the mapping replaced and the scale
// kept.
func (t *Tuning) WithMapping(m Mapping) *Tuning { return NewTuning(t.scale, m) }

// FrequencyForNote returns the frequency of a MIDI note in Hz. Notes outside
// 0..127 are clamped.
func (t *Tuning) FrequencyForNote(note int) float64 {
	return t.table[max(min(note, NumNotes-1), 0)]
}

// Table copies the frequency table of the tuning to dst. It does not
// allocate.
func (t *Tuning) Table(dst *FrequencyTable) {
	*dst = t.table
}

func (t *Tuning) computeTable() {
	count := t.scale.Count()
	refDegree, ok := t.mapping.Degree(t.mapping.ReferenceNote, count)
	if !ok {
		// an unmapped reference key still anchors the pitch of the scale root
		refDegree = t.mapping.ReferenceNote - t.mapping.MiddleNote
	}
	refCents := t.scale.DegreeCents(refDegree)
	refFreq := t.mapping.ReferenceFrequency
	if refFreq <= 0 || math.IsNaN(refFreq) || math.IsInf(refFreq, 0) {
		refFreq = DefaultReferenceFrequency
	}
	var mapped [NumNotes]bool
	for n := 0; n < NumNotes; n++ {
		if !t.mapping.InRange(n) {
			t.table[n] = standardFrequency(n)
			mapped[n] = true
			continue
		}
		degree, ok := t.mapping.Degree(n, count)
		if !ok {
			continue
		}
		cents := t.scale.DegreeCents(degree)
		t.table[n] = refFreq * math.Pow(2, (cents-refCents)/1200)
		mapped[n] = true
	}
	// unmapped keys sound like the closest mapped key below them, or above
	// them if there is none below
	for n := 0; n < NumNotes; n++ {
		if mapped[n] {
			continue
		}
		if j, ok := nearestMapped(&mapped, n); ok {
			t.table[n] = t.table[j]
		} else {
			t.table[n] = standardFrequency(n)
		}
	}
}

func nearestMapped(mapped *[NumNotes]bool, note int) (int, bool) {
	for j := note - 1; j >= 0; j-- {
		if mapped[j] {
			return j, true
		}
	}
	for j := note + 1; j < NumNotes; j++ {
		if mapped[j] {
			return j, true
		}
	}
	return 0, false
}
