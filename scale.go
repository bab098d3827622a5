package scaleseq

import (
	"fmt"
	"math"
)

type (
	// Scale is an ordered set of pitch intervals. Tones are given relative to
	// the root of the scale; the root itself (0 cents) is implicit and the last
	// tone is the period of the scale, typically the octave (1200 cents or
	// 2/1). A Scale is a value: the Tones slice is never modified after
	// construction, and Tunings take their own copy of it.
	Scale struct {
		// Name is the base name of the file the scale was read from, or empty
		// for the built-in scales.
		Name string
		// Description is the first non-comment line of the .scl file.
		Description string
		Tones       []Tone
	}

	// Tone is a single pitch of a Scale, either in cents or as a frequency
	// ratio. Kind tells which representation the tone was written in; Cents is
	// always filled in.
	Tone struct {
		Kind        ToneKind
		Cents       float64
		Numerator   int64 `yaml:",omitempty"`
		Denominator int64 `yaml:",omitempty"`
	}

	ToneKind int
)

const (
	CentsTone ToneKind = iota
	RatioTone
)

// EvenScale returns an equal division of the octave into n steps. EvenScale(12)
// is the default scale of every Tuning.
func EvenScale(n int) Scale {
	if n < 1 {
		n = 1
	}
	tones := make([]Tone, n)
	for i := range tones {
		tones[i] = Tone{Kind: CentsTone, Cents: 1200 * float64(i+1) / float64(n)}
	}
	return Scale{
		Description: fmt.Sprintf("%d-tone equal temperament", n),
		Tones:       tones,
	}
}

// Count returns the number of tones in the scale, including the period.
func (s Scale) Count() int {
	return len(s.Tones)
}

// Period returns the cents value of the last tone, which repeats the scale.
// An empty scale has a period of an octave.
func (s Scale) Period() float64 {
	if len(s.Tones) == 0 {
		return 1200
	}
	return s.Tones[len(s.Tones)-1].Cents
}

// DegreeCents returns the pitch of a scale degree in cents above the root.
// Degrees beyond the scale wrap around using the period; negative degrees are
// below the root.
func (s Scale) DegreeCents(degree int) float64 {
	n := len(s.Tones)
	if n == 0 {
		return 100 * float64(degree)
	}
	period := degree / n
	idx := degree % n
	if idx < 0 {
		idx += n
		period--
	}
	cents := float64(period) * s.Period()
	if idx > 0 {
		cents += s.Tones[idx-1].Cents
	}
	return cents
}

// Copy makes a deep copy of a Scale.
func (s Scale) Copy() Scale {
	tones := make([]Tone, len(s.Tones))
	copy(tones, s.Tones)
	s.Tones = tones
	return s
}

// RatioToneOf constructs a Tone from a frequency ratio.
func RatioToneOf(num, den int64) Tone {
	return Tone{
		Kind:        RatioTone,
		Cents:       1200 * math.Log2(float64(num)/float64(den)),
		Numerator:   num,
		Denominator: den,
	}
}

func (t Tone) String() string {
	if t.Kind == RatioTone {
		return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
	}
	return fmt.Sprintf("%.6f", t.Cents)
}
