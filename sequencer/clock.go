package sequencer

import "math"

// Clock is a free-running transport for driving a sequencer without a host.
// It counts beats at a fixed tempo from the start of bar 1.
type Clock struct {
	BeatsPerBar  int
	SampleRate   float64
	TicksPerBeat float64

	bpm   float64
	beats float64
}

const (
	DefaultTicksPerBeat = 1920
	DefaultBPM          = 120
)

// NewClock returns a clock in 4/4 at bpm, positioned at the start of bar 1.
func NewClock(bpm, sampleRate float64) *Clock {
	c := &Clock{BeatsPerBar: 4, SampleRate: sampleRate, TicksPerBeat: DefaultTicksPerBeat}
	c.SetBPM(bpm)
	return c
}

// SetBPM changes the tempo. Non-positive tempos are replaced by DefaultBPM.
func (c *Clock) SetBPM(bpm float64) {
	if bpm <= 0 || math.IsNaN(bpm) {
		bpm = DefaultBPM
	}
	c.bpm = bpm
}

func (c *Clock) BPM() float64 { return c.bpm }

// Beats returns the position in beats from the start of bar 1.
func (c *Clock) Beats() float64 { return c.beats }

// Seek moves the clock to a position in beats from the start of bar 1.
func (c *Clock) Seek(beats float64) { c.beats = beats }

// Advance moves the clock forward by a number of audio frames.
func (c *Clock) Advance(frames int) {
	if c.SampleRate <= 0 {
		return
	}
	c.beats += float64(frames) * c.bpm / 60 / c.SampleRate
}

// Transport returns the current position in bars, beats and ticks.
func (c *Clock) Transport() Transport {
	bpb := c.BeatsPerBar
	if bpb <= 0 {
		bpb = 4
	}
	whole := math.Floor(c.beats)
	bar := math.Floor(whole / float64(bpb))
	beat := whole - bar*float64(bpb)
	return Transport{
		Valid:        true,
		Playing:      true,
		Bar:          int(bar) + 1,
		Beat:         int(beat) + 1,
		Tick:         (c.beats - whole) * c.TicksPerBeat,
		TicksPerBeat: c.TicksPerBeat,
		BeatsPerBar:  float64(bpb),
		BPM:          c.bpm,
	}
}
