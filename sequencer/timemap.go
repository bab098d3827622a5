package sequencer

import "math"

// Transport is the musical position of the host at the start of a processing
// block, in bars, beats and ticks. Bar and Beat are 1-based.
type Transport struct {
	Valid        bool
	Playing      bool
	Bar          int
	Beat         int
	Tick         float64
	TicksPerBeat float64
	BeatsPerBar  float64
	BPM          float64
}

// StepIndex maps a transport position to a step of the pattern. In Beats
// mode, the pattern advances one step every multiplier beats; in Bars mode,
// every multiplier bars. offset shifts the pattern later, in beats or bars
// respectively.
//
// Positions before the offset point give ok == false: the pattern has not
// started yet and no step is selected.
func StepIndex(t Transport, measure Measure, multiplier int, offset float64) (index int, ok bool) {
	t = t.normalized()
	if multiplier < 1 {
		multiplier = 1
	}
	var pos float64
	switch measure {
	case Bars:
		pos = float64(t.Bar-1) - offset
	default:
		pos = float64(t.Bar-1)*t.BeatsPerBar + float64(t.Beat-1) + t.Tick/t.TicksPerBeat - offset
	}
	step := math.Floor(pos / float64(multiplier))
	if step < 0 || math.IsNaN(step) {
		return 0, false
	}
	return int(math.Mod(step, NumSteps)), true
}

// CurrentStepValue is the normalized value of the current step indicator:
// (index+1)/16, or 0 when no step is selected.
func CurrentStepValue(index int, ok bool) float64 {
	if !ok {
		return 0
	}
	return float64(index+1) / NumSteps
}

// StepHighlighted reports whether the current step indicator value points at
// step i, 0-based.
func StepHighlighted(currentStep float64, i int) bool {
	return currentStep > 0 && int(math.Round(currentStep*NumSteps))-1 == i
}

func (t Transport) normalized() Transport {
	if !t.Valid {
		return Transport{Valid: false, Bar: 1, Beat: 1, TicksPerBeat: 1, BeatsPerBar: 4}
	}
	if t.TicksPerBeat <= 0 {
		t.Tick = 0
		t.TicksPerBeat = 1
	}
	if t.BeatsPerBar <= 0 {
		t.BeatsPerBar = 4
	}
	return t
}

// TransportFromQuarters converts a host position given in quarter notes, as
// plugin hosts report it, to bars and beats of a num/den time signature.
// barStart is the position of the start of the current bar in quarter notes;
// if the host does not know it, bars are counted from position 0.
//
// The bar number is barStart divided by the length of a bar of the current
// time signature, so it is only right if the signature has not changed since
// the start of the song. VST2 hosts report the bar start in quarter notes but
// not the bar count, and Beat and Tick are exact either way.
func TransportFromQuarters(ppq, barStart float64, barStartValid bool, num, den int) Transport {
	if num <= 0 {
		num = 4
	}
	if den <= 0 {
		den = 4
	}
	beatLen := 4 / float64(den)
	barLen := float64(num) * beatLen
	if !barStartValid {
		barStart = math.Floor(ppq/barLen) * barLen
	}
	beats := (ppq - barStart) / beatLen
	whole := math.Floor(beats)
	return Transport{
		Valid:        true,
		Bar:          int(math.Round(barStart/barLen)) + 1,
		Beat:         int(whole) + 1,
		Tick:         (beats - whole) * DefaultTicksPerBeat,
		TicksPerBeat: DefaultTicksPerBeat,
		BeatsPerBar:  float64(num),
	}
}
