package sequencer_test

import (
	"testing"

	"github.com/scaleseq/scaleseq/sequencer"
)

func bbt(bar, beat int, tick float64) sequencer.Transport {
	return sequencer.Transport{Valid: true, Bar: bar, Beat: beat, Tick: tick, TicksPerBeat: 960, BeatsPerBar: 4}
}

func TestStepIndex(t *testing.T) {
	cases := []struct {
		name       string
		transport  sequencer.Transport
		measure    sequencer.Measure
		multiplier int
		offset     float64
		want       int
		wantOK     bool
	}{
		{"second bar in beats", bbt(2, 1, 0), sequencer.Beats, 1, 0, 4, true},
		{"fifth bar in bars", bbt(5, 1, 0), sequencer.Bars, 2, 0, 2, true},
		{"start", bbt(1, 1, 0), sequencer.Beats, 1, 0, 0, true},
		{"end of first beat", bbt(1, 1, 959), sequencer.Beats, 1, 0, 0, true},
		{"wraps after sixteen beats", bbt(5, 2, 0), sequencer.Beats, 1, 0, 1, true},
		{"multiplier", bbt(2, 3, 0), sequencer.Beats, 3, 0, 2, true},
		{"half beat offset", bbt(1, 2, 480), sequencer.Beats, 1, 0.5, 1, true},
		{"before the offset", bbt(1, 1, 0), sequencer.Beats, 1, 0.5, 0, false},
		{"negative offset", bbt(1, 1, 0), sequencer.Beats, 1, -1, 1, true},
		{"bar offset", bbt(3, 4, 0), sequencer.Bars, 1, 1, 1, true},
		{"invalid transport", sequencer.Transport{Bar: 9, Beat: 3}, sequencer.Beats, 1, 0, 0, true},
		{"no ticks per beat", sequencer.Transport{Valid: true, Bar: 1, Beat: 3, Tick: 500, BeatsPerBar: 4}, sequencer.Beats, 1, 0, 2, true},
		{"no beats per bar", sequencer.Transport{Valid: true, Bar: 2, Beat: 1, TicksPerBeat: 960}, sequencer.Beats, 1, 0, 4, true},
		{"zero multiplier", bbt(1, 3, 0), sequencer.Beats, 0, 0, 2, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := sequencer.StepIndex(c.transport, c.measure, c.multiplier, c.offset)
			if got != c.want || ok != c.wantOK {
				t.Fatalf("expected (%d, %v), got (%d, %v)", c.want, c.wantOK, got, ok)
			}
		})
	}
}

func TestCurrentStepValue(t *testing.T) {
	if got := sequencer.CurrentStepValue(4, true); got != 0.3125 {
		t.Fatalf("step 4 should show as 5/16, got %v", got)
	}
	if got := sequencer.CurrentStepValue(15, true); got != 1 {
		t.Fatalf("last step should show as 1, got %v", got)
	}
	if got := sequencer.CurrentStepValue(3, false); got != 0 {
		t.Fatalf("no step should show as 0, got %v", got)
	}
	for i := 0; i < sequencer.NumSteps; i++ {
		v := sequencer.CurrentStepValue(i, true)
		for j := 0; j < sequencer.NumSteps; j++ {
			if sequencer.StepHighlighted(v, j) != (i == j) {
				t.Fatalf("step %d highlighted wrong for current step %d", j, i)
			}
		}
	}
	if sequencer.StepHighlighted(0, 0) {
		t.Fatalf("nothing should be highlighted when no step is selected")
	}
}

func TestTransportFromQuarters(t *testing.T) {
	cases := []struct {
		name          string
		ppq, barStart float64
		barStartValid bool
		num, den      int
		bar, beat     int
		tick          float64
		wantStep      int
	}{
		{"four four", 4.5, 4, true, 4, 4, 2, 1, 960, 4},
		{"bar unknown", 9, 0, false, 4, 4, 3, 2, 0, 9},
		{"six eight", 3.5, 3, true, 6, 8, 2, 2, 0, 7},
		{"no time signature", 8, 8, true, 0, 0, 3, 1, 0, 8},
		// four bars of 4/4 before a 3/4 bar, counted as if all were 3/4
		{"signature changed", 17, 16, true, 3, 4, 6, 2, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := sequencer.TransportFromQuarters(c.ppq, c.barStart, c.barStartValid, c.num, c.den)
			if tr.Bar != c.bar || tr.Beat != c.beat || tr.Tick != c.tick {
				t.Fatalf("expected %d:%d:%v, got %d:%d:%v", c.bar, c.beat, c.tick, tr.Bar, tr.Beat, tr.Tick)
			}
			if idx, _ := sequencer.StepIndex(tr, sequencer.Beats, 1, 0); idx != c.wantStep {
				t.Fatalf("expected step %d, got %d", c.wantStep, idx)
			}
		})
	}
}
