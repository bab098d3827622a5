package sequencer_test

import (
	"math"
	"testing"

	"github.com/scaleseq/scaleseq/sequencer"
)

func TestParamLayout(t *testing.T) {
	if sequencer.ParamOffset != 19 || sequencer.ParamCurrentStep != 20 || sequencer.NumParams != 21 {
		t.Fatalf("parameter indices moved: offset %d, current step %d, count %d",
			sequencer.ParamOffset, sequencer.ParamCurrentStep, sequencer.NumParams)
	}
	if got := sequencer.StepParam(15).String(); got != "Step 16" {
		t.Fatalf("expected Step 16, got %q", got)
	}
	seen := map[string]bool{}
	for i, info := range sequencer.Schema {
		if info.Name == "" || seen[info.Symbol] {
			t.Fatalf("parameter %d has no name or a duplicate symbol %q", i, info.Symbol)
		}
		seen[info.Symbol] = true
		if info.Default < info.Min || info.Default > info.Max {
			t.Fatalf("%s: default %v outside %v..%v", info.Name, info.Default, info.Min, info.Max)
		}
	}
}

func TestParamsClamp(t *testing.T) {
	p := sequencer.NewParams()
	cases := []struct {
		param sequencer.Param
		set   float64
		want  float64
	}{
		{sequencer.StepParam(0), 7, 4},
		{sequencer.StepParam(3), 0, 1},
		{sequencer.StepParam(3), 2.6, 3},
		{sequencer.ParamMultiplier, 40, 12},
		{sequencer.ParamScaleGlide, 0.5, 1},
		{sequencer.ParamScaleGlide, 33.3, 33.3},
		{sequencer.ParamOffset, -3, -1},
		{sequencer.ParamMeasure, math.NaN(), 0},
	}
	for _, c := range cases {
		p.Set(c.param, c.set)
		if got := p.Get(c.param); got != c.want {
			t.Fatalf("%v set to %v: expected %v, got %v", c.param, c.set, c.want, got)
		}
	}
	p.Set(sequencer.NumParams, 1)
	if p.Get(sequencer.NumParams) != 0 || p.Get(-1) != 0 {
		t.Fatalf("unknown parameters should read as 0")
	}
	p.Reset()
	if p.Step(0) != 1 || p.Int(sequencer.ParamMultiplier) != 1 {
		t.Fatalf("Reset should restore the defaults")
	}
}

func TestMeasureLabels(t *testing.T) {
	info := sequencer.ParamMeasure.Info()
	if info.Label(0) != "Beats" || info.Label(1) != "Bars" {
		t.Fatalf("expected Beats and Bars, got %q and %q", info.Label(0), info.Label(1))
	}
	if sequencer.Bars.String() != "Bars" {
		t.Fatalf("expected Bars, got %q", sequencer.Bars.String())
	}
	if got := sequencer.ParamMultiplier.Info().Label(3); got != "3" {
		t.Fatalf("expected 3, got %q", got)
	}
}
