package sequencer

import (
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// Param indexes the parameters of the sequencer. The order is the order
	// in which hosts see them.
	Param int

	ParamHints int

	// ParamInfo describes one parameter: how hosts should present it, its
	// range and its default.
	ParamInfo struct {
		Name    string
		Symbol  string
		Min     float64
		Max     float64
		Default float64
		Hints   ParamHints
		// Labels names the values of an enumerated parameter, starting from
		// Min.
		Labels []string
	}

	// Params holds the current value of every parameter. Reads and writes are
	// lock-free, so they are safe from any goroutine, including the real-time
	// one.
	Params struct {
		values [NumParams]atomic.Uint64 // float64 bits
	}

	// Measure selects whether steps advance in beats or in bars.
	Measure int
)

const (
	Automatable ParamHints = 1 << iota
	Integer
	Logarithmic
	Output
)

const (
	Beats Measure = iota
	Bars
)

// NumSteps is the length of the step pattern.
const NumSteps = 16

const (
	ParamMeasure Param = iota
	ParamMultiplier
	ParamScaleGlide
	ParamStep1
	ParamOffset      = ParamStep1 + NumSteps
	ParamCurrentStep = ParamOffset + 1
	NumParams        = ParamCurrentStep + 1
)

var measureLabels = func() []string {
	caser := cases.Title(language.English)
	return []string{caser.String("beats"), caser.String("bars")}
}()

// Schema lists the parameters in Param order.
var Schema = func() (ret [NumParams]ParamInfo) {
	ret[ParamMeasure] = ParamInfo{Name: "Measure", Symbol: "measure", Min: 0, Max: 1, Default: 0, Hints: Automatable | Integer, Labels: measureLabels}
	ret[ParamMultiplier] = ParamInfo{Name: "Multiplier", Symbol: "multiplier", Min: 1, Max: 12, Default: 1, Hints: Automatable | Integer}
	ret[ParamScaleGlide] = ParamInfo{Name: "Scale Glide", Symbol: "scaleGlide", Min: 1, Max: 100, Default: 1, Hints: Automatable | Logarithmic}
	for i := 0; i < NumSteps; i++ {
		ret[StepParam(i)] = ParamInfo{
			Name:    fmt.Sprintf("Step %d", i+1),
			Symbol:  fmt.Sprintf("step%d", i+1),
			Min:     1,
			Max:     NumSlots,
			Default: 1,
			Hints:   Automatable | Integer,
		}
	}
	ret[ParamOffset] = ParamInfo{Name: "Offset", Symbol: "offset", Min: -1, Max: 1, Default: 0, Hints: Automatable}
	ret[ParamCurrentStep] = ParamInfo{Name: "Current Step", Symbol: "currentstep", Min: 0, Max: 1, Default: 0, Hints: Output}
	return
}()

// StepParam returns the parameter of step i, 0-based.
func StepParam(i int) Param {
	return ParamStep1 + Param(i)
}

func (p Param) Info() ParamInfo {
	if p < 0 || p >= NumParams {
		return ParamInfo{}
	}
	return Schema[p]
}

func (p Param) String() string {
	return p.Info().Name
}

// Clamp limits a value to the range of the parameter, rounding integer
// parameters. NaN becomes the default.
func (i ParamInfo) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return i.Default
	}
	if i.Hints&Integer != 0 {
		v = math.Round(v)
	}
	return max(min(v, i.Max), i.Min)
}

// Label returns the display text of a parameter value.
func (i ParamInfo) Label(v float64) string {
	if idx := int(math.Round(v - i.Min)); len(i.Labels) > 0 && idx >= 0 && idx < len(i.Labels) {
		return i.Labels[idx]
	}
	if i.Hints&Integer != 0 {
		return fmt.Sprintf("%d", int(math.Round(v)))
	}
	return fmt.Sprintf("%.3f", v)
}

func (m Measure) String() string {
	if m < 0 || int(m) >= len(measureLabels) {
		return fmt.Sprintf("Measure(%d)", int(m))
	}
	return measureLabels[m]
}

// NewParams returns Params with every parameter at its default.
func NewParams() *Params {
	p := &Params{}
	p.Reset()
	return p
}

// Reset sets every parameter to its default.
func (p *Params) Reset() {
	for i := range p.values {
		p.values[i].Store(math.Float64bits(Schema[i].Default))
	}
}

// Set clamps the value to the parameter's range and stores it. Unknown
// parameters are ignored.
func (p *Params) Set(param Param, v float64) {
	if param < 0 || param >= NumParams {
		return
	}
	p.values[param].Store(math.Float64bits(Schema[param].Clamp(v)))
}

// Get returns the value of a parameter, or 0 for unknown parameters.
func (p *Params) Get(param Param) float64 {
	if param < 0 || param >= NumParams {
		return 0
	}
	return math.Float64frombits(p.values[param].Load())
}

// Int returns the value of a parameter rounded to an integer.
func (p *Params) Int(param Param) int {
	return int(math.Round(p.Get(param)))
}

// Step returns the tuning slot assigned to step i, 0-based.
func (p *Params) Step(i int) int {
	return p.Int(StepParam(i))
}

// Steps copies the slots of all steps to dst.
func (p *Params) Steps(dst *[NumSteps]int) {
	for i := range dst {
		dst[i] = p.Step(i)
	}
}

// Measure returns the measure parameter.
func (p *Params) Measure() Measure {
	return Measure(p.Int(ParamMeasure))
}
