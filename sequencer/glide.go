package sequencer

import (
	"math"

	"github.com/scaleseq/scaleseq"
	"github.com/viterin/vek"
)

// SnapThreshold is the distance in Hz below which a gliding note jumps to its
// target.
const SnapThreshold = 1e-4

// Glide moves the Current table towards the Target table, one update per
// audio frame. Each update covers 1/(rate*1000) of the remaining distance, so
// the approach is exponential and a larger rate glides slower.
type Glide struct {
	Current scaleseq.FrequencyTable
	Target  scaleseq.FrequencyTable

	diff scaleseq.FrequencyTable
	same [scaleseq.NumNotes]bool
}

// Reset sets both tables to t, stopping any glide.
func (g *Glide) Reset(t *scaleseq.FrequencyTable) {
	g.Current = *t
	g.Target = *t
}

// Step performs one update. Rates below 1 are treated as 1.
func (g *Glide) Step(rate float64) {
	if rate < 1 || math.IsNaN(rate) {
		rate = 1
	}
	div := rate * 1000
	vek.Sub_Into(g.diff[:], g.Target[:], g.Current[:])
	for i, d := range g.diff {
		if math.Abs(d) < SnapThreshold {
			g.Current[i] = g.Target[i]
			continue
		}
		g.Current[i] += d / div
	}
}

// Converged reports whether Current has reached Target.
func (g *Glide) Converged() bool {
	return vek.All(vek.Eq_Into(g.same[:], g.Current[:], g.Target[:]))
}
