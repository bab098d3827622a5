package main

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/scaleseq/scaleseq/sequencer"
)

// engine plays the part of an audio thread: it calls Process once per block
// of frames, in real time, with the position of its own clock.
type engine struct {
	seq        *sequencer.Sequencer
	sampleRate float64
	block      int

	bpm     atomic.Uint64 // float64 bits
	playing atomic.Bool
	rewind  atomic.Bool
}

func newEngine(seq *sequencer.Sequencer, bpm, sampleRate float64, block int) *engine {
	e := &engine{seq: seq, sampleRate: sampleRate, block: block}
	e.SetBPM(bpm)
	e.playing.Store(true)
	return e
}

func (e *engine) BPM() float64 { return math.Float64frombits(e.bpm.Load()) }

func (e *engine) SetBPM(bpm float64) {
	e.bpm.Store(math.Float64bits(max(min(bpm, 300), 20)))
}

func (e *engine) Playing() bool { return e.playing.Load() }

func (e *engine) TogglePlaying() { e.playing.Store(!e.playing.Load()) }

// Rewind moves the clock back to the start of bar 1 before the next block.
func (e *engine) Rewind() { e.rewind.Store(true) }

// Run processes blocks until a close is requested through the broker of the
// sequencer, then closes FinishedEngine. While stopped, blocks are still
// processed at the same position, so glides finish.
func (e *engine) Run() {
	b := e.seq.Broker()
	defer close(b.FinishedEngine)
	clock := sequencer.NewClock(e.BPM(), e.sampleRate)
	period := time.Duration(float64(time.Second) * float64(e.block) / e.sampleRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	e.seq.Activate()
	defer e.seq.Deactivate()
	for {
		select {
		case <-b.CloseEngine:
			return
		case <-ticker.C:
			if e.rewind.Swap(false) {
				clock.Seek(0)
			}
			clock.SetBPM(e.BPM())
			e.seq.Process(clock.Transport(), e.block)
			if e.playing.Load() {
				clock.Advance(e.block)
			}
		}
	}
}
