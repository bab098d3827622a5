package main

import (
	"fmt"
	"math"

	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/mts"
	"github.com/scaleseq/scaleseq/sequencer"
)

type (
	// TableReport is the data of the table template.
	TableReport struct {
		Scale   string
		Mapping string
		Tones   []string
		Notes   []NoteRow
	}

	NoteRow struct {
		Note      int
		Name      string
		Frequency float64
		Cents     float64 // deviation from 12-TET
		MTS       string
	}

	// SimulationReport is the data of the simulate template.
	SimulationReport struct {
		BPM     float64
		Bars    int
		Note    int
		Slots   []string
		Changes []Change
	}

	// Change is one step change seen while simulating.
	Change struct {
		Bar       int
		Beat      int
		Step      int
		Valid     bool
		Slot      int
		Switched  bool
		Frequency float64 // of the watched note, after the first block of the step
	}

	simulation struct {
		bpm        float64
		sampleRate float64
		block      int
		bars       int
		note       int
	}
)

var noteNames = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(n int) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

func tuningName(t *scaleseq.Tuning) string {
	s, m := t.Scale(), t.Mapping()
	name := s.Name
	if name == "" {
		name = s.Description
	}
	if m.Name != "" {
		name += " / " + m.Name
	}
	return name
}

func tableReport(t *scaleseq.Tuning) TableReport {
	s, m := t.Scale(), t.Mapping()
	r := TableReport{Scale: s.Description, Mapping: m.Name, Notes: make([]NoteRow, scaleseq.NumNotes)}
	if r.Mapping == "" {
		r.Mapping = "linear"
	}
	for _, tone := range s.Tones {
		r.Tones = append(r.Tones, tone.String())
	}
	var table scaleseq.FrequencyTable
	t.Table(&table)
	var tunings [scaleseq.NumNotes]mts.NoteTuning
	mts.EncodeNoteTable(&table, &tunings)
	for n, f := range table {
		std := 440 * math.Pow(2, float64(n-69)/12)
		r.Notes[n] = NoteRow{
			Note:      n,
			Name:      noteName(n),
			Frequency: f,
			Cents:     1200 * math.Log2(f/std),
			MTS:       fmt.Sprintf("% X", tunings[n][:]),
		}
	}
	return r
}

// run drives seq with an internal clock for the configured number of bars and
// records every step change, with the frequency of the watched note as
// published to reg.
func (sim simulation) run(seq *sequencer.Sequencer, reg *mts.Registry) SimulationReport {
	r := SimulationReport{BPM: sim.bpm, Bars: sim.bars, Note: sim.note}
	for slot := 1; slot <= sequencer.NumSlots; slot++ {
		r.Slots = append(r.Slots, tuningName(seq.Store().Tuning(slot)))
	}
	clock := sequencer.NewClock(sim.bpm, sim.sampleRate)
	end := float64(sim.bars * clock.BeatsPerBar)
	broker := seq.Broker()
	for clock.Beats() < end {
		tr := clock.Transport()
		seq.Process(tr, sim.block)
		clock.Advance(sim.block)
		for len(broker.ToMonitor) > 0 {
			msg := <-broker.ToMonitor
			r.Changes = append(r.Changes, Change{
				Bar:       tr.Bar,
				Beat:      tr.Beat,
				Step:      msg.Step,
				Valid:     msg.Valid,
				Slot:      msg.Slot,
				Switched:  msg.Switched,
				Frequency: reg.NoteToFrequency(sim.note),
			})
		}
	}
	return r
}
