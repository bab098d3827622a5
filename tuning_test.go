package scaleseq_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/scaleseq/scaleseq"
)

const freqTolerance = 1e-9

func TestDefaultTuningIsTwelveTET(t *testing.T) {
	tuning := scaleseq.DefaultTuning()
	if got := tuning.FrequencyForNote(69); math.Abs(got-440) > freqTolerance {
		t.Fatalf("A4 should be 440 Hz, got %v", got)
	}
	if got := tuning.FrequencyForNote(60); math.Abs(got-scaleseq.DefaultReferenceFrequency) > freqTolerance {
		t.Fatalf("middle C should be %v Hz, got %v", scaleseq.DefaultReferenceFrequency, got)
	}
	for n := 0; n < scaleseq.NumNotes; n++ {
		want := 440 * math.Pow(2, float64(n-69)/12)
		if got := tuning.FrequencyForNote(n); math.Abs(got-want) > 1e-6 {
			t.Fatalf("note %d: expected %v Hz, got %v", n, want, got)
		}
	}
}

func TestFrequencyForNoteClamps(t *testing.T) {
	tuning := scaleseq.DefaultTuning()
	if tuning.FrequencyForNote(-5) != tuning.FrequencyForNote(0) {
		t.Fatalf("notes below 0 should clamp to note 0")
	}
	if tuning.FrequencyForNote(300) != tuning.FrequencyForNote(127) {
		t.Fatalf("notes above 127 should clamp to note 127")
	}
}

func TestEvenScaleNineteen(t *testing.T) {
	tuning := scaleseq.NewTuning(scaleseq.EvenScale(19), scaleseq.LinearMapping())
	ref := scaleseq.DefaultReferenceFrequency
	for _, d := range []int{-20, -1, 0, 1, 18, 19, 38} {
		want := ref * math.Pow(2, float64(d)/19)
		if got := tuning.FrequencyForNote(60 + d); math.Abs(got-want) > 1e-6 {
			t.Fatalf("degree %d: expected %v Hz, got %v", d, want, got)
		}
	}
}

func TestWithScaleKeepsMapping(t *testing.T) {
	mapping := scaleseq.Mapping{
		Size:               12,
		FirstNote:          0,
		LastNote:           127,
		MiddleNote:         60,
		ReferenceNote:      69,
		ReferenceFrequency: 432,
		OctaveDegree:       12,
		Keys:               []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}
	tuning := scaleseq.NewTuning(scaleseq.EvenScale(12), mapping)
	replaced := tuning.WithScale(scaleseq.EvenScale(24))
	if !reflect.DeepEqual(replaced.Mapping(), tuning.Mapping()) {
		t.Fatalf("WithScale changed the mapping: %+v vs %+v", replaced.Mapping(), tuning.Mapping())
	}
	if replaced.Scale().Count() != 24 {
		t.Fatalf("expected a 24 tone scale, got %d tones", replaced.Scale().Count())
	}
	if got := replaced.FrequencyForNote(69); math.Abs(got-432) > freqTolerance {
		t.Fatalf("reference note should stay at 432 Hz, got %v", got)
	}
	back := replaced.WithMapping(scaleseq.LinearMapping())
	if !reflect.DeepEqual(back.Scale(), replaced.Scale()) {
		t.Fatalf("WithMapping changed the scale")
	}
}

func TestTuningOwnsItsData(t *testing.T) {
	scale := scaleseq.EvenScale(12)
	tuning := scaleseq.NewTuning(scale, scaleseq.LinearMapping())
	before := tuning.FrequencyForNote(72)
	scale.Tones[11].Cents = 600
	s := tuning.Scale()
	s.Tones[11].Cents = 600
	if tuning.FrequencyForNote(72) != before {
		t.Fatalf("mutating a scale after construction changed the tuning")
	}
}

func TestMappingWithUnmappedKeys(t *testing.T) {
	// a seven key white-note mapping over 12-TET; black keys are unmapped
	mapping := scaleseq.Mapping{
		Size:               12,
		FirstNote:          0,
		LastNote:           127,
		MiddleNote:         60,
		ReferenceNote:      60,
		ReferenceFrequency: 261.6255653005986,
		OctaveDegree:       7,
		Keys:               []int{0, scaleseq.Unmapped, 1, scaleseq.Unmapped, 2, 3, scaleseq.Unmapped, 4, scaleseq.Unmapped, 5, scaleseq.Unmapped, 6},
	}
	tuning := scaleseq.NewTuning(scaleseq.EvenScale(7), mapping)
	if tuning.FrequencyForNote(61) != tuning.FrequencyForNote(60) {
		t.Fatalf("unmapped key should take the frequency of the mapped key below it")
	}
	octave := tuning.FrequencyForNote(72) / tuning.FrequencyForNote(60)
	if math.Abs(octave-2) > 1e-9 {
		t.Fatalf("mapping should repeat an octave higher, got ratio %v", octave)
	}
	step := tuning.FrequencyForNote(62) / tuning.FrequencyForNote(60)
	if want := math.Pow(2, 1.0/7); math.Abs(step-want) > 1e-9 {
		t.Fatalf("expected one 7-EDO step (%v), got %v", want, step)
	}
}

func TestNotesOutsideRangeKeepStandardTuning(t *testing.T) {
	mapping := scaleseq.LinearMapping()
	mapping.FirstNote = 48
	mapping.LastNote = 84
	tuning := scaleseq.NewTuning(scaleseq.EvenScale(19), mapping)
	if got, want := tuning.FrequencyForNote(20), 440*math.Pow(2, float64(20-69)/12); math.Abs(got-want) > 1e-9 {
		t.Fatalf("note outside the retuned range: expected %v, got %v", want, got)
	}
}
