package mts_test

import (
	"math"
	"sync"
	"testing"

	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/mts"
)

func TestRegistryMasterIsExclusive(t *testing.T) {
	r := mts.NewRegistry()
	a, b := r.NewClient(), r.NewClient()
	if !a.RegisterMaster() {
		t.Fatalf("first client should get the master role")
	}
	if !a.RegisterMaster() {
		t.Fatalf("registering again should keep the role")
	}
	if b.RegisterMaster() {
		t.Fatalf("second client should be refused while the first is master")
	}
	b.DeregisterMaster() // not the master; must not release a's role
	if !a.IsMaster() {
		t.Fatalf("deregistering a non-master released the role")
	}
	a.DeregisterMaster()
	if r.HasMaster() {
		t.Fatalf("role should be free after deregistering")
	}
	if !b.RegisterMaster() {
		t.Fatalf("second client should get the role once it is free")
	}
}

func TestOnlyMasterPublishes(t *testing.T) {
	r := mts.NewRegistry()
	a, b := r.NewClient(), r.NewClient()
	a.RegisterMaster()
	var table scaleseq.FrequencyTable
	for i := range table {
		table[i] = 1000 + float64(i)
	}
	b.SetNoteTunings(&table)
	if r.NoteToFrequency(69) != 440 {
		t.Fatalf("a non-master changed the tuning")
	}
	a.SetNoteTunings(&table)
	if r.NoteToFrequency(69) != 1069 {
		t.Fatalf("expected 1069 Hz after publishing, got %v", r.NoteToFrequency(69))
	}
	a.DeregisterMaster()
	if math.Abs(r.NoteToFrequency(69)-440) > 1e-9 {
		t.Fatalf("deregistering should restore 12-TET, got %v", r.NoteToFrequency(69))
	}
}

func TestRegistryForwardsToOutput(t *testing.T) {
	r := mts.NewRegistry()
	buf := mts.NewTableBuffer()
	r.SetOutput(buf)
	c := r.NewClient()
	c.RegisterMaster()
	table := &scaleseq.FrequencyTable{}
	table[10] = 123
	c.SetNoteTunings(table)
	var got scaleseq.FrequencyTable
	if !buf.Read(&got) || got[10] != 123 {
		t.Fatalf("output did not receive the published table")
	}
}

func TestNullHostRefuses(t *testing.T) {
	if (mts.NullHost{}).RegisterMaster() {
		t.Fatalf("NullHost should never grant the master role")
	}
}

func TestFrequencyToNoteTuning(t *testing.T) {
	cases := []struct {
		freq float64
		want mts.NoteTuning
	}{
		{440, mts.NoteTuning{0x45, 0x00, 0x00}},
		{440 * math.Pow(2, 0.5/12), mts.NoteTuning{0x45, 0x40, 0x00}},
		{8.175798915643707, mts.NoteTuning{0x00, 0x00, 0x00}},
		{1, mts.NoteTuning{0x00, 0x00, 0x00}},
		{0, mts.NoteTuning{0x00, 0x00, 0x00}},
		{20000, mts.NoteTuning{0x7F, 0x7F, 0x7E}},
	}
	for _, c := range cases {
		if got := mts.FrequencyToNoteTuning(c.freq); got != c.want {
			t.Fatalf("frequency %v: expected %X, got %X", c.freq, c.want, got)
		}
	}
	if got := mts.FrequencyToNoteTuning(261.6255653005986).Frequency(); math.Abs(got-261.6255653005986) > 0.01 {
		t.Fatalf("decoding should give back the frequency, got %v", got)
	}
}

func TestAppendNoteChange(t *testing.T) {
	var table scaleseq.FrequencyTable
	scaleseq.DefaultTuning().Table(&table)
	var tunings [scaleseq.NumNotes]mts.NoteTuning
	mts.EncodeNoteTable(&table, &tunings)
	msg := mts.AppendNoteChange(nil, mts.AllDevices, 0, []byte{60, 69}, &tunings)
	want := []byte{0x7F, 0x7F, 0x08, 0x02, 0x00, 2, 60, 60, 0, 0, 69, 69, 0, 0}
	if string(msg) != string(want) {
		t.Fatalf("expected % X, got % X", want, msg)
	}
	if len(msg) != mts.NoteChangeLen(2) {
		t.Fatalf("NoteChangeLen(2) = %d, message is %d bytes", mts.NoteChangeLen(2), len(msg))
	}
	keys := make([]byte, 100)
	for i := range keys {
		keys[i] = byte(i)
	}
	msg = mts.AppendNoteChange(msg[:0], mts.AllDevices, 0, keys, &tunings)
	if msg[5] != mts.MaxNotesPerMessage {
		t.Fatalf("a message should carry at most %d notes, got %d", mts.MaxNotesPerMessage, msg[5])
	}
}

func TestTableBufferKeepsLatest(t *testing.T) {
	b := mts.NewTableBuffer()
	var got scaleseq.FrequencyTable
	if b.Read(&got) {
		t.Fatalf("empty buffer should have nothing to read")
	}
	for i := 1; i <= 3; i++ {
		b.Write(&scaleseq.FrequencyTable{float64(i)})
	}
	if !b.Read(&got) || got[0] != 3 {
		t.Fatalf("expected the latest table (3), got %v", got[0])
	}
	if b.Read(&got) {
		t.Fatalf("a table should be read only once")
	}
}

func TestTableBufferConcurrent(t *testing.T) {
	b := mts.NewTableBuffer()
	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var table scaleseq.FrequencyTable
		for i := 1; i <= n; i++ {
			for j := range table {
				table[j] = float64(i)
			}
			b.Write(&table)
		}
	}()
	last := 0.0
	var got scaleseq.FrequencyTable
	for last < n {
		if !b.Read(&got) {
			continue
		}
		for j := range got {
			if got[j] != got[0] {
				t.Fatalf("torn table: entry %d is %v, entry 0 is %v", j, got[j], got[0])
			}
		}
		if got[0] < last {
			t.Fatalf("tables went backwards: %v after %v", got[0], last)
		}
		last = got[0]
	}
	wg.Wait()
}
