package gomidi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/mts"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type (
	// Output sends published frequency tables to a MIDI port as MIDI Tuning
	// Standard real-time single note tuning changes. Tables arrive from the
	// real-time thread through WriteTunings, which never blocks; a separate
	// goroutine running Run sends the notes whose tuning changed since the
	// last send, at most once per interval.
	Output struct {
		buffer   *mts.TableBuffer
		send     func(midi.Message) error
		port     drivers.Out
		device   byte
		program  byte
		interval time.Duration
		log      logrus.FieldLogger

		table   scaleseq.FrequencyTable
		tunings [scaleseq.NumNotes]mts.NoteTuning
		sent    [scaleseq.NumNotes]mts.NoteTuning
		hasSent bool
		keys    []byte
		msg     []byte
	}

	Option func(*Output)
)

const DefaultInterval = 10 * time.Millisecond

var ErrNoPort = errors.New("no matching MIDI output port")

// WithDevice sets the sysex device ID; the default addresses all devices.
func WithDevice(id byte) Option { return func(o *Output) { o.device = id & 0x7F } }

// WithProgram sets the tuning program the changes apply to.
func WithProgram(p byte) Option { return func(o *Output) { o.program = p & 0x7F } }

// WithInterval sets how often Run flushes changes to the port.
func WithInterval(d time.Duration) Option { return func(o *Output) { o.interval = d } }

// WithLogger sets the logger used for send errors.
func WithLogger(l logrus.FieldLogger) Option { return func(o *Output) { o.log = l } }

// NewOutput creates an Output that sends messages with the given function.
func NewOutput(send func(midi.Message) error, opts ...Option) *Output {
	o := &Output{
		buffer:   mts.NewTableBuffer(),
		send:     send,
		device:   mts.AllDevices,
		interval: DefaultInterval,
		log:      logrus.StandardLogger(),
		keys:     make([]byte, 0, scaleseq.NumNotes),
		msg:      make([]byte, 0, mts.NoteChangeLen(mts.MaxNotesPerMessage)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open finds the first MIDI output port whose name starts with namePrefix
// (any port if namePrefix is empty) and creates an Output sending to it.
func Open(namePrefix string, opts ...Option) (*Output, error) {
	for _, port := range midi.GetOutPorts() {
		if !strings.HasPrefix(port.String(), namePrefix) {
			continue
		}
		send, err := midi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("opening MIDI output %q failed: %w", port.String(), err)
		}
		o := NewOutput(send, opts...)
		o.port = port
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoPort, namePrefix)
}

// PortNames lists the names of the available MIDI output ports.
func PortNames() []string {
	var names []string
	for _, port := range midi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}

// String returns the name of the port, if the Output was opened by name.
func (o *Output) String() string {
	if o.port == nil {
		return "custom output"
	}
	return o.port.String()
}

// WriteTunings stores the table for the next flush. It is safe to call from
// the real-time thread, but only from one goroutine.
func (o *Output) WriteTunings(t *scaleseq.FrequencyTable) {
	o.buffer.Write(t)
}

// Run flushes changes until ctx is done. It must run in exactly one
// goroutine.
func (o *Output) Run(ctx context.Context) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := o.Flush(); err != nil {
				o.log.WithError(err).WithField("port", o.String()).Warn("could not send tuning change")
			}
		}
	}
}

// Flush sends the notes whose encoded tuning changed since the previous
// flush. The first flush sends every note.
func (o *Output) Flush() error {
	if !o.buffer.Read(&o.table) {
		return nil
	}
	mts.EncodeNoteTable(&o.table, &o.tunings)
	o.keys = o.keys[:0]
	for i := range o.tunings {
		if !o.hasSent || o.tunings[i] != o.sent[i] {
			o.keys = append(o.keys, byte(i))
		}
	}
	for keys := o.keys; len(keys) > 0; {
		n := min(len(keys), mts.MaxNotesPerMessage)
		o.msg = mts.AppendNoteChange(o.msg[:0], o.device, o.program, keys[:n], &o.tunings)
		if err := o.send(midi.SysEx(o.msg)); err != nil {
			return fmt.Errorf("sending %d note tunings failed: %w", n, err)
		}
		for _, k := range keys[:n] {
			o.sent[k] = o.tunings[k]
		}
		keys = keys[n:]
	}
	o.hasSent = true
	return nil
}

// Close closes the port, if the Output opened one.
func (o *Output) Close() error {
	if o.port == nil || !o.port.IsOpen() {
		return nil
	}
	return o.port.Close()
}
