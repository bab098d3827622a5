package mts

import (
	"math"
	"sync/atomic"

	"github.com/scaleseq/scaleseq"
)

type (
	// Registry is a process-wide tuning facility. The zero value is not
	// usable; create one with NewRegistry, or use Default.
	Registry struct {
		master atomic.Pointer[Client]
		freqs  [scaleseq.NumNotes]atomic.Uint64 // float64 bits
		output atomic.Pointer[outputBox]
	}

	// Client is a handle to a Registry that can compete for the master role.
	// Each Client implements Host.
	Client struct {
		registry *Registry
	}

	outputBox struct {
		Output
	}
)

// Default is the registry shared by everything in the process.
var Default = NewRegistry()

// NewRegistry returns a Registry with no master and 12-TET frequencies.
func NewRegistry() *Registry {
	r := &Registry{}
	r.resetTunings()
	return r
}

// NewClient returns a new handle for competing for the master role.
func (r *Registry) NewClient() *Client {
	return &Client{registry: r}
}

// CanRegisterMaster reports whether the master role is free.
func (r *Registry) CanRegisterMaster() bool {
	return r.master.Load() == nil
}

// HasMaster reports whether some client holds the master role.
func (r *Registry) HasMaster() bool {
	return r.master.Load() != nil
}

// SetOutput sets the Output that receives every published table, replacing
// the previous one. nil removes the output.
func (r *Registry) SetOutput(o Output) {
	if o == nil {
		r.output.Store(nil)
		return
	}
	r.output.Store(&outputBox{o})
}

// NoteToFrequency returns the current frequency of a MIDI note in Hz. Notes
// outside 0..127 are clamped.
func (r *Registry) NoteToFrequency(note int) float64 {
	note = max(min(note, scaleseq.NumNotes-1), 0)
	return math.Float64frombits(r.freqs[note].Load())
}

// NoteTunings copies the current frequencies of all notes to dst. The copy is
// not atomic as a whole: a table published concurrently may be partially
// visible.
func (r *Registry) NoteTunings(dst *scaleseq.FrequencyTable) {
	for i := range dst {
		dst[i] = math.Float64frombits(r.freqs[i].Load())
	}
}

func (r *Registry) resetTunings() {
	for i := range r.freqs {
		r.freqs[i].Store(math.Float64bits(440 * math.Pow(2, float64(i-69)/12)))
	}
}

// RegisterMaster tries to acquire the master role. It returns true if the
// client holds the role afterwards, including when it already did.
func (c *Client) RegisterMaster() bool {
	if c.registry.master.CompareAndSwap(nil, c) {
		return true
	}
	return c.registry.master.Load() == c
}

// DeregisterMaster releases the master role if the client holds it. Consumers
// fall back to 12-TET.
func (c *Client) DeregisterMaster() {
	if c.registry.master.CompareAndSwap(c, nil) {
		c.registry.resetTunings()
	}
}

// IsMaster reports whether the client currently holds the master role.
func (c *Client) IsMaster() bool {
	return c.registry.master.Load() == c
}

// SetNoteTunings publishes frequencies for all notes if the client is the
// master; otherwise it does nothing.
func (c *Client) SetNoteTunings(freqs *scaleseq.FrequencyTable) {
	r := c.registry
	if r.master.Load() != c {
		return
	}
	for i, f := range freqs {
		r.freqs[i].Store(math.Float64bits(f))
	}
	if o := r.output.Load(); o != nil {
		o.WriteTunings(freqs)
	}
}
