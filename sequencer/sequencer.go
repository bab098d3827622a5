package sequencer

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/mts"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type (
	// Sequencer switches between four tunings following a 16-step pattern
	// locked to the host transport, and publishes the gliding result to a
	// tuning host.
	//
	// Process runs on the real-time thread. Activate and Deactivate are
	// called while Process is not running. SetState, UnmarshalState and the
	// parameter methods may be called from other goroutines at any time.
	Sequencer struct {
		params      *Params
		store       *Store
		loader      *Loader
		selector    Selector
		glide       Glide
		broadcaster *Broadcaster
		broker      *Broker
		log         logrus.FieldLogger

		// owned by Process
		steps     [NumSteps]int
		lastStep  int
		lastValid bool
		sentStep  bool

		stateMu sync.Mutex
		paths   map[string]string
	}

	Option func(*Sequencer)
)

const tuningAlert = "tuning"

// WithLogger sets the logger of the control thread paths.
func WithLogger(l logrus.FieldLogger) Option { return func(s *Sequencer) { s.log = l } }

// WithBroker sets the broker the sequencer sends step changes and alerts to.
func WithBroker(b *Broker) Option { return func(s *Sequencer) { s.broker = b } }

// New returns a sequencer publishing to host, with every slot at the default
// tuning and every parameter at its default. A nil host publishes nowhere.
func New(host mts.Host, opts ...Option) *Sequencer {
	s := &Sequencer{
		params:      NewParams(),
		broadcaster: NewBroadcaster(host),
		log:         logrus.StandardLogger(),
		paths:       make(map[string]string, len(StateKeys)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.broker == nil {
		s.broker = NewBroker()
	}
	s.loader = NewLoader(s.log)
	s.store = NewStore(s.loader)
	for _, key := range StateKeys {
		s.paths[key] = ""
	}
	var table scaleseq.FrequencyTable
	s.store.Tuning(1).Table(&table)
	s.glide.Reset(&table)
	return s
}

func (s *Sequencer) Params() *Params           { return s.params }
func (s *Sequencer) Store() *Store             { return s.store }
func (s *Sequencer) Broker() *Broker           { return s.broker }
func (s *Sequencer) Selector() *Selector       { return &s.selector }
func (s *Sequencer) Broadcasting() bool        { return s.broadcaster.Registered() }
func (s *Sequencer) Parameter(p Param) float64 { return s.params.Get(p) }

// SetParameter sets a parameter, clamped to its range.
func (s *Sequencer) SetParameter(p Param, v float64) { s.params.Set(p, v) }

// Activate takes the master role of the tuning host, if it is free, and makes
// the next Process select its tuning afresh.
func (s *Sequencer) Activate() {
	if !s.broadcaster.Activate() {
		s.log.Warn("tuning master role is taken, not publishing tunings")
	}
	s.selector.Reset()
	s.sentStep = false
}

// Deactivate gives up the master role.
func (s *Sequencer) Deactivate() {
	s.broadcaster.Deactivate()
}

// Process advances the sequencer by one block of frames at transport position
// t. It neither blocks nor allocates.
func (s *Sequencer) Process(t Transport, frames int) {
	idx, ok := StepIndex(t, s.params.Measure(), s.params.Int(ParamMultiplier), s.params.Get(ParamOffset))
	s.params.Set(ParamCurrentStep, CurrentStepValue(idx, ok))
	slot, switched := s.selector.Active(), false
	if ok {
		s.params.Steps(&s.steps)
		slot, switched = s.selector.Select(idx, &s.steps, s.store, &s.glide.Target)
	}
	rate := s.params.Get(ParamScaleGlide)
	for i := 0; i < frames; i++ {
		s.glide.Step(rate)
		s.broadcaster.Publish(&s.glide.Current)
	}
	if !s.sentStep || idx != s.lastStep || ok != s.lastValid {
		if TrySend(s.broker.ToMonitor, StepMsg{Step: idx, Valid: ok, Slot: slot, Switched: switched}) {
			s.sentStep = true
			s.lastStep, s.lastValid = idx, ok
		}
	}
}

// CurrentTable copies the frequencies last published to dst. It must not be
// called concurrently with Process.
func (s *Sequencer) CurrentTable(dst *scaleseq.FrequencyTable) {
	*dst = s.glide.Current
}

// CycleStep moves step i, 0-based, to the next slot, wrapping from the last
// slot to the first, and returns the new slot.
func (s *Sequencer) CycleStep(i int) int {
	next := s.params.Step(i)%NumSlots + 1
	s.params.Set(StepParam(i), float64(next))
	return next
}

// StepHighlighted reports whether step i, 0-based, is the current step.
func (s *Sequencer) StepHighlighted(i int) bool {
	return StepHighlighted(s.params.Get(ParamCurrentStep), i)
}

// SetState records a tuning file path under key and loads the file into the
// slot of the key. If the file cannot be opened, only the path is recorded. A
// file that fails to parse resets the whole slot to the default tuning,
// clears both paths of the slot, raises an alert and returns the error. A
// path with the wrong extension resets that half of the tuning and, unless the
// path is empty, raises a warning and clears the path.
func (s *Sequencer) SetState(key, value string) error {
	slot, scale, err := parseStateKey(key)
	if err != nil {
		return err
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.setState(key, value, slot, scale)
}

func (s *Sequencer) setState(key, value string, slot int, scale bool) error {
	s.paths[key] = value
	if err := openable(value); err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "path": value}).WithError(err).Debug("tuning file not readable, keeping tuning")
		return nil
	}
	var (
		outcome LoadOutcome
		err     error
	)
	if scale {
		outcome, err = s.store.LoadScale(slot, value)
	} else {
		outcome, err = s.store.LoadMapping(slot, value)
	}
	return s.settle(key, value, slot, scale, outcome, err)
}

// settle updates the paths after a load and raises the alerts for it.
func (s *Sequencer) settle(key, value string, slot int, scale bool, outcome LoadOutcome, err error) error {
	switch outcome {
	case LoadFailed:
		s.paths[SCLKey(slot)] = ""
		s.paths[KBMKey(slot)] = ""
		reason := err
		var perr *scaleseq.ParseError
		if errors.As(err, &perr) {
			reason = perr
		}
		s.alert(Error, fmt.Sprintf("Tuning error:\n%v\nScale reset to standard tuning and mapping.", reason))
		return err
	case LoadCleared:
		if value == "" {
			break
		}
		s.paths[key] = ""
		if scale {
			s.alert(Warning, "Not a .scl file.\nSCL tuning reset to standard.")
		} else {
			s.alert(Warning, "Not a .kbm file.\nKBM mapping reset to standard.")
		}
	case LoadApplied:
		s.log.WithFields(logrus.Fields{"key": key, "path": value, "slot": slot}).Info("tuning file loaded")
	}
	return err
}

func openable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// State returns the path recorded under key.
func (s *Sequencer) State(key string) (string, bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	v, ok := s.paths[key]
	return v, ok
}

// Snapshot returns the current parameters and paths.
func (s *Sequencer) Snapshot() State {
	st := State{Params: make(map[string]float64, NumParams), Files: make(map[string]string, len(StateKeys))}
	for i, info := range Schema {
		if info.Hints&Output != 0 {
			continue
		}
		st.Params[info.Symbol] = s.params.Get(Param(i))
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	for _, key := range StateKeys {
		st.Files[key] = s.paths[key]
	}
	return st
}

// Restore applies a State: parameters missing from it keep their values, and
// every slot is rebuilt from the paths, missing paths meaning none. Each slot
// is published once, with its final tuning. All load errors are returned
// joined; a failing file does not stop the others from loading.
func (s *Sequencer) Restore(st State) error {
	var errs []error
	for symbol, v := range st.Params {
		p, ok := paramBySymbol(symbol)
		if !ok || Schema[p].Hints&Output != 0 {
			s.log.WithField("param", symbol).Warn("ignoring unknown parameter in state")
			continue
		}
		s.params.Set(p, v)
	}
	for key := range st.Files {
		if _, _, err := parseStateKey(key); err != nil {
			errs = append(errs, err)
		}
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	for slot := 1; slot <= NumSlots; slot++ {
		t := scaleseq.DefaultTuning()
		for _, key := range [2]string{SCLKey(slot), KBMKey(slot)} {
			value, scale := st.Files[key], key == SCLKey(slot)
			s.paths[key] = value
			if openable(value) != nil {
				continue
			}
			var (
				outcome LoadOutcome
				err     error
			)
			if scale {
				t, outcome, err = s.loader.LoadScale(t, value)
			} else {
				t, outcome, err = s.loader.LoadMapping(t, value)
			}
			if err != nil {
				err = fmt.Errorf("loading %q into slot %d failed: %w", value, slot, err)
			}
			if err := s.settle(key, value, slot, scale, outcome, err); err != nil {
				errs = append(errs, err)
			}
		}
		s.store.Set(slot, t)
	}
	return errors.Join(errs...)
}

// MarshalState encodes the state as YAML.
func (s *Sequencer) MarshalState() ([]byte, error) {
	b, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("could not marshal state: %w", err)
	}
	return b, nil
}

// UnmarshalState decodes YAML written by MarshalState and restores it.
func (s *Sequencer) UnmarshalState(data []byte) error {
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("could not unmarshal state: %w", err)
	}
	return s.Restore(st)
}

func (s *Sequencer) alert(p AlertPriority, msg string) {
	if !TrySend(s.broker.Alerts, Alert{Name: tuningAlert, Message: msg, Priority: p, Duration: DefaultAlertDuration}) {
		s.log.WithField("alert", msg).Warn("alert queue full, dropping alert")
	}
}
