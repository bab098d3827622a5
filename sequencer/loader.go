package sequencer

import (
	"errors"
	"strings"

	"github.com/scaleseq/scaleseq"
	"github.com/sirupsen/logrus"
)

type (
	// Loader replaces the scale or the mapping of a tuning with the contents
	// of a file. A Loader has no state of its own besides the logger.
	Loader struct {
		log logrus.FieldLogger
	}

	// LoadOutcome tells what a load did to the tuning.
	LoadOutcome int
)

const (
	// LoadApplied: the file was parsed and its component replaced.
	LoadApplied LoadOutcome = iota
	// LoadCleared: the path had the wrong extension, so the component was
	// reset to its default and the other component kept.
	LoadCleared
	// LoadSkipped: the file could not be read; the tuning is unchanged.
	LoadSkipped
	// LoadFailed: the file could not be parsed; the whole tuning was reset.
	LoadFailed
)

var loadOutcomeNames = [...]string{"applied", "cleared", "skipped", "failed"}

func (o LoadOutcome) String() string {
	if o < 0 || int(o) >= len(loadOutcomeNames) {
		return "unknown"
	}
	return loadOutcomeNames[o]
}

// NewLoader returns a Loader logging to log, or to the standard logger if log
// is nil.
func NewLoader(log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{log: log}
}

// LoadScale returns t with its scale replaced by the scale in the .scl file at
// path. A path without the .scl extension, including the empty path, resets
// the scale to 12-tone equal temperament. If the file does not parse, the
// returned tuning is the default tuning and the error is a
// *scaleseq.ParseError.
func (l *Loader) LoadScale(t *scaleseq.Tuning, path string) (*scaleseq.Tuning, LoadOutcome, error) {
	log := l.log.WithField("path", path)
	if !strings.HasSuffix(path, scaleseq.SCLExtension) {
		log.Debug("not a scale file, resetting scale")
		return t.WithScale(scaleseq.EvenScale(12)), LoadCleared, nil
	}
	scale, err := scaleseq.ReadSCLFile(path)
	if outcome, err := l.classify(log, err); outcome != LoadApplied {
		if outcome == LoadFailed {
			return scaleseq.DefaultTuning(), outcome, err
		}
		return t, outcome, nil
	}
	log.WithField("tones", scale.Count()).Debug("scale loaded")
	return t.WithScale(scale), LoadApplied, nil
}

// LoadMapping is the counterpart of LoadScale for .kbm keyboard mappings. A
// path without the .kbm extension resets the mapping to the linear mapping.
func (l *Loader) LoadMapping(t *scaleseq.Tuning, path string) (*scaleseq.Tuning, LoadOutcome, error) {
	log := l.log.WithField("path", path)
	if !strings.HasSuffix(path, scaleseq.KBMExtension) {
		log.Debug("not a mapping file, resetting mapping")
		return t.WithMapping(scaleseq.LinearMapping()), LoadCleared, nil
	}
	mapping, err := scaleseq.ReadKBMFile(path)
	if outcome, err := l.classify(log, err); outcome != LoadApplied {
		if outcome == LoadFailed {
			return scaleseq.DefaultTuning(), outcome, err
		}
		return t, outcome, nil
	}
	log.WithField("size", mapping.Size).Debug("mapping loaded")
	return t.WithMapping(mapping), LoadApplied, nil
}

func (l *Loader) classify(log logrus.FieldLogger, err error) (LoadOutcome, error) {
	if err == nil {
		return LoadApplied, nil
	}
	var perr *scaleseq.ParseError
	if errors.As(err, &perr) {
		log.WithError(err).Warn("tuning file rejected, resetting tuning")
		return LoadFailed, err
	}
	log.WithError(err).Debug("tuning file unreadable, ignored")
	return LoadSkipped, nil
}
