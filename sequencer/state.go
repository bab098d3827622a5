package sequencer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// State is the persisted configuration of a sequencer: every parameter value
// keyed by symbol, and the tuning file paths keyed by state key.
type State struct {
	Params map[string]float64 `yaml:"params,omitempty"`
	Files  map[string]string  `yaml:"files,omitempty"`
}

const (
	sclKeyPrefix = "scl_file_"
	kbmKeyPrefix = "kbm_file_"
)

var ErrStateKey = errors.New("unknown state key")

// StateKeys lists the keys of the file paths: scl_file_1..4 followed by
// kbm_file_1..4.
var StateKeys = func() (ret [2 * NumSlots]string) {
	for i := 0; i < NumSlots; i++ {
		ret[i] = SCLKey(i + 1)
		ret[NumSlots+i] = KBMKey(i + 1)
	}
	return
}()

// SCLKey returns the state key of the scale file of a slot.
func SCLKey(slot int) string { return sclKeyPrefix + strconv.Itoa(slot) }

// KBMKey returns the state key of the mapping file of a slot.
func KBMKey(slot int) string { return kbmKeyPrefix + strconv.Itoa(slot) }

func parseStateKey(key string) (slot int, scale bool, err error) {
	var rest string
	switch {
	case strings.HasPrefix(key, sclKeyPrefix):
		rest, scale = key[len(sclKeyPrefix):], true
	case strings.HasPrefix(key, kbmKeyPrefix):
		rest = key[len(kbmKeyPrefix):]
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrStateKey, key)
	}
	slot, err = strconv.Atoi(rest)
	if err != nil || slot < 1 || slot > NumSlots {
		return 0, false, fmt.Errorf("%w: %q", ErrStateKey, key)
	}
	return slot, scale, nil
}

func paramBySymbol(symbol string) (Param, bool) {
	for i, info := range Schema {
		if info.Symbol == symbol {
			return Param(i), true
		}
	}
	return 0, false
}
