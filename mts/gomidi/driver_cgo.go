//go:build cgo

package gomidi

// the rtmidi driver needs cgo; without it, no ports are found and Open fails
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
