package cmd

import (
	"context"

	"github.com/scaleseq/scaleseq/mts"
)

// TuningOutput is a destination for the tunings published to a registry
// that needs a goroutine of its own to deliver them.
type TuningOutput interface {
	mts.Output
	Run(ctx context.Context)
	Close() error
	String() string
}
