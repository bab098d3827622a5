package mts

import (
	"sync/atomic"

	"github.com/scaleseq/scaleseq"
)

// TableBuffer hands the latest frequency table from one writer goroutine to
// one reader goroutine without locks or allocation. Three tables rotate
// between the writer, the reader and a shared middle slot; intermediate
// tables that the reader never saw are dropped.
type TableBuffer struct {
	tables [3]scaleseq.FrequencyTable
	middle atomic.Uint32 // index of the middle table, plus freshBit if unread
	write  uint32        // owned by the writer
	read   uint32        // owned by the reader
}

const freshBit = 4

// NewTableBuffer returns an empty TableBuffer.
func NewTableBuffer() *TableBuffer {
	b := &TableBuffer{write: 0, read: 2}
	b.middle.Store(1)
	return b
}

// Write stores a table. Only one goroutine may call Write.
func (b *TableBuffer) Write(t *scaleseq.FrequencyTable) {
	b.tables[b.write] = *t
	prev := b.middle.Swap(b.write | freshBit)
	b.write = prev &^ freshBit
}

// WriteTunings makes TableBuffer an Output.
func (b *TableBuffer) WriteTunings(t *scaleseq.FrequencyTable) {
	b.Write(t)
}

// Read copies the most recently written table to dst and returns true, or
// returns false if nothing was written since the last Read. Only one
// goroutine may call Read.
func (b *TableBuffer) Read(dst *scaleseq.FrequencyTable) bool {
	if b.middle.Load()&freshBit == 0 {
		return false
	}
	prev := b.middle.Swap(b.read)
	b.read = prev &^ freshBit
	*dst = b.tables[b.read]
	return true
}
