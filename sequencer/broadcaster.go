package sequencer

import (
	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/mts"
)

// Broadcaster publishes frequency tables to a tuning host while it holds the
// master role.
type Broadcaster struct {
	host       mts.Host
	registered bool
}

func NewBroadcaster(host mts.Host) *Broadcaster {
	if host == nil {
		host = mts.NullHost{}
	}
	return &Broadcaster{host: host}
}

// Activate asks for the master role unless it is already held. It returns
// whether the role is held afterwards.
func (b *Broadcaster) Activate() bool {
	if !b.registered {
		b.registered = b.host.RegisterMaster()
	}
	return b.registered
}

// Deactivate gives up the master role if it is held.
func (b *Broadcaster) Deactivate() {
	if b.registered {
		b.host.DeregisterMaster()
		b.registered = false
	}
}

// Publish sends the table to the host, if the master role is held.
func (b *Broadcaster) Publish(t *scaleseq.FrequencyTable) {
	if b.registered {
		b.host.SetNoteTunings(t)
	}
}

func (b *Broadcaster) Registered() bool { return b.registered }
