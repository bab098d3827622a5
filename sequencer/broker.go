package sequencer

import (
	"time"
)

type (
	// Broker carries messages out of the sequencer. The real-time thread
	// only ever sends with TrySend, so a slow or missing reader drops
	// messages instead of stalling audio. Each channel has exactly one
	// intended reader: ToMonitor is read by whatever displays the running
	// step, Alerts by whatever shows messages to the user.
	//
	// A goroutine that drives Process on its own clock, rather than a host
	// calling it, is stopped through CloseEngine and FinishedEngine.
	// CloseEngine has a capacity of 1, so a close request can always be sent
	// with TrySend; if it is full, a close is already underway. Nothing is
	// sent on FinishedEngine: it is closed once the goroutine has processed
	// its last block and given up the master role:
	//    select {
	//      case <-FinishedEngine:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToMonitor chan StepMsg
		Alerts    chan Alert

		CloseEngine    chan struct{}
		FinishedEngine chan struct{}
	}

	// StepMsg is sent by the real-time thread whenever the step changes. It is
	// a plain value so that sending it does not allocate.
	StepMsg struct {
		Step     int  // 0-based; meaningless if !Valid
		Valid    bool // false before the start of the pattern
		Slot     int  // active slot after the change
		Switched bool // the tuning changed with the step
	}

	// Alert is a message for the user.
	Alert struct {
		Name     string // alerts with the same name replace each other
		Message  string
		Priority AlertPriority
		Duration time.Duration
	}

	AlertPriority int
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

// DefaultAlertDuration is how long an alert stays visible by default.
const DefaultAlertDuration = 5 * time.Second

var alertPriorityNames = [...]string{"none", "info", "warning", "error"}

func (p AlertPriority) String() string {
	if p < 0 || int(p) >= len(alertPriorityNames) {
		return "unknown"
	}
	return alertPriorityNames[p]
}

func NewBroker() *Broker {
	return &Broker{
		ToMonitor:      make(chan StepMsg, 1024),
		Alerts:         make(chan Alert, 64),
		CloseEngine:    make(chan struct{}, 1),
		FinishedEngine: make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
