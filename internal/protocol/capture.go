package protocol

// State is the phase of one capture transaction.
type State int

const (
	// StateIdle means no begin marker has been seen yet.
	StateIdle State = iota
	// StateBegun means the begin marker arrived; payload lines are live.
	StateBegun
	// StatePagerRetry means the engine's pager interrupted the window and
	// the driver has re-issued the end marker. The reply proper ended at
	// the interruption; the capture now only waits for an end marker
	// with the right id.
	StatePagerRetry
	// StateCompleted means the end marker for this capture id arrived.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBegun:
		return "begun"
	case StatePagerRetry:
		return "pager-retry"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event classifies what a single observed line means for a capture.
type Event int

const (
	// EventNoise is a line outside the capture window (diagnostics).
	EventNoise Event = iota
	// EventBegin is the begin marker; swallowed, never forwarded.
	EventBegin
	// EventPayload is a reply line inside the capture window.
	EventPayload
	// EventDone is the end marker carrying the current capture id.
	EventDone
	// EventStaleEnd is an end marker with a wrong or missing id, a
	// leftover from a pager retry. Discarded.
	EventStaleEnd
)

// Capture is the per-transaction state machine:
//
//	idle -> begun -> (pager-retry)* -> completed
//
// It is a pure classifier: it owns no channels and does no I/O, so the
// pager retry path can be exercised with plain strings. The reader task
// feeds it one line at a time via Observe and reports pager prompts via
// PagerInterrupt.
type Capture struct {
	id      uint64
	state   State
	retries int
}

// NewCapture returns a capture expecting markers for the given id.
func NewCapture(id uint64) *Capture {
	return &Capture{id: id, state: StateIdle}
}

// ID returns the capture id this transaction matches on.
func (c *Capture) ID() uint64 { return c.id }

// State returns the current phase.
func (c *Capture) State() State { return c.state }

// PagerRetries returns how many pager interruptions were handled.
func (c *Capture) PagerRetries() int { return c.retries }

// Observe classifies one complete line from the engine's output stream
// and advances the state machine.
func (c *Capture) Observe(line string) Event {
	if line == BeginMarker {
		if c.state == StateIdle {
			c.state = StateBegun
		}
		return EventBegin
	}
	if id, ok := ParseEnd(line); ok {
		if id == c.id && (c.state == StateBegun || c.state == StatePagerRetry) {
			c.state = StateCompleted
			return EventDone
		}
		return EventStaleEnd
	}
	if c.state == StateBegun {
		return EventPayload
	}
	// During a pager retry the pager is replaying output it withheld;
	// the reply proper ended at the interruption. Anything further is
	// chatter, not payload.
	return EventNoise
}

// PagerInterrupt records that the pager prompt fired mid-window. The
// caller answers the pager and re-issues the end marker; the capture
// stays live and completes on the first end marker with the right id.
// Repeated interruptions are allowed; duplicate end markers that arrive
// afterwards classify as EventStaleEnd once the capture has completed.
func (c *Capture) PagerInterrupt() {
	if c.state == StateBegun || c.state == StatePagerRetry {
		c.state = StatePagerRetry
		c.retries++
	}
}
