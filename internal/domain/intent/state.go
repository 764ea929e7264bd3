package intent

import (
	"fmt"
	"time"
)

// State is the dispatcher's position in the cycle
type State int32

const (
	StateIdle State = iota
	StateCapturing
	StateDispatching
	StateApplying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateDispatching:
		return "dispatching"
	case StateApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome status of a single tool call
const (
	OutcomeApplied   = "applied"
	OutcomeMiss      = "miss"
	OutcomeMalformed = "malformed"
	OutcomeIgnored   = "ignored"
)

// Cycle status
const (
	CycleOK        = "ok"
	CycleFailed    = "failed"
	CycleAbandoned = "abandoned"
)

// Outcome reports what one tool call did
type Outcome struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args,omitempty"`
	Status string         `json:"status"`
	Detail string         `json:"detail,omitempty"`

	// OutsideSchema marks a known tool the focused surface did not offer
	OutsideSchema bool `json:"outside_schema,omitempty"`
}

// CycleResult summarizes one dispatch cycle
type CycleResult struct {
	BatchID    string        `json:"batch_id"`
	Surface    string        `json:"surface,omitempty"`
	Strokes    int           `json:"strokes"`
	CapturedBy string        `json:"captured_by,omitempty"`
	Calls      []Outcome     `json:"calls"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Applied counts the calls that changed something
func (r CycleResult) Applied() int {
	n := 0
	for _, c := range r.Calls {
		if c.Status == OutcomeApplied {
			n++
		}
	}
	return n
}

// Status is the dispatcher's externally visible state
type Status struct {
	State    State         `json:"state"`
	Busy     bool          `json:"busy"`
	Pending  int           `json:"pending_strokes"`
	Queued   int           `json:"queued_batches"`
	Debounce time.Duration `json:"debounce_ns"`
	Last     *CycleResult  `json:"last_cycle,omitempty"`
}

// UnmarshalText parses a state name
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateIdle, StateCapturing, StateDispatching, StateApplying} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown dispatcher state %q", text)
}
