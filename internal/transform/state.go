package transform

import (
	"fmt"

	"github.com/example/transcript-studio/internal/models"
)

// State is the position of one request in the transform lifecycle. A run
// only ever moves forward:
//
//	PENDING -> PROMPTED -> STREAMING -> FINALIZING -> COMPLETE | FAILED
type State int

const (
	StatePending State = iota
	StatePrompted
	StateStreaming
	StateFinalizing
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StatePrompted:
		return "PROMPTED"
	case StateStreaming:
		return "STREAMING"
	case StateFinalizing:
		return "FINALIZING"
	case StateComplete:
		return "COMPLETE"
	case StateFailed:
		return "FAILED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Trigger is an event observed while streaming. Every trigger except
// TriggerFragmentReceived ends the stream.
type Trigger string

const (
	TriggerFragmentReceived  Trigger = "fragment-received"
	TriggerSequenceExhausted Trigger = "sequence-exhausted"
	TriggerUpstreamError     Trigger = "upstream-error"
	TriggerClientCancelled   Trigger = "client-cancelled"
	TriggerTimeoutElapsed    Trigger = "timeout-elapsed"
)

// DisconnectPolicy decides the terminal status after the caller goes away.
type DisconnectPolicy string

const (
	// DisconnectFail records the partial text as failed.
	DisconnectFail DisconnectPolicy = "fail"
	// DisconnectKeep records the partial text as complete, for later retrieval.
	DisconnectKeep DisconnectPolicy = "keep"
)

func (p DisconnectPolicy) Valid() bool {
	return p == DisconnectFail || p == DisconnectKeep
}

// terminal maps an ending trigger to the job status and failure reason
// written by finalize.
func terminal(t Trigger, p DisconnectPolicy) (models.JobStatus, string, error) {
	switch t {
	case TriggerSequenceExhausted:
		return models.StatusComplete, "", nil
	case TriggerUpstreamError:
		return models.StatusFailed, string(t), nil
	case TriggerTimeoutElapsed:
		return models.StatusFailed, "timeout", nil
	case TriggerClientCancelled:
		if p == DisconnectKeep {
			return models.StatusComplete, string(t), nil
		}
		return models.StatusFailed, string(t), nil
	}
	return "", "", fmt.Errorf("transform: trigger %q does not end a stream", t)
}

// next enforces the forward-only edges of the state machine.
func next(from, to State) error {
	ok := false
	switch from {
	case StatePending:
		ok = to == StatePrompted
	case StatePrompted:
		ok = to == StateStreaming
	case StateStreaming:
		ok = to == StateFinalizing
	case StateFinalizing:
		ok = to == StateComplete || to == StateFailed
	}
	if !ok {
		return fmt.Errorf("transform: invalid transition %s -> %s", from, to)
	}
	return nil
}
