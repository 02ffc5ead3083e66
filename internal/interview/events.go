package interview

import (
	"github.com/wrenlabs/specwright/internal/errs"
	"github.com/wrenlabs/specwright/internal/session"
)

// EventKind labels the notifications an orchestrator emits.
type EventKind string

const (
	EventPhaseChange EventKind = "phase_change"
	EventAIResponse  EventKind = "ai_response"
	EventStateSaved  EventKind = "state_saved"
	EventError       EventKind = "error"
)

// Event is one orchestrator notification. Only the fields relevant to
// its kind are set.
type Event struct {
	Kind EventKind

	Phase    session.Phase // phase_change
	Response string        // ai_response
	Question *Question     // ai_response, when one was parsed
	Path     string        // state_saved
	Err      *errs.Error   // error
}

// Handler receives orchestrator events. A panicking handler is
// recovered and discarded so one bad subscriber cannot break the turn
// loop.
type Handler func(Event)
