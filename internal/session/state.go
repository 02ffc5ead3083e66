package session

import "time"

// StateVersion is the checkpoint schema version. It never changes within
// a release line; loaders reject anything else.
const StateVersion = 1

// Phase is the coarse-grained interview phase. Transitions are forward
// only: exploring -> questioning -> generating.
type Phase string

const (
	PhaseExploring   Phase = "exploring"
	PhaseQuestioning Phase = "questioning"
	PhaseGenerating  Phase = "generating"
)

// phaseOrder gives each phase a rank for the forward-only check.
var phaseOrder = map[Phase]int{
	PhaseExploring:   0,
	PhaseQuestioning: 1,
	PhaseGenerating:  2,
}

// HistoryEntry records one question/answer exchange.
type HistoryEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the full interview state. It is a value type: every mutation
// helper returns a new State and leaves the receiver untouched. The
// caller decides whether and when to persist.
type State struct {
	Version         int            `json:"version"`
	ID              string         `json:"id"`
	Feature         string         `json:"feature"`
	Provider        string         `json:"provider"`
	FirstPrinciples bool           `json:"firstPrinciples"`
	ContextFiles    []string       `json:"contextFiles,omitempty"`
	StartedAt       time.Time      `json:"startedAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Phase           Phase          `json:"phase"`
	History         []HistoryEntry `json:"history"`
	AIContext       string         `json:"aiContext"`
}

// NewState creates the initial state for an interview.
func NewState(id, feature, provider string, firstPrinciples bool, contextFiles []string) State {
	now := time.Now()
	return State{
		Version:         StateVersion,
		ID:              id,
		Feature:         feature,
		Provider:        provider,
		FirstPrinciples: firstPrinciples,
		ContextFiles:    append([]string(nil), contextFiles...),
		StartedAt:       now,
		UpdatedAt:       now,
		Phase:           PhaseExploring,
	}
}

// WithHistory returns a copy of s with a question/answer pair appended.
func (s State) WithHistory(question, answer string) State {
	next := s
	next.History = append(append([]HistoryEntry(nil), s.History...), HistoryEntry{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now(),
	})
	next.UpdatedAt = time.Now()
	return next
}

// WithPhase returns a copy of s in the given phase. Backward transitions
// are ignored and return s unchanged.
func (s State) WithPhase(phase Phase) State {
	if phaseOrder[phase] < phaseOrder[s.Phase] {
		return s
	}
	next := s
	next.Phase = phase
	next.UpdatedAt = time.Now()
	return next
}

// WithAIContext returns a copy of s with text appended to the accumulated
// AI context.
func (s State) WithAIContext(text string) State {
	next := s
	if next.AIContext == "" {
		next.AIContext = text
	} else {
		next.AIContext = next.AIContext + "\n" + text
	}
	next.UpdatedAt = time.Now()
	return next
}
