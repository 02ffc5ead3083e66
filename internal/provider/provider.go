package provider

import (
	"encoding/json"
	"time"
)

// SessionMode distinguishes how a provider CLI holds a conversation.
type SessionMode int

const (
	// SessionPersistent keeps one child process alive for the whole
	// interview; each turn is written to its standard input.
	SessionPersistent SessionMode = iota

	// SessionPerTurn starts a fresh process for every turn with the
	// prompt passed as a positional argument; the process's natural
	// exit is the completion signal.
	SessionPerTurn
)

// DefaultReceiveTimeout bounds how long Receive waits for the next
// decodable event.
const DefaultReceiveTimeout = 5 * time.Minute

// Config holds construction-time settings for a provider process.
// It is never modified after the process is created.
type Config struct {
	// Args are appended to the provider's fixed argument vector.
	Args []string

	// Env entries override the inherited environment (KEY=VALUE).
	Env []string

	// ReceiveTimeout overrides DefaultReceiveTimeout when positive.
	ReceiveTimeout time.Duration
}

// Message is one turn's input to a provider.
type Message struct {
	Content string
}

// Response is one normalized output event from a provider. A turn sees
// zero or more partial responses (IsComplete=false) followed by exactly
// one terminal response.
type Response struct {
	Content    string
	IsComplete bool

	// Raw preserves the original structured event when the response
	// came from a decoded JSON line.
	Raw json.RawMessage
}

// Spec describes one provider: how to invoke its CLI and how to read
// its output stream. A provider is a configuration value, not an
// implementation.
type Spec struct {
	Name        string
	Command     string
	Mode        SessionMode
	BaseArgs    []string
	VersionArgs []string
	Vocab       Vocabulary
}
