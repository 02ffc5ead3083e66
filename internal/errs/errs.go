package errs

import (
	"fmt"
	"time"
)

// Category identifies the broad failure class of an interview error.
type Category string

const (
	Network       Category = "network"
	Provider      Category = "provider"
	Process       Category = "process"
	State         Category = "state"
	Validation    Category = "validation"
	Timeout       Category = "timeout"
	UserCancelled Category = "user_cancelled"
	Unknown       Category = "unknown"
)

// Error is the single typed error that crosses the core boundary.
// Category-specific fields are only set for their category: ExitCode and
// Signal for process errors, Duration for timeouts.
type Error struct {
	Category    Category
	Recoverable bool
	Message     string
	Cause       error
	Timestamp   time.Time
	Context     map[string]string

	ExitCode *int
	Signal   string
	Duration time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a typed error with the default recoverability for its category.
func New(cat Category, msg string) *Error {
	return &Error{
		Category:    cat,
		Recoverable: defaultRecoverable(cat),
		Message:     msg,
		Timestamp:   time.Now(),
	}
}

// Wrap creates a typed error around an underlying cause.
func Wrap(cat Category, msg string, cause error) *Error {
	e := New(cat, msg)
	e.Cause = cause
	return e
}

// WithContext attaches a key/value pair for diagnostics and returns e.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// defaultRecoverable reports whether errors of a category can be retried
// or resumed by default. State corruption is the only category where a
// fresh start is required.
func defaultRecoverable(cat Category) bool {
	return cat != State
}

// explanations describe each category in user-facing terms.
var explanations = map[Category]string{
	Network:       "A network problem interrupted communication with the AI provider.",
	Provider:      "The AI provider reported a problem (rate limit, quota, or API error).",
	Process:       "The provider's command-line process failed or exited unexpectedly.",
	State:         "The saved interview state is missing or corrupted.",
	Validation:    "A response or input did not match the expected format.",
	Timeout:       "The provider took too long to respond.",
	UserCancelled: "The interview was cancelled.",
	Unknown:       "An unexpected error occurred.",
}

// instructions tell the user what to do next for each category.
var instructions = map[Category]string{
	Network:       "Check your connection and resume the interview with 'specwright resume'.",
	Provider:      "Wait a moment, then resume with 'specwright resume'.",
	Process:       "Verify the provider CLI is installed and on your PATH, then resume.",
	State:         "The interview cannot be resumed; start again with 'specwright interview'.",
	Validation:    "Resume the interview; the provider will be asked again.",
	Timeout:       "Resume the interview to retry the last exchange.",
	UserCancelled: "Start a new interview when you are ready.",
	Unknown:       "Resume the interview; if the problem persists, start again.",
}

// UserMessage formats an error for display: the raw error text, a
// category explanation, and a recovery instruction.
func UserMessage(err error) string {
	e := Classify(err)
	return fmt.Sprintf("%s\n\n%s\n%s", e.Error(), explanations[e.Category], instructions[e.Category])
}
