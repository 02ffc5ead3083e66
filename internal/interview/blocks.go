package interview

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sentinel marker pairs the provider embeds in free text around a
// single JSON object. Both block types are scanned independently; a
// response may carry either, both, or neither.
const (
	QuestionStart = "===QUESTION==="
	QuestionEnd   = "===END_QUESTION==="
	CompleteStart = "===COMPLETE==="
	CompleteEnd   = "===END_COMPLETE==="
)

// MaxHeaderLen bounds a question's short header for display.
const MaxHeaderLen = 12

// QuestionOption is one selectable answer.
type QuestionOption struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Question is a structured multiple-choice question produced by the
// provider inside a response.
type Question struct {
	Header      string           `json:"header"`
	Question    string           `json:"question"`
	Options     []QuestionOption `json:"options"`
	MultiSelect bool             `json:"multiSelect"`
}

// UserStory is one story in the generated PRD.
type UserStory struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
}

// PRD is the feature-specification payload of a completion.
type PRD struct {
	Overview       string      `json:"overview"`
	UserStories    []UserStory `json:"userStories"`
	TechnicalNotes string      `json:"technicalNotes"`
}

// Completion is the terminal artifact of an interview.
type Completion struct {
	Slug string `json:"slug"`
	PRD  PRD    `json:"prd"`
}

// extractBlock locates the first start/end marker pair in text and
// returns the enclosed substring. Whether a block exists is decided
// here alone; its JSON validity and schema are separate questions.
func extractBlock(text, start, end string) (string, bool) {
	i := strings.Index(text, start)
	if i == -1 {
		return "", false
	}
	rest := text[i+len(start):]
	j := strings.Index(rest, end)
	if j == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:j]), true
}

// ExtractQuestion scans text for a question block. Malformed JSON or a
// failed structural check is silently treated as if no block were
// present; the raw text is left untouched either way.
func ExtractQuestion(text string) (*Question, bool) {
	payload, ok := extractBlock(text, QuestionStart, QuestionEnd)
	if !ok {
		return nil, false
	}

	var q Question
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return nil, false
	}
	if err := checkQuestionShape(q); err != nil {
		return nil, false
	}
	return &q, true
}

// checkQuestionShape enforces the structural contract of a question
// block: question text, 2–4 options, every option labelled. The header
// length limit belongs to ValidateQuestion, not here.
func checkQuestionShape(q Question) error {
	if q.Question == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < 2 || len(q.Options) > 4 {
		return fmt.Errorf("question has %d options, want 2-4", len(q.Options))
	}
	for i, opt := range q.Options {
		if opt.Label == "" {
			return fmt.Errorf("option %d has no label", i)
		}
	}
	return nil
}

// ValidateQuestion is the presentation-layer schema check applied
// before a question is shown: the structural contract plus the header
// length limit.
func ValidateQuestion(q Question) error {
	if err := checkQuestionShape(q); err != nil {
		return err
	}
	if len(q.Header) > MaxHeaderLen {
		return fmt.Errorf("header %q exceeds %d characters", q.Header, MaxHeaderLen)
	}
	return nil
}

// ExtractCompletion scans text for a completion block with the same
// silent-ignore policy as ExtractQuestion.
func ExtractCompletion(text string) (*Completion, bool) {
	c, err := ScanCompletion(text)
	if err != nil {
		return nil, false
	}
	return c, true
}

// ErrNoCompletion reports that no completion block exists in the text.
var ErrNoCompletion = fmt.Errorf("no completion data found")

// ScanCompletion scans text for a completion block, distinguishing a
// missing block (ErrNoCompletion) from one whose JSON cannot be parsed
// or fails the schema check.
func ScanCompletion(text string) (*Completion, error) {
	payload, ok := extractBlock(text, CompleteStart, CompleteEnd)
	if !ok {
		return nil, ErrNoCompletion
	}

	var c Completion
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("failed to parse completion data: %w", err)
	}
	if c.Slug == "" {
		return nil, fmt.Errorf("failed to parse completion data: missing slug")
	}
	return &c, nil
}
