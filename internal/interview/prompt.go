package interview

import (
	"fmt"
	"strings"

	"github.com/wrenlabs/specwright/internal/session"
)

// ContextFile is a reference file included verbatim in the system prompt.
type ContextFile struct {
	Path    string
	Content string
}

const firstPrinciplesPreamble = `Approach this interview from first principles: question assumptions,
prefer the simplest design that satisfies the requirements, and surface
trade-offs explicitly before settling on an approach.`

// protocolDescription tells the provider how to embed structured blocks
// in its free-text answers. The markers must appear verbatim.
var protocolDescription = fmt.Sprintf(`## Response protocol

When you need a decision from the user, embed exactly one question block:

%s
{"header": "Short label", "question": "The question?", "options": [{"label": "A", "description": "..."}, {"label": "B", "description": "..."}], "multiSelect": false}
%s

The header is at most 12 characters. Offer 2 to 4 options.

When the specification is complete, embed exactly one completion block:

%s
{"slug": "kebab-case-feature-name", "prd": {"overview": "...", "userStories": [{"title": "...", "description": "...", "acceptanceCriteria": ["..."]}], "technicalNotes": "..."}}
%s

Keep all other prose outside the markers.`, QuestionStart, QuestionEnd, CompleteStart, CompleteEnd)

// BuildSystemPrompt assembles the interview system prompt: the feature
// description, the optional first-principles preamble, optional
// codebase summary and reference files, and the fixed block protocol.
func BuildSystemPrompt(feature string, firstPrinciples bool, codebaseSummary string, files []ContextFile) string {
	var sb strings.Builder

	sb.WriteString("You are conducting a feature-specification interview. Ask one focused\n")
	sb.WriteString("question at a time and build toward a complete PRD.\n\n")

	sb.WriteString("## Feature\n\n")
	sb.WriteString(feature)
	sb.WriteString("\n")

	if firstPrinciples {
		sb.WriteString("\n")
		sb.WriteString(firstPrinciplesPreamble)
		sb.WriteString("\n")
	}

	if codebaseSummary != "" {
		sb.WriteString("\n## Codebase\n\n")
		sb.WriteString(codebaseSummary)
		sb.WriteString("\n")
	}

	for _, f := range files {
		sb.WriteString(fmt.Sprintf("\n## Reference: %s\n\n%s\n", f.Path, f.Content))
	}

	sb.WriteString("\n")
	sb.WriteString(protocolDescription)
	return sb.String()
}

// resumeTranscript renders a saved interview's exchanges as a prompt
// section so a fresh conversation can continue where the old one
// stopped.
func resumeTranscript(state session.State) string {
	if len(state.History) == 0 && state.AIContext == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n## Resumed interview\n\n")
	sb.WriteString("This interview was interrupted. The exchanges so far:\n")
	for _, entry := range state.History {
		sb.WriteString(fmt.Sprintf("\nQ: %s\nA: %s\n", entry.Question, entry.Answer))
	}
	if state.AIContext != "" {
		sb.WriteString("\nYour earlier responses:\n\n")
		sb.WriteString(state.AIContext)
		sb.WriteString("\n")
	}
	sb.WriteString("\nContinue from here; do not repeat questions that were already answered.")
	return sb.String()
}
