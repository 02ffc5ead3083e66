package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wrenlabs/specwright/internal/interview"
)

// FormatQuestion renders a question's text content without the box:
// header, question, numbered options, and the answer hint.
func FormatQuestion(q interview.Question) string {
	var sb strings.Builder

	if q.Header != "" {
		sb.WriteString(StyleAccent.Render(q.Header))
		sb.WriteString("\n\n")
	}
	sb.WriteString(StyleBold.Render(q.Question))
	sb.WriteString("\n")

	for i, opt := range q.Options {
		sb.WriteString(fmt.Sprintf("\n  %s %s", StyleInfo.Render(fmt.Sprintf("%d.", i+1)), opt.Label))
		if opt.Description != "" {
			sb.WriteString("\n     " + StyleMuted.Render(opt.Description))
		}
	}

	sb.WriteString("\n\n")
	if q.MultiSelect {
		sb.WriteString(StyleMuted.Render("Pick one or more numbers (comma-separated), or type your own answer."))
	} else {
		sb.WriteString(StyleMuted.Render("Pick a number, or type your own answer."))
	}
	return sb.String()
}

// RenderQuestion wraps the formatted question in the question box.
func RenderQuestion(q interview.Question) string {
	return QuestionBox().Render(FormatQuestion(q))
}

// ResolveAnswer maps raw user input onto the question's options: a
// number selects an option's label, a comma list selects several when
// multi-select is on, and anything else passes through as free text.
func ResolveAnswer(q interview.Question, input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	parts := strings.Split(input, ",")
	if !q.MultiSelect && len(parts) > 1 {
		return input
	}

	var labels []string
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(q.Options) {
			return input
		}
		labels = append(labels, q.Options[n-1].Label)
	}
	return strings.Join(labels, ", ")
}
