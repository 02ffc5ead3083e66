package interview

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractQuestion(t *testing.T) {
	text := `Let me narrow this down.

===QUESTION===
{"header": "Auth", "question": "Which auth method should we use?", "options": [{"label": "OAuth", "description": "Delegated login"}, {"label": "Password", "description": "Classic credentials"}], "multiSelect": false}
===END_QUESTION===

I'll wait for your answer.`

	q, ok := ExtractQuestion(text)
	if !ok {
		t.Fatal("question block should be extracted")
	}

	want := &Question{
		Header:   "Auth",
		Question: "Which auth method should we use?",
		Options: []QuestionOption{
			{Label: "OAuth", Description: "Delegated login"},
			{Label: "Password", Description: "Classic credentials"},
		},
		MultiSelect: false,
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("question mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractQuestionShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"header": "Auth", "question":`},
		{"empty question", `{"header": "Auth", "question": "", "options": [{"label": "A"}, {"label": "B"}]}`},
		{"one option", `{"question": "Pick?", "options": [{"label": "A"}]}`},
		{"five options", `{"question": "Pick?", "options": [{"label": "A"}, {"label": "B"}, {"label": "C"}, {"label": "D"}, {"label": "E"}]}`},
		{"unlabelled option", `{"question": "Pick?", "options": [{"label": "A"}, {"description": "no label"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := QuestionStart + "\n" + tt.payload + "\n" + QuestionEnd
			if _, ok := ExtractQuestion(text); ok {
				t.Error("malformed block should be silently ignored")
			}
		})
	}
}

// A header over the limit still parses as a block; only the
// presentation-layer validation rejects it.
func TestLongHeaderRejectedOnlyByValidate(t *testing.T) {
	payload := `{"header": "Authentication strategy", "question": "Pick one?", "options": [{"label": "A"}, {"label": "B"}]}`
	text := QuestionStart + payload + QuestionEnd

	q, ok := ExtractQuestion(text)
	if !ok {
		t.Fatal("block with a long header should still extract")
	}
	err := ValidateQuestion(*q)
	if err == nil {
		t.Fatal("ValidateQuestion should reject the long header")
	}
	if !strings.Contains(err.Error(), "12") {
		t.Errorf("error %q should name the limit", err)
	}
}

func TestExtractQuestionMissingMarkers(t *testing.T) {
	if _, ok := ExtractQuestion("plain prose, no markers"); ok {
		t.Error("no block should be found")
	}
	if _, ok := ExtractQuestion(QuestionStart + ` {"question": "dangling"}`); ok {
		t.Error("an unterminated block should be ignored")
	}
}

func TestBothBlocksInOneResponse(t *testing.T) {
	text := `Summary of the design.

===QUESTION===
{"header": "Scope", "question": "Ship the MVP first?", "options": [{"label": "Yes"}, {"label": "No"}]}
===END_QUESTION===

===COMPLETE===
{"slug": "user-auth", "prd": {"overview": "Login system", "userStories": [], "technicalNotes": ""}}
===END_COMPLETE===`

	if _, ok := ExtractQuestion(text); !ok {
		t.Error("question block should be found alongside the completion")
	}
	c, ok := ExtractCompletion(text)
	if !ok {
		t.Fatal("completion block should be found alongside the question")
	}
	if c.Slug != "user-auth" {
		t.Errorf("slug = %q, want user-auth", c.Slug)
	}
}

func TestScanCompletion(t *testing.T) {
	_, err := ScanCompletion("no markers at all")
	if !errors.Is(err, ErrNoCompletion) {
		t.Errorf("err = %v, want ErrNoCompletion", err)
	}

	_, err = ScanCompletion(CompleteStart + `{"slug": ` + CompleteEnd)
	if err == nil || !strings.Contains(err.Error(), "failed to parse completion data") {
		t.Errorf("err = %v, want a parse failure", err)
	}

	_, err = ScanCompletion(CompleteStart + `{"prd": {"overview": "x"}}` + CompleteEnd)
	if err == nil || !strings.Contains(err.Error(), "slug") {
		t.Errorf("err = %v, want a missing-slug failure", err)
	}

	c, err := ScanCompletion(CompleteStart + `
{"slug": "search-filters", "prd": {"overview": "Faceted search", "userStories": [{"title": "Filter by tag", "description": "...", "acceptanceCriteria": ["tags narrow results"]}], "technicalNotes": "index tags"}}
` + CompleteEnd)
	if err != nil {
		t.Fatalf("ScanCompletion: %v", err)
	}
	if c.Slug != "search-filters" || len(c.PRD.UserStories) != 1 {
		t.Errorf("unexpected completion: %+v", c)
	}
}
