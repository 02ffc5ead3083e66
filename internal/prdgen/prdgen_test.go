package prdgen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wrenlabs/specwright/internal/interview"
)

func sampleCompletion() interview.Completion {
	return interview.Completion{
		Slug: "user-auth",
		PRD: interview.PRD{
			Overview: "Session-backed login for the web app.",
			UserStories: []interview.UserStory{
				{
					Title:              "Log in with email",
					Description:        "As a user I can sign in with email and password.",
					AcceptanceCriteria: []string{"valid credentials grant a session", "invalid credentials show an error"},
				},
				{
					Title: "Log out",
				},
			},
			TechnicalNotes: "Sessions stored in sqlite.",
		},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"User Authentication", "user-authentication"},
		{"  add   OAuth2 support!  ", "add-oauth2-support"},
		{"---", ""},
		{strings.Repeat("very long feature name ", 5), "very-long-feature-name-very-long-feature-name"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	out := Render("user authentication", sampleCompletion())

	for _, want := range []string{
		"# PRD: user authentication",
		"## Overview",
		"### 1. Log in with email",
		"- valid credentials grant a session",
		"### 2. Log out",
		"## Technical Notes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered PRD missing %q", want)
		}
	}
}

func TestRenderFallsBackToSlugTitle(t *testing.T) {
	out := Render("", sampleCompletion())
	if !strings.Contains(out, "# PRD: user-auth") {
		t.Error("empty feature should fall back to the slug as title")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, "user authentication", sampleCompletion())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "prd-user-auth.md" {
		t.Errorf("path = %q, want prd-user-auth.md", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "## Overview") {
		t.Error("written file should contain the rendered PRD")
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteJSON(dir, sampleCompletion())
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if filepath.Base(path) != "prd-user-auth.json" {
		t.Errorf("path = %q, want prd-user-auth.json", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var round interview.Completion
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("written JSON should parse: %v", err)
	}
	if round.Slug != "user-auth" || len(round.PRD.UserStories) != 2 {
		t.Errorf("round-tripped completion = %+v", round)
	}
}

func TestWriteDerivesSlugFromFeature(t *testing.T) {
	c := sampleCompletion()
	c.Slug = ""

	path, err := Write(t.TempDir(), "Search Filters", c)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "prd-search-filters.md" {
		t.Errorf("path = %q, want slug derived from the feature", path)
	}
}
