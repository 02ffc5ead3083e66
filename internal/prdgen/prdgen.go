package prdgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wrenlabs/specwright/internal/interview"
)

// DefaultDir is where generated PRDs land relative to the project root.
const DefaultDir = ".specwright"

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts free text into a kebab-case file-name fragment.
func Slugify(s string) string {
	name := strings.ToLower(s)
	name = slugRe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > 50 {
		name = name[:50]
		if lastHyphen := strings.LastIndex(name, "-"); lastHyphen > 30 {
			name = name[:lastHyphen]
		}
	}
	return name
}

// Render produces the markdown PRD document for a completion.
func Render(feature string, c interview.Completion) string {
	var sb strings.Builder

	title := strings.TrimSpace(feature)
	if title == "" {
		title = c.Slug
	}
	sb.WriteString(fmt.Sprintf("# PRD: %s\n\n", title))

	sb.WriteString("## Overview\n\n")
	sb.WriteString(strings.TrimSpace(c.PRD.Overview))
	sb.WriteString("\n")

	if len(c.PRD.UserStories) > 0 {
		sb.WriteString("\n## User Stories\n")
		for i, story := range c.PRD.UserStories {
			sb.WriteString(fmt.Sprintf("\n### %d. %s\n\n", i+1, story.Title))
			if story.Description != "" {
				sb.WriteString(story.Description)
				sb.WriteString("\n")
			}
			if len(story.AcceptanceCriteria) > 0 {
				sb.WriteString("\nAcceptance criteria:\n\n")
				for _, ac := range story.AcceptanceCriteria {
					sb.WriteString(fmt.Sprintf("- %s\n", ac))
				}
			}
		}
	}

	if notes := strings.TrimSpace(c.PRD.TechnicalNotes); notes != "" {
		sb.WriteString("\n## Technical Notes\n\n")
		sb.WriteString(notes)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Write renders the PRD and writes it under dir as prd-<slug>.md,
// creating the directory if needed. The written path is returned.
func Write(dir, feature string, c interview.Completion) (string, error) {
	slug := c.Slug
	if slug == "" {
		slug = Slugify(feature)
	}
	if slug == "" {
		return "", fmt.Errorf("cannot derive a file name for the PRD")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("prd-%s.md", slug))
	if err := os.WriteFile(path, []byte(Render(feature, c)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write PRD: %w", err)
	}
	return path, nil
}

// WriteJSON writes the raw completion payload as prd-<slug>.json for
// downstream tooling.
func WriteJSON(dir string, c interview.Completion) (string, error) {
	if c.Slug == "" {
		return "", fmt.Errorf("cannot derive a file name for the PRD")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode PRD: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("prd-%s.json", c.Slug))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write PRD: %w", err)
	}
	return path, nil
}
