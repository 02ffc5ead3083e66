// Package scan derives a short codebase summary for interview prompts
// from marker files in the project root.
package scan

import (
	"os"
	"path/filepath"
	"strings"
)

type marker struct {
	file string
	note string
}

var projectMarkers = []marker{
	{"go.mod", "Go project (go.mod present)"},
	{"package.json", "Node.js/JavaScript project (package.json present)"},
	{"Cargo.toml", "Rust project (Cargo.toml present)"},
	{"requirements.txt", "Python project (requirements.txt present)"},
	{"pyproject.toml", "Python project (pyproject.toml present)"},
	{"pom.xml", "Java project (pom.xml present)"},
	{"Gemfile", "Ruby project (Gemfile present)"},
}

var frameworkMarkers = []marker{
	{"next.config.js", "Next.js framework detected"},
	{"next.config.ts", "Next.js framework detected"},
	{"vite.config.ts", "Vite build tool detected"},
	{"docker-compose.yml", "Docker Compose setup detected"},
	{"Dockerfile", "Dockerfile present"},
	{".github/workflows", "GitHub Actions CI configured"},
}

// Summarize inspects dir for well-known project files and returns a
// bulleted summary, or "" when nothing recognizable is found.
func Summarize(dir string) string {
	var lines []string

	for _, m := range projectMarkers {
		if exists(filepath.Join(dir, m.file)) {
			lines = append(lines, "- "+m.note)
		}
	}
	seen := map[string]bool{}
	for _, m := range frameworkMarkers {
		if exists(filepath.Join(dir, m.file)) && !seen[m.note] {
			seen[m.note] = true
			lines = append(lines, "- "+m.note)
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return "Codebase information:\n" + strings.Join(lines, "\n") + "\n"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
