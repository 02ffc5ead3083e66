package provider

// Claude Code CLI. Persistent session: one process stays alive for the
// whole interview and reads turn prompts from stdin.
//
// Stream-json vocabulary:
//
//	{"type":"assistant","text":"..."}   streaming content
//	{"type":"result","result":"..."}    terminal content for the turn
//	{"type":"error","message":"..."}    provider error
var claudeSpec = Spec{
	Name:    "claude",
	Command: "claude",
	Mode:    SessionPersistent,
	BaseArgs: []string{
		"-p",
		"--verbose",
		"--output-format", "stream-json",
	},
	Vocab: Vocabulary{
		Partial: map[string][]string{
			"assistant": {"text", "content", "message"},
		},
		Terminal: map[string][]string{
			"result": {"result"},
		},
		Errors: map[string][]string{
			"error": {"message", "error"},
		},
	},
}
