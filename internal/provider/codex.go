package provider

// OpenAI Codex CLI. Per-turn spawn: every turn runs `codex exec --json`
// with the prompt as the final argument; the process exits when the
// turn is done.
//
// JSONL vocabulary:
//
//	{"type":"item.completed","item":{"text":"..."}}   streaming content
//	{"type":"turn.completed","message":"..."}          terminal content
//	{"type":"turn.failed","error":{"message":"..."}}   provider error
//	{"type":"error","message":"..."}                   provider error
var codexSpec = Spec{
	Name:    "codex",
	Command: "codex",
	Mode:    SessionPerTurn,
	BaseArgs: []string{
		"exec",
		"--json",
	},
	Vocab: Vocabulary{
		Partial: map[string][]string{
			"item.completed": {"item.text", "text"},
		},
		Terminal: map[string][]string{
			"turn.completed": {"message", "output"},
		},
		Errors: map[string][]string{
			"turn.failed": {"error.message", "message"},
			"error":       {"error.message", "message"},
		},
	},
}
