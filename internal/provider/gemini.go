package provider

// Gemini CLI. Per-turn spawn with the prompt as a positional argument.
//
// Vocabulary:
//
//	{"type":"content","content":"..."}  streaming content
//	{"type":"result","output":"..."}    terminal content
//	{"type":"error","message":"..."}    provider error
var geminiSpec = Spec{
	Name:    "gemini",
	Command: "gemini",
	Mode:    SessionPerTurn,
	BaseArgs: []string{
		"--output-format", "stream-json",
		"--prompt",
	},
	Vocab: Vocabulary{
		Partial: map[string][]string{
			"content": {"content", "text"},
		},
		Terminal: map[string][]string{
			"result": {"output", "result"},
		},
		Errors: map[string][]string{
			"error": {"message", "error"},
		},
	},
}
