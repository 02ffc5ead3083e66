package provider

// Cursor agent CLI. Per-turn spawn with the prompt as a positional
// argument.
//
// Vocabulary:
//
//	{"type":"message","message":"..."}  streaming content
//	{"type":"result","result":"..."}    terminal content
//	{"type":"error","message":"..."}    provider error
var cursorSpec = Spec{
	Name:    "cursor",
	Command: "cursor-agent",
	Mode:    SessionPerTurn,
	BaseArgs: []string{
		"--print",
		"--output-format", "stream-json",
	},
	Vocab: Vocabulary{
		Partial: map[string][]string{
			"message": {"message", "text"},
		},
		Terminal: map[string][]string{
			"result": {"result", "content"},
		},
		Errors: map[string][]string{
			"error": {"message", "error"},
		},
	},
}
