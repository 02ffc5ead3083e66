package provider

// GitHub Copilot CLI. Persistent session: one process reads turn
// prompts from stdin and streams completions until told to stop.
//
// Vocabulary:
//
//	{"type":"completion","suggestion":"..."}    streaming content
//	{"type":"completion","explanation":"..."}   streaming content
//	{"type":"finish","output":"..."}            terminal content
//	{"type":"error","message":"..."}            provider error
var copilotSpec = Spec{
	Name:    "copilot",
	Command: "copilot",
	Mode:    SessionPersistent,
	BaseArgs: []string{
		"--banner=false",
		"--format", "json",
	},
	Vocab: Vocabulary{
		Partial: map[string][]string{
			"completion": {"suggestion", "explanation", "text"},
		},
		Terminal: map[string][]string{
			"finish": {"output", "content"},
		},
		Errors: map[string][]string{
			"error": {"message", "error"},
		},
	},
}
