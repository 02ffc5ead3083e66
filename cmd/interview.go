package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wrenlabs/specwright/internal/config"
	"github.com/wrenlabs/specwright/internal/errs"
	"github.com/wrenlabs/specwright/internal/interview"
	"github.com/wrenlabs/specwright/internal/prdgen"
	"github.com/wrenlabs/specwright/internal/provider"
	"github.com/wrenlabs/specwright/internal/recovery"
	"github.com/wrenlabs/specwright/internal/scan"
	"github.com/wrenlabs/specwright/internal/session"
	"github.com/wrenlabs/specwright/internal/ui"
)

var (
	interviewProvider        string
	interviewFirstPrinciples bool
	interviewContextFiles    []string
	interviewJSON            bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview \"feature description\"",
	Short: "Run a feature-specification interview",
	Long: `Run a turn-based interview with an AI provider that asks clarifying
questions about a feature and produces a PRD when it has enough detail.

The interview checkpoints after every exchange; an interrupted run can
be continued with 'specwright resume'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(".")
		if err != nil {
			return err
		}
		if interviewProvider != "" {
			settings.Provider = interviewProvider
		}
		if interviewFirstPrinciples {
			settings.FirstPrinciples = true
		}

		contextFiles, err := readContextFiles(interviewContextFiles)
		if err != nil {
			return err
		}

		o, display, err := buildInterview(settings, args[0], contextFiles)
		if err != nil {
			return err
		}
		defer o.Cleanup()

		ctx := cmd.Context()
		display.Info(fmt.Sprintf("Interviewing with %s...", settings.Provider))
		display.StartSpinner("thinking")
		result, err := o.Initialize(ctx)
		display.StopSpinner()
		if err != nil {
			display.Error(errs.UserMessage(err))
			return err
		}

		return runInterviewLoop(ctx, settings, o, display, result)
	},
}

func init() {
	interviewCmd.Flags().StringVarP(&interviewProvider, "provider", "p", "", "AI provider to interview with (claude, copilot, codex, gemini, cursor)")
	interviewCmd.Flags().BoolVar(&interviewFirstPrinciples, "first-principles", false, "push the interview to question assumptions")
	interviewCmd.Flags().StringSliceVarP(&interviewContextFiles, "context", "c", nil, "files to include in the interview context")
	interviewCmd.Flags().BoolVar(&interviewJSON, "json", false, "also write the PRD payload as JSON")
	rootCmd.AddCommand(interviewCmd)
}

// buildInterview wires the provider process, checkpoint store, and
// orchestrator from the resolved settings.
func buildInterview(settings config.Settings, feature string, contextFiles []interview.ContextFile) (*interview.Orchestrator, *ui.Display, error) {
	display := ui.NewDisplay(os.Stdout, os.Stdin)

	cfg := provider.Config{ReceiveTimeout: settings.ReceiveTimeout}
	if raw := config.LoadProviderConfig(".", settings.Provider); raw != nil {
		cfg.Args = raw.Args
		cfg.Env = raw.Env
	}

	registry := provider.NewRegistry()
	proc, err := registry.New(settings.Provider, cfg)
	if err != nil {
		return nil, nil, err
	}
	if !proc.IsAvailable() {
		return nil, nil, fmt.Errorf("provider %s is not installed", settings.Provider)
	}

	store := session.NewStore(settings.OutputDir)
	retry := recovery.DefaultRetryOptions()
	retry.MaxAttempts = settings.MaxRetries
	retry.Logger = os.Stderr

	o := interview.New(interview.Config{
		Feature:         feature,
		Provider:        settings.Provider,
		FirstPrinciples: settings.FirstPrinciples,
		CodebaseSummary: scan.Summarize("."),
		ContextFiles:    contextFiles,
		Retry:           retry,
		Logger:          os.Stderr,
	}, proc, store)

	return o, display, nil
}

// runInterviewLoop drives question/answer turns until the provider
// signals completion, then writes the PRD and records the interview.
func runInterviewLoop(ctx context.Context, settings config.Settings, o *interview.Orchestrator, display *ui.Display, result *interview.TurnResult) error {
	for !result.Completed {
		if result.Question != nil {
			display.Print("")
			display.Print(ui.RenderQuestion(*result.Question))
		} else {
			display.Print("")
			display.Print(result.Text)
		}

		input, err := display.ReadLine("\n> ")
		if err != nil {
			return err
		}
		answer := input
		if result.Question != nil {
			answer = ui.ResolveAnswer(*result.Question, input)
		}
		if answer == "" {
			continue
		}

		display.StartSpinner("thinking")
		result, err = o.SendUserResponse(ctx, answer)
		display.StopSpinner()
		if err != nil {
			display.Error(errs.UserMessage(err))
			return err
		}
	}

	completion, err := o.Complete()
	if err != nil {
		display.Error(errs.UserMessage(err))
		return err
	}

	state := o.State()
	path, err := prdgen.Write(settings.OutputDir, state.Feature, *completion)
	if err != nil {
		return err
	}
	display.Print("")
	display.Success(fmt.Sprintf("PRD written to %s", path))

	if interviewJSON {
		jsonPath, err := prdgen.WriteJSON(settings.OutputDir, *completion)
		if err != nil {
			return err
		}
		display.Success(fmt.Sprintf("PRD payload written to %s", jsonPath))
	}

	recordHistory(settings, state)
	return nil
}

// recordHistory logs the finished interview; failures are not fatal.
func recordHistory(settings config.Settings, state session.State) {
	store, err := session.OpenHistory(filepath.Join(settings.OutputDir, "history.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "history not recorded: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.RecordInterview(state); err != nil {
		fmt.Fprintf(os.Stderr, "history not recorded: %v\n", err)
		return
	}
	for _, entry := range state.History {
		if err := store.RecordTurn(state.ID, entry.Question, entry.Answer); err != nil {
			fmt.Fprintf(os.Stderr, "history turn not recorded: %v\n", err)
			return
		}
	}
}

func readContextFiles(paths []string) ([]interview.ContextFile, error) {
	var files []interview.ContextFile
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
		files = append(files, interview.ContextFile{Path: path, Content: string(data)})
	}
	return files, nil
}
