package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "specwright",
	Short: "Specwright - AI-driven feature specification interviews",
	Long: `Specwright turns a one-line feature idea into a full PRD by running
a structured interview against an AI coding CLI.

Workflow:
  specwright providers                 See which AI CLIs are installed
  specwright interview "feature desc"  Run the specification interview
  specwright resume                    Continue an interrupted interview
  specwright history                   Review past interviews

Commands:
  interview   Run a feature-specification interview
  resume      Resume an interrupted interview from its checkpoint
  providers   List supported providers and their availability
  history     List past interviews
  version     Show version info`,
}

// Execute runs the root command
func Execute() {
	// Provider CLIs read API keys from the environment; a .env in the
	// project root is picked up if present.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
