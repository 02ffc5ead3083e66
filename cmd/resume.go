package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wrenlabs/specwright/internal/config"
	"github.com/wrenlabs/specwright/internal/errs"
	"github.com/wrenlabs/specwright/internal/session"
)

var resumeProvider string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an interrupted interview from its checkpoint",
	Long: `Resume the interview saved in the checkpoint file. The provider gets a
fresh conversation seeded with the recorded exchanges, so questioning
continues where the interrupted run stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(".")
		if err != nil {
			return err
		}

		saved, ok, err := session.NewStore(settings.OutputDir).Load()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no checkpoint found in %s; start with 'specwright interview'", settings.OutputDir)
		}

		// The checkpoint pins the provider unless overridden.
		settings.Provider = saved.Provider
		if resumeProvider != "" {
			settings.Provider = resumeProvider
		}

		o, display, err := buildInterview(settings, saved.Feature, nil)
		if err != nil {
			return err
		}
		defer o.Cleanup()

		ctx := cmd.Context()
		display.Info(fmt.Sprintf("Resuming %q (%d exchanges so far) with %s...", saved.Feature, len(saved.History), settings.Provider))
		display.StartSpinner("thinking")
		result, err := o.Resume(ctx, saved)
		display.StopSpinner()
		if err != nil {
			display.Error(errs.UserMessage(err))
			return err
		}

		return runInterviewLoop(ctx, settings, o, display, result)
	},
}

func init() {
	resumeCmd.Flags().StringVarP(&resumeProvider, "provider", "p", "", "override the checkpoint's provider")
	rootCmd.AddCommand(resumeCmd)
}
