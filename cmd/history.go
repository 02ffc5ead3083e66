package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wrenlabs/specwright/internal/config"
	"github.com/wrenlabs/specwright/internal/session"
	"github.com/wrenlabs/specwright/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past interviews",
	Long:  `List interviews recorded in the history database, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(".")
		if err != nil {
			return err
		}

		store, err := session.OpenHistory(filepath.Join(settings.OutputDir, "history.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No interviews recorded yet.")
			return nil
		}

		fmt.Println(ui.StyleTitle.Render("Interviews"))
		fmt.Println()
		for _, rec := range records {
			fmt.Printf("  %s  %s\n", rec.UpdatedAt.Format("2006-01-02 15:04"), ui.StyleBold.Render(rec.Feature))
			fmt.Printf("    %s\n", ui.StyleMuted.Render(fmt.Sprintf("%s · %s · %d turns", rec.Provider, rec.Phase, rec.Turns)))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum interviews to list")
	rootCmd.AddCommand(historyCmd)
}
