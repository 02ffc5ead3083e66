package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wrenlabs/specwright/internal/provider"
	"github.com/wrenlabs/specwright/internal/ui"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers and their availability",
	Long:  `List the supported AI CLI providers, whether each is installed, and its version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := provider.NewRegistry()

		fmt.Println(ui.StyleTitle.Render("Providers"))
		fmt.Println()

		for _, name := range registry.Names() {
			proc, err := registry.New(name, provider.Config{})
			if err != nil {
				return err
			}

			if !proc.IsAvailable() {
				fmt.Printf("  %s %-9s %s\n", ui.StyleError.Render("✗"), name, ui.StyleMuted.Render("not installed"))
				continue
			}

			version, ok := proc.Version()
			if !ok {
				version = "version unknown"
			}
			fmt.Printf("  %s %-9s %s\n", ui.StyleSuccess.Render("✓"), name, ui.StyleMuted.Render(version))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
