package commands

import (
	"visacheck/internal/browser"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [browsers...]",
	Short: "Installs the playwright driver and browsers (chromium if none are given).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return browser.Install(cmd.Context(), args...)
	},
}
