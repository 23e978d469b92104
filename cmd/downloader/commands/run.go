package commands

import (
	"RekhtaDownloader/internal/app"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extracts every catalog link and then submits them all to the downloader.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application := newApp(true)
		defer application.Close()

		summary, results, err := application.RunAutomaticWorkflow()
		if err != nil {
			return err
		}
		app.PrintSummary(cmd.OutOrStdout(), summary, results)
		return nil
	},
}
