package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startURL *string

func init() {
	startURL = extractCmd.Flags().String("start-url", "", "Catalog page to start from. Overrides catalog.start_url.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [--start-url <url>]",
	Short: "Walks the paginated catalog and prints every detail-page link, one per line.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application := newApp(false)
		defer application.Close()

		if *startURL != "" {
			application.Config.Catalog.StartURL = *startURL
		}

		links, err := application.RunExtract()
		if err != nil {
			return err
		}
		for _, l := range links.Links() {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}
