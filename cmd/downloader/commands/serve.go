package commands

import (
	"RekhtaDownloader/internal/server"
	"errors"

	"github.com/spf13/cobra"
)

var serveAddr *string

func init() {
	serveAddr = serveCmd.Flags().String("addr", "", "Listen address. Overrides server.addr.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--addr <host:port>]",
	Short: "Serves the stored submission outcomes as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application := newApp(true)
		defer application.Close()

		if application.Repo == nil {
			return errors.New("report.database is empty, nothing to serve")
		}
		if *serveAddr != "" {
			application.Config.Server.Addr = *serveAddr
		}
		return server.Start(application.Repo, application.Config)
	},
}
