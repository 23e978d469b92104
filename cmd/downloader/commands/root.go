package commands

import (
	"RekhtaDownloader/internal/app"
	"RekhtaDownloader/pkg/config"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath *string

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.yml", "Path to the YAML config file. Defaults are used when it does not exist.")
}

var rootCmd = &cobra.Command{
	Use:   "downloader",
	Short: "downloader collects e-book links from the Rekhta catalog and submits them to rekhtadownload.com.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp loads the config and builds the application, ending the process
// on failure. The report database is opened only when withReport is set.
func newApp(withReport bool) *app.App {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	application := app.New(cfg)
	if withReport {
		if err := application.OpenReport(); err != nil {
			log.Fatalf("Failed to open report database: %v", err)
		}
	}
	return application
}
