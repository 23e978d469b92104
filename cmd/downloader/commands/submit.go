package commands

import (
	"RekhtaDownloader/internal/app"
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var linksPath *string

func init() {
	linksPath = submitCmd.Flags().String("links", "", "File with one link per line. Use - for stdin.")
	rootCmd.AddCommand(submitCmd)
}

var submitCmd = &cobra.Command{
	Use:   "submit [--links <file>] [link...]",
	Short: "Submits the given links to the downloader, retrying each one independently.",
	RunE: func(cmd *cobra.Command, args []string) error {
		links := append([]string{}, args...)
		if *linksPath != "" {
			fromFile, err := readLinksFile(*linksPath)
			if err != nil {
				return err
			}
			links = append(links, fromFile...)
		}

		application := newApp(true)
		defer application.Close()

		summary, results, err := application.RunSubmit(links)
		if err != nil {
			return err
		}
		app.PrintSummary(cmd.OutOrStdout(), summary, results)
		return nil
	},
}

func readLinksFile(path string) ([]string, error) {
	if path == "-" {
		return readLinks(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open links file: %w", err)
	}
	defer f.Close()
	return readLinks(f)
}

// readLinks returns the non-blank lines of r that are not # comments.
func readLinks(r io.Reader) ([]string, error) {
	var links []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read links: %w", err)
	}
	return links, nil
}
