package app

import (
	"RekhtaDownloader/internal/browser"
	"RekhtaDownloader/internal/database"
	"RekhtaDownloader/internal/extractor"
	"RekhtaDownloader/internal/models"
	"RekhtaDownloader/internal/submitter"
	"RekhtaDownloader/pkg/config"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// App is the main application structure holding all dependencies.
type App struct {
	Config *config.Config
	Repo   *database.DBRepository // nil when the report is disabled

	// NewLauncher returns the launcher for one phase's browser session.
	NewLauncher func(maximize bool) (browser.Launcher, error)
}

// New creates an application instance from cfg. The report database is
// opened separately with OpenReport.
func New(cfg *config.Config) *App {
	return &App{
		Config: cfg,
		NewLauncher: func(maximize bool) (browser.Launcher, error) {
			return browser.NewLauncher(cfg.Scraper, maximize)
		},
	}
}

// OpenReport opens the report database if one is configured. Submission
// outcomes are recorded only after it has been opened.
func (a *App) OpenReport() error {
	if a.Repo != nil || a.Config.Report.Database == "" {
		return nil
	}
	repo, err := database.InitDB(a.Config.Report.Database)
	if err != nil {
		return err
	}
	a.Repo = repo
	return nil
}

// Close releases the report database.
func (a *App) Close() {
	if a.Repo != nil {
		a.Repo.Close()
	}
}

// RunExtract walks the catalog in its own maximized browser session and
// returns the collected links. The session is closed before returning.
func (a *App) RunExtract() (*models.LinkSet, error) {
	log.Println("--- Starting Link Extraction Task ---")

	launcher, err := a.NewLauncher(true)
	if err != nil {
		return &models.LinkSet{}, err
	}

	links := &models.LinkSet{}
	err = browser.WithSession(launcher, func(d browser.Driver) error {
		links = extractor.New(d, a.Config.Catalog).Extract(a.Config.Catalog.StartURL)
		return nil
	})
	if err != nil && links.Len() == 0 {
		return links, err
	}
	if err != nil {
		log.Printf("WARN: %v", err)
	}

	log.Printf("Total number of links extracted: %d", links.Len())
	log.Println("Last five extracted book links:")
	for _, l := range links.Last(5) {
		log.Println(l)
	}
	log.Println("--- Link Extraction Task Finished ---")
	return links, nil
}

// RunSubmit feeds links to the downloader in a fresh browser session.
func (a *App) RunSubmit(links []string) (models.RunSummary, []models.SubmissionResult, error) {
	log.Println("--- Starting Download Submission Task ---")

	if models.NewLinkSet(links...).Len() == 0 {
		return models.RunSummary{}, nil, submitter.ErrEmptyInput
	}

	launcher, err := a.NewLauncher(false)
	if err != nil {
		return models.RunSummary{}, nil, err
	}

	runID := uuid.NewString()
	log.Printf("Run ID: %s", runID)

	var results []models.SubmissionResult
	err = browser.WithSession(launcher, func(d browser.Driver) error {
		s := submitter.New(d, a.Config.Downloader)
		s.RunID = runID
		if a.Repo != nil {
			s.Recorder = a.Repo
		}
		var err error
		results, err = s.Submit(links)
		return err
	})

	summary := models.Summarize(runID, results)
	if err != nil && len(results) == 0 {
		return summary, nil, err
	}
	if err != nil {
		log.Printf("WARN: %v", err)
	}

	log.Printf("--- Download Submission Task Finished: %d succeeded, %d failed ---", summary.Succeeded, summary.Failed)
	return summary, results, nil
}

// RunAutomaticWorkflow extracts the catalog and then submits every link.
// The extraction session is released before the submission session starts.
func (a *App) RunAutomaticWorkflow() (models.RunSummary, []models.SubmissionResult, error) {
	log.Println("====== STARTING AUTOMATIC WORKFLOW ======")

	log.Println("--- STEP 1 of 2: Extracting Book Links ---")
	links, err := a.RunExtract()
	if err != nil {
		return models.RunSummary{}, nil, fmt.Errorf("link extraction failed: %w", err)
	}
	if links.Len() == 0 {
		return models.RunSummary{}, nil, fmt.Errorf("book links should not be empty: %w", submitter.ErrEmptyInput)
	}
	log.Printf("Extracted %d links", links.Len())

	log.Println("--- STEP 2 of 2: Submitting Links to the Downloader ---")
	summary, results, err := a.RunSubmit(links.Links())
	if err != nil {
		return summary, results, err
	}

	log.Println("====== AUTOMATIC WORKFLOW FINISHED ======")
	return summary, results, nil
}
