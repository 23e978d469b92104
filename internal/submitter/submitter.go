package submitter

import (
	"errors"
	"fmt"
	"log"
	"time"

	"RekhtaDownloader/internal/browser"
	"RekhtaDownloader/internal/models"
	"RekhtaDownloader/pkg/config"
)

// ErrEmptyInput is returned when there is nothing to submit.
var ErrEmptyInput = errors.New("no links available to download")

// Recorder receives the result of every link once its retry loop ends.
type Recorder interface {
	SaveOutcome(result models.SubmissionResult) error
}

// Submitter feeds links, one at a time, into the downloader form.
type Submitter struct {
	Driver   browser.Driver
	Conf     config.DownloaderConfig
	RunID    string
	Recorder Recorder // optional

	// Sleep is called between failed attempts of the same link.
	Sleep func(time.Duration)
	Now   func() time.Time
}

func New(driver browser.Driver, conf config.DownloaderConfig) *Submitter {
	return &Submitter{
		Driver: driver,
		Conf:   conf,
		Sleep:  time.Sleep,
		Now:    time.Now,
	}
}

// Submit processes every distinct link in order and returns one result per
// link. A failing link never stops the batch.
func (s *Submitter) Submit(links []string) ([]models.SubmissionResult, error) {
	unique := models.NewLinkSet(links...).Links()
	if len(unique) == 0 {
		return nil, ErrEmptyInput
	}

	log.Println("Starting book download process...")
	log.Printf("Number of unique links to process: %d", len(unique))

	results := make([]models.SubmissionResult, 0, len(unique))
	for i, link := range unique {
		log.Printf("Processing link [%d/%d]: %s", i+1, len(unique), link)
		res := s.submitLink(link)
		if s.Recorder != nil {
			if err := s.Recorder.SaveOutcome(res); err != nil {
				log.Printf("WARN: could not record outcome for %s: %v", link, err)
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// submitLink runs the retry loop for one link. Its state starts fresh for
// every link.
func (s *Submitter) submitLink(link string) models.SubmissionResult {
	attempt := models.SubmissionAttempt{URL: link, Outcome: models.OutcomePending}
	maxAttempts := s.Conf.MaxAttempts
	var lastErr error

	for n := 1; n <= maxAttempts; n++ {
		attempt.Number = n
		err := s.attempt(link)
		if err == nil {
			attempt.Outcome = models.OutcomeSuccess
			break
		}
		lastErr = err
		log.Printf("Attempt %d: Error processing link %s. Error: %v", n, link, err)
		if n < maxAttempts {
			s.Sleep(s.Conf.RetryDelay)
		}
	}

	res := models.SubmissionResult{
		RunID:      s.RunID,
		URL:        link,
		Attempts:   attempt.Number,
		FinishedAt: s.Now(),
	}
	if attempt.Outcome == models.OutcomeSuccess {
		res.Outcome = models.OutcomeSuccess
		log.Printf("Download started for %s after %d attempt(s).", link, attempt.Number)
		return res
	}

	res.Outcome = models.OutcomeFailed
	if lastErr != nil {
		res.LastError = lastErr.Error()
	}
	log.Printf("Failed to process link after %d attempts: %s", attempt.Number, link)
	return res
}

// attempt drives the form once. Success means the "download another"
// control became visible; the downloaded file itself is never inspected.
func (s *Submitter) attempt(link string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser panic: %v", r)
		}
	}()

	d := s.Driver
	if err := d.Navigate(s.Conf.EntryURL); err != nil {
		return err
	}

	inputBy := browser.CSS(s.Conf.InputSelector)
	if err := d.WaitUntil(s.Conf.WaitTimeout, browser.Displayed(d, inputBy)); err != nil {
		return fmt.Errorf("waiting for link input: %w", err)
	}
	input, err := d.FindElement(inputBy)
	if err != nil {
		return err
	}
	if err := input.Clear(); err != nil {
		return fmt.Errorf("clearing link input: %w", err)
	}
	if err := input.SendKeys(link); err != nil {
		return fmt.Errorf("typing link: %w", err)
	}
	log.Printf("Entered link: %s", link)

	button, err := d.FindElement(browser.XPath(s.Conf.SubmitXPath))
	if err != nil {
		return fmt.Errorf("locating download button: %w", err)
	}
	if err := d.ExecuteScript(browser.ClickScript, button); err != nil {
		return fmt.Errorf("clicking download button: %w", err)
	}

	success := browser.LinkText(s.Conf.SuccessLinkText)
	if err := d.WaitUntil(s.Conf.WaitTimeout, browser.Displayed(d, success)); err != nil {
		return fmt.Errorf("waiting for %q: %w", s.Conf.SuccessLinkText, err)
	}
	return nil
}
