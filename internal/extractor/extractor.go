package extractor

import (
	"errors"
	"fmt"
	"log"

	"RekhtaDownloader/internal/browser"
	"RekhtaDownloader/internal/models"
	"RekhtaDownloader/pkg/config"
	"RekhtaDownloader/utils"
)

// PageState tells the pagination loop what to do after a page is harvested.
type PageState int

const (
	HasNext PageState = iota
	Done
	Failed
)

func (s PageState) String() string {
	switch s {
	case HasNext:
		return "has-next"
	case Done:
		return "done"
	default:
		return "failed"
	}
}

// Probe is the outcome of looking for the next-page control. Control is set
// only for HasNext, Err only for Failed.
type Probe struct {
	State   PageState
	Control browser.Element
	Err     error
}

// Extractor walks the paginated catalog and collects detail-page links.
type Extractor struct {
	Driver browser.Driver
	Conf   config.CatalogConfig
}

func New(driver browser.Driver, conf config.CatalogConfig) *Extractor {
	return &Extractor{Driver: driver, Conf: conf}
}

// Extract collects the second anchor of every item card on every page,
// starting at startURL. It never fails: on any error it cannot absorb it
// logs and returns what was collected so far.
func (e *Extractor) Extract(startURL string) *models.LinkSet {
	links := &models.LinkSet{}

	log.Printf("Navigating to catalog: %s", startURL)
	if err := e.Driver.Navigate(startURL); err != nil {
		log.Printf("Error occurred while opening catalog: %v", err)
		return links
	}

	for page := 1; ; page++ {
		added, err := e.harvestPage(links)
		if err != nil {
			log.Printf("Error occurred while extracting links on page %d: %v", page, err)
			return links
		}
		log.Printf("Page %d: found %d new links. Total collected: %d", page, added, links.Len())

		if e.Conf.MaxPages > 0 && page >= e.Conf.MaxPages {
			log.Printf("Reached page limit of %d. Stopping pagination.", e.Conf.MaxPages)
			return links
		}

		probe := e.ProbeNext()
		switch probe.State {
		case Done:
			log.Println("No next-page control found. Pagination complete.")
			return links
		case Failed:
			log.Printf("Error occurred while looking for the next page: %v", probe.Err)
			return links
		}

		if err := e.advance(probe.Control); err != nil {
			log.Printf("Error occurred while moving to page %d: %v", page+1, err)
			return links
		}
	}
}

// harvestPage adds the links of the currently rendered page and reports how
// many were new. Cards are looked up fresh on every call.
func (e *Extractor) harvestPage(links *models.LinkSet) (int, error) {
	d := e.Driver
	cardsBy := browser.ClassName(e.Conf.CardClass)

	if err := d.WaitUntil(e.Conf.WaitTimeout, browser.Present(d, cardsBy)); err != nil {
		return 0, fmt.Errorf("waiting for item cards: %w", err)
	}
	cards, err := d.FindElements(cardsBy)
	if err != nil {
		return 0, fmt.Errorf("reading item cards: %w", err)
	}
	base, err := d.URL()
	if err != nil {
		return 0, fmt.Errorf("reading page url: %w", err)
	}

	added, stale := 0, 0
	for _, card := range cards {
		link, err := cardLink(card, base)
		if errors.Is(err, browser.ErrStale) {
			stale++
			continue
		}
		if err != nil {
			return added, err
		}
		if links.Add(link) {
			added++
		}
	}
	if stale > 0 {
		log.Printf("Skipped %d stale cards.", stale)
	}
	return added, nil
}

// cardLink returns the card's second anchor href, or "" when the card has
// fewer than two anchors.
func cardLink(card browser.Element, base string) (string, error) {
	markup, err := card.HTML()
	if err != nil {
		return "", err
	}
	hrefs, err := utils.AnchorHrefs(markup, base)
	if err != nil {
		return "", err
	}
	if len(hrefs) < 2 {
		return "", nil
	}
	return hrefs[1], nil
}

// ProbeNext waits for the page loader to go away and then for a displayed
// next-page control. A control that never shows up within the catalog wait
// timeout ends pagination normally.
func (e *Extractor) ProbeNext() Probe {
	d := e.Driver
	if e.Conf.LoaderClass != "" {
		if err := d.WaitUntil(e.Conf.WaitTimeout, browser.Hidden(d, browser.ClassName(e.Conf.LoaderClass))); err != nil {
			return Probe{State: Failed, Err: fmt.Errorf("waiting for page loader: %w", err)}
		}
	}
	return e.locateNext()
}

func (e *Extractor) locateNext() Probe {
	d := e.Driver
	nextBy := browser.ClassName(e.Conf.NextClass)

	var control browser.Element
	err := d.WaitUntil(e.Conf.WaitTimeout, func() (bool, error) {
		el, err := d.FindElement(nextBy)
		if err != nil {
			return false, err
		}
		visible, err := el.Displayed()
		if errors.Is(err, browser.ErrStale) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if visible {
			control = el
		}
		return visible, nil
	})

	switch {
	case err == nil:
		return Probe{State: HasNext, Control: control}
	case errors.Is(err, browser.ErrTimeout):
		return Probe{State: Done}
	default:
		return Probe{State: Failed, Err: err}
	}
}

// advance clicks the next-page control. If the control went stale it is
// located once more and clicked exactly one more time.
func (e *Extractor) advance(control browser.Element) error {
	err := e.click(control)
	if !errors.Is(err, browser.ErrStale) {
		return err
	}

	log.Println("Next-page control went stale, locating it again...")
	probe := e.locateNext()
	switch probe.State {
	case HasNext:
		return e.click(probe.Control)
	case Done:
		return fmt.Errorf("next-page control disappeared after going stale: %w", err)
	default:
		return probe.Err
	}
}

// click scrolls the element into view and clicks it from script.
func (e *Extractor) click(el browser.Element) error {
	if err := e.Driver.ExecuteScript(browser.ScrollIntoViewScript, el); err != nil {
		return err
	}
	return e.Driver.ExecuteScript(browser.ClickScript, el)
}
