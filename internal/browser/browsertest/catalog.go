package browsertest

import (
	"time"

	"RekhtaDownloader/internal/browser"
)

// CatalogPage is one rendered page of the fake catalog.
type CatalogPage struct {
	Cards []*Element
	// NoNext removes the next-page control from this page.
	NoNext bool
	// NextHidden renders the control but never displays it.
	NextHidden bool
}

// Catalog is a paginated listing. Clicking the next-page control renders
// the following page.
type Catalog struct {
	BaseURL     string
	CardClass   string
	NextClass   string
	LoaderClass string
	Pages       []CatalogPage

	// LoaderStuck keeps the full-page loader displayed forever.
	LoaderStuck bool
	// StaleClicks makes the next n clicks on the next-page control fail
	// as stale.
	StaleClicks int
	NavigateErr error

	Navigated  []string
	Scripts    []ScriptCall
	NextClicks int
	Closed     bool

	current int
}

func (c *Catalog) Page() int { return c.current }

func (c *Catalog) Navigate(url string) error {
	c.Navigated = append(c.Navigated, url)
	if c.NavigateErr != nil {
		return c.NavigateErr
	}
	c.current = 0
	return nil
}

func (c *Catalog) URL() (string, error) {
	return c.BaseURL, nil
}

func (c *Catalog) FindElements(by browser.By) ([]browser.Element, error) {
	if c.current >= len(c.Pages) {
		return nil, nil
	}
	page := c.Pages[c.current]

	switch by.Value {
	case c.CardClass:
		out := make([]browser.Element, len(page.Cards))
		for i, card := range page.Cards {
			out[i] = card
		}
		return out, nil
	case c.NextClass:
		if page.NoNext {
			return nil, nil
		}
		return []browser.Element{c.nextControl(page.NextHidden)}, nil
	case c.LoaderClass:
		if c.LoaderStuck {
			return []browser.Element{&Element{Markup: `<div class="pageLoader"></div>`}}, nil
		}
		return []browser.Element{&Element{Hidden: true}}, nil
	}
	return nil, nil
}

func (c *Catalog) nextControl(hidden bool) *Element {
	return &Element{
		Markup: `<a class="pgNext">Next</a>`,
		Hidden: hidden,
		OnClick: func() error {
			if c.StaleClicks > 0 {
				c.StaleClicks--
				return ErrStale
			}
			c.NextClicks++
			c.current++
			return nil
		},
	}
}

func (c *Catalog) FindElement(by browser.By) (browser.Element, error) {
	els, err := c.FindElements(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, browser.ErrNotFound
	}
	return els[0], nil
}

func (c *Catalog) WaitUntil(timeout time.Duration, cond browser.Condition) error {
	return browser.Poll(timeout, PollInterval, cond)
}

func (c *Catalog) ExecuteScript(script string, el browser.Element) error {
	fe, _ := el.(*Element)
	c.Scripts = append(c.Scripts, ScriptCall{Script: script, Element: fe})
	return runScript(script, el)
}

func (c *Catalog) Close() error {
	c.Closed = true
	return nil
}
