package browsertest

import (
	"errors"
	"time"

	"RekhtaDownloader/internal/browser"
)

// ErrNoConfirmation, when returned by Downloader.Fail, makes the click
// succeed but the success control never appear.
var ErrNoConfirmation = errors.New("download never confirmed")

// Downloader is a single-field form. Every navigation to it renders a fresh
// empty input.
type Downloader struct {
	InputSelector   string
	SubmitXPath     string
	SuccessLinkText string

	// Fail decides the fate of the attempt-th submission of link.
	Fail        func(link string, attempt int) error
	NavigateErr error

	Navigated []string
	Attempts  map[string]int
	// Order lists every submission in the order it happened.
	Order  []string
	Closed bool

	input     *Element
	confirmed bool
}

func (d *Downloader) Navigate(url string) error {
	d.Navigated = append(d.Navigated, url)
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.input = &Element{Markup: `<input type="text">`}
	d.confirmed = false
	return nil
}

func (d *Downloader) URL() (string, error) {
	if len(d.Navigated) == 0 {
		return "about:blank", nil
	}
	return d.Navigated[len(d.Navigated)-1], nil
}

// Input returns the input rendered by the last navigation.
func (d *Downloader) Input() *Element { return d.input }

func (d *Downloader) FindElements(by browser.By) ([]browser.Element, error) {
	if d.input == nil {
		return nil, nil
	}
	switch {
	case by.Strategy == browser.ByCSS && by.Value == d.InputSelector:
		return []browser.Element{d.input}, nil
	case by.Strategy == browser.ByXPath && by.Value == d.SubmitXPath:
		return []browser.Element{&Element{Markup: `<button>Download</button>`, OnClick: d.submit}}, nil
	case by.Strategy == browser.ByLinkText && by.Value == d.SuccessLinkText:
		if d.confirmed {
			return []browser.Element{&Element{Markup: `<a>` + d.SuccessLinkText + `</a>`}}, nil
		}
	}
	return nil, nil
}

func (d *Downloader) submit() error {
	link := d.input.Value
	if d.Attempts == nil {
		d.Attempts = make(map[string]int)
	}
	d.Attempts[link]++
	d.Order = append(d.Order, link)

	var err error
	if d.Fail != nil {
		err = d.Fail(link, d.Attempts[link])
	}
	switch {
	case err == nil:
		d.confirmed = true
		return nil
	case errors.Is(err, ErrNoConfirmation):
		return nil
	default:
		return err
	}
}

func (d *Downloader) FindElement(by browser.By) (browser.Element, error) {
	els, err := d.FindElements(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, browser.ErrNotFound
	}
	return els[0], nil
}

func (d *Downloader) WaitUntil(timeout time.Duration, cond browser.Condition) error {
	return browser.Poll(timeout, PollInterval, cond)
}

func (d *Downloader) ExecuteScript(script string, el browser.Element) error {
	return runScript(script, el)
}

func (d *Downloader) Close() error {
	d.Closed = true
	return nil
}
