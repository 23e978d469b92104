// Package browsertest provides in-memory browser.Driver fakes: a paginated
// catalog and a single-field downloader form.
package browsertest

import (
	"errors"
	"fmt"
	"time"

	"RekhtaDownloader/internal/browser"
)

// PollInterval is used by the fakes' WaitUntil.
const PollInterval = time.Millisecond

// ErrStale is a ready-made staleness error.
var ErrStale = fmt.Errorf("%w: node detached", browser.ErrStale)

// Element is a scripted browser.Element.
type Element struct {
	Markup string
	Hidden bool
	// StaleReads makes the next n HTML or Displayed calls fail as stale.
	StaleReads int
	// Err is returned by HTML when set.
	Err error

	Value   string
	Clears  int
	OnClick func() error
}

// Card builds an item card whose anchors point at hrefs.
func Card(hrefs ...string) *Element {
	markup := `<div class="ebookCard">`
	for _, h := range hrefs {
		markup += fmt.Sprintf(`<a href="%s">%s</a>`, h, h)
	}
	return &Element{Markup: markup + `</div>`}
}

func (e *Element) stale() bool {
	if e.StaleReads > 0 {
		e.StaleReads--
		return true
	}
	return false
}

func (e *Element) HTML() (string, error) {
	if e.stale() {
		return "", ErrStale
	}
	return e.Markup, e.Err
}

func (e *Element) Displayed() (bool, error) {
	if e.stale() {
		return false, ErrStale
	}
	return !e.Hidden, nil
}

func (e *Element) Clear() error {
	e.Value = ""
	e.Clears++
	return nil
}

func (e *Element) SendKeys(text string) error {
	e.Value += text
	return nil
}

// ScriptCall records one ExecuteScript invocation.
type ScriptCall struct {
	Script  string
	Element *Element
}

// runScript applies the effect of the element-bound scripts the core uses.
func runScript(script string, el browser.Element) error {
	fe, ok := el.(*Element)
	if !ok {
		return errors.New("foreign element")
	}
	if script == browser.ClickScript && fe.OnClick != nil {
		return fe.OnClick()
	}
	return nil
}
