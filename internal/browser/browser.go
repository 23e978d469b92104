package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error taxonomy shared by every Driver implementation. Adapters wrap the
// engine's own error so callers can classify with errors.Is.
var (
	ErrNotFound = errors.New("element not found")
	ErrStale    = errors.New("stale element reference")
	ErrTimeout  = errors.New("wait timed out")
)

// Element-bound scripts. The element is passed as the first argument.
const (
	ScrollIntoViewScript = "el => el.scrollIntoView(true)"
	ClickScript          = "el => el.click()"
)

// Strategy is the lookup method of a By locator.
type Strategy int

const (
	ByClassName Strategy = iota
	ByTagName
	ByCSS
	ByLinkText
	ByXPath
)

// By locates elements on the current page.
type By struct {
	Strategy Strategy
	Value    string
}

func ClassName(v string) By { return By{Strategy: ByClassName, Value: v} }
func TagName(v string) By   { return By{Strategy: ByTagName, Value: v} }
func CSS(v string) By       { return By{Strategy: ByCSS, Value: v} }
func LinkText(v string) By  { return By{Strategy: ByLinkText, Value: v} }
func XPath(v string) By     { return By{Strategy: ByXPath, Value: v} }

func (b By) String() string {
	switch b.Strategy {
	case ByClassName:
		return "class=" + b.Value
	case ByTagName:
		return "tag=" + b.Value
	case ByLinkText:
		return "link=" + b.Value
	case ByXPath:
		return "xpath=" + b.Value
	default:
		return "css=" + b.Value
	}
}

// selector returns the CSS form of class, tag and css locators.
func (b By) selector() string {
	switch b.Strategy {
	case ByClassName:
		return "." + b.Value
	default:
		return b.Value
	}
}

// Condition is polled by WaitUntil. Returning an error wrapping ErrNotFound
// means "not yet"; any other error ends the wait.
type Condition func() (bool, error)

// Element is a handle to a node of the current page. Any method may return
// an error wrapping ErrStale once the page has re-rendered the node.
type Element interface {
	// HTML returns the element's outer HTML.
	HTML() (string, error)
	Displayed() (bool, error)
	Clear() error
	SendKeys(text string) error
}

// Driver is the browser automation surface the extractor and the submitter
// are written against. A Driver is used by one flow at a time.
type Driver interface {
	Navigate(url string) error
	// URL returns the address of the currently rendered document.
	URL() (string, error)
	FindElement(by By) (Element, error)
	FindElements(by By) ([]Element, error)
	WaitUntil(timeout time.Duration, cond Condition) error
	// ExecuteScript runs an element-bound script such as ClickScript.
	ExecuteScript(script string, el Element) error
	Close() error
}

func notFound(by By) error {
	return fmt.Errorf("%w: %s", ErrNotFound, by)
}

// staleMarkers are the engine messages reported when a handle outlives the
// node it pointed to.
var staleMarkers = []string{
	"could not find object with given id",
	"could not find node with given id",
	"no node with given id found",
	"cannot find context with specified id",
	"execution context was destroyed",
	"node is detached from document",
	"not attached to the dom",
	"has been disposed",
}

func isStaleMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range staleMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
