package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"RekhtaDownloader/utils"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodLauncher starts a local Chrome through go-rod.
type RodLauncher struct {
	Options Options
}

func (l RodLauncher) Launch() (Driver, error) {
	utils.LogHostResources()

	chrome := launcher.New().Headless(l.Options.Headless)
	u, err := chrome.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}
	browser, err := connect(u, chrome.Kill)
	if err != nil {
		return nil, err
	}

	var page *rod.Page
	if l.Options.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if l.Options.DownloadDir != "" {
		dir, err := filepath.Abs(l.Options.DownloadDir)
		if err != nil {
			_ = browser.Close()
			return nil, fmt.Errorf("invalid download dir %q: %w", l.Options.DownloadDir, err)
		}
		err = proto.BrowserSetDownloadBehavior{
			Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath: dir,
		}.Call(browser)
		if err != nil {
			log.Printf("WARN: could not set download directory to %s: %v", dir, err)
		}
	}

	if l.Options.Maximize {
		if err := page.SetWindow(&proto.BrowserBounds{WindowState: proto.BrowserWindowStateMaximized}); err != nil {
			log.Printf("WARN: could not maximize window: %v", err)
		}
	}

	navTimeout := l.Options.NavigateTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	return &rodDriver{browser: browser, page: page, navTimeout: navTimeout}, nil
}

// connect attaches to the Chrome listening on controlURL. The process is
// killed when the connection cannot be made.
func connect(controlURL string, kill func()) (*rod.Browser, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		kill()
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}
	return browser, nil
}

type rodDriver struct {
	browser    *rod.Browser
	page       *rod.Page
	navTimeout time.Duration
}

func (d *rodDriver) Navigate(url string) error {
	if err := d.page.Timeout(d.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, rodError(err))
	}
	if err := d.page.Timeout(d.navTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, rodError(err))
	}
	return nil
}

func (d *rodDriver) URL() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", rodError(err)
	}
	return info.URL, nil
}

func (d *rodDriver) FindElements(by By) ([]Element, error) {
	var (
		els rod.Elements
		err error
	)
	switch by.Strategy {
	case ByXPath:
		els, err = d.page.ElementsX(by.Value)
	case ByLinkText:
		els, err = d.linksByText(by.Value)
	default:
		els, err = d.page.Elements(by.selector())
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", by, rodError(err))
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el, timeout: d.navTimeout})
	}
	return out, nil
}

func (d *rodDriver) FindElement(by By) (Element, error) {
	els, err := d.FindElements(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, notFound(by)
	}
	return els[0], nil
}

// linksByText returns the anchors whose rendered text equals text.
func (d *rodDriver) linksByText(text string) (rod.Elements, error) {
	anchors, err := d.page.Elements("a")
	if err != nil {
		return nil, err
	}
	var matched rod.Elements
	for _, a := range anchors {
		t, err := a.Timeout(d.navTimeout).Text()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(t) == text {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (d *rodDriver) WaitUntil(timeout time.Duration, cond Condition) error {
	return Poll(timeout, DefaultPollInterval, cond)
}

func (d *rodDriver) ExecuteScript(script string, el Element) error {
	re, ok := el.(*rodElement)
	if !ok {
		return fmt.Errorf("element %T does not belong to this session", el)
	}
	target := re.bounded()
	defer target.CancelTimeout()
	_, err := target.Eval(`function() { return (` + script + `)(this) }`)
	return rodError(err)
}

func (d *rodDriver) Close() error {
	return d.browser.Close()
}

type rodElement struct {
	el *rod.Element
	// timeout bounds every action, including the stable, enabled and
	// writable waits rod runs before input.
	timeout time.Duration
}

// bounded returns the element under a deadline. Callers release it with
// CancelTimeout.
func (e *rodElement) bounded() *rod.Element {
	timeout := e.timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return e.el.Timeout(timeout)
}

func (e *rodElement) HTML() (string, error) {
	el := e.bounded()
	defer el.CancelTimeout()
	html, err := el.HTML()
	return html, rodError(err)
}

func (e *rodElement) Displayed() (bool, error) {
	el := e.bounded()
	defer el.CancelTimeout()
	visible, err := el.Visible()
	return visible, rodError(err)
}

func (e *rodElement) Clear() error {
	el := e.bounded()
	defer el.CancelTimeout()
	if err := el.SelectAllText(); err != nil {
		return rodError(err)
	}
	return rodError(el.Input(""))
}

func (e *rodElement) SendKeys(text string) error {
	el := e.bounded()
	defer el.CancelTimeout()
	return rodError(el.Input(text))
}

// rodError maps rod and CDP failures onto the package error taxonomy.
func rodError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case isStaleMessage(err.Error()):
		return fmt.Errorf("%w: %w", ErrStale, err)
	default:
		return err
	}
}
