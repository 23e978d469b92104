package browser

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"RekhtaDownloader/utils"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher starts Chromium through playwright-go.
type PlaywrightLauncher struct {
	Options Options
}

func (l PlaywrightLauncher) Launch() (Driver, error) {
	utils.LogHostResources()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.Options.Headless),
	}
	if l.Options.Maximize {
		launchOpts.Args = []string{"--start-maximized"}
	}
	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	}
	if l.Options.Maximize {
		contextOpts.NoViewport = playwright.Bool(true)
	}
	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if dir := l.Options.DownloadDir; dir != "" {
		page.OnDownload(func(dl playwright.Download) {
			target := filepath.Join(dir, dl.SuggestedFilename())
			if err := dl.SaveAs(target); err != nil {
				log.Printf("WARN: could not save download %s: %v", target, err)
				return
			}
			log.Printf("Saved download to %s", target)
		})
	}

	navTimeout := l.Options.NavigateTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	return &playwrightDriver{pw: pw, browser: browser, context: bctx, page: page, navTimeout: navTimeout}, nil
}

type playwrightDriver struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	navTimeout time.Duration
}

func (d *playwrightDriver) Navigate(url string) error {
	timeout := float64(d.navTimeout.Milliseconds())
	if _, err := d.page.Goto(url, playwright.PageGotoOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, playwrightError(err))
	}
	return nil
}

func (d *playwrightDriver) URL() (string, error) {
	return d.page.URL(), nil
}

func (d *playwrightDriver) FindElements(by By) ([]Element, error) {
	var (
		handles []playwright.ElementHandle
		err     error
	)
	switch by.Strategy {
	case ByXPath:
		handles, err = d.page.QuerySelectorAll("xpath=" + by.Value)
	case ByLinkText:
		handles, err = d.linksByText(by.Value)
	default:
		handles, err = d.page.QuerySelectorAll(by.selector())
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", by, playwrightError(err))
	}

	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &playwrightElement{handle: h})
	}
	return out, nil
}

func (d *playwrightDriver) FindElement(by By) (Element, error) {
	els, err := d.FindElements(by)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, notFound(by)
	}
	return els[0], nil
}

func (d *playwrightDriver) linksByText(text string) ([]playwright.ElementHandle, error) {
	anchors, err := d.page.QuerySelectorAll("a")
	if err != nil {
		return nil, err
	}
	var matched []playwright.ElementHandle
	for _, a := range anchors {
		t, err := a.InnerText()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(t) == text {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (d *playwrightDriver) WaitUntil(timeout time.Duration, cond Condition) error {
	return Poll(timeout, DefaultPollInterval, cond)
}

func (d *playwrightDriver) ExecuteScript(script string, el Element) error {
	pe, ok := el.(*playwrightElement)
	if !ok {
		return fmt.Errorf("element %T does not belong to this session", el)
	}
	_, err := pe.handle.Evaluate(script)
	return playwrightError(err)
}

func (d *playwrightDriver) Close() error {
	_ = d.page.Close()
	_ = d.context.Close()
	err := d.browser.Close()
	if stopErr := d.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) HTML() (string, error) {
	v, err := e.handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return "", playwrightError(err)
	}
	html, _ := v.(string)
	return html, nil
}

func (e *playwrightElement) Displayed() (bool, error) {
	visible, err := e.handle.IsVisible()
	return visible, playwrightError(err)
}

func (e *playwrightElement) Clear() error {
	return playwrightError(e.handle.Fill(""))
}

func (e *playwrightElement) SendKeys(text string) error {
	return playwrightError(e.handle.Fill(text))
}

func playwrightError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case isStaleMessage(err.Error()):
		return fmt.Errorf("%w: %w", ErrStale, err)
	default:
		return err
	}
}
