package extractor

import (
	"errors"
	"testing"
	"time"

	"RekhtaDownloader/internal/browser"
	"RekhtaDownloader/internal/browser/browsertest"
	"RekhtaDownloader/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startURL = "https://www.rekhta.org/ebooks/category/poetry/couplets#"

func testConf() config.CatalogConfig {
	return config.CatalogConfig{
		StartURL:    startURL,
		CardClass:   "ebookCard",
		NextClass:   "pgNext",
		LoaderClass: "pageLoader",
		WaitTimeout: 30 * time.Millisecond,
	}
}

func newCatalog(pages ...browsertest.CatalogPage) *browsertest.Catalog {
	return &browsertest.Catalog{
		BaseURL:     "https://www.rekhta.org/ebooks/category/poetry/couplets",
		CardClass:   "ebookCard",
		NextClass:   "pgNext",
		LoaderClass: "pageLoader",
		Pages:       pages,
	}
}

// book builds a card whose second anchor points at the detail page of name.
func book(name string) *browsertest.Element {
	return browsertest.Card("https://www.rekhta.org/images/"+name+".jpg", link(name))
}

func link(name string) string {
	return "https://www.rekhta.org/ebooks/" + name
}

func TestExtract_TwoPagesDeduplicated(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a"), book("b"), book("c")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("c"), book("d")}, NoNext: true},
	)

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a"), link("b"), link("c"), link("d")}, links.Links())
	assert.Equal(t, []string{startURL}, catalog.Navigated)
	assert.Equal(t, 1, catalog.NextClicks)
}

func TestExtract_StaleCardIsSkipped(t *testing.T) {
	stale := book("b")
	stale.StaleReads = 1
	catalog := newCatalog(browsertest.CatalogPage{
		Cards:  []*browsertest.Element{book("a"), stale, book("c")},
		NoNext: true,
	})

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a"), link("c")}, links.Links())
}

func TestExtract_CardsWithFewerThanTwoAnchorsContributeNothing(t *testing.T) {
	catalog := newCatalog(browsertest.CatalogPage{
		Cards: []*browsertest.Element{
			browsertest.Card(),
			browsertest.Card(link("cover-only")),
			book("a"),
			browsertest.Card("https://www.rekhta.org/images/x.jpg", ""),
		},
		NoNext: true,
	})

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a")}, links.Links())
}

func TestExtract_HiddenNextControlEndsPagination(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}, NextHidden: true},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("b")}, NoNext: true},
	)

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a")}, links.Links())
	assert.Zero(t, catalog.NextClicks)
}

func TestExtract_StaleNextControlIsRetriedOnce(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("b")}, NoNext: true},
	)
	catalog.StaleClicks = 1

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a"), link("b")}, links.Links())
	assert.Equal(t, 1, catalog.NextClicks)

	var clicks int
	for _, call := range catalog.Scripts {
		if call.Script == browser.ClickScript {
			clicks++
		}
	}
	assert.Equal(t, 2, clicks, "one stale click and one retry")
}

func TestExtract_SecondStaleClickStopsWithPartialResults(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("b")}, NoNext: true},
	)
	catalog.StaleClicks = 2

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a")}, links.Links())
	assert.Zero(t, catalog.NextClicks)
	assert.Equal(t, 0, catalog.Page())
}

func TestExtract_CardWaitTimeoutKeepsPartialResults(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a"), book("b")}},
		browsertest.CatalogPage{},
	)

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a"), link("b")}, links.Links())
	assert.Equal(t, 1, catalog.NextClicks)
}

func TestExtract_StuckLoaderStopsPagination(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("b")}, NoNext: true},
	)
	catalog.LoaderStuck = true

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a")}, links.Links())
	assert.Zero(t, catalog.NextClicks)
}

func TestExtract_NavigationFailureReturnsEmptySet(t *testing.T) {
	catalog := newCatalog(browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}})
	catalog.NavigateErr = errors.New("net::ERR_CONNECTION_RESET")

	links := New(catalog, testConf()).Extract(startURL)

	assert.Zero(t, links.Len())
}

func TestExtract_UnexpectedCardErrorAbortsExtraction(t *testing.T) {
	broken := book("b")
	broken.Err = errors.New("target crashed")
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a"), broken, book("c")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("d")}, NoNext: true},
	)

	links := New(catalog, testConf()).Extract(startURL)

	assert.Equal(t, []string{link("a")}, links.Links())
	assert.Zero(t, catalog.NextClicks)
}

func TestExtract_MaxPages(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("b")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("c")}, NoNext: true},
	)
	conf := testConf()
	conf.MaxPages = 2

	links := New(catalog, conf).Extract(startURL)

	assert.Equal(t, []string{link("a"), link("b")}, links.Links())
}

func TestExtract_ClicksFromScriptAfterScrolling(t *testing.T) {
	catalog := newCatalog(
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("a")}},
		browsertest.CatalogPage{Cards: []*browsertest.Element{book("b")}, NoNext: true},
	)

	New(catalog, testConf()).Extract(startURL)

	require.Len(t, catalog.Scripts, 2)
	assert.Equal(t, browser.ScrollIntoViewScript, catalog.Scripts[0].Script)
	assert.Equal(t, browser.ClickScript, catalog.Scripts[1].Script)
	assert.Same(t, catalog.Scripts[0].Element, catalog.Scripts[1].Element)
}

func TestProbeNext(t *testing.T) {
	t.Run("HasNext", func(t *testing.T) {
		catalog := newCatalog(browsertest.CatalogPage{})
		probe := New(catalog, testConf()).ProbeNext()
		assert.Equal(t, HasNext, probe.State)
		assert.NotNil(t, probe.Control)
		assert.NoError(t, probe.Err)
	})

	t.Run("DoneWhenAbsent", func(t *testing.T) {
		catalog := newCatalog(browsertest.CatalogPage{NoNext: true})
		probe := New(catalog, testConf()).ProbeNext()
		assert.Equal(t, Done, probe.State)
		assert.Nil(t, probe.Control)
	})

	t.Run("DoneWhenNeverDisplayed", func(t *testing.T) {
		catalog := newCatalog(browsertest.CatalogPage{NextHidden: true})
		probe := New(catalog, testConf()).ProbeNext()
		assert.Equal(t, Done, probe.State)
	})

	t.Run("FailedWhenLoaderStuck", func(t *testing.T) {
		catalog := newCatalog(browsertest.CatalogPage{})
		catalog.LoaderStuck = true
		probe := New(catalog, testConf()).ProbeNext()
		assert.Equal(t, Failed, probe.State)
		assert.ErrorIs(t, probe.Err, browser.ErrTimeout)
	})

	t.Run("NoLoaderConfigured", func(t *testing.T) {
		catalog := newCatalog(browsertest.CatalogPage{})
		catalog.LoaderStuck = true
		conf := testConf()
		conf.LoaderClass = ""
		probe := New(catalog, conf).ProbeNext()
		assert.Equal(t, HasNext, probe.State)
	})
}
