package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// AnchorHrefs parses an HTML fragment and returns the href of every anchor
// in document order, resolved against baseURL. Anchors without an href
// yield an empty string so positions are preserved.
func AnchorHrefs(fragment, baseURL string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("could not parse fragment: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	base, _ := url.Parse(baseURL)

	var hrefs []string
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		hrefs = append(hrefs, ResolveHref(base, strings.TrimSpace(a.AttrOr("href", ""))))
	})
	return hrefs, nil
}

// ResolveHref makes href absolute against base. Empty hrefs stay empty and
// unparsable ones are returned untouched.
func ResolveHref(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
