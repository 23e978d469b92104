package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorHrefs(t *testing.T) {
	testCases := []struct {
		name     string
		fragment string
		expected []string
	}{
		{
			"Two Absolute Anchors",
			`<div class="ebookCard"><a href="https://www.rekhta.org/img"><img></a><a href="https://www.rekhta.org/ebooks/diwan-ebooks">Diwan</a></div>`,
			[]string{"https://www.rekhta.org/img", "https://www.rekhta.org/ebooks/diwan-ebooks"},
		},
		{
			"Relative Anchor Resolved",
			`<div><a href="cover.jpg">cover</a><a href="/ebooks/kulliyat-ebooks">Kulliyat</a></div>`,
			[]string{"https://www.rekhta.org/ebooks/category/poetry/cover.jpg", "https://www.rekhta.org/ebooks/kulliyat-ebooks"},
		},
		{
			"Missing Href Keeps Position",
			`<div><a>no link</a><a href=" /ebooks/x ">x</a></div>`,
			[]string{"", "https://www.rekhta.org/ebooks/x"},
		},
		{
			"No Anchors",
			`<div class="ebookCard"><span>loading</span></div>`,
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hrefs, err := AnchorHrefs(tc.fragment, "https://www.rekhta.org/ebooks/category/poetry/couplets")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, hrefs)
		})
	}
}
