package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	page := `
	<html><body>
		<a href="/about">About</a>
		<a href="https://example.com/pricing">Pricing</a>
		<a href="contact">Contact</a>
		<a href="#top">Top</a>
		<a href="javascript:void(0)">Noop</a>
		<a href="mailto:hi@example.com">Mail</a>
		<form action="/login" method="post"></form>
		<form method="get"></form>
	</body></html>`

	links := ExtractLinks(page, "https://example.com/docs/")

	assert.Equal(t, []string{
		"https://example.com/about",
		"https://example.com/pricing",
		"https://example.com/docs/contact",
	}, links, "form actions are not navigation targets")
}

func TestExtractLinksStripsFragments(t *testing.T) {
	page := `<a href="/page#section">x</a><a href="/page#other">y</a>`
	links := ExtractLinks(page, "https://example.com/")
	assert.Equal(t, []string{"https://example.com/page"}, links)
}

func TestExtractLinksEmptyAndGarbage(t *testing.T) {
	assert.Empty(t, ExtractLinks("", "https://example.com/"))
	assert.Empty(t, ExtractLinks("<div>no links</div>", "https://example.com/"))
	assert.Nil(t, ExtractLinks("<a href='/x'>x</a>", "://bad-base"))
}
