package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// HTMLSanitizer strips markup that is unsafe to hand to the browser.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer allows the small set of elements used by map popups and
// notification previews.
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements("b", "strong", "i", "em", "u", "s", "del")
	p.AllowElements("h1", "h2", "h3", "h4")
	p.AllowElements("p", "br", "hr", "div", "span")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("blockquote", "code", "pre")

	p.AllowElements("a")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements(
		"div", "span", "p", "h3", "ul", "li",
	)

	return &HTMLSanitizer{policy: p}
}

// Sanitize cleans HTML content to prevent XSS attacks.
func (s *HTMLSanitizer) Sanitize(content string) string {
	return s.policy.Sanitize(content)
}

// MarkdownToHTML converts markdown to HTML. Raw HTML in the input is
// omitted by goldmark's default renderer.
func MarkdownToHTML(markdown string) string {
	var buf strings.Builder
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return markdown
	}
	return buf.String()
}

// StripHTML removes all HTML tags and returns unescaped plain text.
func StripHTML(s string) string {
	return html.UnescapeString(bluemonday.StrictPolicy().Sanitize(s))
}
