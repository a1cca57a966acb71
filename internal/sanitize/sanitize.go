// Package sanitize strips dangerous markup from editor-submitted HTML
// before it is stored. Blog content arrives as raw HTML (or HTML produced
// from Markdown) and is served back to browsers verbatim, so script
// injection is filtered here, on write.
package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// policy allows the rich-text constructs editors actually use while
// dropping scripts, event handlers, and other active content.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Heading anchors and syntax-highlighted code blocks carry ids,
	// classes, and inline styles produced by the Markdown pipeline.
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div", "p", "table")
	p.AllowAttrs("style").OnElements("pre", "span")

	// Images from the asset host, with layout hints.
	p.AllowAttrs("src", "alt", "title", "width", "height", "loading").OnElements("img")
	p.AllowAttrs("class").OnElements("img", "figure", "figcaption")
	p.AllowElements("figure", "figcaption")

	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.RequireNoFollowOnLinks(false)

	return p
}()

// HTML returns a sanitized copy of the given HTML fragment.
func HTML(input string) string {
	return policy.Sanitize(input)
}
