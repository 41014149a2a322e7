package format

import (
	"strings"

	"golang.org/x/net/html"
)

// parseHTML parses text as an HTML document and renders it back. The
// HTML5 parser repairs almost any input, so failures are rare.
func parseHTML(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: HTML, Err: errEmpty}
	}
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return "", &Error{Kind: HTML, Err: err}
	}
	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", &Error{Kind: HTML, Err: err}
	}
	return b.String(), nil
}
