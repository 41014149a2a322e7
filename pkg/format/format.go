// Package format implements the beautify and minify transforms for the
// document kinds jview understands.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tableflip.dev/jview/pkg/document"
)

// Kind names a document syntax.
type Kind string

const (
	JSON Kind = "json"
	XML  Kind = "xml"
	HTML Kind = "html"
)

// Kinds lists the kinds in the order the UIs cycle through them.
var Kinds = []Kind{JSON, XML, HTML}

// Label is the upper-case name used in user-facing messages.
func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// ParseKind parses a kind name. The empty string is not a kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case JSON, XML, HTML:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q (expected json, xml or html)", s)
	}
}

// Error is a parse failure, rendered as "Invalid <KIND>: <message>".
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Invalid %s: %v", e.Kind.Label(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrUnknownKind is returned when the kind cannot be handled.
var ErrUnknownKind = errors.New("format: unknown kind")

var errEmpty = errors.New("input is empty")

// Detect guesses the kind of text from its first significant characters.
func Detect(text string) (Kind, bool) {
	trimmed := strings.TrimLeft(text, " \t\r\n\ufeff")
	if trimmed == "" {
		return "", false
	}
	switch trimmed[0] {
	case '{', '[':
		return JSON, true
	case '<':
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
			return HTML, true
		}
		return XML, true
	}
	return "", false
}

// Auto is the kind name that asks Resolve to detect the kind.
const Auto = "auto"

// Resolve parses name, detecting the kind from text when name is empty or
// "auto".
func Resolve(name, text string) (Kind, error) {
	if n := strings.ToLower(strings.TrimSpace(name)); n != "" && n != Auto {
		return ParseKind(n)
	}
	k, ok := Detect(text)
	if !ok {
		return "", errors.New("could not detect the format; pass the kind explicitly")
	}
	return k, nil
}

// Validate checks that text parses as kind.
func Validate(kind Kind, text string) error {
	switch kind {
	case JSON:
		_, err := ParseJSON(text)
		return err
	case XML:
		_, err := ParseXML(text)
		return err
	case HTML:
		_, err := parseHTML(text)
		return err
	}
	return fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// ParseJSON parses text, wrapping failures in *Error.
func ParseJSON(text string) (*document.Value, error) {
	v, err := document.ParseJSON(text)
	if err != nil {
		return nil, &Error{Kind: JSON, Err: err}
	}
	return v, nil
}

// ParseXML parses text, wrapping failures in *Error. A tree carrying a
// parsererror element is rejected as well.
func ParseXML(text string) (*document.XMLDocument, error) {
	doc, err := document.ParseXML(text)
	if err != nil {
		return nil, &Error{Kind: XML, Err: err}
	}
	if doc.HasParserError() {
		return nil, &Error{Kind: XML, Err: errors.New("document contains a parsererror element")}
	}
	return doc, nil
}

// Beautify re-serializes text with two-space indentation.
func Beautify(kind Kind, text string) (string, error) {
	switch kind {
	case JSON:
		v, err := ParseJSON(text)
		if err != nil {
			return "", err
		}
		return v.Pretty(), nil
	case XML:
		doc, err := ParseXML(text)
		if err != nil {
			return "", err
		}
		return PrettyXML(doc), nil
	case HTML:
		s, err := parseHTML(text)
		if err != nil {
			return "", err
		}
		return IndentXML(s, 2), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// Minify re-serializes text without insignificant whitespace.
func Minify(kind Kind, text string) (string, error) {
	switch kind {
	case JSON:
		v, err := ParseJSON(text)
		if err != nil {
			return "", err
		}
		return v.Compact(), nil
	case XML:
		doc, err := ParseXML(text)
		if err != nil {
			return "", err
		}
		return MinifyXML(doc), nil
	case HTML:
		s, err := parseHTML(text)
		if err != nil {
			return "", err
		}
		return stripTagGaps(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// PrettyXML serializes doc and runs the indentation pass over it.
func PrettyXML(doc *document.XMLDocument) string {
	return IndentXML(doc.Serialize(), 2)
}

// MinifyXML serializes doc with whitespace between tags removed.
func MinifyXML(doc *document.XMLDocument) string {
	return stripTagGaps(doc.Serialize())
}

var (
	tagBoundary = regexp.MustCompile(`>\s*<`)
	tagGap      = regexp.MustCompile(`>\s+<`)
	closingTag  = regexp.MustCompile(`^/\w`)
	openingTag  = regexp.MustCompile(`^<?\w[^>]*[^/]$`)
)

func stripTagGaps(s string) string {
	return tagGap.ReplaceAllString(s, "><")
}

// IndentXML is the line-per-tag indenter used for XML and HTML output.
// It splits on tag boundaries, dedents before closing tags, indents after
// opening tags that are not self-closing, and ends every line with CRLF.
// The first character and the last three characters of the accumulated
// text are dropped: the leading "<" doubled by the first fragment and the
// ">\r\n" that follows the last one. An opening tag that is a single
// character with no attributes does not match the opening pattern, so
// its children stay at its own level.
func IndentXML(xml string, indentSize int) string {
	var formatted strings.Builder
	indent := ""
	tab := strings.Repeat(" ", indentSize)

	for _, node := range tagBoundary.Split(xml, -1) {
		if closingTag.MatchString(node) {
			if len(indent) >= len(tab) {
				indent = indent[len(tab):]
			} else {
				indent = ""
			}
		}
		formatted.WriteString(indent)
		formatted.WriteString("<")
		formatted.WriteString(node)
		formatted.WriteString(">\r\n")
		if openingTag.MatchString(node) {
			indent += tab
		}
	}

	out := formatted.String()
	if len(out) < 4 {
		return ""
	}
	return out[1 : len(out)-3]
}
