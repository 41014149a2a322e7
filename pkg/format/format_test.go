package format

import (
	"errors"
	"strings"
	"testing"
)

func TestBeautifyMinifyJSON(t *testing.T) {
	in := `{"a":1,"b":[1,2,3]}`
	pretty, err := Beautify(JSON, in)
	if err != nil {
		t.Fatalf("beautify: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2,\n    3\n  ]\n}"
	if pretty != want {
		t.Fatalf("beautify mismatch:\n got %q\nwant %q", pretty, want)
	}
	min, err := Minify(JSON, pretty)
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	if min != in {
		t.Fatalf("minify mismatch: got %q want %q", min, in)
	}
}

func TestJSONRoundTripAndIdempotence(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[1,2,3]}`,
		`[]`,
		`"just a string"`,
		`{"nested":{"deep":[{"x":null},{"y":false}]},"n":-1.5e3,"s":"quote \" and \\ slash"}`,
		` [ 1 , { } , [ ] , true ] `,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			pretty, err := Beautify(JSON, in)
			if err != nil {
				t.Fatalf("beautify: %v", err)
			}
			again, err := Beautify(JSON, pretty)
			if err != nil {
				t.Fatalf("beautify twice: %v", err)
			}
			if again != pretty {
				t.Fatalf("beautify is not idempotent:\n first %q\nsecond %q", pretty, again)
			}
			min, err := Minify(JSON, pretty)
			if err != nil {
				t.Fatalf("minify: %v", err)
			}
			original, _ := ParseJSON(in)
			round, err := ParseJSON(min)
			if err != nil {
				t.Fatalf("parse minified: %v", err)
			}
			if !original.Equal(round) {
				t.Fatalf("round trip changed the value: %q -> %q", in, min)
			}
		})
	}
}

func TestInvalidJSON(t *testing.T) {
	_, err := Beautify(JSON, `{"a":}`)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid JSON") {
		t.Fatalf("expected Invalid JSON prefix, got %q", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != JSON {
		t.Fatalf("expected *format.Error for json, got %T", err)
	}
	if _, err := Minify(JSON, `{"a":}`); err == nil || !strings.HasPrefix(err.Error(), "Invalid JSON: ") {
		t.Fatalf("expected minify to fail the same way, got %v", err)
	}
}

func TestBeautifyXML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{{
		name: "single letter root",
		in:   `<a><b/></a>`,
		want: "<a>\r\n<b/>\r\n</a>",
	}, {
		name: "nested",
		in:   `<root><item/></root>`,
		want: "<root>\r\n  <item/>\r\n</root>",
	}, {
		name: "text content stays inline",
		in:   "<root>\n  <name>x</name>\n</root>",
		want: "<root>\r\n  <name>x</name>\r\n</root>",
	}, {
		name: "prolog",
		in:   `<?xml version="1.0"?><root><a/></root>`,
		want: "<?xml version=\"1.0\"?>\r\n<root>\r\n  <a/>\r\n</root>",
	}, {
		name: "attributes",
		in:   `<list id="1"><entry k="v"></entry><entry/></list>`,
		want: "<list id=\"1\">\r\n  <entry k=\"v\"/>\r\n  <entry/>\r\n</list>",
	}}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Beautify(XML, tc.in)
			if err != nil {
				t.Fatalf("beautify: %v", err)
			}
			if got != tc.want {
				t.Fatalf("mismatch:\n got %q\nwant %q", got, tc.want)
			}
			again, err := Beautify(XML, got)
			if err != nil {
				t.Fatalf("beautify twice: %v", err)
			}
			if again != got {
				t.Fatalf("not idempotent:\n first %q\nsecond %q", got, again)
			}
		})
	}
}

func TestMinifyXML(t *testing.T) {
	got, err := Minify(XML, "<a>\n  <b/>\n</a>")
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	if got != "<a><b/></a>" {
		t.Fatalf("got %q", got)
	}
	got, err = Minify(XML, "<a> <b> keep me </b> </a>")
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	if got != "<a><b> keep me </b></a>" {
		t.Fatalf("text between tags must survive, got %q", got)
	}
}

func TestInvalidXML(t *testing.T) {
	for _, in := range []string{`<a><b></a>`, `<a>`, `<root><parsererror/></root>`} {
		_, err := Beautify(XML, in)
		if err == nil || !strings.HasPrefix(err.Error(), "Invalid XML: ") {
			t.Fatalf("expected Invalid XML for %q, got %v", in, err)
		}
	}
}

func TestIndentXMLEdges(t *testing.T) {
	if got := IndentXML("", 2); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := IndentXML("<x/>", 2); got != "<x/>" {
		t.Fatalf("got %q", got)
	}
}

func TestHTML(t *testing.T) {
	pretty, err := Beautify(HTML, `<html><body><p>hi</p></body></html>`)
	if err != nil {
		t.Fatalf("beautify: %v", err)
	}
	want := "<html>\r\n  <head>\r\n  </head>\r\n  <body>\r\n    <p>hi</p>\r\n  </body>\r\n</html>"
	if pretty != want {
		t.Fatalf("mismatch:\n got %q\nwant %q", pretty, want)
	}
	min, err := Minify(HTML, "<html>\n<body>\n<p>hi</p>\n</body>\n</html>")
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	if !strings.Contains(min, "<body><p>hi</p>") {
		t.Fatalf("expected inter-tag whitespace removed, got %q", min)
	}
	if _, err := Beautify(HTML, "  "); err == nil {
		t.Fatalf("expected error for blank html")
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]Kind{
		`  {"a":1}`:        JSON,
		"[1]":              JSON,
		"<a/>":             XML,
		"<!DOCTYPE html>":  HTML,
		"\n<html lang=en>": HTML,
	}
	for in, want := range tests {
		got, ok := Detect(in)
		if !ok || got != want {
			t.Fatalf("Detect(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := Detect("plain"); ok {
		t.Fatalf("expected plain text to be undetected")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" XML "); err != nil || k != XML {
		t.Fatalf("got %q, %v", k, err)
	}
	if _, err := ParseKind("yaml"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolve(t *testing.T) {
	if k, err := Resolve("", "[1]"); err != nil || k != JSON {
		t.Fatalf("got %q, %v", k, err)
	}
	if k, err := Resolve("auto", "<a/>"); err != nil || k != XML {
		t.Fatalf("got %q, %v", k, err)
	}
	if k, err := Resolve("html", "[1]"); err != nil || k != HTML {
		t.Fatalf("explicit kind should win, got %q, %v", k, err)
	}
	if _, err := Resolve("auto", "plain"); err == nil {
		t.Fatalf("expected detection error")
	}
}
