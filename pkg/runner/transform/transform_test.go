package transform

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/jview/pkg/clip"
)

func TestBeautify(t *testing.T) {
	var out bytes.Buffer
	tr := Transform{Text: `{"a":[1]}`, Out: &out}
	if err := tr.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.String() != "{\n  \"a\": [\n    1\n  ]\n}\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestMinifyJSONOutput(t *testing.T) {
	var out bytes.Buffer
	tr := Transform{Kind: "xml", Text: "<a>\n  <b/>\n</a>", Minify: true, Output: "json", Out: &out}
	if err := tr.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.String() != `{"kind":"xml","text":"<a><b/></a>"}`+"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestInvalidInputPrintsNothing(t *testing.T) {
	var out bytes.Buffer
	tr := Transform{Kind: "json", Text: `{"a":}`, Out: &out}
	err := tr.Do(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "Invalid JSON: ") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed on error, got %q", out.String())
	}
}

func TestCopy(t *testing.T) {
	color.NoColor = true
	var out, status bytes.Buffer
	var copied string
	tr := Transform{
		Text:   "[1, 2]",
		Minify: true,
		Copy:   true,
		Clipboard: clip.Func(func(s string) error {
			copied = s
			return nil
		}),
		Out: &out,
		Err: &status,
	}
	if err := tr.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if copied != "[1,2]" || status.String() != "Copied to clipboard\n" {
		t.Fatalf("unexpected copy %q status %q", copied, status.String())
	}

	status.Reset()
	tr.Clipboard = clip.Func(func(string) error { return errors.New("no clipboard") })
	if err := tr.Do(context.Background()); err != nil {
		t.Fatalf("copy failure must not fail the command: %v", err)
	}
	if status.String() != "Copy failed\n" {
		t.Fatalf("unexpected status %q", status.String())
	}
}
