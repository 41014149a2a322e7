// Package transform beautifies or minifies text for the CLI.
package transform

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/jview/pkg/clip"
	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/printers"
)

type Transform struct {
	Kind   string
	Text   string
	Minify bool

	// Copy also writes the result to Clipboard.
	Copy      bool
	Clipboard clip.Clipboard

	Output string
	Out    io.Writer
	Err    io.Writer
}

type result struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func (t *Transform) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	kind, err := format.Resolve(t.Kind, t.Text)
	if err != nil {
		return err
	}
	fn := format.Beautify
	if t.Minify {
		fn = format.Minify
	}
	text, err := fn(kind, t.Text)
	if err != nil {
		return err
	}

	out, errOut := t.Out, t.Err
	if out == nil {
		out = color.Output
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	switch t.Output {
	case "json":
		if err := printers.JSON(out, result{Kind: string(kind), Text: text}); err != nil {
			return err
		}
	default:
		_, _ = fmt.Fprintln(out, text)
	}

	if t.Copy {
		c := t.Clipboard
		if c == nil {
			c = clip.System{}
		}
		pp := printers.PrettyPrint{Out: errOut}
		if clip.Copy(c, text) {
			pp.Status("Copied to clipboard")
		} else {
			pp.Warn("Copy failed")
		}
	}
	return nil
}
