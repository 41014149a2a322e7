// Package open hands text to a viewer from the CLI.
package open

import (
	"context"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/printers"
)

type Open struct {
	Kind    string
	Text    string
	Handoff *handoff.Service

	Output string
	Out    io.Writer
}

type result struct {
	Kind      string `json:"kind"`
	Token     string `json:"token"`
	URL       string `json:"url"`
	OpenError string `json:"openError,omitempty"`
}

// Do stores the record and opens its viewer. A viewer that could not be
// opened is reported but is not an error: the record is stored and the
// URL is printed.
func (o *Open) Do(ctx context.Context) error {
	kind, err := format.Resolve(o.Kind, o.Text)
	if err != nil {
		return err
	}
	res, err := o.Handoff.OpenViewer(ctx, kind, o.Text)
	if res == nil {
		return err
	}

	out := o.Out
	if out == nil {
		out = color.Output
	}
	if o.Output == "json" {
		r := result{Kind: string(res.Kind), Token: res.Token, URL: res.URL}
		if err != nil {
			r.OpenError = err.Error()
		}
		return printers.JSON(out, r)
	}

	pp := printers.PrettyPrint{Out: out}
	switch {
	case err != nil:
		pp.Warn("Could not open a browser: %v", err)
		pp.Status("Viewer ready at %s", res.URL)
	case o.Handoff.Opener == nil:
		pp.Status("Viewer ready at %s", res.URL)
	default:
		pp.Status("Opened %s", res.URL)
	}
	return nil
}
