// Package printers renders command output for the terminal.
package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Record is one stored handoff record as listed by the CLI.
type Record struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Token string `json:"token"`
	Bytes int    `json:"bytes"`
	URL   string `json:"url"`
}

type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " record")
	default:
		_, _ = c.Fprintln(pp.out(), " records")
	}
}

// Records prints a table of records, or a faint "none" when empty.
func (pp *PrettyPrint) Records(records ...Record) {
	if len(records) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Kind"), bold.Sprint("Token"), bold.Sprint("Bytes"), bold.Sprint("URL"))
	for _, r := range records {
		tbl.AddRow(r.Kind, y.Sprint(r.Token), r.Bytes, r.URL)
	}
	tbl.RightAlign(2)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Status prints a confirmation line.
func (pp *PrettyPrint) Status(format string, args ...any) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprintf(pp.out(), format+"\n", args...)
}

// Warn prints a warning line.
func (pp *PrettyPrint) Warn(format string, args ...any) {
	w := color.New(color.FgYellow)
	_, _ = w.Fprintf(pp.out(), format+"\n", args...)
}

// Error prints err in red.
func (pp *PrettyPrint) Error(err error) {
	r := color.New(color.FgRed, color.Bold)
	_, _ = r.Fprintln(pp.out(), err.Error())
}
