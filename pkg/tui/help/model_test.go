package help

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func stripANSI(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			inSeq = true
			continue
		}
		if inSeq {
			if ansi.IsTerminator(r) {
				inSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestRender(t *testing.T) {
	got := Render([]Binding{{"j/k", "move"}, {"enter", "toggle"}})
	want := "  j/k    move\n  enter  toggle"
	if got != want {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestViewShowsSections(t *testing.T) {
	m := New([]Section{
		{Title: "Tree", Bindings: []Binding{{"E", "expand all"}}},
		{Title: "Copy", Bindings: []Binding{{"y", "copy pretty"}}},
	}, 40, 12)
	view := stripANSI(m.View())
	for _, want := range []string{"Tree", "E  expand all", "Copy", "y  copy pretty"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestMinimumSize(t *testing.T) {
	m := New(nil, 1, 1)
	if m.width != 32 || m.height != 8 {
		t.Fatalf("expected minimum size, got %dx%d", m.width, m.height)
	}
}
