package tree

import (
	"strings"
	"testing"

	"tableflip.dev/jview/pkg/document"
)

func jsonRoot(t *testing.T, view *View, text string) *Node {
	t.Helper()
	v, err := document.ParseJSON(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewJSON(view, v)
}

func texts(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Text())
	}
	return out
}

func TestJSONCollapsedByDefault(t *testing.T) {
	view := NewView(false)
	root := jsonRoot(t, view, `{"x":{"y":1}}`)

	rows := root.Rows()
	if len(rows) != 1 || rows[0].Text() != "Object(1)" || rows[0].Expanded {
		t.Fatalf("expected a single collapsed summary, got %v", texts(rows))
	}

	if !Toggle(root, RootPath) {
		t.Fatalf("expected root toggle")
	}
	rows = root.Rows()
	if got := strings.Join(texts(rows), "|"); got != "Object(1)|x: Object(1)" {
		t.Fatalf("unexpected rows %q", got)
	}
	if rows[1].Expanded {
		t.Fatalf("new child should take the collapsed default")
	}

	if !Toggle(root, "$.0") {
		t.Fatalf("expected child toggle")
	}
	rows = root.Rows()
	if got := strings.Join(texts(rows), "|"); got != "Object(1)|x: Object(1)|y: 1" {
		t.Fatalf("unexpected rows %q", got)
	}
	if LeafCount(rows) != 1 {
		t.Fatalf("expected one leaf, got %d", LeafCount(rows))
	}
}

func TestExpandAllOverridesToggles(t *testing.T) {
	view := NewView(true)
	root := jsonRoot(t, view, `{"x":{"y":1},"z":[1,2]}`)
	if n := len(root.Rows()); n != 6 {
		t.Fatalf("expected fully expanded tree, got %d rows", n)
	}

	Toggle(root, "$.0")
	Toggle(root, "$.1")
	if n := len(root.Rows()); n != 3 {
		t.Fatalf("expected two collapsed children, got %d rows", n)
	}

	view.ExpandAll()
	rows := root.Rows()
	if len(rows) != 6 {
		t.Fatalf("expand all should reopen toggled nodes, got %v", texts(rows))
	}
	for _, r := range rows {
		if r.Kind == RowBranch && !r.Expanded {
			t.Fatalf("branch %s still collapsed", r.Path)
		}
	}
	if view.ResetSignal() != 1 {
		t.Fatalf("expected reset signal 1, got %d", view.ResetSignal())
	}

	view.CollapseAll()
	rows = root.Rows()
	if len(rows) != 1 || rows[0].Expanded {
		t.Fatalf("collapse all should leave the root only, got %v", texts(rows))
	}
	if view.ResetSignal() != 2 {
		t.Fatalf("expected reset signal 2, got %d", view.ResetSignal())
	}

	// Reopening the root shows children at the collapsed default.
	Toggle(root, RootPath)
	rows = root.Rows()
	if len(rows) != 3 || rows[1].Expanded || rows[2].Expanded {
		t.Fatalf("unexpected rows after reopening %v", texts(rows))
	}
}

func TestRepeatedExpandAllBumpsSignal(t *testing.T) {
	view := NewView(true)
	root := jsonRoot(t, view, `[[1]]`)
	root.Rows()
	view.ExpandAll()
	view.ExpandAll()
	if view.ResetSignal() != 2 {
		t.Fatalf("expected one bump per call, got %d", view.ResetSignal())
	}
	view.SetDefaultExpanded(true)
	if view.ResetSignal() != 2 {
		t.Fatalf("default change must not bump the signal")
	}
}

func TestCollapseReleasesObservers(t *testing.T) {
	view := NewView(true)
	root := jsonRoot(t, view, `{"x":{"y":{"z":1}}}`)
	root.Rows()
	if view.Observers() != 3 {
		t.Fatalf("expected three live branches, got %d", view.Observers())
	}
	Toggle(root, "$.0")
	if view.Observers() != 2 {
		t.Fatalf("collapsing should release the subtree, got %d", view.Observers())
	}
	root.Release()
	if view.Observers() != 0 {
		t.Fatalf("release should unsubscribe everything, got %d", view.Observers())
	}
}

func TestJSONPrimitives(t *testing.T) {
	view := NewView(true)
	root := jsonRoot(t, view, `{"s":"a\"b","n":1.50,"b":false,"z":null,"e":[],"o":{}}`)
	got := texts(root.Rows())
	want := []string{
		"Object(6)",
		`s: "a"b"`,
		"n: 1.5",
		"b: false",
		"z: null",
		"e: Array(0)",
		"o: Object(0)",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestArrayLabels(t *testing.T) {
	view := NewView(true)
	root := jsonRoot(t, view, `["a","b"]`)
	rows := root.Rows()
	if rows[1].Label != "0" || rows[2].Label != "1" || !rows[1].Labeled {
		t.Fatalf("unexpected labels %v", texts(rows))
	}
	if rows[0].Labeled {
		t.Fatalf("root should not be labeled")
	}
}

func TestXMLRows(t *testing.T) {
	doc, err := document.ParseXML(`<root a="1"><item/><text> hi </text><!--c--><![CDATA[x<y]]>
</root>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	view := NewView(true)
	root := NewXML(view, doc.Root)
	rows := root.Rows()
	want := []string{
		`<root a="1">`,
		`<item />`,
		`<text>`,
		`"hi"`,
		`</text>`,
		`<!-- c -->`,
		`<![CDATA[x<y]]>`,
		`</root>`,
	}
	if strings.Join(texts(rows), "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", texts(rows), want)
	}
	if rows[1].Kind != RowLeaf || rows[2].Kind != RowBranch || rows[4].Kind != RowClose {
		t.Fatalf("unexpected row kinds")
	}
	if rows[3].Depth != 2 || rows[4].Depth != 1 {
		t.Fatalf("unexpected depths %d %d", rows[3].Depth, rows[4].Depth)
	}

	Toggle(root, rows[2].Path)
	rows = root.Rows()
	for _, r := range rows {
		if r.Value == "</text>" {
			t.Fatalf("closing tag should hide while collapsed")
		}
	}
}

func TestXMLWhitespaceOnlyElementIsLeaf(t *testing.T) {
	doc, err := document.ParseXML("<root>\n  <empty>   </empty>\n</root>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := NewXML(NewView(true), doc.Root)
	rows := root.Rows()
	if len(rows) != 3 || rows[1].Text() != "<empty />" || rows[1].Kind != RowLeaf {
		t.Fatalf("unexpected rows %q", texts(rows))
	}
}

func TestRowString(t *testing.T) {
	root := jsonRoot(t, NewView(true), `{"a":[true]}`)
	got := Render(root.Rows())
	want := "▾ Object(1)\n  ▾ a: Array(1)\n      0: true"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestToggleMissingPath(t *testing.T) {
	root := jsonRoot(t, NewView(false), `{"a":{"b":1}}`)
	if Toggle(root, "$.0") {
		t.Fatalf("children of a collapsed root are not visible")
	}
	if Toggle(root, "nope") {
		t.Fatalf("unknown path toggled")
	}
}
