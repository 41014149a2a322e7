package tree

import "strings"

type RowKind int

const (
	RowLeaf RowKind = iota
	RowBranch
	// RowClose is the closing tag of an expanded XML element.
	RowClose
)

// Class names the highlight a row's value gets.
type Class string

const (
	ClassString  Class = "string"
	ClassNumber  Class = "number"
	ClassBool    Class = "boolean"
	ClassNull    Class = "null"
	ClassSummary Class = "summary"
	ClassTag     Class = "tag"
	ClassCDATA   Class = "cdata"
	ClassComment Class = "comment"
)

// Row is one line of a flattened tree.
type Row struct {
	Kind     RowKind
	Depth    int
	Path     string
	Label    string
	Labeled  bool
	Value    string
	Class    Class
	Expanded bool

	node *Node
}

// Node is the tree node the row was produced from.
func (r Row) Node() *Node { return r.node }

// Text is the row without indentation or toggle marker.
func (r Row) Text() string {
	if r.Labeled {
		return r.Label + ": " + r.Value
	}
	return r.Value
}

// Marker is the toggle glyph for branch rows and blank padding otherwise.
func (r Row) Marker() string {
	if r.Kind != RowBranch {
		return "  "
	}
	if r.Expanded {
		return "▾ "
	}
	return "▸ "
}

func (r Row) String() string {
	return strings.Repeat("  ", r.Depth) + r.Marker() + r.Text()
}

// Render joins rows into plain text, one per line.
func Render(rows []Row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// LeafCount counts the leaf rows.
func LeafCount(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.Kind == RowLeaf {
			n++
		}
	}
	return n
}

// Toggle flips the visible branch at path. It reports false when no such
// branch is visible.
func Toggle(root *Node, path string) bool {
	n, ok := root.Find(path)
	if !ok || !n.Branch() {
		return false
	}
	n.Toggle()
	return true
}
