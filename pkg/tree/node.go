package tree

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/jview/pkg/document"
)

// RootPath is the path of the root node. Child paths append ".<index>".
const RootPath = "$"

// Node is one rendered node. Branch nodes subscribe to their View for as
// long as they are alive; children exist only while their parent is
// expanded.
type Node struct {
	view    *View
	path    string
	depth   int
	label   string
	labeled bool

	json *document.Value
	xml  *document.Node

	expanded bool
	children []*Node
}

// NewJSON creates the root node for a JSON value.
func NewJSON(view *View, v *document.Value) *Node {
	return newNode(view, RootPath, 0, "", false, v, nil)
}

// NewXML creates the root node for an XML element.
func NewXML(view *View, root *document.Node) *Node {
	return newNode(view, RootPath, 0, "", false, nil, root)
}

func newNode(view *View, path string, depth int, label string, labeled bool, jv *document.Value, xn *document.Node) *Node {
	n := &Node{
		view:    view,
		path:    path,
		depth:   depth,
		label:   label,
		labeled: labeled,
		json:    jv,
		xml:     xn,
	}
	if n.Branch() {
		n.expanded = view.subscribe(n)
	}
	return n
}

// Path identifies the node within its tree.
func (n *Node) Path() string { return n.path }

// Depth is the nesting level, zero for the root.
func (n *Node) Depth() int { return n.depth }

// Branch reports whether the node can be expanded: a JSON array or
// object, or an XML element with children other than whitespace text.
func (n *Node) Branch() bool {
	if n.json != nil {
		return n.json.IsBranch()
	}
	if n.xml != nil {
		return n.xml.Type == document.ElementNode && len(n.xml.SignificantChildren()) > 0
	}
	return false
}

// Expanded reports the node's own flag. Leaves are never expanded.
func (n *Node) Expanded() bool { return n.expanded }

// Toggle flips a branch between expanded and collapsed.
func (n *Node) Toggle() {
	if n.Branch() {
		n.setExpanded(!n.expanded)
	}
}

// SetExpanded sets a branch's flag directly.
func (n *Node) SetExpanded(expanded bool) {
	if n.Branch() {
		n.setExpanded(expanded)
	}
}

func (n *Node) resync(expanded bool) {
	n.setExpanded(expanded)
}

func (n *Node) setExpanded(expanded bool) {
	if n.expanded == expanded {
		return
	}
	n.expanded = expanded
	if !expanded {
		n.releaseChildren()
	}
}

// Release unsubscribes the node and its subtree from the view.
func (n *Node) Release() {
	n.view.unsubscribe(n)
	n.releaseChildren()
}

func (n *Node) releaseChildren() {
	for _, c := range n.children {
		c.Release()
	}
	n.children = nil
}

func (n *Node) ensureChildren() []*Node {
	if n.children != nil {
		return n.children
	}
	childPath := func(i int) string {
		return n.path + "." + strconv.Itoa(i)
	}
	switch {
	case n.json != nil && n.json.Kind == document.Array:
		n.children = make([]*Node, 0, len(n.json.Items))
		for i, item := range n.json.Items {
			n.children = append(n.children, newNode(n.view, childPath(i), n.depth+1, strconv.Itoa(i), true, item, nil))
		}
	case n.json != nil && n.json.Kind == document.Object:
		n.children = make([]*Node, 0, len(n.json.Members))
		for i, m := range n.json.Members {
			n.children = append(n.children, newNode(n.view, childPath(i), n.depth+1, m.Key, true, m.Value, nil))
		}
	case n.xml != nil:
		n.children = make([]*Node, 0, len(n.xml.Children))
		for i, c := range n.xml.Children {
			n.children = append(n.children, newNode(n.view, childPath(i), n.depth+1, "", false, nil, c))
		}
	default:
		n.children = []*Node{}
	}
	return n.children
}

// Find returns the visible node at path. Nodes under expanded branches
// are visible whether or not they have been rendered yet.
func (n *Node) Find(path string) (*Node, bool) {
	if n.path == path {
		return n, true
	}
	if !strings.HasPrefix(path, n.path+".") || !n.expanded {
		return nil, false
	}
	for _, c := range n.ensureChildren() {
		if found, ok := c.Find(path); ok {
			return found, true
		}
	}
	return nil, false
}

// Rows flattens the visible part of the tree, materializing children of
// expanded branches as needed.
func (n *Node) Rows() []Row {
	rows := make([]Row, 0, 16)
	n.appendRows(&rows)
	return rows
}

func (n *Node) appendRows(rows *[]Row) {
	if n.json != nil {
		n.appendJSONRows(rows)
		return
	}
	if n.xml != nil {
		n.appendXMLRows(rows)
	}
}

func (n *Node) appendJSONRows(rows *[]Row) {
	v := n.json
	row := Row{
		Depth:   n.depth,
		Path:    n.path,
		Label:   n.label,
		Labeled: n.labeled,
		node:    n,
	}
	if !v.IsBranch() {
		row.Kind = RowLeaf
		row.Value, row.Class = formatPrimitive(v)
		*rows = append(*rows, row)
		return
	}
	row.Kind = RowBranch
	row.Expanded = n.expanded
	row.Class = ClassSummary
	if v.Kind == document.Array {
		row.Value = fmt.Sprintf("Array(%d)", v.Len())
	} else {
		row.Value = fmt.Sprintf("Object(%d)", v.Len())
	}
	*rows = append(*rows, row)
	if !n.expanded {
		return
	}
	for _, c := range n.ensureChildren() {
		c.appendRows(rows)
	}
}

func (n *Node) appendXMLRows(rows *[]Row) {
	x := n.xml
	row := Row{Kind: RowLeaf, Depth: n.depth, Path: n.path, node: n}
	switch x.Type {
	case document.TextNode:
		text := strings.TrimSpace(x.Data)
		if text == "" {
			return
		}
		row.Value, row.Class = `"`+text+`"`, ClassString
	case document.CDataNode:
		row.Value, row.Class = "<![CDATA["+x.Data+"]]>", ClassCDATA
	case document.CommentNode:
		row.Value, row.Class = "<!-- "+x.Data+" -->", ClassComment
	case document.ProcInstNode:
		row.Value, row.Class = "<?"+x.Name+" "+x.Data+"?>", ClassComment
	case document.DirectiveNode:
		row.Value, row.Class = "<!"+x.Data+">", ClassComment
	case document.ElementNode:
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(x.Name)
		for _, a := range x.Attrs {
			fmt.Fprintf(&b, ` %s="%s"`, a.Name, a.Value)
		}
		row.Class = ClassTag
		if !n.Branch() {
			b.WriteString(" />")
			row.Value = b.String()
			*rows = append(*rows, row)
			return
		}
		b.WriteString(">")
		row.Kind = RowBranch
		row.Expanded = n.expanded
		row.Value = b.String()
		*rows = append(*rows, row)
		if !n.expanded {
			return
		}
		for _, c := range n.ensureChildren() {
			c.appendRows(rows)
		}
		*rows = append(*rows, Row{
			Kind:  RowClose,
			Depth: n.depth,
			Path:  n.path,
			Value: "</" + x.Name + ">",
			Class: ClassTag,
			node:  n,
		})
		return
	}
	*rows = append(*rows, row)
}

func formatPrimitive(v *document.Value) (string, Class) {
	switch v.Kind {
	case document.String:
		return `"` + v.Str + `"`, ClassString
	case document.Null:
		return "null", ClassNull
	case document.Bool:
		return strconv.FormatBool(v.Bool), ClassBool
	case document.Number:
		return v.Number.String(), ClassNumber
	}
	return "", ClassNull
}
