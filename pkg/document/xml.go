package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NodeType is the DOM type of an XML node.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CDataNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Attr is a name/value attribute pair. Name keeps the prefix as written.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of an XML document tree. Name is set for elements and
// processing instructions; Data holds the character content of every
// other node type.
type Node struct {
	Type     NodeType
	Name     string
	Attrs    []Attr
	Children []*Node
	Data     string
}

// XMLDocument is a parsed XML document: prolog and epilog nodes around a
// single root element.
type XMLDocument struct {
	Nodes []*Node
	Root  *Node
}

// ParserErrorTag is the element name some XML parsers embed instead of
// failing; a document containing it is treated as malformed.
const ParserErrorTag = "parsererror"

// IsBlank reports whether n is a text node holding only whitespace.
func (n *Node) IsBlank() bool {
	return n.Type == TextNode && strings.TrimSpace(n.Data) == ""
}

// SignificantChildren returns the children that are not whitespace-only
// text.
func (n *Node) SignificantChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsBlank() {
			out = append(out, c)
		}
	}
	return out
}

// ParseXML parses text into an XMLDocument.
func ParseXML(text string) (*XMLDocument, error) {
	input := []byte(text)
	dec := xml.NewDecoder(bytes.NewReader(input))
	dec.Strict = true

	doc := &XMLDocument{}
	var stack []*Node

	appendNode := func(n *Node) {
		if len(stack) == 0 {
			doc.Nodes = append(doc.Nodes, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
	}

	for {
		offset := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && doc.Root != nil {
				return nil, fmt.Errorf("line %d: extra content at the end of the document", lineAt(input, offset))
			}
			el := &Node{Type: ElementNode, Name: qualified(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			appendNode(el)
			if len(stack) == 0 {
				doc.Root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: unexpected end element </%s>", lineAt(input, offset), name)
			}
			open := stack[len(stack)-1]
			if open.Name != name {
				return nil, fmt.Errorf("line %d: element <%s> closed by </%s>", lineAt(input, offset), open.Name, name)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			data := string(t)
			cdata := bytes.HasPrefix(input[offset:], []byte("<![CDATA["))
			if len(stack) == 0 && cdata {
				return nil, fmt.Errorf("line %d: CDATA is not allowed outside the root element", lineAt(input, offset))
			}
			if cdata {
				appendNode(&Node{Type: CDataNode, Data: data})
				continue
			}
			if len(stack) == 0 {
				if strings.TrimSpace(data) != "" {
					return nil, fmt.Errorf("line %d: content is not allowed outside the root element", lineAt(input, offset))
				}
				continue
			}
			appendNode(&Node{Type: TextNode, Data: data})
		case xml.Comment:
			appendNode(&Node{Type: CommentNode, Data: string(t)})
		case xml.ProcInst:
			appendNode(&Node{Type: ProcInstNode, Name: t.Target, Data: string(t.Inst)})
		case xml.Directive:
			appendNode(&Node{Type: DirectiveNode, Data: string(t)})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unexpected end of input: element <%s> is not closed", stack[len(stack)-1].Name)
	}
	if doc.Root == nil {
		return nil, errors.New("no root element found")
	}
	return doc, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func lineAt(input []byte, offset int64) int {
	if offset > int64(len(input)) {
		offset = int64(len(input))
	}
	return bytes.Count(input[:offset], []byte("\n")) + 1
}

// HasParserError reports whether the tree contains a parsererror element.
func (d *XMLDocument) HasParserError() bool {
	var walk func(nodes []*Node) bool
	walk = func(nodes []*Node) bool {
		for _, n := range nodes {
			if n.Type != ElementNode {
				continue
			}
			if n.Name == ParserErrorTag || strings.HasSuffix(n.Name, ":"+ParserErrorTag) {
				return true
			}
			if walk(n.Children) {
				return true
			}
		}
		return false
	}
	return walk(d.Nodes)
}

// Serialize writes the document the way a DOM serializer does: childless
// elements self-close as <name/> and no whitespace is added.
func (d *XMLDocument) Serialize() string {
	var b strings.Builder
	for _, n := range d.Nodes {
		writeXML(&b, n)
	}
	return b.String()
}

// Serialize writes n and its subtree.
func (n *Node) Serialize() string {
	var b strings.Builder
	writeXML(&b, n)
	return b.String()
}

func writeXML(b *strings.Builder, n *Node) {
	switch n.Type {
	case ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Name)
		for _, a := range n.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(attrEscaper.Replace(a.Value))
			b.WriteByte('"')
		}
		if len(n.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			writeXML(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	case TextNode:
		b.WriteString(textEscaper.Replace(n.Data))
	case CDataNode:
		b.WriteString("<![CDATA[")
		b.WriteString(n.Data)
		b.WriteString("]]>")
	case CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case ProcInstNode:
		b.WriteString("<?")
		b.WriteString(n.Name)
		if n.Data != "" {
			b.WriteByte(' ')
			b.WriteString(n.Data)
		}
		b.WriteString("?>")
	case DirectiveNode:
		b.WriteString("<!")
		b.WriteString(n.Data)
		b.WriteByte('>')
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)
