package document

import (
	"strings"
	"testing"
)

func TestParseJSONKeepsMemberOrder(t *testing.T) {
	v, err := ParseJSON(`{"z":1,"a":{"y":true,"b":null},"m":["s",2.5]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.Kind != Object || v.Len() != 3 {
		t.Fatalf("expected object with 3 members, got %v(%d)", v.Kind, v.Len())
	}
	keys := []string{}
	for _, m := range v.Members {
		keys = append(keys, m.Key)
	}
	if got := strings.Join(keys, ","); got != "z,a,m" {
		t.Fatalf("expected insertion order z,a,m; got %s", got)
	}
	a, ok := v.Get("a")
	if !ok || a.Members[0].Key != "y" || a.Members[1].Value.Kind != Null {
		t.Fatalf("unexpected nested object %+v", a)
	}
}

func TestParseJSONDuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := ParseJSON(`{"a":1,"b":2,"a":3}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := v.Compact(); got != `{"a":3,"b":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := map[string]string{
		"missing value": `{"a":}`,
		"empty":         ``,
		"truncated":     `[1,2`,
		"trailing":      `{} {}`,
		"garbage":       `nope`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJSON(input); err == nil {
				t.Fatalf("expected error for %q", input)
			}
		})
	}
}

func TestJSONPrettyAndCompact(t *testing.T) {
	v, err := ParseJSON(`{"a":1,"b":[1,2,3],"c":{},"d":[],"e":"<tag>&"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2,\n    3\n  ],\n  \"c\": {},\n  \"d\": [],\n  \"e\": \"<tag>&\"\n}"
	if got := v.Pretty(); got != want {
		t.Fatalf("pretty mismatch:\n got %q\nwant %q", got, want)
	}
	if got := v.Compact(); got != `{"a":1,"b":[1,2,3],"c":{},"d":[],"e":"<tag>&"}` {
		t.Fatalf("compact mismatch: %s", got)
	}
}

func TestJSONNormalizesNumbersAndStrings(t *testing.T) {
	v, err := ParseJSON("{\"a\":1.0,\"b\":1E2,\"c\":-0,\"d\":1.50,\"e\":1e21,\"f\":0.0000001,\"g\":0.000001,\"h\":1e400,\"s\":\"x\\u2028y\\u0001\"}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "{\"a\":1,\"b\":100,\"c\":0,\"d\":1.5,\"e\":1e+21,\"f\":1e-7,\"g\":0.000001,\"h\":null,\"s\":\"x\u2028y\\u0001\"}"
	if got := v.Compact(); got != want {
		t.Fatalf("compact mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestValueEqualComparesNumbersByValue(t *testing.T) {
	a, _ := ParseJSON(`[1.0, {"k": "v"}]`)
	b, _ := ParseJSON(`[1, {"k": "v"}]`)
	c, _ := ParseJSON(`[1, {"k": "w"}]`)
	if !a.Equal(b) {
		t.Fatalf("expected 1.0 and 1 to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected different strings to differ")
	}
}

func TestParseXMLNodeTypes(t *testing.T) {
	doc, err := ParseXML(`<?xml version="1.0"?><root a="1" x:b="2"><!-- note --><![CDATA[1 < 2]]>text<child/>  </root>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].Type != ProcInstNode {
		t.Fatalf("expected prolog + root, got %d nodes", len(doc.Nodes))
	}
	root := doc.Root
	if root.Name != "root" || len(root.Attrs) != 2 || root.Attrs[1].Name != "x:b" {
		t.Fatalf("unexpected root %+v", root)
	}
	types := []NodeType{CommentNode, CDataNode, TextNode, ElementNode, TextNode}
	if len(root.Children) != len(types) {
		t.Fatalf("expected %d children, got %d", len(types), len(root.Children))
	}
	for i, want := range types {
		if root.Children[i].Type != want {
			t.Fatalf("child %d: expected type %d, got %d", i, want, root.Children[i].Type)
		}
	}
	if root.Children[1].Data != "1 < 2" {
		t.Fatalf("unexpected cdata %q", root.Children[1].Data)
	}
	if got := len(root.SignificantChildren()); got != 4 {
		t.Fatalf("expected 4 significant children, got %d", got)
	}
}

func TestParseXMLErrors(t *testing.T) {
	tests := map[string]string{
		"unclosed":   `<a><b></a>`,
		"eof":        `<a>`,
		"two roots":  `<a/><b/>`,
		"empty":      ``,
		"stray text": `hello<a/>`,
		"bad entity": `<a>&nbsp;</a>`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseXML(input); err == nil {
				t.Fatalf("expected error for %q", input)
			}
		})
	}
}

func TestXMLSerialize(t *testing.T) {
	doc, err := ParseXML("<a x=\"&quot;q&quot;\">\n  <b></b>\n  <c>1 &amp; 2</c>\n</a>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "<a x=\"&quot;q&quot;\">\n  <b/>\n  <c>1 &amp; 2</c>\n</a>"
	if got := doc.Serialize(); got != want {
		t.Fatalf("serialize mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestHasParserError(t *testing.T) {
	doc, err := ParseXML(`<html><body><parsererror>boom</parsererror></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !doc.HasParserError() {
		t.Fatalf("expected parsererror to be detected")
	}
	ok, _ := ParseXML(`<a><b/></a>`)
	if ok.HasParserError() {
		t.Fatalf("unexpected parsererror")
	}
}
