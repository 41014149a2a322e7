// Package document holds the immutable in-memory forms of the documents
// jview formats and renders: an ordered JSON value and an XML node tree.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ValueKind is the JSON type of a Value.
type ValueKind int

const (
	Null ValueKind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a parsed JSON value. Object members keep their source order.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Number  json.Number
	Str     string
	Items   []*Value
	Members []Member
}

// IsBranch reports whether v is an array or an object.
func (v *Value) IsBranch() bool {
	return v != nil && (v.Kind == Array || v.Kind == Object)
}

// Len is the entry count of an array or object and zero otherwise.
func (v *Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Members)
	}
	return 0
}

// Get returns the member value for key.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Equal reports deep equality. Numbers compare by their float value so
// that 1 and 1.0 are equal.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Null:
		return true
	case Bool:
		return v.Bool == o.Bool
	case Number:
		if v.Number == o.Number {
			return true
		}
		a, errA := v.Number.Float64()
		b, errB := o.Number.Float64()
		return errA == nil && errB == nil && a == b
	case String:
		return v.Str == o.Str
	case Array:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.Members) != len(o.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != o.Members[i].Key || !v.Members[i].Value.Equal(o.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// ParseJSON parses exactly one JSON value from text.
func ParseJSON(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of JSON input")
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return &Value{Kind: Null}, nil
	case bool:
		return &Value{Kind: Bool, Bool: t}, nil
	case json.Number:
		return numberValue(t), nil
	case string:
		return &Value{Kind: String, Str: t}, nil
	case json.Delim:
		switch t {
		case '[':
			arr := &Value{Kind: Array, Items: []*Value{}}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				arr.Items = append(arr.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return arr, nil
		case '{':
			obj := &Value{Kind: Object, Members: []Member{}}
			index := map[string]int{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", kt)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				// A repeated key keeps its first position with the last value.
				if i, seen := index[key]; seen {
					obj.Members[i].Value = val
					continue
				}
				index[key] = len(obj.Members)
				obj.Members = append(obj.Members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// numberValue normalizes a number literal to the shortest form of its
// float64 value, so 1.0 is 1, 1E2 is 100 and -0 is 0. Literals past the
// float64 range become null.
func numberValue(lit json.Number) *Value {
	f, err := strconv.ParseFloat(string(lit), 64)
	if err != nil {
		if math.IsInf(f, 0) {
			return &Value{Kind: Null}
		}
		return &Value{Kind: Number, Number: lit}
	}
	return &Value{Kind: Number, Number: json.Number(formatNumber(f))}
}

// formatNumber prints plain decimals for magnitudes in [1e-6, 1e21) and
// exponent form with an unpadded exponent otherwise.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	s = strings.Replace(s, "e+0", "e+", 1)
	return strings.Replace(s, "e-0", "e-", 1)
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return errors.New("unexpected end of JSON input")
	}
	return err
}

// Pretty serializes v with two-space indentation.
func (v *Value) Pretty() string {
	var b bytes.Buffer
	writeJSON(&b, v, "  ", 0)
	return b.String()
}

// Compact serializes v with no insignificant whitespace.
func (v *Value) Compact() string {
	var b bytes.Buffer
	writeJSON(&b, v, "", 0)
	return b.String()
}

func writeJSON(b *bytes.Buffer, v *Value, indent string, depth int) {
	newline := func(d int) {
		if indent == "" {
			return
		}
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(indent, d))
	}
	switch v.Kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(v.Number.String())
	case String:
		b.WriteString(Quote(v.Str))
	case Array:
		if len(v.Items) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(depth + 1)
			writeJSON(b, item, indent, depth+1)
		}
		newline(depth)
		b.WriteByte(']')
	case Object:
		if len(v.Members) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(depth + 1)
			b.WriteString(Quote(m.Key))
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			writeJSON(b, m.Value, indent, depth+1)
		}
		newline(depth)
		b.WriteByte('}')
	}
}

// Quote renders s as a JSON string literal. Only quotes, backslashes and
// control characters are escaped; markup and U+2028/U+2029 are written
// as is.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
