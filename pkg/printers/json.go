package printers

import (
	"encoding/json"
	"io"
)

// JSON writes v as one line of JSON. Markup in string values is written
// as is, not as < escapes.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
