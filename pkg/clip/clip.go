// Package clip writes formatted output to the system clipboard.
package clip

import (
	"github.com/atotto/clipboard"
)

// Clipboard is a write-only clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// System is the OS clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Func adapts a function to a Clipboard.
type Func func(text string) error

func (f Func) WriteAll(text string) error { return f(text) }

// Copy writes text to c. Clipboard failures are not fatal, so Copy only
// reports whether the write succeeded.
func Copy(c Clipboard, text string) bool {
	if c == nil {
		return false
	}
	return c.WriteAll(text) == nil
}
