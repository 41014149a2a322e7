package options

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// InputOptions selects where the text to process comes from.
type InputOptions struct {
	Text string
}

func AddInputArgs(cmd *cobra.Command, o *InputOptions) {
	cmd.Flags().StringVarP(&o.Text, "text", "t", "",
		"Text to process instead of a file or stdin.")
}

// ErrNoInput is returned when stdin is a terminal and nothing else was given.
var ErrNoInput = errors.New("no input: pass a file, --text, or pipe text on stdin")

// Read returns --text, the named file ("-" is stdin) or piped stdin.
func (o *InputOptions) Read(cmd *cobra.Command, args []string) (string, error) {
	if o.Text != "" {
		return o.Text, nil
	}
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(b), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return "", ErrNoInput
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
