// Package launch opens viewer URLs.
package launch

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Browser opens URLs in the default browser. The opener process is
// started, not awaited, and reaped in the background.
type Browser struct{}

func (Browser) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := start(cmd)
	return err
}

// start runs cmd without waiting for it. The returned channel is closed
// once the process has been reaped.
func start(cmd *exec.Cmd) (<-chan struct{}, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	return done, nil
}

// Printer writes each URL on its own line instead of opening it.
type Printer struct {
	Out io.Writer
}

func (p Printer) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintln(p.Out, url)
	return err
}

// Func adapts a function to an opener.
type Func func(ctx context.Context, url string) error

func (f Func) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}
