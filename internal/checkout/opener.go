package checkout

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// PrintOpener writes the URI to W. It suits terminals and headless
// sessions where the user copies the link or scans it elsewhere.
type PrintOpener struct {
	W io.Writer
}

func (p PrintOpener) Open(_ context.Context, uri string, _ Target) error {
	_, err := fmt.Fprintf(p.W, "Open this link in your UPI app:\n  %s\n", uri)
	return err
}

// SystemOpener asks the operating system to open the URI with its
// registered handler (xdg-open, open, or rundll32). A non-zero exit is
// reported as ErrNotHandled so that probing moves on.
type SystemOpener struct {
	// command overrides the platform launcher in tests.
	command func(ctx context.Context, uri string) *exec.Cmd
}

func (s SystemOpener) Open(ctx context.Context, uri string, _ Target) error {
	build := s.command
	if build == nil {
		build = platformCommand
	}
	cmd := build(ctx, uri)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v", ErrNotHandled, uri, err)
	}
	return nil
}

func platformCommand(ctx context.Context, uri string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", uri)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		return exec.CommandContext(ctx, "xdg-open", uri)
	}
}
