package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// ErrNoURL is returned when there is nothing to open
var ErrNoURL = errors.New("no link available")

// Opener opens book links in a browser
type Opener struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// run starts the command; replaced in tests
	run func(cmd *exec.Cmd) error
}

// NewOpener creates a new Opener
func NewOpener(cfg BrowserConfig, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command: cfg.Command,
		args:    cfg.Args,
		logger:  logger,
		run:     func(cmd *exec.Cmd) error { return cmd.Start() }, // Start async, don't wait
	}
}

// Open opens the URL in the configured browser or system default
func (o *Opener) Open(ctx context.Context, url string) error {
	if url == "" {
		return ErrNoURL
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// The browser outlives ctx, so it is not bound to it
	cmd := o.buildCommand(url)
	o.logger.Info("opening link", "command", cmd.Path, "args", cmd.Args[1:])

	if err := o.run(cmd); err != nil {
		o.logger.Error("failed to open link", "error", err, "url", url)
		return fmt.Errorf("failed to open link: %w", err)
	}
	return nil
}

// buildCommand builds the command for the configured browser or the platform default
func (o *Opener) buildCommand(url string) *exec.Cmd {
	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		return exec.Command(o.command, args...)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		return exec.Command("xdg-open", url)
	}
}
