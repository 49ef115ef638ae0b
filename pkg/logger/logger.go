// Package logger builds the slog loggers used by the lingo commands and server.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type config struct {
	level  slog.Level
	pretty bool
	json   bool
	w      io.Writer
}

// New creates a *slog.Logger writing to stdout unless WithWriter says
// otherwise. JSON output wins over pretty output when both are requested.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, w: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	return slog.New(c.handler())
}

func (c *config) handler() slog.Handler {
	if c.json {
		return slog.NewJSONHandler(c.w, &slog.HandlerOptions{Level: c.level})
	}
	if c.pretty {
		return log.NewWithOptions(c.w, log.Options{
			Level:           log.Level(c.level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
		})
	}
	return slog.NewTextHandler(c.w, &slog.HandlerOptions{Level: c.level})
}

// File opens path for appending and returns a JSON logger that writes to it.
// The caller closes the returned file once logging is done.
func File(path string, debug bool) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(WithDebug(debug), WithJSON(true), WithWriter(f)), f, nil
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
