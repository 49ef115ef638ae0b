package cliui

import (
	"io"
	"strings"
	"sync"
)

// LiveWriter prints a growing text by writing only what is new since the
// previous update. It is safe to call Update from the translation callback.
type LiveWriter struct {
	mu      sync.Mutex
	w       io.Writer
	printed string
}

// NewLiveWriter returns a LiveWriter writing to w.
func NewLiveWriter(w io.Writer) *LiveWriter {
	return &LiveWriter{w: w}
}

// Update writes the suffix of text not yet printed. A text that does not
// extend the printed one starts over on a new line.
func (l *LiveWriter) Update(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.HasPrefix(text, l.printed) {
		_, _ = io.WriteString(l.w, text[len(l.printed):])
	} else {
		_, _ = io.WriteString(l.w, "\n"+text)
	}
	l.printed = text
}

// Printed returns everything written so far.
func (l *LiveWriter) Printed() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.printed
}
