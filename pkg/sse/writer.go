package sse

import (
	"io"
	"strings"
)

// WriteEvent serializes ev to w using SSE framing. Multi-line data is split
// across several "data:" fields so that a Decoder reproduces it exactly.
func WriteEvent(w io.Writer, ev Event) error {
	var b strings.Builder

	if ev.Type != "" {
		b.WriteString("event: ")
		b.WriteString(ev.Type)
		b.WriteByte('\n')
	}

	for _, line := range strings.Split(ev.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteComment writes an SSE comment line, typically used as a keep-alive.
func WriteComment(w io.Writer, text string) error {
	_, err := io.WriteString(w, ": "+text+"\n\n")
	return err
}
