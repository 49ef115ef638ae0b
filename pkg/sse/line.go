package sse

import "strings"

// LineDecoder splits a stream of text chunks into newline-terminated lines,
// buffering the incomplete trailing fragment across calls.
//
// The zero value is ready to use.
type LineDecoder struct {
	buf strings.Builder
}

// NewLineDecoder returns an empty LineDecoder.
func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

// Decode appends chunk to the carry-over buffer and returns every complete
// line it now contains, in order. One trailing "\r" is stripped from each
// line. Whatever follows the last "\n" stays buffered for the next call.
func (d *LineDecoder) Decode(chunk string) []string {
	if chunk == "" {
		return nil
	}

	// Fast path: nothing buffered and no newline in the chunk.
	if d.buf.Len() == 0 && !strings.Contains(chunk, "\n") {
		d.buf.WriteString(chunk)
		return nil
	}

	d.buf.WriteString(chunk)
	pending := d.buf.String()

	var lines []string
	for {
		idx := strings.IndexByte(pending, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, strings.TrimSuffix(pending[:idx], "\r"))
		pending = pending[idx+1:]
	}

	d.buf.Reset()
	d.buf.WriteString(pending)

	return lines
}

// Flush returns any leftover unterminated line and clears the buffer.
// The boolean is false when nothing was buffered.
func (d *LineDecoder) Flush() (string, bool) {
	if d.buf.Len() == 0 {
		return "", false
	}

	line := strings.TrimSuffix(d.buf.String(), "\r")
	d.buf.Reset()

	return line, true
}

// Pending returns the unterminated fragment held back for the next chunk.
func (d *LineDecoder) Pending() string {
	return d.buf.String()
}

// Buffered returns the number of bytes currently held back.
func (d *LineDecoder) Buffered() int {
	return d.buf.Len()
}
