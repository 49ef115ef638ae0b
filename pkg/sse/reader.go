package sse

import (
	"errors"
	"io"
)

const readChunkSize = 32 * 1024

// Reader reads SSE events from a source io.Reader by feeding whatever each
// Read returns through a LineDecoder and a Decoder. When a destination
// writer is configured, every raw byte is also written to it verbatim before
// being decoded.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │  Reader.Next()   │──▶│ destination io.Writer │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
type Reader struct {
	src  io.Reader
	dest io.Writer

	lines   *LineDecoder
	decoder *Decoder

	buf     []byte
	pending []*Event
	eof     bool
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader) *Reader {
	return NewTeeReader(src, nil)
}

// NewTeeReader returns a Reader that parses SSE events from src and writes
// all raw bytes through to dest. A nil dest disables the tee.
func NewTeeReader(src io.Reader, dest io.Writer) *Reader {
	return &Reader{
		src:     src,
		dest:    dest,
		lines:   NewLineDecoder(),
		decoder: NewDecoder(),
		buf:     make([]byte, readChunkSize),
	}
}

// Next returns the next parsed SSE event. It blocks until a complete event is
// available. If the source ends without a trailing blank line, the in-progress
// event is still yielded. Next returns nil, nil when the source is exhausted.
func (r *Reader) Next() (*Event, error) {
	for {
		if len(r.pending) > 0 {
			ev := r.pending[0]
			r.pending = r.pending[1:]
			return ev, nil
		}

		if r.eof {
			return nil, nil
		}

		n, err := r.src.Read(r.buf)
		if n > 0 {
			if r.dest != nil {
				if _, werr := r.dest.Write(r.buf[:n]); werr != nil {
					return nil, werr
				}
			}
			r.feed(string(r.buf[:n]))
		}

		if errors.Is(err, io.EOF) {
			r.eof = true
			r.flush()
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

// feed decodes a raw chunk and queues every completed event.
func (r *Reader) feed(chunk string) {
	for _, line := range r.lines.Decode(chunk) {
		if ev := r.decoder.Decode(line); ev != nil {
			r.pending = append(r.pending, ev)
		}
	}
}

// flush drains both decoders once the source is exhausted.
func (r *Reader) flush() {
	if line, ok := r.lines.Flush(); ok {
		if ev := r.decoder.Decode(line); ev != nil {
			r.pending = append(r.pending, ev)
		}
	}
	if ev := r.decoder.Flush(); ev != nil {
		r.pending = append(r.pending, ev)
	}
}
