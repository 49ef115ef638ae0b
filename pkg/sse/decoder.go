package sse

import "strings"

// MaxEventSize bounds the data accumulated for a single pending message.
// A message that grows past it is dropped at its boundary rather than held
// in memory indefinitely.
const MaxEventSize = 8 * 1024 * 1024

// Decoder reassembles decoded lines into complete SSE messages.
//
// The zero value is ready to use.
type Decoder struct {
	eventType string
	typed     bool
	data      []string
	raw       []string
	size      int

	overflow bool
	dropped  int
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode consumes one line and returns the completed message when the line is
// a message boundary, or nil otherwise. Decode never fails: comments,
// malformed lines, and unknown fields are skipped.
func (d *Decoder) Decode(line string) *Event {
	line = strings.TrimSuffix(line, "\r")

	// A blank line signals the end of the current message.
	if line == "" {
		return d.emit()
	}

	if !d.overflow {
		d.raw = append(d.raw, line)
	}

	// Lines starting with ':' are comments.
	if strings.HasPrefix(line, ":") {
		return nil
	}

	field, value, ok := strings.Cut(line, ":")
	if !ok {
		// No colon: nothing the supported providers send, skip it.
		return nil
	}

	// Strip a single leading space after the colon.
	value = strings.TrimPrefix(value, " ")

	switch field {
	case "event":
		d.eventType = value
		d.typed = true
	case "data":
		d.size += len(value) + 1
		if d.size > MaxEventSize {
			d.overflow = true
			d.data = nil
			d.raw = nil
			return nil
		}
		if !d.overflow {
			d.data = append(d.data, value)
		}
	default:
		// "id", "retry" and unknown fields are ignored.
	}

	return nil
}

// Flush emits the pending message, if any, as though a blank line had been
// received. Call it once the transport reports the end of the stream.
func (d *Decoder) Flush() *Event {
	return d.emit()
}

// PendingData returns the data lines of the message being assembled. The
// slice is only valid until the next call to Decode or Flush.
func (d *Decoder) PendingData() []string {
	return d.data
}

// Dropped returns how many messages were discarded for exceeding
// MaxEventSize.
func (d *Decoder) Dropped() int {
	return d.dropped
}

func (d *Decoder) emit() *Event {
	if d.overflow {
		d.dropped++
		d.reset()
		return nil
	}

	// Consecutive blank lines, or a boundary after only comments.
	if !d.typed && len(d.data) == 0 {
		d.reset()
		return nil
	}

	ev := &Event{
		Type:  d.eventType,
		Data:  strings.Join(d.data, "\n"),
		Raw:   d.raw,
		typed: d.typed,
	}
	d.reset()

	return ev
}

// reset clears the accumulated message state for the next message.
func (d *Decoder) reset() {
	d.eventType = ""
	d.typed = false
	d.data = nil
	d.raw = nil
	d.size = 0
	d.overflow = false
}
