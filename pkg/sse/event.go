// Package sse provides small, purpose-built SSE (Server-Sent Events) decoding
// primitives for lingo's streaming translation pipeline.
//
// Decoding is split in two stateful stages so that arbitrarily fragmented
// network chunks can be fed in without any I/O:
//
//	raw chunk ──▶ LineDecoder ──▶ lines ──▶ Decoder ──▶ *Event
//
// Both stages are scoped to exactly one stream. Sharing a decoder between
// concurrent streams corrupts its carry-over buffers.
//
// Only the "event" and "data" fields are interpreted. Framing follows
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single decoded SSE message, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the last "event:" field value seen since the previous message
	// boundary. Use HasType to tell an absent field from an empty one.
	Type string

	// Data is the contents of all "data:" lines for this message, joined
	// with "\n".
	Data string

	// Raw holds the lines that made up this message, in arrival order.
	Raw []string

	typed bool
}

// HasType reports whether an "event:" field was sent for this message.
func (e *Event) HasType() bool {
	return e.typed
}
