package sse

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// decodeAll runs chunks through a fresh LineDecoder and Decoder and returns
// every completed event, flushing both at the end.
func decodeAll(chunks ...string) []*Event {
	lines := NewLineDecoder()
	dec := NewDecoder()

	var events []*Event
	for _, chunk := range chunks {
		for _, line := range lines.Decode(chunk) {
			if ev := dec.Decode(line); ev != nil {
				events = append(events, ev)
			}
		}
	}
	if line, ok := lines.Flush(); ok {
		if ev := dec.Decode(line); ev != nil {
			events = append(events, ev)
		}
	}
	if ev := dec.Flush(); ev != nil {
		events = append(events, ev)
	}

	return events
}

var _ = Describe("Decoder", func() {
	var d *Decoder

	BeforeEach(func() {
		d = NewDecoder()
	})

	It("emits a message on the blank line", func() {
		Expect(d.Decode("event: response.output_text.delta")).To(BeNil())
		Expect(d.Decode(`data: {"delta":"Hi"}`)).To(BeNil())

		ev := d.Decode("")
		Expect(ev).NotTo(BeNil())
		Expect(ev.Type).To(Equal("response.output_text.delta"))
		Expect(ev.HasType()).To(BeTrue())
		Expect(ev.Data).To(Equal(`{"delta":"Hi"}`))
		Expect(ev.Raw).To(Equal([]string{"event: response.output_text.delta", `data: {"delta":"Hi"}`}))
	})

	It("reports the pending data lines until the message is emitted", func() {
		d.Decode("data: one")
		d.Decode(": comment")
		d.Decode("data: two")
		Expect(d.PendingData()).To(Equal([]string{"one", "two"}))

		Expect(d.Flush().Data).To(Equal("one\ntwo"))
		Expect(d.PendingData()).To(BeEmpty())
	})

	It("joins multiple data lines with a newline in order", func() {
		d.Decode("data: line one")
		d.Decode("data: line two")
		d.Decode("data: line three")

		ev := d.Decode("")
		Expect(ev.Data).To(Equal("line one\nline two\nline three"))
		Expect(ev.HasType()).To(BeFalse())
	})

	It("ignores consecutive blank lines", func() {
		Expect(d.Decode("")).To(BeNil())
		Expect(d.Decode("")).To(BeNil())
	})

	It("ignores comments", func() {
		Expect(d.Decode(": keep-alive")).To(BeNil())
		Expect(d.Decode("")).To(BeNil())
	})

	It("ignores lines without a colon", func() {
		Expect(d.Decode("garbage")).To(BeNil())
		Expect(d.Decode("")).To(BeNil())
	})

	It("ignores id, retry and unknown fields", func() {
		d.Decode("id: 7")
		d.Decode("retry: 3000")
		d.Decode("foo: bar")
		Expect(d.Decode("")).To(BeNil())
	})

	It("strips exactly one leading space from values", func() {
		d.Decode("data:  padded")
		Expect(d.Decode("").Data).To(Equal(" padded"))

		d.Decode("data:tight")
		Expect(d.Decode("").Data).To(Equal("tight"))
	})

	It("strips a trailing carriage return from raw lines", func() {
		d.Decode("data: value\r")
		Expect(d.Decode("\r").Data).To(Equal("value"))
	})

	It("keeps the last event name before the boundary", func() {
		d.Decode("event: first")
		d.Decode("event: second")
		d.Decode("data: x")
		Expect(d.Decode("").Type).To(Equal("second"))
	})

	It("emits an event-only message with empty data", func() {
		d.Decode("event: ping")
		ev := d.Decode("")
		Expect(ev).NotTo(BeNil())
		Expect(ev.Data).To(BeEmpty())
	})

	It("resets the event name between messages", func() {
		d.Decode("event: typed")
		d.Decode("data: a")
		d.Decode("")

		d.Decode("data: b")
		ev := d.Decode("")
		Expect(ev.Type).To(BeEmpty())
		Expect(ev.HasType()).To(BeFalse())
	})

	Describe("Flush", func() {
		It("emits the pending message without a trailing blank line", func() {
			d.Decode("data: tail")
			ev := d.Flush()
			Expect(ev).NotTo(BeNil())
			Expect(ev.Data).To(Equal("tail"))
			Expect(d.Flush()).To(BeNil())
		})
	})

	Describe("MaxEventSize", func() {
		It("drops a message that grows past the limit", func() {
			big := strings.Repeat("x", MaxEventSize/2)
			d.Decode("data: " + big)
			d.Decode("data: " + big)
			d.Decode("data: " + big)
			Expect(d.Decode("")).To(BeNil())
			Expect(d.Dropped()).To(Equal(1))

			d.Decode("data: small")
			Expect(d.Decode("").Data).To(Equal("small"))
		})
	})

	Describe("chunk-boundary invariance", func() {
		stream := "event: response.output_text.delta\r\n" +
			"data: {\"delta\":\"Hel\"}\r\n\r\n" +
			": comment\n" +
			"data: first\ndata: second\n\n\n" +
			"event: response.completed\ndata: {}\n\n" +
			"data: [DONE]\n\n"

		It("decodes the same messages for every two-way split", func() {
			whole := decodeAll(stream)
			Expect(whole).To(HaveLen(4))

			for i := 0; i <= len(stream); i++ {
				Expect(decodeAll(stream[:i], stream[i:])).To(Equal(whole), "split at %d", i)
			}
		})

		It("decodes the same messages when fed one byte at a time", func() {
			chunks := make([]string, 0, len(stream))
			for i := range len(stream) {
				chunks = append(chunks, stream[i:i+1])
			}
			Expect(decodeAll(chunks...)).To(Equal(decodeAll(stream)))
		})
	})
})
