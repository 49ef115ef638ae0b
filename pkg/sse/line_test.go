package sse

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LineDecoder", func() {
	var d *LineDecoder

	BeforeEach(func() {
		d = NewLineDecoder()
	})

	It("returns complete lines from a single chunk", func() {
		Expect(d.Decode("one\ntwo\n")).To(Equal([]string{"one", "two"}))
		Expect(d.Buffered()).To(Equal(0))
	})

	It("buffers a trailing fragment until its newline arrives", func() {
		Expect(d.Decode("data: hel")).To(BeEmpty())
		Expect(d.Decode("lo\nnext")).To(Equal([]string{"data: hello"}))
		Expect(d.Buffered()).To(Equal(len("next")))
	})

	It("strips a single trailing carriage return", func() {
		Expect(d.Decode("crlf\r\n")).To(Equal([]string{"crlf"}))
	})

	It("strips a carriage return split from its newline", func() {
		Expect(d.Decode("split\r")).To(BeEmpty())
		Expect(d.Decode("\n")).To(Equal([]string{"split"}))
	})

	It("emits empty lines for blank separators", func() {
		Expect(d.Decode("a\n\nb\n")).To(Equal([]string{"a", "", "b"}))
	})

	It("ignores empty chunks", func() {
		Expect(d.Decode("")).To(BeNil())
	})

	Describe("Flush", func() {
		It("returns the leftover unterminated line once", func() {
			d.Decode("tail")

			line, ok := d.Flush()
			Expect(ok).To(BeTrue())
			Expect(line).To(Equal("tail"))

			_, ok = d.Flush()
			Expect(ok).To(BeFalse())
		})

		It("reports nothing when the buffer is empty", func() {
			d.Decode("done\n")

			_, ok := d.Flush()
			Expect(ok).To(BeFalse())
		})
	})

	It("never drops or duplicates bytes across arbitrary splits", func() {
		input := "first line\nsecond\r\n\nthird 多字节\nunterminated"
		for split := 0; split <= len(input); split++ {
			dec := NewLineDecoder()
			lines := dec.Decode(input[:split])
			lines = append(lines, dec.Decode(input[split:])...)
			tail, _ := dec.Flush()

			Expect(lines).To(Equal([]string{"first line", "second", "", "third 多字节"}), "split at %d", split)
			Expect(tail).To(Equal("unterminated"), "split at %d", split)
		}
	})

	It("exposes the held-back fragment", func() {
		dec := NewLineDecoder()
		dec.Decode("data: one\ndata: tw")
		Expect(dec.Pending()).To(Equal("data: tw"))
	})
})
