package sse

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteEvent", func() {
	It("writes typed events with a blank line terminator", func() {
		var buf bytes.Buffer
		Expect(WriteEvent(&buf, Event{Type: "partial", Data: `{"text":"Hi"}`})).To(Succeed())
		Expect(buf.String()).To(Equal("event: partial\ndata: {\"text\":\"Hi\"}\n\n"))
	})

	It("splits multi-line data into several data fields", func() {
		var buf bytes.Buffer
		Expect(WriteEvent(&buf, Event{Data: "one\ntwo"})).To(Succeed())
		Expect(buf.String()).To(Equal("data: one\ndata: two\n\n"))
	})

	It("round-trips through Reader", func() {
		var buf bytes.Buffer
		Expect(WriteEvent(&buf, Event{Type: "completed", Data: " leading\nsecond"})).To(Succeed())
		Expect(WriteComment(&buf, "ping")).To(Succeed())

		r := NewReader(strings.NewReader(buf.String()))
		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("completed"))
		Expect(ev.Data).To(Equal(" leading\nsecond"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})
})
