package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/llm"
)

var _ = Describe("MergeExtraBody", func() {
	body := []byte(`{"model":"gpt-4o","temperature":0.2}`)

	It("returns the body unchanged for an empty overlay", func() {
		out, err := llm.MergeExtraBody(body, "  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(body))
	})

	It("overrides and adds top-level keys", func() {
		out, err := llm.MergeExtraBody(body, `{"temperature":0.7,"reasoning":{"effort":"low"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(`{"model":"gpt-4o","temperature":0.7,"reasoning":{"effort":"low"}}`))
	})

	It("keeps dotted keys literal", func() {
		out, err := llm.MergeExtraBody(body, `{"a.b":1}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(`{"model":"gpt-4o","temperature":0.2,"a.b":1}`))
	})

	It("rejects non-object overlays", func() {
		_, err := llm.MergeExtraBody(body, `[1,2]`)
		Expect(err).To(HaveOccurred())

		_, err = llm.MergeExtraBody(body, `{"broken":`)
		Expect(err).To(HaveOccurred())
	})
})
