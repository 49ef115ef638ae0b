package lang_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/llm"
)

var _ = Describe("Languages", func() {
	It("names known codes", func() {
		Expect(lang.Name("fr")).To(Equal("French"))
		Expect(lang.Name(lang.Cantonese)).To(Equal("粤语"))
	})

	It("passes unknown codes through", func() {
		Expect(lang.Name("xx")).To(Equal("xx"))
		Expect(lang.IsSupported("xx")).To(BeFalse())
	})

	It("lists auto first", func() {
		all := lang.Supported()
		Expect(all[0].Code).To(Equal(lang.Auto))
		Expect(len(all)).To(BeNumerically(">", 100))
	})

	It("returns a copy", func() {
		all := lang.Supported()
		all[0].Name = "changed"
		Expect(lang.Supported()[0].Name).To(Equal("auto"))
	})

	Describe("CheckTarget", func() {
		It("accepts supported targets", func() {
			Expect(lang.CheckTarget("ja")).To(Succeed())
		})

		It("rejects auto and unknown codes", func() {
			for _, code := range []string{lang.Auto, "klingon"} {
				se, ok := llm.AsServiceError(lang.CheckTarget(code))
				Expect(ok).To(BeTrue())
				Expect(se.Kind).To(Equal(llm.ErrorUnsupportedLanguage))
			}
		})
	})
})
