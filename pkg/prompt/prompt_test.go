package prompt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/prompt"
)

var _ = Describe("Generate", func() {
	DescribeTable("user prompt instruction",
		func(from, to, want string) {
			system, user := prompt.Generate(prompt.Query{Text: "hello", From: from, To: to}, prompt.Options{})
			Expect(user).To(Equal(want + ":\n\nhello"))
			if from != to {
				Expect(system).To(Equal(prompt.DefaultSystemPrompt))
			}
		},
		Entry("plain pair", "en", "fr", "translate from English to French"),
		Entry("unknown codes pass through", "xx", "en", "translate from xx to English"),
		Entry("into classical chinese", "en", "wyw", "翻译成文言文"),
		Entry("into cantonese", "ja", "yue", "翻译成粤语"),
		Entry("classical to traditional", "wyw", "zh-Hant", "翻译成繁体白话文"),
		Entry("traditional to simplified", "zh-Hant", "zh-Hans", "翻译成简体白话文"),
		Entry("simplified to cantonese", "zh-Hans", "yue", "翻译成粤语白话文"),
		Entry("polish chinese", "zh-Hans", "zh-Hans", "润色此句"),
		Entry("polish other", "en", "en", "polish this sentence"),
	)

	It("switches to the embellisher for same-language input", func() {
		system, _ := prompt.Generate(prompt.Query{Text: "x", From: "de", To: "de"}, prompt.Options{})
		Expect(system).To(Equal(prompt.PolishSystemPrompt))
	})

	It("prefers custom templates", func() {
		system, user := prompt.Generate(
			prompt.Query{Text: "Hi", From: "en", To: "ja"},
			prompt.Options{SystemPrompt: "Translate into $targetLang.", UserPrompt: "[$sourceLang] $text"},
		)
		Expect(system).To(Equal("Translate into ja."))
		Expect(user).To(Equal("[en] Hi"))
	})
})

var _ = Describe("ReplaceKeywords", func() {
	It("replaces only the first occurrence", func() {
		out := prompt.ReplaceKeywords("$text / $text", prompt.Query{Text: "a"})
		Expect(out).To(Equal("a / $text"))
	})

	It("keeps empty templates empty", func() {
		Expect(prompt.ReplaceKeywords("", prompt.Query{Text: "a"})).To(BeEmpty())
	})
})
