package translate_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/translate"
)

var _ = Describe("looksIncomplete", func() {
	DescribeTable("classifies fragments",
		func(fragment string, incomplete bool) {
			Expect(translate.LooksIncomplete(fragment)).To(Equal(incomplete))
		},
		Entry("open object", `{"delta":"Hel`, true),
		Entry("open nested array", `{"choices":[{"delta":{}}`, true),
		Entry("dangling comma", `{"a":1},`, true),
		Entry("dangling colon", `{"a":1}:`, true),
		Entry("escape inside string", `{"a":"x\`, true),
		Entry("braces inside strings are ignored", `{"a":"}}}"`, true),
		Entry("balanced but invalid", `{"a":nope}`, false),
		Entry("not json at all", `hello world`, false),
		Entry("closing too many", `{"a":1}}`, false),
		Entry("empty", `   `, false),
	)
})

var _ = Describe("object scanner", func() {
	It("splits a streamed JSON array into objects", func() {
		objs, rest := translate.ScanObjects(`[{"a":1}`, "\n,", `{"b":{"c":[1,2]}}`, `]`)
		Expect(objs).To(Equal([]string{`{"a":1}`, `{"b":{"c":[1,2]}}`}))
		Expect(rest).To(BeEmpty())
	})

	It("keeps objects split across chunks", func() {
		objs, _ := translate.ScanObjects(`[{"text":"Gu`, `ten"}`, `,{"text":"Tag"}]`)
		Expect(objs).To(Equal([]string{`{"text":"Guten"}`, `{"text":"Tag"}`}))
	})

	It("ignores braces inside strings", func() {
		objs, _ := translate.ScanObjects(`[{"text":"a } \" { b"}]`)
		Expect(objs).To(Equal([]string{`{"text":"a } \" { b"}`}))
	})

	It("returns an unfinished object on flush", func() {
		objs, rest := translate.ScanObjects(`[{"a":1},{"b":`)
		Expect(objs).To(HaveLen(1))
		Expect(rest).To(Equal(`{"b":`))
	})

	It("skips the whole of an oversized object, nested objects included", func() {
		big := `[{"pad":"` + strings.Repeat("x", translate.MaxCarryBytes) + `","inner":{"text":"leak"}}`
		objs, dropped := translate.ScanObjectsDropped(big, `,{"text":"ok"}]`)
		Expect(objs).To(Equal([]string{`{"text":"ok"}`}))
		Expect(dropped).To(Equal(1))
	})
})
