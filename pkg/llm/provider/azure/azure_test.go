package azure_test

import (
	"net/http"

	"github.com/tidwall/gjson"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider"
	"github.com/papercomputeco/lingo/pkg/llm/provider/azure"
	"github.com/papercomputeco/lingo/pkg/llm/provider/openai"
)

var _ = Describe("Azure Provider", func() {
	const deploymentURL = "https://res.openai.azure.com/openai/deployments/gpt-4o/responses?api-version=preview"

	var p provider.Provider

	BeforeEach(func() {
		p = azure.New()
	})

	It("uses the configured URL verbatim", func() {
		url, err := p.Endpoint(llm.Endpoint{APIURL: deploymentURL}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal(deploymentURL))
	})

	It("requires an api url", func() {
		_, err := p.Endpoint(llm.Endpoint{}, true)
		se, ok := llm.AsServiceError(err)
		Expect(ok).To(BeTrue())
		Expect(se.Kind).To(Equal(llm.ErrorParam))
	})

	It("sends the key in the api-key header", func() {
		h := p.Headers("az-key")
		Expect(h.Get("api-key")).To(Equal("az-key"))
		Expect(h.Get("Authorization")).To(BeEmpty())
	})

	It("reads OpenAI stream deltas", func() {
		delta, err := p.ExtractDelta(openai.OutputTextDeltaEvent, []byte(`{"delta":"Hallo"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal("Hallo"))
	})

	Describe("ParseError", func() {
		It("maps 403 to secretKey", func() {
			se := p.ParseError(http.StatusForbidden, []byte(`{"error":{"message":"Access denied"}}`))
			Expect(se.Kind).To(Equal(llm.ErrorSecretKey))
			Expect(se.TroubleshootingLink).To(Equal(azure.TroubleshootingLink))
		})

		It("maps a bare 403 to secretKey", func() {
			se := p.ParseError(http.StatusForbidden, nil)
			Expect(se).NotTo(BeNil())
			Expect(se.Kind).To(Equal(llm.ErrorSecretKey))
		})

		It("keeps other statuses as api", func() {
			se := p.ParseError(http.StatusBadRequest, []byte(`{"error":{"message":"bad deployment"}}`))
			Expect(se.Kind).To(Equal(llm.ErrorAPI))
		})
	})

	Describe("Validation", func() {
		It("probes the deployment named in the URL", func() {
			req, err := p.ValidationRequest(llm.Endpoint{APIURL: deploymentURL})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.URL).To(Equal(deploymentURL))
			Expect(gjson.GetBytes(req.Body, "model").String()).To(Equal("gpt-4o"))
			Expect(gjson.GetBytes(req.Body, "input").String()).To(Equal("Test connectivity. You ONLY need to reply 'OK'."))
		})

		It("falls back to a default model for v1 URLs", func() {
			req, err := p.ValidationRequest(llm.Endpoint{APIURL: "https://res.openai.azure.com/openai/v1/responses?api-version=preview"})
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.GetBytes(req.Body, "model").String()).To(Equal("gpt-5-nano"))
		})

		It("accepts any response without an error", func() {
			Expect(p.CheckValidation(200, []byte(`{"id":"resp_1"}`))).To(Succeed())
			Expect(p.CheckValidation(200, []byte(`{"error":{"message":"quota"}}`))).NotTo(Succeed())
		})
	})

	It("extracts deployments", func() {
		dep, ok := azure.DeploymentFromURL(deploymentURL)
		Expect(ok).To(BeTrue())
		Expect(dep).To(Equal("gpt-4o"))

		_, ok = azure.DeploymentFromURL("https://example.com/openai/v1/responses")
		Expect(ok).To(BeFalse())
	})
})
