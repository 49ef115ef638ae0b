// Package azure implements the Azure OpenAI Responses API provider. The
// stream and response shapes are those of OpenAI; the URL is used verbatim
// and the key travels in the api-key header.
package azure

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider/openai"
)

// TroubleshootingLink documents Azure OpenAI configuration.
const TroubleshootingLink = "https://bobtranslate.com/service/translate/azureopenai.html"

var deploymentPattern = regexp.MustCompile(`/deployments/([^/]+)/responses`)

// provider implements the Provider interface for Azure OpenAI.
type provider struct{}

func New() *provider { return &provider{} }

func (a *provider) Name() string {
	return "azure"
}

func (a *provider) Framing() llm.Framing {
	return llm.FramingSSE
}

func (a *provider) TroubleshootingLink() string {
	return TroubleshootingLink
}

func (a *provider) Endpoint(cfg llm.Endpoint, _ bool) (string, error) {
	if cfg.APIURL == "" {
		return "", llm.NewServiceError(llm.ErrorParam, "配置错误 - 请填写 API URL").WithLink(TroubleshootingLink)
	}
	return cfg.APIURL, nil
}

func (a *provider) Headers(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("api-key", apiKey)
	return h
}

func (a *provider) RequestBody(req *llm.TranslateRequest) ([]byte, error) {
	return openai.BuildResponsesBody(req)
}

func (a *provider) ExtractDelta(event string, data []byte) (string, error) {
	return openai.ExtractResponsesDelta(event, data, TroubleshootingLink)
}

func (a *provider) ParseResponse(payload []byte) (string, error) {
	return openai.ParseResponsesOutput(payload, TroubleshootingLink)
}

// ParseError follows the OpenAI mapping. Azure also reports rejected keys
// with a 403.
func (a *provider) ParseError(status int, payload []byte) *llm.ServiceError {
	se := openai.ParseError(status, payload, TroubleshootingLink)
	if status == http.StatusForbidden {
		if se == nil {
			se = llm.NewServiceError(llm.ErrorSecretKey, "API request failed").
				WithAddition(string(payload)).
				WithLink(TroubleshootingLink)
		}
		se.Kind = llm.ErrorSecretKey
	}
	return se
}

// DeploymentFromURL returns the deployment named in a deployment-style URL.
func DeploymentFromURL(apiURL string) (string, bool) {
	m := deploymentPattern.FindStringSubmatch(apiURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (a *provider) ValidationRequest(cfg llm.Endpoint) (*llm.ValidationRequest, error) {
	url, err := a.Endpoint(cfg, false)
	if err != nil {
		return nil, err
	}

	model, ok := DeploymentFromURL(url)
	if !ok {
		model = defaultValidationModel
	}
	body, err := json.Marshal(validationRequest{Model: model, Input: validationInput})
	if err != nil {
		return nil, err
	}

	return &llm.ValidationRequest{
		Method: http.MethodPost,
		URL:    url,
		Body:   body,
	}, nil
}

// CheckValidation accepts any response without an error.
func (a *provider) CheckValidation(status int, payload []byte) error {
	if se := a.ParseError(status, payload); se != nil {
		return se
	}
	return nil
}
