// Package compatible implements the provider for OpenAI-compatible gateways
// speaking the chat completions protocol.
package compatible

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider/openai"
)

var chatCompletionsSuffix = regexp.MustCompile(`/chat/completions$`)

// provider implements the Provider interface for chat completions.
type provider struct{}

func New() *provider { return &provider{} }

func (c *provider) Name() string {
	return "compatible"
}

func (c *provider) Framing() llm.Framing {
	return llm.FramingSSE
}

func (c *provider) TroubleshootingLink() string {
	return openai.TroubleshootingLink
}

func (c *provider) Endpoint(cfg llm.Endpoint, _ bool) (string, error) {
	if cfg.APIURL == "" {
		return "", llm.NewServiceError(llm.ErrorParam, "配置错误 - 请填写 API URL").WithLink(openai.TroubleshootingLink)
	}
	return cfg.APIURL, nil
}

func (c *provider) Headers(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+apiKey)
	return h
}

func (c *provider) RequestBody(req *llm.TranslateRequest) ([]byte, error) {
	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Stream:      req.Stream,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt + openai.FormattingInstructions},
			{Role: "user", Content: req.UserPrompt},
		},
	})
	if err != nil {
		return nil, err
	}
	return llm.MergeExtraBody(body, req.ExtraBody)
}

// ExtractDelta reads choices[0].delta.content, falling back to
// choices[0].text for completion-style gateways. A chunk without choices is
// a protocol error.
func (c *provider) ExtractDelta(_ string, data []byte) (string, error) {
	parsed := gjson.ParseBytes(data)
	choices := parsed.Get("choices")
	if !choices.Exists() {
		return "", llm.NewServiceError(llm.ErrorAPI, "Unexpected stream chunk: missing choices").
			WithAddition(string(data)).
			WithLink(openai.TroubleshootingLink)
	}

	first := choices.Get("0")
	if content := first.Get("delta.content"); content.Exists() {
		return content.String(), nil
	}
	return first.Get("text").String(), nil
}

func (c *provider) ParseResponse(payload []byte) (string, error) {
	parsed := gjson.ParseBytes(payload)
	first := parsed.Get("choices.0")
	if !first.Exists() {
		return "", llm.NewServiceError(llm.ErrorAPI, "No choices returned from chat completions API").
			WithAddition(string(payload)).
			WithLink(openai.TroubleshootingLink)
	}
	if content := first.Get("message.content"); content.Exists() {
		return strings.TrimSpace(content.String()), nil
	}
	return strings.TrimSpace(first.Get("text").String()), nil
}

func (c *provider) ParseError(status int, payload []byte) *llm.ServiceError {
	return openai.ParseError(status, payload, openai.TroubleshootingLink)
}

// ValidationRequest lists models at the sibling /models endpoint.
func (c *provider) ValidationRequest(cfg llm.Endpoint) (*llm.ValidationRequest, error) {
	url, err := c.Endpoint(cfg, false)
	if err != nil {
		return nil, err
	}
	return &llm.ValidationRequest{
		Method: http.MethodGet,
		URL:    chatCompletionsSuffix.ReplaceAllString(url, "/models"),
	}, nil
}

func (c *provider) CheckValidation(status int, payload []byte) error {
	return openai.CheckModelList(status, payload, openai.TroubleshootingLink, c.ParseError)
}
