// Package openai implements the OpenAI Responses API provider.
package openai

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/lingo/pkg/llm"
)

const (
	// DefaultBaseURL is used when no api url is configured.
	DefaultBaseURL = "https://api.openai.com"

	// TroubleshootingLink documents OpenAI configuration.
	TroubleshootingLink = "https://bobtranslate.com/service/translate/openai.html"
)

// provider implements the Provider interface for OpenAI's Responses API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "openai"
}

func (o *provider) Framing() llm.Framing {
	return llm.FramingSSE
}

func (o *provider) TroubleshootingLink() string {
	return TroubleshootingLink
}

func (o *provider) baseURL(cfg llm.Endpoint) string {
	if cfg.APIURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(cfg.APIURL, "/")
}

func (o *provider) Endpoint(cfg llm.Endpoint, _ bool) (string, error) {
	return o.baseURL(cfg) + "/v1/responses", nil
}

func (o *provider) Headers(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+apiKey)
	return h
}

func (o *provider) RequestBody(req *llm.TranslateRequest) ([]byte, error) {
	return BuildResponsesBody(req)
}

// BuildResponsesBody renders a Responses API request with the formatting
// instructions appended to the system prompt.
func BuildResponsesBody(req *llm.TranslateRequest) ([]byte, error) {
	body, err := json.Marshal(responsesRequest{
		Model:        req.Model,
		Temperature:  req.Temperature,
		Stream:       req.Stream,
		Instructions: req.SystemPrompt + FormattingInstructions,
		Input:        req.UserPrompt,
	})
	if err != nil {
		return nil, err
	}
	return llm.MergeExtraBody(body, req.ExtraBody)
}

func (o *provider) ExtractDelta(event string, data []byte) (string, error) {
	return ExtractResponsesDelta(event, data, TroubleshootingLink)
}

func (o *provider) ParseResponse(payload []byte) (string, error) {
	return ParseResponsesOutput(payload, TroubleshootingLink)
}

func (o *provider) ParseError(status int, payload []byte) *llm.ServiceError {
	return ParseError(status, payload, TroubleshootingLink)
}

func (o *provider) ValidationRequest(cfg llm.Endpoint) (*llm.ValidationRequest, error) {
	return &llm.ValidationRequest{
		Method: http.MethodGet,
		URL:    o.baseURL(cfg) + "/v1/models",
	}, nil
}

func (o *provider) CheckValidation(status int, payload []byte) error {
	return CheckModelList(status, payload, TroubleshootingLink, o.ParseError)
}

// CheckModelList accepts a models listing: a "data" field or object "list".
func CheckModelList(status int, payload []byte, link string, parseError func(int, []byte) *llm.ServiceError) error {
	if se := parseError(status, payload); se != nil {
		return se
	}
	parsed := gjson.ParseBytes(payload)
	if parsed.Get("data").Exists() || parsed.Get("object").String() == "list" {
		return nil
	}
	return llm.NewServiceError(llm.ErrorAPI, "Unexpected response from models endpoint").
		WithAddition(string(payload)).
		WithLink(link)
}
