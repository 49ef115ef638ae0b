// Package gemini implements the Google Gemini generateContent provider.
// Streaming uses streamGenerateContent, whose body is a JSON array of
// response objects.
package gemini

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/lingo/pkg/llm"
)

const (
	// DefaultBaseURL is used when no api url is configured.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// TroubleshootingLink documents Gemini configuration.
	TroubleshootingLink = "https://bobtranslate.com/service/translate/gemini.html"
)

// provider implements the Provider interface for Gemini.
type provider struct{}

func New() *provider { return &provider{} }

func (g *provider) Name() string {
	return "gemini"
}

func (g *provider) Framing() llm.Framing {
	return llm.FramingJSONArray
}

func (g *provider) TroubleshootingLink() string {
	return TroubleshootingLink
}

func (g *provider) baseURL(cfg llm.Endpoint) string {
	if cfg.APIURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(cfg.APIURL, "/")
}

func (g *provider) Endpoint(cfg llm.Endpoint, stream bool) (string, error) {
	if cfg.Model == "" {
		return "", llm.NewServiceError(llm.ErrorParam, "配置错误 - 请选择模型").WithLink(TroubleshootingLink)
	}
	op := "generateContent"
	if stream {
		op = "streamGenerateContent"
	}
	return g.baseURL(cfg) + "/" + cfg.Model + ":" + op, nil
}

func (g *provider) Headers(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("x-goog-api-key", apiKey)
	return h
}

func (g *provider) RequestBody(req *llm.TranslateRequest) ([]byte, error) {
	body, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: part{Text: req.SystemPrompt}},
		Contents:          content{Parts: part{Text: req.UserPrompt}},
		GenerationConfig: generationConfig{
			Temperature:      req.Temperature,
			TopK:             defaultTopK,
			TopP:             defaultTopP,
			MaxOutputTokens:  defaultMaxOutputTokens,
			ResponseMimeType: responseMimeType,
		},
	})
	if err != nil {
		return nil, err
	}
	return llm.MergeExtraBody(body, req.ExtraBody)
}

func (g *provider) ExtractDelta(_ string, data []byte) (string, error) {
	return gjson.GetBytes(data, "candidates.0.content.parts.0.text").String(), nil
}

func (g *provider) ParseResponse(payload []byte) (string, error) {
	text := gjson.GetBytes(payload, "candidates.0.content.parts.0.text")
	if text.String() == "" {
		return "", llm.NewServiceError(llm.ErrorAPI, "Invalid response format from Gemini API").
			WithAddition(string(payload)).
			WithLink(TroubleshootingLink)
	}
	return strings.TrimSpace(text.String()), nil
}

// ParseError maps {"error":{"status","message"}}. Error bodies of the
// streaming endpoint are wrapped in an array.
func (g *provider) ParseError(_ int, payload []byte) *llm.ServiceError {
	parsed := gjson.ParseBytes(payload)
	errVal := parsed.Get("error")
	if parsed.IsArray() {
		errVal = parsed.Get("0.error")
	}
	if !errVal.Exists() {
		return nil
	}

	status := errVal.Get("status").String()
	message := errVal.Get("message").String()

	kind := llm.ErrorAPI
	if status == statusUnauthenticated || status == statusPermissionDenied || strings.Contains(message, "API key") {
		kind = llm.ErrorSecretKey
	}
	if message == "" {
		message = "Unknown Gemini API error"
	}

	se := llm.NewServiceError(kind, message).
		WithAddition(status).
		WithLink(TroubleshootingLink)
	se.ProviderType = status
	return se
}

// ValidationRequest lists models at the configured base URL.
func (g *provider) ValidationRequest(cfg llm.Endpoint) (*llm.ValidationRequest, error) {
	return &llm.ValidationRequest{
		Method: http.MethodGet,
		URL:    g.baseURL(cfg),
	}, nil
}

func (g *provider) CheckValidation(status int, payload []byte) error {
	if se := g.ParseError(status, payload); se != nil {
		return se
	}
	if len(gjson.GetBytes(payload, "models").Array()) > 0 {
		return nil
	}
	return llm.NewServiceError(llm.ErrorAPI, "Unexpected response from models endpoint").
		WithAddition(string(payload)).
		WithLink(TroubleshootingLink)
}
