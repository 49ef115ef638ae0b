package openai

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/lingo/pkg/llm"
)

// ExtractResponsesDelta reads the text fragment from one Responses API
// stream message. Only output_text delta events and the legacy
// response.chunk object carry text. The payload "type" names the event only
// when no event field was sent. Error and response.failed events are fatal.
func ExtractResponsesDelta(event string, data []byte, link string) (string, error) {
	parsed := gjson.ParseBytes(data)
	if event == "" {
		event = parsed.Get("type").String()
	}

	switch event {
	case OutputTextDeltaEvent:
		return parsed.Get("delta").String(), nil
	case errorEvent:
		return "", streamError(parsed, link)
	case failedEvent:
		return "", streamError(parsed.Get("response.error"), link)
	}

	if parsed.Get("object").String() == legacyChunkObject {
		var sb strings.Builder
		parsed.Get("delta.output.0.content").ForEach(func(_, item gjson.Result) bool {
			if item.Get("type").String() == "output_text" {
				sb.WriteString(item.Get("text").String())
			}
			return true
		})
		return sb.String(), nil
	}

	return "", nil
}

// streamError maps an error event ({"code","message"}) to a ServiceError.
func streamError(errVal gjson.Result, link string) *llm.ServiceError {
	message := errVal.Get("message").String()
	if message == "" {
		message = "API request failed"
	}
	se := llm.NewServiceError(llm.ErrorAPI, message).
		WithAddition(errVal.Raw).
		WithLink(link)
	se.ProviderType = errVal.Get("code").String()
	if authErrorTypes[se.ProviderType] {
		se.Kind = llm.ErrorSecretKey
	}
	return se
}

// ParseResponsesOutput extracts the text of a non-streaming Responses API
// body: the output_text helper field, or the output_text parts of the first
// message item that has any.
func ParseResponsesOutput(payload []byte, link string) (string, error) {
	parsed := gjson.ParseBytes(payload)
	if !parsed.Get("output").Exists() {
		return "", llm.NewServiceError(llm.ErrorAPI, "Unsupported response type").
			WithAddition(string(payload)).
			WithLink(link)
	}

	if text := parsed.Get("output_text").String(); text != "" {
		return strings.TrimSpace(text), nil
	}

	for _, item := range parsed.Get("output").Array() {
		if item.Get("type").String() != "message" {
			continue
		}
		var sb strings.Builder
		for _, c := range item.Get("content").Array() {
			if c.Get("type").String() == "output_text" {
				sb.WriteString(c.Get("text").String())
			}
		}
		if sb.Len() > 0 {
			return strings.TrimSpace(sb.String()), nil
		}
	}

	return "", llm.NewServiceError(llm.ErrorAPI, "No output returned from Responses API").
		WithAddition(string(payload)).
		WithLink(link)
}

// authErrorTypes are declared error types and codes that mean the key was
// rejected.
var authErrorTypes = map[string]bool{
	"authentication_error": true,
	"invalid_api_key":      true,
	"permission_error":     true,
}

// ParseError maps an OpenAI-style error payload. A 401 always maps to
// secretKey. The message is the error string, or error.message with the
// offending parameter appended. It returns nil when the payload has no
// error and the status is not an auth failure.
func ParseError(status int, payload []byte, link string) *llm.ServiceError {
	errVal := gjson.GetBytes(payload, "error")
	if !errVal.Exists() && status != http.StatusUnauthorized {
		return nil
	}

	kind := llm.ErrorAPI
	if status == http.StatusUnauthorized {
		kind = llm.ErrorSecretKey
	}

	se := llm.NewServiceError(kind, "API request failed").
		WithAddition(string(payload)).
		WithLink(link)

	switch {
	case errVal.Type == gjson.String:
		se.Message = errVal.String()
	case errVal.IsObject():
		if msg := errVal.Get("message"); msg.Exists() {
			se.Message = msg.String()
			if param := errVal.Get("param").String(); param != "" {
				se.Message += " (parameter: " + param + ")"
			}
		}
		se.ProviderType = errVal.Get("type").String()
		if authErrorTypes[se.ProviderType] || authErrorTypes[errVal.Get("code").String()] {
			se.Kind = llm.ErrorSecretKey
		}
	}

	return se
}
