// Package llm holds the provider-agnostic types shared by the translation
// pipeline: requests, endpoints and the structured error taxonomy.
package llm

import "net/http"

// Framing is the wire framing of a provider's streaming response body.
type Framing string

const (
	// FramingSSE is text/event-stream: data lines separated by blank lines.
	FramingSSE Framing = "sse"

	// FramingJSONArray is a streamed JSON array of objects, as emitted by
	// Gemini's streamGenerateContent.
	FramingJSONArray Framing = "jsonarray"
)

// TranslateRequest is what a provider turns into an upstream request body.
type TranslateRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	Stream       bool

	// ExtraBody is a JSON object merged into the generated body.
	ExtraBody string
}

// Endpoint identifies the upstream API.
type Endpoint struct {
	// APIURL is the configured base URL or full endpoint URL. Empty means
	// the provider default.
	APIURL string

	// Model is the resolved model name.
	Model string
}

// ValidationRequest is a connectivity probe built by a provider.
type ValidationRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}
