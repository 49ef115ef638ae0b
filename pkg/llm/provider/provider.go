package provider

import (
	"net/http"

	"github.com/papercomputeco/lingo/pkg/llm"
)

// Provider is the capability set of one upstream translation API. Each
// implementation knows how to address the API, build its request body, and
// read text deltas, full responses and errors out of its wire format.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openai", "gemini")
	Name() string

	// Framing reports how the streaming response body is framed.
	Framing() llm.Framing

	// TroubleshootingLink is attached to every ServiceError the provider
	// produces.
	TroubleshootingLink() string

	// Endpoint returns the URL for a translation request.
	Endpoint(cfg llm.Endpoint, stream bool) (string, error)

	// Headers returns the request headers carrying apiKey.
	Headers(apiKey string) http.Header

	// RequestBody builds the JSON request body.
	RequestBody(req *llm.TranslateRequest) ([]byte, error)

	// ExtractDelta returns the text fragment carried by one decoded stream
	// message. event is the SSE event name, empty when absent. data is
	// well-formed JSON. An empty string with a nil error means the message
	// carries no text. A non-nil error is fatal for the stream.
	ExtractDelta(event string, data []byte) (string, error)

	// ParseResponse extracts the translated text from a non-streaming
	// response body.
	ParseResponse(payload []byte) (string, error)

	// ParseError maps an error payload to a ServiceError. status is 0 for
	// errors embedded in an otherwise successful stream. It returns nil when
	// the payload carries nothing the provider recognizes.
	ParseError(status int, payload []byte) *llm.ServiceError

	// ValidationRequest returns the connectivity probe for cfg.
	ValidationRequest(cfg llm.Endpoint) (*llm.ValidationRequest, error)

	// CheckValidation inspects the probe's response.
	CheckValidation(status int, payload []byte) error
}
