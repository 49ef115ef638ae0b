package openai

// responsesRequest is the body of a POST /v1/responses call.
type responsesRequest struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	Stream       bool    `json:"stream"`
	Instructions string  `json:"instructions"`
	Input        string  `json:"input"`
}

// Responses API streaming event carrying a text fragment.
const OutputTextDeltaEvent = "response.output_text.delta"

// Responses API streaming events that end the stream with an error.
const (
	errorEvent  = "error"
	failedEvent = "response.failed"
)

// legacyChunkObject is the object name of the pre-event Responses stream.
const legacyChunkObject = "response.chunk"

// FormattingInstructions is appended to the system prompt so the model does
// not wrap its translation in quotes.
const FormattingInstructions = "\n\nIMPORTANT: Output the translation directly without any quotation marks or special characters wrapping. Do not add quotes like 『』「」\"\" around the result."
