package gemini

// generateRequest is the body of a generateContent call.
type generateRequest struct {
	SystemInstruction content          `json:"system_instruction"`
	Contents          content          `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

// Fixed sampling parameters sent with every request.
const (
	defaultTopK            = 40
	defaultTopP            = 0.95
	defaultMaxOutputTokens = 8192
	responseMimeType       = "text/plain"
)

// Status values that mean the key was rejected.
const (
	statusUnauthenticated  = "UNAUTHENTICATED"
	statusPermissionDenied = "PERMISSION_DENIED"
)
