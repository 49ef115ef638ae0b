package provider

import (
	"fmt"

	"github.com/papercomputeco/lingo/pkg/llm/provider/azure"
	"github.com/papercomputeco/lingo/pkg/llm/provider/compatible"
	"github.com/papercomputeco/lingo/pkg/llm/provider/gemini"
	"github.com/papercomputeco/lingo/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	OpenAI     = "openai"
	Azure      = "azure"
	Gemini     = "gemini"
	Compatible = "compatible"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenAI, Azure, Gemini, Compatible}
}

// New creates a new Provider instance for the given provider type.
// Returns an error if the provider type is not recognized.
func New(providerType string) (Provider, error) {
	switch providerType {
	case OpenAI:
		return openai.New(), nil
	case Azure:
		return azure.New(), nil
	case Gemini:
		return gemini.New(), nil
	case Compatible:
		return compatible.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
