package config

import "time"

const (
	defaultProviderType = "openai"
	defaultModel        = "gpt-4o-mini"
	defaultTemperature  = 0.2
	defaultStream       = true
	defaultTimeout      = 120 * time.Second

	defaultAPIListen       = ":8787"
	defaultClientAPITarget = "http://localhost:8787"

	defaultKafkaTopic = "lingo.translations"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Provider: ProviderConfig{
			Type:        defaultProviderType,
			Model:       defaultModel,
			Temperature: defaultTemperature,
			Stream:      defaultStream,
			Timeout:     defaultTimeout.String(),
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Events: EventsConfig{
			KafkaTopic: defaultKafkaTopic,
		},
	}
}
