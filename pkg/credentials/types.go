package credentials

// Credentials represents the stored API credentials in credentials.toml.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential holds the API keys for a single provider as a comma
// separated list.
type ProviderCredential struct {
	APIKeys string `toml:"api_keys"`
}
