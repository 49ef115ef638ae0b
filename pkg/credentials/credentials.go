package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/lingo/pkg/dotdir"
	"github.com/papercomputeco/lingo/pkg/llm/provider"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// providerEnvVars maps provider names to their fallback environment variables.
var providerEnvVars = map[string]string{
	provider.OpenAI:     "OPENAI_API_KEY",
	provider.Azure:      "AZURE_OPENAI_API_KEY",
	provider.Gemini:     "GEMINI_API_KEY",
	provider.Compatible: "LINGO_COMPATIBLE_API_KEY",
}

// Manager manages reading and writing credentials.toml in the .lingo/ directory.
type Manager struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .lingo/ directory; otherwise the standard dotdir resolution applies.
// When no .lingo/ directory is found, one is created at ~/.lingo/.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{}
	mgr.ddm = dotdir.NewManager()

	target, err := mgr.ddm.Ensure(override)
	if err != nil {
		return nil, err
	}

	mgr.targetPath = filepath.Join(target, credentialsFile)

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{
				Version:   currentVersion,
				Providers: make(map[string]ProviderCredential),
			}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetKey stores API keys for the given provider. keys may be a comma
// separated list; one is picked at random per request.
func (m *Manager) SetKey(providerName, keys string) error {
	if !IsSupportedProvider(providerName) {
		return fmt.Errorf("unsupported provider: %q (supported: %s)", providerName, strings.Join(SupportedProviders(), ", "))
	}

	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Providers[providerName] = ProviderCredential{APIKeys: normalizeKeys(keys)}

	return m.Save(creds)
}

// GetKey returns the stored API keys for the given provider.
// Returns an empty string if no key is stored.
func (m *Manager) GetKey(providerName string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	pc, ok := creds.Providers[providerName]
	if !ok {
		return "", nil
	}

	return pc.APIKeys, nil
}

// Resolve returns the keys stored for providerName, falling back to the
// provider's environment variable when nothing is stored.
func (m *Manager) Resolve(providerName string) (string, error) {
	keys, err := m.GetKey(providerName)
	if err != nil {
		return "", err
	}
	if keys != "" {
		return keys, nil
	}

	if env := EnvVarForProvider(providerName); env != "" {
		return normalizeKeys(os.Getenv(env)), nil
	}
	return "", nil
}

// RemoveKey deletes the stored credential for a provider.
func (m *Manager) RemoveKey(providerName string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	delete(creds.Providers, providerName)

	return m.Save(creds)
}

// ListProviders returns the names of providers that have stored credentials.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	providers := make([]string, 0, len(creds.Providers))
	for name := range creds.Providers {
		providers = append(providers, name)
	}

	sort.Strings(providers)

	return providers, nil
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

// EnvVarForProvider returns the environment variable name for a given provider.
// Returns an empty string for unknown providers.
func EnvVarForProvider(providerName string) string {
	return providerEnvVars[providerName]
}

// SupportedProviders returns the list of providers that take API keys.
func SupportedProviders() []string {
	return provider.SupportedProviders()
}

// IsSupportedProvider returns true if the given provider is supported.
func IsSupportedProvider(providerName string) bool {
	return slices.Contains(SupportedProviders(), providerName)
}

// Mask hides all but the last four characters of each key in a comma
// separated list.
func Mask(keys string) string {
	parts := strings.Split(normalizeKeys(keys), ",")
	for i, k := range parts {
		if len(k) <= 4 {
			parts[i] = strings.Repeat("*", len(k))
			continue
		}
		parts[i] = strings.Repeat("*", len(k)-4) + k[len(k)-4:]
	}
	return strings.Join(parts, ",")
}

// normalizeKeys trims whitespace around each key and drops empty entries.
func normalizeKeys(keys string) string {
	parts := strings.Split(keys, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
