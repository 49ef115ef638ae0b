// Package setup resolves the configuration shared by lingo commands: the
// viper precedence chain, provider api keys and the logger.
package setup

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/lingo/pkg/config"
	"github.com/papercomputeco/lingo/pkg/credentials"
	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// ProviderKeys lists every ProviderFlags registry key.
var ProviderKeys = []string{
	config.FlagProvider,
	config.FlagAPIURL,
	config.FlagModel,
	config.FlagCustomModel,
	config.FlagStream,
	config.FlagTimeout,
}

// ConfigDir returns the persistent --config-dir flag value.
func ConfigDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("config-dir")
	return dir
}

// Load builds the effective Config for cmd: flags from the given FlagSets,
// then LINGO_ env vars, then config.toml, then defaults.
func Load(cmd *cobra.Command, sets ...BoundSet) (*config.Config, error) {
	v, err := config.InitViper(ConfigDir(cmd))
	if err != nil {
		return nil, err
	}
	for _, s := range sets {
		config.BindRegisteredFlags(v, cmd, s.Flags, s.Keys)
	}

	cfg := config.FromViper(v)
	if cfg.Version != config.CurrentV {
		return nil, fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	return cfg, nil
}

// BoundSet pairs a FlagSet with the registry keys a command registered.
type BoundSet struct {
	Flags config.FlagSet
	Keys  []string
}

// Provider is the BoundSet for ProviderFlags.
func Provider() BoundSet {
	return BoundSet{Flags: config.ProviderFlags, Keys: ProviderKeys}
}

// TranslatorConfig combines the provider section with the api keys stored
// in credentials.toml or the provider's env var.
func TranslatorConfig(cfg *config.Config, configDir string) (translate.Config, error) {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return translate.Config{}, fmt.Errorf("loading credentials: %w", err)
	}

	keys, err := mgr.Resolve(cfg.Provider.Type)
	if err != nil {
		return translate.Config{}, err
	}

	return cfg.Provider.TranslateConfig(keys), nil
}

// NewTranslator builds a Translator for cfg.
func NewTranslator(cfg *config.Config, configDir string, log *slog.Logger) (*translate.Translator, error) {
	tc, err := TranslatorConfig(cfg, configDir)
	if err != nil {
		return nil, err
	}
	return translate.New(tc, translate.WithLogger(log))
}

// Logger returns a pretty stderr logger honoring the persistent --debug flag.
func Logger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)
}

// DescribeError expands a ServiceError into a multi-line message for the
// terminal. Other errors are returned unchanged.
func DescribeError(err error) error {
	se, ok := llm.AsServiceError(err)
	if !ok {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", se.Message, se.Kind)
	if se.Addition != "" {
		fmt.Fprintf(&b, "\n  %s", se.Addition)
	}
	if se.TroubleshootingLink != "" {
		fmt.Fprintf(&b, "\n  see %s", se.TroubleshootingLink)
	}
	return &describedError{text: b.String(), se: se}
}

// describedError keeps the ServiceError in the chain.
type describedError struct {
	text string
	se   *llm.ServiceError
}

func (e *describedError) Error() string {
	return e.text
}

func (e *describedError) Unwrap() error {
	return e.se
}
