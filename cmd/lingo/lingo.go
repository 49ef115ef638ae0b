// Package lingocmder
package lingocmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/lingo/cmd/lingo/auth"
	configcmder "github.com/papercomputeco/lingo/cmd/lingo/config"
	historycmder "github.com/papercomputeco/lingo/cmd/lingo/history"
	languagescmder "github.com/papercomputeco/lingo/cmd/lingo/languages"
	servecmder "github.com/papercomputeco/lingo/cmd/lingo/serve"
	translatecmder "github.com/papercomputeco/lingo/cmd/lingo/translate"
	validatecmder "github.com/papercomputeco/lingo/cmd/lingo/validate"
	versioncmder "github.com/papercomputeco/lingo/cmd/version"
)

const lingoLongDesc string = `Lingo translates text with LLM providers (OpenAI, Azure OpenAI,
Gemini and OpenAI-compatible servers) and streams the result as it arrives.

Get started:
  lingo auth openai              Store an API key
  lingo translate --to fr Hello  Translate from the command line
  lingo serve                    Run the HTTP API and MCP server`

const lingoShortDesc string = "Lingo - streaming LLM translation"

func NewLingoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lingo",
		Short:        lingoShortDesc,
		Long:         lingoLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .lingo/ configuration directory")

	// Add subcommands
	cmd.AddCommand(translatecmder.NewTranslateCmd())
	cmd.AddCommand(validatecmder.NewValidateCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(languagescmder.NewLanguagesCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
