// Package validatecmder provides the validate command, a connectivity
// probe for the configured provider.
package validatecmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/lingo/cmd/lingo/setup"
	"github.com/papercomputeco/lingo/pkg/cliui"
	"github.com/papercomputeco/lingo/pkg/config"
)

type validateCommander struct {
	provider    string
	apiURL      string
	model       string
	customModel string
	stream      bool
	timeout     string
}

const validateLongDesc string = `Check that the configured provider accepts the stored API keys.

Sends the provider's lightweight validation request (a model listing or a
one token generation) and reports whether it succeeded.

Examples:
  lingo validate
  lingo validate --provider gemini`

const validateShortDesc string = "Check provider connectivity and credentials"

func NewValidateCmd() *cobra.Command {
	cmder := &validateCommander{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: validateShortDesc,
		Long:  validateLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup.Load(cmd, setup.Provider())
			if err != nil {
				return err
			}

			tr, err := setup.NewTranslator(cfg, setup.ConfigDir(cmd), setup.Logger(cmd))
			if err != nil {
				return setup.DescribeError(err)
			}

			msg := fmt.Sprintf("Validating %s (%s)",
				cliui.NameStyle.Render(cfg.Provider.Type),
				tr.Config().ResolvedModel(),
			)
			err = cliui.Step(cmd.OutOrStdout(), msg, func() error {
				return tr.Validate(cmd.Context())
			})
			return setup.DescribeError(err)
		},
	}

	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagAPIURL, &cmder.apiURL)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagCustomModel, &cmder.customModel)
	config.AddBoolFlag(cmd, config.ProviderFlags, config.FlagStream, &cmder.stream)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagTimeout, &cmder.timeout)

	return cmd
}
