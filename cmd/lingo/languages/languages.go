// Package languagescmder provides the languages command.
package languagescmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/lingo/pkg/cliui"
	"github.com/papercomputeco/lingo/pkg/client"
	"github.com/papercomputeco/lingo/pkg/config"
	"github.com/papercomputeco/lingo/pkg/lang"
)

const languagesLongDesc string = `List the language codes accepted by --from and --to.

With --api-target the list is fetched from a running lingo server.

Examples:
  lingo languages
  lingo languages --api-target http://localhost:8787`

const languagesShortDesc string = "List supported languages"

func NewLanguagesCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: languagesShortDesc,
		Long:  languagesLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			langs := lang.Supported()
			if cmd.Flags().Changed(config.FlagAPITarget) {
				var err error
				langs, err = client.New(apiTarget).Languages(cmd.Context())
				if err != nil {
					return err
				}
			}
			return printLanguages(cmd.OutOrStdout(), langs)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &apiTarget)

	return cmd
}

func printLanguages(w io.Writer, langs []lang.Language) error {
	maxLen := 0
	for _, l := range langs {
		if len(l.Code) > maxLen {
			maxLen = len(l.Code)
		}
	}

	for _, l := range langs {
		if _, err := fmt.Fprintf(w, "  %-*s  %s\n", maxLen, l.Code, cliui.DimStyle.Render(l.Name)); err != nil {
			return err
		}
	}
	return nil
}
