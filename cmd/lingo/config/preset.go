package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/lingo/pkg/cliui"
	"github.com/papercomputeco/lingo/pkg/config"
)

const presetLongDesc string = `Write a provider preset.

Replaces the [provider] section of config.toml with the defaults for the
named provider. Other sections are kept. Prompts and extra_body are
reset as well.

Examples:
  lingo config preset gemini
  lingo config preset compatible`

const presetShortDesc string = "Write a provider preset"

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset <name>",
		Short: presetShortDesc,
		Long:  presetLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runPreset(cmd.OutOrStdout(), args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runPreset(w io.Writer, name, configDir string) error {
	preset, err := config.PresetConfig(name)
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(w, cfger)

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Provider = preset.Provider

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Applied %s preset %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(preset.Provider.Type),
		cliui.DimStyle.Render("(model "+preset.Provider.Model+")"),
	)
	return nil
}
