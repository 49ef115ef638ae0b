// Package configcmder provides the config command for managing persistent
// lingo configuration stored in the .lingo/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent lingo configuration.

Configuration is stored as config.toml in the .lingo/ directory and provides
default values for command flags. CLI flags and LINGO_ environment variables
take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  provider.type, provider.api_url, provider.model, provider.custom_model,
  provider.temperature, provider.stream, provider.timeout,
  provider.system_prompt, provider.user_prompt, provider.extra_body,
  api.listen, client.api_target,
  storage.sqlite_path, storage.postgres_dsn,
  events.kafka_brokers, events.kafka_topic

Use subcommands to get, set, or list configuration values:
  lingo config set <key> <value>    Set a configuration value
  lingo config get <key>            Get a configuration value
  lingo config list                 List all configuration values
  lingo config preset <name>        Write a provider preset

Examples:
  lingo config set provider.type gemini
  lingo config set provider.temperature 0.5
  lingo config get provider.model
  lingo config preset compatible
  lingo config list`

const configShortDesc string = "Manage persistent lingo configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPresetCmd())

	return cmd
}
