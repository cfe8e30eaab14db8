package cmd

import (
	"fmt"
	"strings"

	configstore "github.com/bnema/tivona-cli/internal/adapters/config/toml"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(newConfigShowCmd(app), newConfigSetCmd(app), newConfigPathCmd(app))

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}

			settings, err := app.config.Settings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), outFormat, settings, func() (string, error) {
				data, err := toml.Marshal(settings)
				if err != nil {
					return "", fmt.Errorf("encode settings: %w", err)
				}
				return strings.TrimRight(string(data), "\n"), nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json|yaml)")

	return cmd
}

func newConfigSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a setting (keys: " + strings.Join(configstore.Keys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.config.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return err
		},
	}
}

func newConfigPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.config.Path())
			return err
		},
	}
}
