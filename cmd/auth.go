package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend bearer token",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var token string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the bearer token sent to the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				token = string(data)
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("token is empty: pass --token or --token-stdin")
			}

			if err := app.secretStore.Put(cmd.Context(), domain.BackendTokenKey, token); err != nil {
				return fmt.Errorf("store backend token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "backend token stored")
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().BoolVar(&fromStdin, "token-stdin", false, "Read the token from stdin")
	cmd.MarkFlagsMutuallyExclusive("token", "token-stdin")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Forget the stored bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Delete(cmd.Context(), domain.BackendTokenKey); err != nil {
				return fmt.Errorf("remove backend token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "backend token removed")
			return err
		},
	}
}
