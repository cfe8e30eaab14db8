package cmd

import (
	"fmt"

	"github.com/bnema/tivona-cli/internal/application"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newIngestCmd(app *app) *cobra.Command {
	var request domain.IngestRequest
	var provider string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Add a document to the backend's knowledge base",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}
			request.Provider = parsed

			settings, err := app.config.Settings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			client, err := app.backendClient(settings)
			if err != nil {
				return err
			}

			message, err := application.NewOneShotService(client, client).Ingest(cmd.Context(), request)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), message)
			return err
		},
	}

	cmd.Flags().StringVar(&request.Title, "title", "", "Document title")
	cmd.Flags().StringVar(&request.URL, "url", "", "Document URL")
	cmd.Flags().StringVar(&provider, "provider", "", "Cloud provider (aws|azure|gcp)")
	cmd.Flags().StringVar(&request.Version, "version", "", "Document version")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}
