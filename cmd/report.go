package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/tivona-cli/internal/application"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
	"github.com/spf13/cobra"
)

const defaultReportPath = "rag_report.docx"

func newReportCmd(app *app) *cobra.Command {
	var from string
	var out string
	var title string
	var url string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a DOCX report from a saved `ask --format json` result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := readSnapshot(cmd.InOrStdin(), from)
			if err != nil {
				return err
			}

			settings, err := app.config.Settings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			client, err := app.backendClient(settings)
			if err != nil {
				return err
			}

			if title == "" {
				title = settings.Report.Title
			}

			return writeReport(cmd.Context(), client, snapshot, application.ReportOptions{Title: title, URL: url}, out, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Result JSON written by `ask --format json` (- for stdin)")
	cmd.Flags().StringVar(&out, "out", defaultReportPath, "Where to write the DOCX file")
	cmd.Flags().StringVar(&title, "title", "", "Report title; defaults to report.title")
	cmd.Flags().StringVar(&url, "url", "", "Reference URL stored in the report")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func readSnapshot(stdin io.Reader, path string) (domain.Snapshot, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read result: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode result: %w", err)
	}

	return snapshot, nil
}

func writeReport(ctx context.Context, generator ports.ReportGenerator, snapshot domain.Snapshot, opts application.ReportOptions, path string, notify io.Writer) error {
	document, err := application.NewReportService(generator).Generate(ctx, snapshot, opts)
	if errors.Is(err, domain.ErrPrecondition) {
		return fmt.Errorf("no completed answer to report on: %w", err)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, document, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	_, err = fmt.Fprintf(notify, "report written to %s (%d bytes)\n", path, len(document))
	return err
}
