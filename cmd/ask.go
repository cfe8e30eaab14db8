package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/tivona-cli/internal/adapters/render/deliberation"
	"github.com/bnema/tivona-cli/internal/application"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type askOptions struct {
	provider    string
	topK        int
	format      string
	timeout     time.Duration
	live        string
	hidePhases  bool
	reportPath  string
	reportTitle string
	reportURL   string
}

func newAskCmd(app *app) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Stream a deliberation for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, app, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "Cloud provider filter (aws|azure|gcp); defaults to query.provider")
	cmd.Flags().IntVar(&opts.topK, "top-k", 0, "Documents to retrieve; defaults to query.top_k")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text|json|yaml)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Cancel the session after this long (0 disables)")
	cmd.Flags().StringVar(&opts.live, "live", "auto", "Show live progress on stderr (auto|always|never)")
	cmd.Flags().BoolVar(&opts.hidePhases, "answer-only", false, "Print only the final answer and sources")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a DOCX report to this path after a completed session")
	cmd.Flags().StringVar(&opts.reportTitle, "report-title", "", "Report title; defaults to report.title")
	cmd.Flags().StringVar(&opts.reportURL, "report-url", "", "Reference URL stored in the report")

	return cmd
}

func runAsk(cmd *cobra.Command, app *app, question string, opts askOptions) error {
	format, err := parseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	settings, err := app.config.Settings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	query := domain.Query{Text: question, Provider: settings.Query.Provider, TopK: settings.Query.TopK}
	if opts.provider != "" {
		if query.Provider, err = domain.ParseProvider(opts.provider); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("top-k") {
		if opts.topK <= 0 {
			return errors.New("--top-k must be positive")
		}
		query.TopK = opts.topK
	}

	live, err := wantLive(opts.live, format, app.interactive(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	client, err := app.backendClient(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var feed *deliberation.Feed
	var observer ports.SnapshotObserver
	if live {
		feed = deliberation.NewFeed()
		observer = feed
	}

	driver := application.NewDriver(client, application.DriverConfig{
		FinalPhase: settings.Stream.FinalPhase,
		ChunkSize:  settings.Stream.ChunkSize,
		Observer:   observer,
		Logger:     app.logger.Named("driver"),
	})

	session, err := driver.Start(ctx, query)
	if err != nil {
		return err
	}

	if live {
		if _, liveErr := app.live(ctx, cmd.ErrOrStderr(), feed.Snapshots()); liveErr != nil {
			app.logger.Debug("live view stopped", zap.Error(liveErr))
			session.Cancel()
		}
	}

	snapshot, sessionErr := session.Wait(context.Background())

	if err := writeOutput(cmd.OutOrStdout(), format, snapshot, func() (string, error) {
		return app.renderer(snapshot, deliberation.RenderOptions{
			MarkdownStyle: settings.Render.MarkdownStyle,
			HidePhases:    opts.hidePhases,
		})
	}); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if sessionErr != nil {
		return explainSessionError(sessionErr, opts.timeout)
	}

	if opts.reportPath != "" {
		title := opts.reportTitle
		if title == "" {
			title = settings.Report.Title
		}
		return writeReport(cmd.Context(), client, snapshot, application.ReportOptions{Title: title, URL: opts.reportURL}, opts.reportPath, cmd.ErrOrStderr())
	}

	return nil
}

func wantLive(mode string, format outputFormat, interactive bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "auto", "":
		return interactive && format == formatText, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported --live value %q (want auto, always or never)", mode)
	}
}

func explainSessionError(err error, timeout time.Duration) error {
	switch {
	case timeout > 0 && errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("deliberation timed out after %s: %w", timeout, err)
	case errors.Is(err, domain.ErrSessionCancelled):
		return err
	default:
		return fmt.Errorf("deliberation failed: %w", err)
	}
}
