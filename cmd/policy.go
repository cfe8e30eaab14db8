package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/tivona-cli/internal/application"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newPolicyCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Work with cloud access policies",
	}

	cmd.AddCommand(newPolicyAnalyzeCmd(app))

	return cmd
}

func newPolicyAnalyzeCmd(app *app) *cobra.Command {
	var file string
	var provider string
	var format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Find risky statements in a policy and suggest a safer version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}

			parsedProvider, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}

			raw, err := readPolicy(cmd.InOrStdin(), file)
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

			analysis, err := application.NewOneShotService(client, client).AnalyzePolicy(cmd.Context(), raw, parsedProvider)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), outFormat, analysis, func() (string, error) {
				return renderPolicyAnalysis(analysis)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Policy JSON file (- for stdin)")
	cmd.Flags().StringVar(&provider, "provider", "", "Cloud provider (aws|azure|gcp); backend defaults to aws")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json|yaml)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readPolicy(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read policy: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return data, nil
}

func renderPolicyAnalysis(analysis domain.PolicyAnalysis) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "risk level: %s\n", analysis.RiskLevel)

	if len(analysis.Findings) == 0 {
		b.WriteString("findings: none\n")
	} else {
		fmt.Fprintf(&b, "findings: %d\n", len(analysis.Findings))
		for i, finding := range analysis.Findings {
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, finding.Severity, finding.Issue)
			for _, detail := range []struct{ label, value string }{
				{"reason", finding.Reason},
				{"fix", finding.Recommendation},
				{"why", finding.Explanation},
			} {
				if strings.TrimSpace(detail.value) != "" {
					fmt.Fprintf(&b, "   %s: %s\n", detail.label, strings.TrimSpace(detail.value))
				}
			}
		}
	}

	if len(analysis.SuggestedPolicy) > 0 {
		suggested, err := json.MarshalIndent(analysis.SuggestedPolicy, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode suggested policy: %w", err)
		}
		b.WriteString("suggested policy:\n")
		b.Write(suggested)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
