package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI; cancelling ctx cancels any running session.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "tivona",
		Short:         "tivona: ask the cloud security deliberation backend from the terminal",
		Long:          "tivona streams a multi-agent deliberation for a cloud security question, shows each phase as it arrives, and can turn the final answer into a DOCX report. It also ingests documents and analyzes IAM policies.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.initLogger(cmd.ErrOrStderr(), verbose)
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		app.syncLogger()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAskCmd(app),
		newReportCmd(app),
		newIngestCmd(app),
		newPolicyCmd(app),
		newConfigCmd(app),
		newAuthCmd(app),
	)

	return rootCmd
}
