package cli

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	output     string
}

// NewRootCmd builds the srs command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "srs",
		Short:         "Spaced-repetition vocabulary trainer",
		Long:          "srs schedules vocabulary reviews from a forgetting-curve model and SM-2 style updates.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./srs.yaml if present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides SRS_LOG_LEVEL")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDecayTableCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newUserCmd(opts))
	rootCmd.AddCommand(newReviewCmd(opts))
	rootCmd.AddCommand(newAnswerCmd(opts))
	rootCmd.AddCommand(newReportCmd(opts))
	rootCmd.AddCommand(newRemindCmd(opts))
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
