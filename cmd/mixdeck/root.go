package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool
	var ephemeral bool

	ctx := newCommandContext(&configFlag, &verbose, &ephemeral)

	rootCmd := &cobra.Command{
		Use:           "mixdeck",
		Short:         "Search and play Mixcloud mixes from the terminal",
		Long:          "mixdeck searches the Mixcloud catalogue. Run it without a subcommand for the interactive browser.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.setupCLILogging(cmd.ErrOrStderr())
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr (subcommands only)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep history and preferences in memory only")

	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
