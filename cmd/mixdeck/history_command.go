package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.openServices(false)
			if err != nil {
				return err
			}
			defer svc.Close()

			entries := svc.history.List()
			if asJSON {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recent searches")
				return nil
			}
			for i, entry := range entries {
				fmt.Fprintf(out, "%d. %s\n", i+1, entry)
			}
			return nil
		},
	}
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.openServices(false)
			if err != nil {
				return err
			}
			defer svc.Close()

			svc.history.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Recent searches cleared")
			return nil
		},
	})

	return historyCmd
}
