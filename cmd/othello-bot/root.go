package main

import (
	"github.com/spf13/cobra"

	"github.com/park285/Othello-Nostr-bot/internal/obslog"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "othello-bot",
		Short:         "Nostr bot that plays Othello boards in reply threads",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return obslog.InitFromEnv()
		},
	}
	rootCmd.AddCommand(
		newServeCmd(),
		newReplyCmd(),
		newFetchCmd(),
		newKeygenCmd(),
	)
	return rootCmd
}
