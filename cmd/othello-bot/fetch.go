package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <event-id>",
		Short: "Look an event up across the configured relays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			ev, err := a.lookup.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ev == nil {
				return fmt.Errorf("event %s not found on any of %d relays", args[0], len(a.pool.Relays()))
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(ev)
		},
	}
}
