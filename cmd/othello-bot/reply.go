package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/park285/Othello-Nostr-bot/internal/responder"
)

func newReplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reply [file]",
		Short: "Answer one request envelope from a file or stdin and print the signed reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 && args[0] != "-" {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			in, err := responder.DecodeRequest(raw)
			if err != nil {
				return err
			}

			a, err := wireApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.responder.Respond(cmd.Context(), in)
			if err != nil {
				return err
			}
			body, err := out.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	}
}
