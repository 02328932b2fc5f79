package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/park285/Othello-Nostr-bot/internal/identity"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a bot key and print its nsec, npub and hex public key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := identity.Generate()
			if err != nil {
				return err
			}
			nsec, err := s.Secret()
			if err != nil {
				return err
			}
			npub, err := s.Npub()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "nsec: %s\nnpub: %s\nhex:  %s\n", nsec, npub, s.PublicKey())
			return err
		},
	}
}
