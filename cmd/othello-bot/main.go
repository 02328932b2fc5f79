package main

import (
	"fmt"
	"os"

	"github.com/park285/Othello-Nostr-bot/internal/obslog"
)

func main() {
	err := newRootCmd().Execute()
	obslog.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
