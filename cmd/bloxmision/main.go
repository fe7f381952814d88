// cmd/bloxmision/main.go
//
// Entry point for the BloxMision backend and its tooling.
// Responsibilities:
//   - Cancel the command context on SIGINT/SIGTERM (graceful shutdown for serve).
//   - Run the cobra command tree and map failures to a non-zero exit code.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
