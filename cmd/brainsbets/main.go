// Command brainsbets is a terminal client for a brains-and-bets game server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("brainsbets failed")
		stop()
		os.Exit(1)
	}
}
