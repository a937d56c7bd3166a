package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/davidMcneil/brains-and-bets/internal/config"
	"github.com/davidMcneil/brains-and-bets/internal/gameapi"
	"github.com/davidMcneil/brains-and-bets/internal/settings"
)

const usage = `usage: brainsbets [-base URL] [-v] <command> [args]

commands:
  config get|set|unset [value]   manage the stored base_server_path
  create GAME PLAYER             create a game
  join GAME PLAYER               join a game
  state GAME                     show players and the current round
  answer GAME PLAYER TEXT        submit an answer
  guess GAME PLAYER N            submit a numeric guess
  wager GAME PLAYER AMOUNT [N]   place a wager, optionally on a guess
  score GAME                     show the leaderboard
  round-score GAME               show the last round's score changes
  exit GAME PLAYER               leave a game
  delete GAME                    delete a game
  watch [-n N] GAME              poll the game state
  closest ANSWER PLAYER=N...     pick the largest guess not above ANSWER
`

var errUsage = errors.New("invalid usage")

// run executes one CLI invocation. Errors from the game server are returned
// unchanged so main can report them.
func run(ctx context.Context, args []string, out io.Writer, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("brainsbets", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }
	base := fs.String("base", "", "game server base path (overrides env and stored setting)")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger = logger.Level(level)

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}

	// closest works on local input only.
	if rest[0] == "closest" {
		return runClosest(out, rest[1:])
	}

	store, err := settings.Open(cfg.SettingsBackend, cfg.SettingsPath, cfg.KeyringService)
	if err != nil {
		return err
	}
	defer store.Close()

	if rest[0] == "config" {
		return runConfig(ctx, out, store, rest[1:])
	}

	baseURL, err := resolveBaseURL(ctx, *base, cfg.BaseServerPath, store)
	if err != nil {
		return err
	}
	if baseURL == "" {
		logger.Warn().Str("key", settings.BaseServerPathKey).Msg("base server path is not set; requests will fail")
	}
	logger.Debug().Str("base", baseURL).Str("command", rest[0]).Msg("dispatching")

	a := &app{
		client: gameapi.NewClient(gameapi.Config{
			BaseURL:   baseURL,
			UserAgent: cfg.UserAgent,
			Logger:    &logger,
		}),
		out:  out,
		log:  logger,
		poll: cfg.PollInterval,
	}
	return a.dispatch(ctx, rest[0], rest[1:])
}

// resolveBaseURL picks the base path: flag, then environment, then the
// stored slot.
func resolveBaseURL(ctx context.Context, flagValue, envValue string, store settings.Store) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	return settings.BaseServerPath(ctx, store)
}

func runConfig(ctx context.Context, out io.Writer, store settings.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: config needs get, set or unset", errUsage)
	}
	switch args[0] {
	case "get":
		v, err := settings.BaseServerPath(ctx, store)
		if err != nil {
			return err
		}
		if v == "" {
			fmt.Fprintf(out, "%s is not set\n", settings.BaseServerPathKey)
			return nil
		}
		fmt.Fprintln(out, v)
		return nil
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("%w: config set VALUE", errUsage)
		}
		if err := store.Set(ctx, settings.BaseServerPathKey, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s = %s\n", settings.BaseServerPathKey, args[1])
		return nil
	case "unset":
		if err := store.Delete(ctx, settings.BaseServerPathKey); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s cleared\n", settings.BaseServerPathKey)
		return nil
	default:
		return fmt.Errorf("%w: unknown config action %q", errUsage, args[0])
	}
}
