package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/davidMcneil/brains-and-bets/internal/gameapi"
	"github.com/davidMcneil/brains-and-bets/internal/round"
)

type app struct {
	client *gameapi.Client
	out    io.Writer
	log    zerolog.Logger
	poll   time.Duration
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "create":
		if len(args) != 2 {
			return fmt.Errorf("%w: create GAME PLAYER", errUsage)
		}
		return a.done(a.client.CreateGame(ctx, args[0], args[1]))
	case "join":
		if len(args) != 2 {
			return fmt.Errorf("%w: join GAME PLAYER", errUsage)
		}
		return a.done(a.client.JoinGame(ctx, args[0], args[1]))
	case "state":
		if len(args) != 1 {
			return fmt.Errorf("%w: state GAME", errUsage)
		}
		return a.printState(ctx, args[0])
	case "answer":
		if len(args) < 3 {
			return fmt.Errorf("%w: answer GAME PLAYER TEXT", errUsage)
		}
		return a.done(a.client.SubmitAnswer(ctx, args[0], args[1], strings.Join(args[2:], " ")))
	case "guess":
		if len(args) != 3 {
			return fmt.Errorf("%w: guess GAME PLAYER N", errUsage)
		}
		n, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("guess: %w", err)
		}
		return a.done(a.client.SubmitGuess(ctx, args[0], args[1], n))
	case "wager":
		return a.wager(ctx, args)
	case "score":
		if len(args) != 1 {
			return fmt.Errorf("%w: score GAME", errUsage)
		}
		return a.printScores(a.client.GetScore(ctx, args[0]))
	case "round-score":
		if len(args) != 1 {
			return fmt.Errorf("%w: round-score GAME", errUsage)
		}
		return a.printScores(a.client.GetRoundScore(ctx, args[0]))
	case "exit":
		if len(args) != 2 {
			return fmt.Errorf("%w: exit GAME PLAYER", errUsage)
		}
		return a.done(a.client.ExitGame(ctx, args[0], args[1]))
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("%w: delete GAME", errUsage)
		}
		return a.done(a.client.DeleteGame(ctx, args[0]))
	case "watch":
		return a.watch(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) done(resp *gameapi.Response, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ok (%d)\n", resp.StatusCode)
	return nil
}

func (a *app) wager(ctx context.Context, args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return fmt.Errorf("%w: wager GAME PLAYER AMOUNT [GUESS]", errUsage)
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("wager: invalid amount %q: %w", args[2], err)
	}

	var guess *float64
	if len(args) == 4 {
		g, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("wager: invalid guess %q: %w", args[3], err)
		}
		guess = &g
	}
	return a.done(a.client.SubmitWager(ctx, args[0], args[1], guess, amount))
}

func (a *app) printState(ctx context.Context, game string) error {
	resp, err := a.client.GetGame(ctx, game)
	if err != nil {
		return err
	}
	state, err := gameapi.DecodeGame(resp)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, summarize(state))
	return nil
}

func (a *app) printScores(resp *gameapi.Response, err error) error {
	if err != nil {
		return err
	}
	scores, err := gameapi.DecodeScores(resp)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		fmt.Fprintln(a.out, "no scores yet")
		return nil
	}
	for i, s := range scores {
		fmt.Fprintf(a.out, "%d. %s %s\n", i+1, s.Player, strconv.FormatFloat(s.Score, 'f', -1, 64))
	}
	return nil
}

// watch polls the game state, printing it whenever it changes. -n 0 polls
// until interrupted.
func (a *app) watch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(a.out)
	count := fs.Int("n", 0, "number of polls (0 = until interrupted)")
	interval := fs.Duration("interval", a.poll, "delay between polls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: watch [-n N] GAME", errUsage)
	}
	game := fs.Arg(0)

	var last string
	for i := 0; *count == 0 || i < *count; i++ {
		if i > 0 {
			gameapi.Sleep(*interval)
		}
		if ctx.Err() != nil {
			return nil
		}

		resp, err := a.client.GetGame(ctx, game)
		if err != nil {
			return err
		}
		state, err := gameapi.DecodeGame(resp)
		if err != nil {
			return err
		}
		summary := summarize(state)
		if summary == last {
			a.log.Debug().Str("game", game).Int("poll", i+1).Msg("no change")
			continue
		}
		last = summary
		fmt.Fprint(a.out, summary)
	}
	return nil
}

func summarize(state *gameapi.GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "players: %s\n", strings.Join(state.Players, ", "))
	if cur := state.CurrentRound(); cur != nil {
		fmt.Fprintf(&b, "round %d: %s\n", len(state.Rounds), cur.Question)
		fmt.Fprintf(&b, "answers: %d/%d\n", len(cur.Answers), len(state.Players))
	}
	return b.String()
}

// runClosest parses PLAYER=N pairs, sorts them and reports the largest
// guess not above the answer.
func runClosest(out io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: closest ANSWER PLAYER=N...", errUsage)
	}
	answer, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("closest: invalid answer %q: %w", args[0], err)
	}

	guesses := make([]round.Guess, 0, len(args)-1)
	for _, pair := range args[1:] {
		player, value, ok := strings.Cut(pair, "=")
		if !ok || player == "" {
			return fmt.Errorf("%w: expected PLAYER=N, got %q", errUsage, pair)
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("closest: invalid guess %q: %w", pair, err)
		}
		guesses = append(guesses, round.NewGuess(player, n))
	}

	round.SortGuesses(guesses)
	g, ok := round.ClosestGuess(guesses, answer)
	if !ok {
		fmt.Fprintf(out, "no guess at or below %s\n", args[0])
		return nil
	}
	fmt.Fprintf(out, "%s (%s)\n", g.Player, strconv.FormatFloat(g.Guess, 'f', -1, 64))
	return nil
}
