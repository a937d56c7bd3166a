package gameapi

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/davidMcneil/brains-and-bets/internal/round"
)

// Path suffixes for game sub-resources.
const (
	suffixAnswer     = "/answer"
	suffixGuess      = "/guess"
	suffixWager      = "/wager"
	suffixScore      = "/score"
	suffixRoundScore = "/round_score"
	suffixExit       = "/exit"
)

// --- Lobby ---

// CreateGame creates a new game with player as its first member.
// PUT {base}{game} {"player"}
func (c *Client) CreateGame(ctx context.Context, game, player string) (*Response, error) {
	return c.do(ctx, http.MethodPut, game, "", playerBody{Player: player})
}

// JoinGame adds player to an existing game.
// POST {base}{game} {"player"}
func (c *Client) JoinGame(ctx context.Context, game, player string) (*Response, error) {
	return c.do(ctx, http.MethodPost, game, "", playerBody{Player: player})
}

// GetGame fetches the current game state. Use DecodeGame on the result.
// GET {base}{game}
func (c *Client) GetGame(ctx context.Context, game string) (*Response, error) {
	return c.do(ctx, http.MethodGet, game, "", nil)
}

// ExitGame removes player from the game.
// DELETE {base}{game}/exit {"player"}
func (c *Client) ExitGame(ctx context.Context, game, player string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, game, suffixExit, playerBody{Player: player})
}

// DeleteGame removes the whole game.
// DELETE {base}{game}
func (c *Client) DeleteGame(ctx context.Context, game string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, game, "", nil)
}

// --- Round submissions ---

// SubmitAnswer submits a free-form answer for the current round.
// POST {base}{game}/answer {"player", "answer"}
func (c *Client) SubmitAnswer(ctx context.Context, game, player, answer string) (*Response, error) {
	return c.do(ctx, http.MethodPost, game, suffixAnswer, answerBody{Player: player, Answer: answer})
}

// SubmitGuess submits a numeric guess for the current round.
// POST {base}{game}/guess {"player", "guess"}
func (c *Client) SubmitGuess(ctx context.Context, game, player string, guess float64) (*Response, error) {
	return c.do(ctx, http.MethodPost, game, suffixGuess, round.NewGuess(player, guess))
}

// SubmitWager places a wager. guess may be nil, in which case it is sent as
// JSON null.
// POST {base}{game}/wager {"player", "guess", "wager"}
func (c *Client) SubmitWager(ctx context.Context, game, player string, guess *float64, wager decimal.Decimal) (*Response, error) {
	return c.do(ctx, http.MethodPost, game, suffixWager, newWagerBody(player, guess, wager))
}

// --- Scores ---

// GetScore fetches cumulative scores. Use DecodeScores on the result.
// GET {base}{game}/score
func (c *Client) GetScore(ctx context.Context, game string) (*Response, error) {
	return c.do(ctx, http.MethodGet, game, suffixScore, nil)
}

// GetRoundScore fetches the score change from the last completed round.
// GET {base}{game}/round_score
func (c *Client) GetRoundScore(ctx context.Context, game string) (*Response, error) {
	return c.do(ctx, http.MethodGet, game, suffixRoundScore, nil)
}
