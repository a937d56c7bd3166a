package gameapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/davidMcneil/brains-and-bets/internal/round"
)

// --- Response envelope ---

// Response is a successful (2xx) reply. The body is returned as received;
// callers decode it with Decode or one of the typed helpers.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("gameapi: decode response: %w", err)
	}
	return nil
}

// --- Request bodies ---

type playerBody struct {
	Player string `json:"player"`
}

type answerBody struct {
	Player string `json:"player"`
	Answer string `json:"answer"`
}

// wagerBody encodes the wager as a JSON number rather than the quoted
// string decimal.Decimal produces by default.
type wagerBody struct {
	Player string      `json:"player"`
	Guess  *float64    `json:"guess"`
	Wager  json.Number `json:"wager"`
}

func newWagerBody(player string, guess *float64, wager decimal.Decimal) wagerBody {
	return wagerBody{
		Player: player,
		Guess:  guess,
		Wager:  json.Number(wager.String()),
	}
}

// --- Game state ---

// Answer is a free-form answer given by a player.
type Answer struct {
	Player string `json:"player"`
	Answer string `json:"answer"`
}

// Round is one question of a game. Guesses are left raw because their shape
// differs between server versions.
type Round struct {
	Question string          `json:"question"`
	Answers  []Answer        `json:"answers"`
	Guesses  json.RawMessage `json:"guesses,omitempty"`
}

// GameState is the body returned by GetGame.
type GameState struct {
	Players []string `json:"players"`
	Rounds  []Round  `json:"rounds"`
}

// CurrentRound returns the most recent round, or nil when the game has none.
func (g *GameState) CurrentRound() *Round {
	if len(g.Rounds) == 0 {
		return nil
	}
	return &g.Rounds[len(g.Rounds)-1]
}

// DecodeGame parses a GetGame response.
func DecodeGame(resp *Response) (*GameState, error) {
	var g GameState
	if err := resp.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DecodeScores parses a GetScore or GetRoundScore response, a
// {player: score} object, into scores ordered highest first. Equal scores
// are ordered by player name.
func DecodeScores(resp *Response) ([]round.Score, error) {
	var byPlayer map[string]float64
	if err := resp.Decode(&byPlayer); err != nil {
		return nil, err
	}

	players := make([]string, 0, len(byPlayer))
	for p := range byPlayer {
		players = append(players, p)
	}
	sort.Strings(players)

	scores := make([]round.Score, 0, len(players))
	for _, p := range players {
		scores = append(scores, round.NewScore(p, byPlayer[p]))
	}
	round.SortScores(scores)
	return scores, nil
}
