package round

import (
	"cmp"
	"slices"
)

// Score is a player's cumulative score across the rounds of a game.
type Score struct {
	Player string  `json:"player"`
	Score  float64 `json:"score"`
}

func NewScore(player string, score float64) Score {
	return Score{Player: player, Score: score}
}

// CompareScores orders scores from highest to lowest.
func CompareScores(a, b Score) int {
	return cmp.Compare(b.Score, a.Score)
}

// SortScores sorts scores in place, highest first, keeping ties in input order.
func SortScores(scores []Score) {
	slices.SortStableFunc(scores, CompareScores)
}
