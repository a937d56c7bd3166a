// Package round holds the per-round value types shown to players: numeric
// guesses and cumulative scores, plus the ordering helpers the views use.
package round

import (
	"cmp"
	"slices"
)

// Guess is a single player's numeric guess for the current round.
type Guess struct {
	Player string  `json:"player"`
	Guess  float64 `json:"guess"`
}

// NewGuess creates a guess. Values are taken as-is, including negative and
// non-finite numbers.
func NewGuess(player string, guess float64) Guess {
	return Guess{Player: player, Guess: guess}
}

// CompareGuesses orders guesses from largest to smallest value.
// It returns a negative number when a sorts before b.
func CompareGuesses(a, b Guess) int {
	return cmp.Compare(b.Guess, a.Guess)
}

// SortGuesses sorts guesses in place, largest first. Equal guesses keep
// their input order.
func SortGuesses(guesses []Guess) {
	slices.SortStableFunc(guesses, CompareGuesses)
}

// ClosestGuess returns the largest guess that does not exceed answer.
//
// guesses must already be sorted with SortGuesses (descending). The slice is
// scanned from the front and the first guess <= answer wins; an unsorted
// slice gives a meaningless result. It reports false when the slice is empty or
// every guess is above the answer.
func ClosestGuess(guesses []Guess, answer float64) (Guess, bool) {
	for _, g := range guesses {
		if g.Guess <= answer {
			return g, true
		}
	}
	return Guess{}, false
}
