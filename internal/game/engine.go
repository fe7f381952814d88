// internal/game/engine.go
//
// Game engine for a single free-play word session.
// Responsibilities:
//   - Create new games with a fixed number of rows (6).
//   - Validate and apply guesses (format guard, allowed list).
//   - Score guesses with EvaluateGuess.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Answers/allowed lists are provided by the words package.
//   - IDs are random UUIDs used to correlate server state.
package game

import (
	"errors"

	"github.com/google/uuid"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/words"
)

// DefaultRows is the number of guesses a player gets.
const DefaultRows = 6

// Game states reported by ApplyGuess.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

var (
	ErrGameFinished = errors.New("game finished")
	ErrNotInList    = errors.New("not in word list")
)

// InvalidGuessError wraps the IsValidGuess message for a rejected guess.
type InvalidGuessError struct{ Reason string }

func (e *InvalidGuessError) Error() string { return "invalid guess: " + e.Reason }

// New constructs a new game instance.
// If withAnswer is empty, a random answer is chosen from the words package.
func New(withAnswer string) *Game {
	ans := withAnswer
	if ans == "" {
		ans = words.RandomAnswer()
	}
	return &Game{
		ID:      uuid.NewString(),
		Answer:  normalize(ans),
		Rows:    DefaultRows,
		Guesses: []string{},
	}
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the feedback, the new state ("playing"/"won"/"lost"), or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must pass IsValidGuess.
//   - Guess must be present in the allowed list.
func (g *Game) ApplyGuess(guess string) (Feedback, string, error) {
	if g.Finished {
		return Feedback{}, g.State(), ErrGameFinished
	}
	if v := IsValidGuess(guess); !v.Valid {
		return Feedback{}, g.State(), &InvalidGuessError{Reason: v.Error}
	}
	guess = normalize(guess)
	if !words.IsAllowed(guess) {
		return Feedback{}, g.State(), ErrNotInList
	}

	res := ProcessGuess(guess, g.Answer)
	g.Guesses = append(g.Guesses, guess)

	if res.IsCorrect {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return res.Feedback, g.State(), nil
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return StatusWon
		}
		return StatusLost
	}
	return StatusPlaying
}
