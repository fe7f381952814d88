// internal/game/types.go
//
// Core type definitions for the word-guessing mini-game.
// Defines:
//   - LetterState: per-letter result of a guess (correct/present/absent).
//   - Feedback: fixed-length evaluation of a single guess.
//   - GuessResult / Validation: results of ProcessGuess and IsValidGuess.
//   - Game: state for a single free-play session.

package game

// WordLength is the fixed number of letters in guesses and answers.
const WordLength = 5

// LetterState represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the answer at this position.
//   - "present": letter exists in the answer but in a different position.
//   - "absent":  letter is not in the answer (or all its occurrences are used up).
//   - "empty":   tile not yet guessed; only used by clients for rendering.
type LetterState string

const (
	StateCorrect LetterState = "correct"
	StatePresent LetterState = "present"
	StateAbsent  LetterState = "absent"
	StateEmpty   LetterState = "empty"
)

// Feedback holds one LetterState per position of a guess.
type Feedback [WordLength]LetterState

// AllCorrect reports whether every tile is StateCorrect.
func (f Feedback) AllCorrect() bool {
	for _, s := range f {
		if s != StateCorrect {
			return false
		}
	}
	return true
}

// GuessResult is the outcome of ProcessGuess.
type GuessResult struct {
	Guess     string   `json:"guess"`
	Feedback  Feedback `json:"feedback"`
	IsCorrect bool     `json:"isCorrect"`
}

// Validation is the outcome of IsValidGuess.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Game holds the state of a single free-play session.
type Game struct {
	ID       string   // Unique game identifier (UUID).
	Answer   string   // The solution word (always uppercase).
	Rows     int      // Maximum number of guesses allowed (typically 6).
	Guesses  []string // List of guesses made so far (uppercased).
	Finished bool     // True once the game is over (won or lost).
	Won      bool     // True if the game was finished with a win.
}
