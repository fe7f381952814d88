package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/game"
)

// Owner identifies who played a game: a signed-in user or an anonymous cookie.
type Owner struct {
	UserID string
	AnonID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonID
}

// GameRow is one entry of a player's free-play history.
type GameRow struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// History persists free-play game rows and the user counters derived from them.
// Answers are never written to the database.
type History struct{ db *sql.DB }

func NewHistory(db *sql.DB) *History { return &History{db: db} }

// Start records a new game owned by o.
func (h *History) Start(ctx context.Context, gameID string, o Owner, at time.Time) error {
	var user, anon any
	if o.UserID != "" {
		user = o.UserID
	} else {
		anon = o.AnonID
	}
	_, err := h.db.ExecContext(ctx, `INSERT INTO games (id, user_id, anonymous_id, started_at, status, guesses)
	                                 VALUES (?,?,?,?,?,0)`, gameID, user, anon, at.UTC().Format(time.RFC3339), game.StatusPlaying)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", gameID, err)
	}
	return nil
}

// Guess bumps the guess counter and, when status is terminal, closes the game
// and updates the owner's stats, all in one transaction.
func (h *History) Guess(ctx context.Context, gameID string, o Owner, status string, at time.Time) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	where, arg := o.clause()
	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+where, gameID, arg); err != nil {
		return fmt.Errorf("update guesses: %w", err)
	}

	if status == game.StatusWon || status == game.StatusLost {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=? AND `+where,
			status, at.UTC().Format(time.RFC3339), gameID, arg); err != nil {
			return fmt.Errorf("finish game: %w", err)
		}
		if o.UserID != "" {
			if err := bumpStats(ctx, tx, o.UserID, status == game.StatusWon); err != nil {
				return fmt.Errorf("bump stats: %w", err)
			}
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// Mine lists the most recent games of a user.
func (h *History) Mine(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx, `SELECT id, status, guesses, started_at, COALESCE(finished_at,'')
	                                     FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var gr GameRow
		if err := rows.Scan(&gr.ID, &gr.Status, &gr.Guesses, &gr.StartedAt, &gr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, gr)
	}
	return out, rows.Err()
}

// ClaimAnon transfers anonymous games to a user account after auth.
func (h *History) ClaimAnon(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := h.db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}
