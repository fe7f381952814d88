// internal/progress/progress.go
//
// Progress submission for level runs.
// Responsibilities:
//   - Turn a ValidationResult into stars and XP.
//   - Keep the best record per (user, level) and count every attempt.
//   - List a user's records for profile pages.

package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/blocks"
)

const (
	// xpPerStar is awarded for every star of a run.
	xpPerStar = 10
	// firstClearBonus is added the first time a level is completed.
	firstClearBonus = 5
	// twoStarSlack is how many blocks over optimal still earn two stars.
	twoStarSlack = 2
)

// Stars rates a run from 0 to 3. Failed runs get 0, optimal solutions 3,
// solutions within twoStarSlack blocks of optimal 2, anything else 1.
func Stars(res blocks.ValidationResult, blockCount, optimal int) int {
	switch {
	case res.Error != nil || !res.Success:
		return 0
	case res.IsOptimal:
		return 3
	case blockCount <= optimal+twoStarSlack:
		return 2
	default:
		return 1
	}
}

// Record is the stored progress of one user on one level.
type Record struct {
	UserID     string    `json:"userId"`
	LevelID    string    `json:"levelId"`
	Stars      int       `json:"stars"`
	XP         int       `json:"xp"`
	BestBlocks int       `json:"bestBlocks"`
	Attempts   int       `json:"attempts"`
	Completed  bool      `json:"completed"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Outcome is what a single submission earned.
type Outcome struct {
	Stars      int    `json:"stars"`
	XPEarned   int    `json:"xpEarned"`
	FirstClear bool   `json:"firstClear"`
	Record     Record `json:"record"`
}

// Service computes and persists progress.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Submit records one run of level by userID. XP is only earned when the run
// improves on the stored stars; the difference is awarded, plus the
// first-clear bonus.
func (s *Service) Submit(ctx context.Context, userID string, level blocks.Level, res blocks.ValidationResult, blockCount int) (Outcome, error) {
	stars := Stars(res, blockCount, level.OptimalBlockCount)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Outcome{}, err
	}
	defer func() { _ = tx.Rollback() }()

	prev, err := get(ctx, tx, userID, level.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		prev = Record{UserID: userID, LevelID: level.ID}
	case err != nil:
		return Outcome{}, fmt.Errorf("load progress: %w", err)
	}

	out := Outcome{Stars: stars}
	rec := prev
	rec.Attempts++
	rec.UpdatedAt = s.now().UTC()
	if stars > prev.Stars {
		out.XPEarned = (stars - prev.Stars) * xpPerStar
		rec.Stars = stars
	}
	if stars > 0 {
		if !prev.Completed {
			out.FirstClear = true
			out.XPEarned += firstClearBonus
		}
		rec.Completed = true
		if rec.BestBlocks == 0 || blockCount < rec.BestBlocks {
			rec.BestBlocks = blockCount
		}
	}
	rec.XP += out.XPEarned

	_, err = tx.ExecContext(ctx, `
        INSERT INTO level_progress (user_id, level_id, stars, xp, best_blocks, attempts, completed, updated_at)
        VALUES (?,?,?,?,?,?,?,?)
        ON CONFLICT(user_id, level_id) DO UPDATE SET
            stars=excluded.stars, xp=excluded.xp, best_blocks=excluded.best_blocks,
            attempts=excluded.attempts, completed=excluded.completed, updated_at=excluded.updated_at`,
		rec.UserID, rec.LevelID, rec.Stars, rec.XP, rec.BestBlocks, rec.Attempts, rec.Completed, rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("save progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Outcome{}, err
	}
	out.Record = rec
	return out, nil
}

// ForUser lists every level record of userID, ordered by level id.
func (s *Service) ForUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT user_id, level_id, stars, xp, best_blocks, attempts, completed, updated_at
        FROM level_progress WHERE user_id=? ORDER BY level_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TotalXP sums the XP of all levels of userID.
func (s *Service) TotalXP(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(xp),0) FROM level_progress WHERE user_id=?`, userID).Scan(&total)
	return total, err
}

type scanner interface {
	Scan(dest ...any) error
}

func get(ctx context.Context, tx *sql.Tx, userID, levelID string) (Record, error) {
	row := tx.QueryRowContext(ctx, `
        SELECT user_id, level_id, stars, xp, best_blocks, attempts, completed, updated_at
        FROM level_progress WHERE user_id=? AND level_id=?`, userID, levelID)
	return scan(row)
}

func scan(row scanner) (Record, error) {
	var r Record
	var updated string
	if err := row.Scan(&r.UserID, &r.LevelID, &r.Stars, &r.XP, &r.BestBlocks, &r.Attempts, &r.Completed, &updated); err != nil {
		return Record{}, err
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return r, nil
}
