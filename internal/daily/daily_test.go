package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaquimColacilli/bloxmision-sub001/assets"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/store"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 1, 2, 23, 30, 0, 0, time.FixedZone("UTC-3", -3*3600))
	assert.Equal(t, "2026-01-03", DateKey(ts))
}

func TestDayNumber(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"launch day", epoch.Add(23 * time.Hour), 1},
		{"next day", epoch.Add(24 * time.Hour), 2},
		{"a month later", time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), 32},
		{"before launch", epoch.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayNumber(tt.at, epoch))
		})
	}
}

func TestWordIndex(t *testing.T) {
	d := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	i := WordIndex(d, "salt", 60)
	assert.Equal(t, i, WordIndex(d.Add(10*time.Hour), "salt", 60), "same UTC day, same word")
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 60)
	assert.Zero(t, WordIndex(d, "salt", 0))

	seen := map[int]bool{}
	for k := 0; k < 30; k++ {
		seen[WordIndex(d.AddDate(0, 0, k), "salt", 60)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestHint(t *testing.T) {
	assert.Equal(t, "", Hint("ROBOT", 0))
	assert.Equal(t, "", Hint("ROBOT", 2))
	assert.Equal(t, "R", Hint("ROBOT", 3))
	assert.Equal(t, "RO", Hint("ROBOT", 4))
	assert.Equal(t, "RO", Hint("ROBOT", 5))
	assert.Equal(t, "", Hint("", 5))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, assets.Migrations()))
	s := NewStore(db)

	played, err := s.AlreadyPlayed(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-03-14", DayNumber: 73, Guesses: 3, Won: true, ElapsedMs: 9000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u2", Date: "2026-03-14", Guesses: 4, Won: true, ElapsedMs: 5000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u3", Date: "2026-03-14", Guesses: 6, Won: false, ElapsedMs: 1000}))
	// Second result for the same day is ignored.
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-03-14", Guesses: 1, Won: true, ElapsedMs: 1}))

	played, err = s.AlreadyPlayed(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := s.Leaderboard(ctx, "2026-03-14", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{UserID: "u2", Guesses: 4, ElapsedMs: 5000},
		{UserID: "u1", Guesses: 3, ElapsedMs: 9000},
	}, top)

	empty, err := s.Leaderboard(ctx, "2020-01-01", 5)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
