package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/words"
)

func newGame(t *testing.T, answer string) *Game {
	t.Helper()
	require.NoError(t, words.Init("", ""))
	return New(answer)
}

func TestNew(t *testing.T) {
	g := newGame(t, "robot")
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "ROBOT", g.Answer)
	assert.Equal(t, DefaultRows, g.Rows)
	assert.Equal(t, StatusPlaying, g.State())

	r := newGame(t, "")
	assert.True(t, words.IsAnswer(r.Answer))
	assert.NotEqual(t, g.ID, r.ID)
}

func TestApplyGuess_Win(t *testing.T) {
	g := newGame(t, "ROBOT")

	f, state, err := g.ApplyGuess("plaza")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, state)
	assert.False(t, f.AllCorrect())

	f, state, err = g.ApplyGuess("Robot")
	require.NoError(t, err)
	assert.Equal(t, StatusWon, state)
	assert.True(t, f.AllCorrect())
	assert.Equal(t, []string{"PLAZA", "ROBOT"}, g.Guesses)

	_, _, err = g.ApplyGuess("robot")
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestApplyGuess_Rejections(t *testing.T) {
	g := newGame(t, "ROBOT")

	_, _, err := g.ApplyGuess("hi")
	var inv *InvalidGuessError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, MsgWrongLength, inv.Reason)

	_, _, err = g.ApplyGuess("qqqqq")
	assert.ErrorIs(t, err, ErrNotInList)

	assert.Empty(t, g.Guesses, "rejected guesses do not use a row")
}

func TestApplyGuess_Lose(t *testing.T) {
	g := newGame(t, "ROBOT")
	var state string
	for i := 0; i < DefaultRows; i++ {
		var err error
		_, state, err = g.ApplyGuess("plaza")
		require.NoError(t, err)
	}
	assert.Equal(t, StatusLost, state)
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}
