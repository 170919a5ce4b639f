package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tictactoe-ws/backend/internal/apperror"
)

func TestNewGame(t *testing.T) {
	// Given: a fresh room code
	game := NewGame("AB12CD")

	// Then: X moves first on an empty waiting board
	assert.Equal(t, "AB12CD", game.Code)
	assert.Equal(t, PlayerX, game.Turn)
	assert.Equal(t, StatusWaiting, game.Status)
	for _, cell := range game.Board {
		assert.Equal(t, EmptyCell, cell)
	}
}

func TestGame_MakeTurn(t *testing.T) {
	t.Run("Accepted move writes the mark and flips the turn", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame("AB12CD")
		game.Status = StatusOngoing

		// When: X takes the center
		err := game.MakeTurn(PlayerX, 4)

		// Then: the cell holds X and it is O's turn
		require.NoError(t, err)
		assert.Equal(t, PlayerX, game.Board[4])
		assert.Equal(t, PlayerO, game.Turn)
		assert.Equal(t, 1, game.Moves)
	})

	t.Run("Turn alternates strictly for every accepted move", func(t *testing.T) {
		// Given: an ongoing game
		game := NewGame("AB12CD")
		game.Status = StatusOngoing

		moves := []struct {
			mark string
			cell int
		}{
			{PlayerX, 0}, {PlayerO, 1}, {PlayerX, 3}, {PlayerO, 4},
		}

		// When: players alternate
		for _, move := range moves {
			require.Equal(t, move.mark, game.Turn)
			require.NoError(t, game.MakeTurn(move.mark, move.cell))
		}

		// Then: it is X's turn again
		assert.Equal(t, PlayerX, game.Turn)
	})

	t.Run("Rejects a move out of turn without changing state", func(t *testing.T) {
		// Given: an ongoing game where X moves first
		game := NewGame("AB12CD")
		game.Status = StatusOngoing

		// When: O tries to move
		err := game.MakeTurn(PlayerO, 0)

		// Then: the move is rejected and the board and turn are untouched
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, EmptyCell, game.Board[0])
		assert.Equal(t, PlayerX, game.Turn)
	})

	t.Run("Rejects a move into an occupied cell without changing the turn", func(t *testing.T) {
		// Given: X already holds cell 4 and O holds cell 0
		game := NewGame("AB12CD")
		game.Status = StatusOngoing
		require.NoError(t, game.MakeTurn(PlayerX, 4))
		require.NoError(t, game.MakeTurn(PlayerO, 0))

		// When: X moves into the occupied cell 0
		err := game.MakeTurn(PlayerX, 0)

		// Then: the move is rejected, the cell keeps its mark, turn stays with X
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerO, game.Board[0])
		assert.Equal(t, PlayerX, game.Turn)
	})

	t.Run("Rejects an out of range cell", func(t *testing.T) {
		game := NewGame("AB12CD")
		game.Status = StatusOngoing

		require.ErrorIs(t, game.MakeTurn(PlayerX, -1), ErrInvalidCell)
		require.ErrorIs(t, game.MakeTurn(PlayerX, 9), ErrInvalidCell)
	})
}

func TestGame_MakeTurn_WinningTriples(t *testing.T) {
	// Given: every winning triple for either symbol
	for _, mark := range []string{PlayerX, PlayerO} {
		for _, combo := range WinCombos {
			game := NewGame("AB12CD")
			game.Status = StatusOngoing
			game.Turn = mark

			// When: the symbol fills the first two cells out of band and
			// plays the third as a move
			game.Board[combo[0]] = mark
			game.Board[combo[1]] = mark
			err := game.MakeTurn(mark, combo[2])

			// Then: the game finishes with that symbol as the winner
			require.NoError(t, err)
			assert.Equal(t, mark, game.Winner, "combo %v for %s", combo, mark)
			assert.Equal(t, StatusFinished, game.Status)
			assert.False(t, game.Draw)
		}
	}
}

func TestGame_MakeTurn_Draw(t *testing.T) {
	t.Run("Full board without a triple is a draw", func(t *testing.T) {
		// Given: a sequence that fills all 9 cells with no winning triple
		game := NewGame("AB12CD")
		game.Status = StatusOngoing

		moves := []struct {
			mark string
			cell int
		}{
			{PlayerX, 0}, {PlayerO, 1}, {PlayerX, 2},
			{PlayerO, 4}, {PlayerX, 3}, {PlayerO, 5},
			{PlayerX, 7}, {PlayerO, 6}, {PlayerX, 8},
		}

		// When: playing it out
		for _, move := range moves {
			require.NoError(t, game.MakeTurn(move.mark, move.cell))
		}

		// Then: the game is a draw with no winner
		assert.True(t, game.Draw)
		assert.Equal(t, EmptyCell, game.Winner)
		assert.Equal(t, StatusFinished, game.Status)
	})

	t.Run("A board-filling winning move is a win, never a draw", func(t *testing.T) {
		// Given: eight cells filled so the last empty cell completes a row for X
		game := NewGame("AB12CD")
		game.Status = StatusOngoing
		game.Board = [9]string{
			PlayerX, PlayerX, EmptyCell,
			PlayerO, PlayerO, PlayerX,
			PlayerX, PlayerO, PlayerO,
		}

		// When: X fills the last cell completing {0,1,2}
		err := game.MakeTurn(PlayerX, 2)

		// Then: it is a win for X, not a draw
		require.NoError(t, err)
		assert.Equal(t, PlayerX, game.Winner)
		assert.False(t, game.Draw)
	})
}

func TestGame_IsOver(t *testing.T) {
	assert.False(t, (&Game{Status: StatusWaiting}).IsOver())
	assert.False(t, (&Game{Status: StatusOngoing}).IsOver())
	assert.True(t, (&Game{Status: StatusFinished}).IsOver())
	assert.True(t, (&Game{Status: StatusClosing}).IsOver())
}
