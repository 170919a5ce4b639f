package entity

import (
	"errors"
	"fmt"

	"github.com/tictactoe-ws/backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
	StatusClosing  = "closing"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

var (
	ErrInvalidCell = errors.New("invalid cell index")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Game holds one room's board state. Cells are never reset once written;
// the struct carries no locking, callers serialize access per room.
type Game struct {
	Code   string
	Board  [9]string
	Turn   string
	Winner string
	Draw   bool
	Status string
	Moves  int
}

func NewGame(code string) *Game {
	return &Game{
		Code:   code,
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

// MakeTurn writes mark into cell after the turn and occupancy checks,
// then settles the outcome. A win is always detected before a draw, so a
// board-filling winning move reports the win.
func (that *Game) MakeTurn(mark string, cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = mark
	that.Moves++

	if that.HasWin(mark) {
		that.Winner = mark
		that.Status = StatusFinished
		return nil
	}

	if that.IsFull() {
		that.Draw = true
		that.Status = StatusFinished
		return nil
	}

	that.Turn = toggleMark(mark)

	return nil
}

// HasWin reports whether mark occupies all three cells of any of the
// 8 winning triples.
func (that *Game) HasWin(mark string) bool {
	for _, combo := range WinCombos {
		if that.Board[combo[0]] == mark && that.Board[combo[1]] == mark && that.Board[combo[2]] == mark {
			return true
		}
	}

	return false
}

func (that *Game) IsFull() bool {
	for _, cell := range that.Board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsClosing() bool {
	return that.Status == StatusClosing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// IsOver reports whether the room accepts no further board mutation.
func (that *Game) IsOver() bool {
	return that.IsFinished() || that.IsClosing()
}

func toggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
