package apperror

import "errors"

var (
	ErrRoomNotFound    = errors.New("game room not found")
	ErrRoomFull        = errors.New("game room is full")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrNotAPlayer      = errors.New("you are not a player in this game")
	ErrCellOccupied    = errors.New("cell already taken")
	ErrGameAlreadyOver = errors.New("game is already over")
)
