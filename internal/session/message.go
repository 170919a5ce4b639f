package session

import "github.com/tictactoe-ws/backend/internal/entity"

const (
	ActionCreateGame = "create_game"
	ActionJoinGame   = "join_game"
	ActionMakeMove   = "make_move"

	ActionGameCreated          = "game_created"
	ActionGameJoined           = "game_joined"
	ActionGameState            = "game_state"
	ActionOpponentDisconnected = "opponent_disconnected"
	ActionError                = "error"
)

// Message is the inbound envelope. Index is a pointer so a missing field
// can be told apart from cell 0.
type Message struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode,omitempty"`
	Index    *int   `json:"index,omitempty"`
}

// AckMessage acknowledges create_game / join_game to the requester only.
type AckMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Symbol   string `json:"symbol"`
}

// StateMessage is the snapshot broadcast to every player in a room.
type StateMessage struct {
	Type        string     `json:"type"`
	RoomCode    string     `json:"roomCode"`
	Board       [9]*string `json:"board"`
	Turn        string     `json:"turn"`
	Winner      *string    `json:"winner"`
	Draw        bool       `json:"draw"`
	PlayerCount int        `json:"playerCount"`
}

type OpponentDisconnectedMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// newStateMessage flattens a game into the wire snapshot: empty cells and
// a missing winner go out as JSON null.
func newStateMessage(game *entity.Game, playerCount int) *StateMessage {
	state := &StateMessage{
		Type:        ActionGameState,
		RoomCode:    game.Code,
		Turn:        game.Turn,
		Draw:        game.Draw,
		PlayerCount: playerCount,
	}

	for i := range game.Board {
		if game.Board[i] != entity.EmptyCell {
			cell := game.Board[i]
			state.Board[i] = &cell
		}
	}

	if game.Winner != entity.EmptyCell {
		winner := game.Winner
		state.Winner = &winner
	}

	return state
}
