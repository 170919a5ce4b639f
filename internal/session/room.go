package session

import (
	"sync"
	"time"

	"github.com/tictactoe-ws/backend/internal/entity"
)

// Player binds a connection handle to a mark. Handles are referenced, never
// owned: a player is removed on disconnect, the handle's lifecycle belongs
// to the transport.
type Player struct {
	Conn Conn
	Mark string
}

// Room is one game plus its bound players. All mutation happens under mu,
// held for the duration of a single operation, so two players racing a move
// against each other are serialized without stalling other rooms.
type Room struct {
	mu sync.Mutex

	game     *entity.Game
	players  []*Player
	teardown *time.Timer
}

func newRoom(code string, owner Conn) *Room {
	return &Room{
		game:    entity.NewGame(code),
		players: []*Player{{Conn: owner, Mark: entity.PlayerX}},
	}
}

// playerByConn returns the bound player for a connection, or nil.
// Caller holds mu.
func (that *Room) playerByConn(connID string) *Player {
	for _, player := range that.players {
		if player.Conn.ID() == connID {
			return player
		}
	}

	return nil
}

// removePlayer unbinds the player for a connection and reports whether one
// was bound. Caller holds mu.
func (that *Room) removePlayer(connID string) bool {
	for i, player := range that.players {
		if player.Conn.ID() == connID {
			that.players = append(that.players[:i], that.players[i+1:]...)
			return true
		}
	}

	return false
}

// scheduleTeardown arms the fire-once grace timer. A second call replaces
// the previous timer. Caller holds mu.
func (that *Room) scheduleTeardown(delay time.Duration, fn func()) {
	that.cancelTeardown()
	that.teardown = time.AfterFunc(delay, fn)
}

// cancelTeardown stops a pending teardown timer, if any. Caller holds mu.
func (that *Room) cancelTeardown() {
	if that.teardown != nil {
		that.teardown.Stop()
		that.teardown = nil
	}
}
