package session

import (
	"sync"

	"github.com/tictactoe-ws/backend/internal/apperror"
	"github.com/tictactoe-ws/backend/internal/entity"
	"github.com/tictactoe-ws/backend/internal/pkg"
)

// Registry owns the mapping from room code to live room, plus a connection
// index for O(1) disconnect lookup. It carries its own lock, independent of
// any room's, so unrelated games never serialize through registry access.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	conns map[string]string // connID -> room code
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		conns: make(map[string]string),
	}
}

// CreateRoom generates a code not currently in use, inserts a waiting room
// with the owner bound as X, and never fails. Codes freed by RemoveRoom may
// be handed out again.
func (that *Registry) CreateRoom(owner Conn) (*Room, string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var code string
	for {
		code = pkg.GenerateRoomCode()
		if code == "" {
			continue
		}
		if _, taken := that.rooms[code]; !taken {
			break
		}
	}

	room := newRoom(code, owner)
	that.rooms[code] = room
	that.conns[owner.ID()] = code

	return room, code
}

// JoinRoom binds joiner as O and moves the room to ongoing. It fails with
// ErrRoomNotFound for an absent code and ErrRoomFull when two players are
// already bound, leaving the room untouched in both cases.
func (that *Registry) JoinRoom(code string, joiner Conn) (*Room, string, error) {
	that.mu.RLock()
	room, ok := that.rooms[code]
	that.mu.RUnlock()

	if !ok {
		return nil, "", apperror.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.game.IsOver() {
		return nil, "", apperror.ErrRoomNotFound
	}

	if len(room.players) >= 2 {
		return nil, "", apperror.ErrRoomFull
	}

	room.players = append(room.players, &Player{Conn: joiner, Mark: entity.PlayerO})
	room.game.Status = entity.StatusOngoing

	that.mu.Lock()
	that.conns[joiner.ID()] = code
	that.mu.Unlock()

	return room, entity.PlayerO, nil
}

// Get returns the live room for a code, or nil.
func (that *Registry) Get(code string) *Room {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.rooms[code]
}

// RemoveRoom deletes a code, but only while it still maps to the given
// room. Removing an absent code is a no-op, which is how a scheduled
// teardown and a disconnect-triggered teardown race safely: whichever
// fires second reports false and backs off. The identity check keeps a
// stale timer from tearing down a new room that reused the code.
func (that *Registry) RemoveRoom(code string, room *Room) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	current, ok := that.rooms[code]
	if !ok || current != room {
		return false
	}

	delete(that.rooms, code)

	return true
}

// RoomByConn resolves the room containing a player bound to the connection.
func (that *Registry) RoomByConn(connID string) (*Room, string) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	code, ok := that.conns[connID]
	if !ok {
		return nil, ""
	}

	return that.rooms[code], code
}

// UnbindConn drops the connection index entry. Idempotent.
func (that *Registry) UnbindConn(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, connID)
}

// Len reports the number of live rooms.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
