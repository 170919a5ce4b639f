package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tictactoe-ws/backend/internal/apperror"
	"github.com/tictactoe-ws/backend/internal/entity"
)

func TestRegistry_CreateRoom(t *testing.T) {
	t.Run("Binds the owner as X in a waiting room", func(t *testing.T) {
		// Given: an empty registry
		registry := NewRegistry()
		owner := newFakeConn("owner")

		// When: creating a room
		room, code := registry.CreateRoom(owner)

		// Then: the room is live, waiting, with the owner bound as X
		require.Len(t, code, 6)
		require.Same(t, room, registry.Get(code))
		require.Len(t, room.players, 1)
		assert.Equal(t, entity.PlayerX, room.players[0].Mark)
		assert.Equal(t, entity.StatusWaiting, room.game.Status)

		indexed, indexedCode := registry.RoomByConn(owner.ID())
		assert.Same(t, room, indexed)
		assert.Equal(t, code, indexedCode)
	})

	t.Run("Concurrent creates issue pairwise distinct codes", func(t *testing.T) {
		// Given: an empty registry
		registry := NewRegistry()

		const n = 50
		codes := make([]string, n)

		// When: n rooms are created concurrently
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, codes[i] = registry.CreateRoom(newFakeConn(fmt.Sprintf("conn-%d", i)))
			}()
		}
		wg.Wait()

		// Then: every live room has its own code
		seen := make(map[string]struct{}, n)
		for _, code := range codes {
			_, dup := seen[code]
			require.False(t, dup, "duplicate code %s", code)
			seen[code] = struct{}{}
		}
		assert.Equal(t, n, registry.Len())
	})
}

func TestRegistry_JoinRoom(t *testing.T) {
	t.Run("Binds the joiner as O and starts the game", func(t *testing.T) {
		// Given: a waiting room
		registry := NewRegistry()
		_, code := registry.CreateRoom(newFakeConn("owner"))
		joiner := newFakeConn("joiner")

		// When: a second player joins
		room, mark, err := registry.JoinRoom(code, joiner)

		// Then: the joiner is O and the room is ongoing
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, mark)
		assert.Equal(t, entity.StatusOngoing, room.game.Status)
		require.Len(t, room.players, 2)

		indexed, _ := registry.RoomByConn(joiner.ID())
		assert.Same(t, room, indexed)
	})

	t.Run("Fails with ErrRoomNotFound for an absent code", func(t *testing.T) {
		registry := NewRegistry()

		_, _, err := registry.JoinRoom("NOSUCH", newFakeConn("joiner"))

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Fails with ErrRoomFull and leaves the room untouched", func(t *testing.T) {
		// Given: a full room
		registry := NewRegistry()
		room, code := registry.CreateRoom(newFakeConn("owner"))
		_, _, err := registry.JoinRoom(code, newFakeConn("second"))
		require.NoError(t, err)

		// When: a third player tries to join
		_, _, err = registry.JoinRoom(code, newFakeConn("third"))

		// Then: the join is rejected and the room still has two players
		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Len(t, room.players, 2)
		assert.Equal(t, entity.StatusOngoing, room.game.Status)
	})
}

func TestRegistry_RemoveRoom(t *testing.T) {
	t.Run("Succeeds once and reports false afterwards", func(t *testing.T) {
		// Given: a live room
		registry := NewRegistry()
		room, code := registry.CreateRoom(newFakeConn("owner"))

		// When: removing it twice
		first := registry.RemoveRoom(code, room)
		second := registry.RemoveRoom(code, room)

		// Then: only the first call wins
		assert.True(t, first)
		assert.False(t, second)
		assert.Nil(t, registry.Get(code))
		assert.Zero(t, registry.Len())
	})

	t.Run("A stale removal cannot touch a room that reused the code", func(t *testing.T) {
		// Given: a removed room whose code was reissued to a new room
		registry := NewRegistry()
		oldRoom, code := registry.CreateRoom(newFakeConn("owner"))
		require.True(t, registry.RemoveRoom(code, oldRoom))

		newRoom := newRoom(code, newFakeConn("other"))
		registry.mu.Lock()
		registry.rooms[code] = newRoom
		registry.mu.Unlock()

		// When: the old room's teardown fires late
		removed := registry.RemoveRoom(code, oldRoom)

		// Then: the new room is untouched
		assert.False(t, removed)
		assert.Same(t, newRoom, registry.Get(code))
	})

	t.Run("Removing an absent code is a no-op", func(t *testing.T) {
		registry := NewRegistry()

		assert.False(t, registry.RemoveRoom("NOSUCH", &Room{}))
	})
}
