package session

// openConns snapshots the still-open connection handles bound to the room.
// Caller holds mu.
func (that *Room) openConns() []Conn {
	conns := make([]Conn, 0, len(that.players))
	for _, player := range that.players {
		if player.Conn.IsOpen() {
			conns = append(conns, player.Conn)
		}
	}

	return conns
}

// BroadcastState delivers one identical snapshot of the room to every bound,
// still-open connection. A handle that closed underneath us is skipped; its
// cleanup arrives separately through the disconnect path.
func (that *Manager) BroadcastState(room *Room) {
	room.mu.Lock()
	state := newStateMessage(room.game, len(room.players))
	targets := room.openConns()
	room.mu.Unlock()

	that.broadcast(state, targets)
}

func (that *Manager) broadcast(state *StateMessage, targets []Conn) {
	for _, conn := range targets {
		if !conn.IsOpen() {
			continue
		}

		if err := conn.Send(state); err != nil {
			that.logger.Debug("failed to send game state", "connID", conn.ID(), "roomCode", state.RoomCode, "error", err)
		}
	}
}
