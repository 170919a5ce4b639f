package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/tictactoe-ws/backend/internal/apperror"
	"github.com/tictactoe-ws/backend/internal/entity"
)

// ResultArchive records terminal outcomes. A nil archive disables recording.
type ResultArchive interface {
	SaveResult(ctx context.Context, roomCode, winner string, draw bool, moves int) error
}

// Manager routes inbound intents to the registry and the per-room state
// machine, answers the requester, and broadcasts accepted mutations. It is
// the sole mutator of room and registry state.
type Manager struct {
	logger   *slog.Logger
	registry *Registry
	archive  ResultArchive

	teardownDelay time.Duration
}

func NewManager(logger *slog.Logger, registry *Registry, archive ResultArchive, teardownDelay time.Duration) *Manager {
	return &Manager{
		logger:   logger.With("component", "session"),
		registry: registry,
		archive:  archive,

		teardownDelay: teardownDelay,
	}
}

// HandleMessage processes one inbound message from a connection. Malformed
// payloads are dropped without a reply and without touching any room.
func (that *Manager) HandleMessage(ctx context.Context, conn Conn, raw []byte) {
	log := that.logger.With("connID", conn.ID())

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Debug("dropping unparseable message", "error", err)
		return
	}

	switch msg.Type {
	case ActionCreateGame:
		that.handleCreate(ctx, conn)
	case ActionJoinGame:
		if msg.RoomCode == "" {
			log.Debug("dropping join_game without roomCode")
			return
		}
		that.handleJoin(conn, msg.RoomCode)
	case ActionMakeMove:
		if msg.RoomCode == "" || msg.Index == nil || *msg.Index < 0 || *msg.Index > 8 {
			log.Debug("dropping malformed make_move", "roomCode", msg.RoomCode)
			return
		}
		that.handleMove(ctx, conn, msg.RoomCode, *msg.Index)
	default:
		log.Debug("dropping message with unknown type", "type", msg.Type)
	}
}

func (that *Manager) handleCreate(_ context.Context, conn Conn) {
	log := that.logger.With("method", "handleCreate")

	_, code := that.registry.CreateRoom(conn)

	that.send(conn, AckMessage{
		Type:     ActionGameCreated,
		RoomCode: code,
		Symbol:   entity.PlayerX,
	})

	log.Info("game created", "roomCode", code)
}

func (that *Manager) handleJoin(conn Conn, rawCode string) {
	log := that.logger.With("method", "handleJoin")

	code := strings.ToUpper(rawCode)

	room, mark, err := that.registry.JoinRoom(code, conn)
	if err != nil {
		log.Info("join rejected", "roomCode", code, "reason", err)
		that.sendError(conn, err)
		return
	}

	that.send(conn, AckMessage{
		Type:     ActionGameJoined,
		RoomCode: code,
		Symbol:   mark,
	})

	that.BroadcastState(room)

	log.Info("player joined game", "roomCode", code)
}

func (that *Manager) handleMove(ctx context.Context, conn Conn, rawCode string, cell int) {
	log := that.logger.With("method", "handleMove")

	code := strings.ToUpper(rawCode)

	room := that.registry.Get(code)
	if room == nil {
		that.sendError(conn, apperror.ErrRoomNotFound)
		return
	}

	room.mu.Lock()

	if err := that.applyMove(room, conn, cell); err != nil {
		room.mu.Unlock()
		log.Info("move rejected", "roomCode", code, "cell", cell, "reason", err)
		that.sendError(conn, err)
		return
	}

	finished := room.game.IsFinished()
	winner, draw := room.game.Winner, room.game.Draw
	if finished {
		that.recordResult(ctx, room.game)
		room.scheduleTeardown(that.teardownDelay, func() {
			that.teardownRoom(code, room)
		})
	}

	state := newStateMessage(room.game, len(room.players))
	targets := room.openConns()
	room.mu.Unlock()

	that.broadcast(state, targets)

	if finished {
		log.Info("game finished", "roomCode", code, "winner", winner, "draw", draw)
	}
}

// applyMove runs the turn state machine for one move. Caller holds room.mu.
func (that *Manager) applyMove(room *Room, conn Conn, cell int) error {
	if room.game.IsOver() {
		return apperror.ErrGameAlreadyOver
	}

	player := room.playerByConn(conn.ID())
	if player == nil {
		return apperror.ErrNotAPlayer
	}

	return room.game.MakeTurn(player.Mark, cell)
}

// HandleDisconnect removes the dropped connection's player from its room,
// if any. Mid-game the survivor is told the opponent left and the room goes
// away immediately; after a terminal outcome the scheduled teardown keeps
// running unless nobody is left to render the result.
func (that *Manager) HandleDisconnect(_ context.Context, conn Conn) {
	log := that.logger.With("method", "HandleDisconnect", "connID", conn.ID())

	room, code := that.registry.RoomByConn(conn.ID())
	that.registry.UnbindConn(conn.ID())

	if room == nil {
		return
	}

	room.mu.Lock()

	if !room.removePlayer(conn.ID()) {
		room.mu.Unlock()
		return
	}

	log.Info("player left game", "roomCode", code)

	if room.game.IsOver() {
		empty := len(room.players) == 0
		room.mu.Unlock()

		if empty {
			that.teardownRoom(code, room)
		}
		return
	}

	var survivor Conn
	if len(room.players) == 1 {
		survivor = room.players[0].Conn
	}
	room.mu.Unlock()

	if survivor != nil {
		that.send(survivor, OpponentDisconnectedMessage{
			Type:    ActionOpponentDisconnected,
			Message: "your opponent left the game",
		})
	}

	that.teardownRoom(code, room)
}

// teardownRoom removes a room from the registry and closes whatever
// connections are still bound. Scheduled and disconnect-triggered teardowns
// both land here; losing the RemoveRoom race means the other one already won.
func (that *Manager) teardownRoom(code string, room *Room) {
	log := that.logger.With("method", "teardownRoom", "roomCode", code)

	if !that.registry.RemoveRoom(code, room) {
		return
	}

	room.mu.Lock()
	room.cancelTeardown()
	room.game.Status = entity.StatusClosing
	players := make([]*Player, len(room.players))
	copy(players, room.players)
	room.players = nil
	room.mu.Unlock()

	for _, player := range players {
		that.registry.UnbindConn(player.Conn.ID())

		if !player.Conn.IsOpen() {
			continue
		}
		if err := player.Conn.Close(); err != nil {
			log.Debug("failed to close connection", "connID", player.Conn.ID(), "error", err)
		}
	}

	log.Info("room removed")
}

func (that *Manager) recordResult(ctx context.Context, game *entity.Game) {
	if that.archive == nil {
		return
	}

	if err := that.archive.SaveResult(ctx, game.Code, game.Winner, game.Draw, game.Moves); err != nil {
		that.logger.Error("failed to archive game result", "roomCode", game.Code, "error", err)
	}
}

func (that *Manager) send(conn Conn, message any) {
	if !conn.IsOpen() {
		return
	}

	if err := conn.Send(message); err != nil {
		that.logger.Debug("failed to send message", "connID", conn.ID(), "error", err)
	}
}

func (that *Manager) sendError(conn Conn, err error) {
	that.send(conn, ErrorMessage{
		Type:    ActionError,
		Message: err.Error(),
	})
}
