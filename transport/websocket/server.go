package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tictactoe-ws/backend/internal/session"
)

type sessionManager interface {
	HandleMessage(ctx context.Context, conn session.Conn, raw []byte)
	HandleDisconnect(ctx context.Context, conn session.Conn)
}

// Server accepts WebSocket connections, enforces the origin allow-list and
// feeds each connection's messages to the session manager in arrival order.
type Server struct {
	logger  *slog.Logger
	manager sessionManager

	upgrader websocket.Upgrader
}

// New builds a server. An empty allowedOrigins list admits every origin.
func New(logger *slog.Logger, manager sessionManager, allowedOrigins []string) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// Start - starts the WebSocket server and blocks until it fails or the
// context is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	wsConn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Info("rejected connection", "origin", r.Header.Get("Origin"), "error", err)
		return
	}

	conn := newConnection(wsConn)
	log = log.With("connID", conn.ID())
	log.Info("client connected")

	defer func() {
		that.manager.HandleDisconnect(ctx, conn)
		_ = conn.Close()
		log.Info("client disconnected")
	}()

	for {
		msgType, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", "error", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		that.manager.HandleMessage(ctx, conn, raw)
	}
}
