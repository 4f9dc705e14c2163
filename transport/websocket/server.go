package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/seabattle"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

const (
	actionNewGame = "game:new"
	actionTarget  = "game:target"
	actionBotMove = "game:bot"
	actionReset   = "game:reset"
	actionReveal  = "game:reveal"
	actionState   = "game:state"
	actionUnknown = "error"

	bufferSize = 1024
)

type uGame interface {
	NewSession(ctx context.Context) (string, seabattle.Snapshot)
	State(ctx context.Context, id string) (seabattle.Snapshot, error)

	Target(ctx context.Context, id string, click entity.Point) (*usecase.TurnResult, error)
	BotMove(ctx context.Context, id string) (*usecase.TurnResult, error)

	Reset(ctx context.Context, id string) (seabattle.Snapshot, error)
	Reveal(ctx context.Context, id string) (seabattle.Snapshot, error)

	CloseSession(ctx context.Context, id string)
}

// connection is one client socket and the session it plays.
type connection struct {
	conn      *websocket.Conn
	sessionID string
}

type handlerFunc func(ctx context.Context, message *Message, conn *connection) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionTarget] = server.handleTarget
	server.handlers[actionBotMove] = server.handleBotMove
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionReveal] = server.handleReveal
	server.handlers[actionState] = server.handleState

	return server
}

// Handler - returns the http handler serving /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	client := &connection{conn: conn}
	defer that.handleDisconnect(ctx, client)

	if err = that.handleMessages(ctx, client); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, client *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, body, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("failed to read message: %w", err)
			}

			return nil
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)

			if err = that.sendErrorResponse(client.conn, actionUnknown, "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(client.conn, message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, &message, client); err != nil {
			return fmt.Errorf("error processing %s: %w", message.Action, err)
		}
	}
}
