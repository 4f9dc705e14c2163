package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/seabattle"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

const errNoSession = "no game in progress, send game:new first"

func (that *Server) handleNewGame(ctx context.Context, msg *Message, client *connection) error {
	log := that.logger.With("method", "handleNewGame")

	if client.sessionID != "" {
		that.uGame.CloseSession(ctx, client.sessionID)
	}

	id, snapshot := that.uGame.NewSession(ctx)
	client.sessionID = id

	log.Info("new game started", "sessionID", id)

	return that.sendMessage(client.conn, msg.Action, ResponsePayload{
		SessionID: id,
		State:     newStateView(snapshot),
	})
}

func (that *Server) handleTarget(ctx context.Context, msg *Message, client *connection) error {
	log := that.logger.With("method", "handleTarget", "sessionID", client.sessionID)

	if client.sessionID == "" {
		return that.sendErrorResponse(client.conn, msg.Action, errNoSession)
	}

	var payloadReq TargetPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(client.conn, msg.Action, "target coordinates are required")
	}

	result, err := that.uGame.Target(ctx, client.sessionID, entity.Point{X: payloadReq.X, Y: payloadReq.Y})
	if err != nil {
		return that.sendMoveError(client, msg.Action, err)
	}

	log.Debug("player made a turn", "shots", len(result.Shots))

	return that.sendTurnResult(client, msg.Action, result)
}

func (that *Server) handleBotMove(ctx context.Context, msg *Message, client *connection) error {
	if client.sessionID == "" {
		return that.sendErrorResponse(client.conn, msg.Action, errNoSession)
	}

	result, err := that.uGame.BotMove(ctx, client.sessionID)
	if err != nil {
		return that.sendMoveError(client, msg.Action, err)
	}

	return that.sendTurnResult(client, msg.Action, result)
}

func (that *Server) handleReset(ctx context.Context, msg *Message, client *connection) error {
	return that.replyWithSnapshot(client, msg.Action, func(id string) (seabattle.Snapshot, error) {
		return that.uGame.Reset(ctx, id)
	})
}

func (that *Server) handleReveal(ctx context.Context, msg *Message, client *connection) error {
	return that.replyWithSnapshot(client, msg.Action, func(id string) (seabattle.Snapshot, error) {
		return that.uGame.Reveal(ctx, id)
	})
}

func (that *Server) handleState(ctx context.Context, msg *Message, client *connection) error {
	return that.replyWithSnapshot(client, msg.Action, func(id string) (seabattle.Snapshot, error) {
		return that.uGame.State(ctx, id)
	})
}

func (that *Server) handleDisconnect(ctx context.Context, client *connection) {
	if client.sessionID == "" {
		return
	}

	that.uGame.CloseSession(ctx, client.sessionID)
	that.logger.Info("player disconnected", "method", "handleDisconnect", "sessionID", client.sessionID)
}

func (that *Server) replyWithSnapshot(client *connection, action string, fn func(id string) (seabattle.Snapshot, error)) error {
	if client.sessionID == "" {
		return that.sendErrorResponse(client.conn, action, errNoSession)
	}

	snapshot, err := fn(client.sessionID)
	if err != nil {
		that.logger.Error("failed to get game state", "action", action, "error", err)
		return that.sendErrorResponse(client.conn, action, "game not found")
	}

	return that.sendMessage(client.conn, action, ResponsePayload{
		SessionID: client.sessionID,
		State:     newStateView(snapshot),
	})
}

func (that *Server) sendTurnResult(client *connection, action string, result *usecase.TurnResult) error {
	return that.sendMessage(client.conn, action, ResponsePayload{
		SessionID: client.sessionID,
		State:     newStateView(result.Snapshot),
		Shots:     result.Shots,
	})
}

// sendMoveError reports recoverable move errors to the client; anything else is logged as well.
func (that *Server) sendMoveError(client *connection, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidTarget):
		return that.sendErrorResponse(client.conn, action, apperror.ErrInvalidTarget.Error())
	case errors.Is(err, apperror.ErrMatchOver):
		return that.sendErrorResponse(client.conn, action, apperror.ErrMatchOver.Error())
	case errors.Is(err, apperror.ErrSessionNotFound):
		return that.sendErrorResponse(client.conn, action, apperror.ErrSessionNotFound.Error())
	}

	that.logger.Error("failed to make a move", "action", action, "sessionID", client.sessionID, "error", err)

	return that.sendErrorResponse(client.conn, action, "internal error")
}
