package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/obslog"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = obslog.L()
	}
	return &WebSocketController{
		gameService: gameService,
		log:         logger,
	}
}

// HandleConnection runs for the lifetime of one upgraded connection.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	connID := uuid.New().String()
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)
	log := wsc.log.With(zap.String("game_id", gameID), zap.String("conn_id", connID), zap.String("client_id", clientID))

	if err := wsc.gameService.Watch(gameID, connID, c); err != nil {
		log.Info("rejecting connection", zap.Error(err))
		_ = c.WriteJSON(ws.ErrorMessage(err))
		_ = c.Close()
		return
	}
	defer wsc.gameService.Unwatch(gameID, connID)
	log.Info("websocket connected")

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("read loop ended", zap.Error(err))
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.gameService.SendError(gameID, connID, fmt.Errorf("parse message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, msg); err != nil {
			log.Debug("message failed", zap.String("type", string(msg.Type)), zap.Error(err))
			wsc.gameService.SendError(gameID, connID, err)
		}
	}
	log.Info("websocket disconnected")
}

// handleMessage dispatches one client frame. Successful mutations reach the
// client through the session broadcast.
func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var p ws.SquarePayload
		if err := msg.Decode(&p); err != nil {
			return err
		}
		_, err := wsc.gameService.Select(gameID, p.Square())
		return err

	case ws.MessageTypeClick:
		var p ws.SquarePayload
		if err := msg.Decode(&p); err != nil {
			return err
		}
		_, err := wsc.gameService.Click(gameID, p.Square())
		return err

	case ws.MessageTypeMove:
		var p ws.MovePayload
		if err := msg.Decode(&p); err != nil {
			return err
		}
		_, err := wsc.gameService.Move(gameID, p.From.Square(), p.To.Square())
		return err

	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID)
		return err

	default:
		return fmt.Errorf("%w: %q", ws.ErrUnknownMessage, msg.Type)
	}
}
