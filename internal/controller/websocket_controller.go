package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// clientConn serializes writes to one socket; broadcasts from other players'
// moves race with replies from this connection's read loop.
type clientConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (cc *clientConn) WriteJSON(v interface{}) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.conn.WriteJSON(v)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := utils.CopyString(c.Params("gameId"))
	playerID, _ := c.Locals("playerID").(string)
	conn := &clientConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnf("failed to register connection for game %s: %v", gameID, err)
		wsc.sendError(conn, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error on game %s: %v", gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, conn, msg); err != nil {
			log.Debugf("game %s, player %s: %v", gameID, playerID, err)
			wsc.sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, conn service.Observer, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move service.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		// the new state reaches this socket through the session broadcast
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypePossibleMoves:
		var req ws.PossibleMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		piece, moves, err := wsc.gameService.PossibleMoves(gameID, req.Square)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypePossibleMoves, ws.PossibleMovesResponse{
			Square: req.Square,
			Piece:  piece,
			Moves:  moves,
		})
		if err != nil {
			return err
		}
		return conn.WriteJSON(reply)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn service.Observer, err error) {
	msg, marshalErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if marshalErr != nil {
		return
	}
	if writeErr := conn.WriteJSON(msg); writeErr != nil {
		log.Debugf("failed to send error: %v", writeErr)
	}
}
