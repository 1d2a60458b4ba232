package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove          MessageType = "move"
	MessageTypePossibleMoves MessageType = "possibleMoves"
	MessageTypeGameState     MessageType = "gameState"
	MessageTypeError         MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PossibleMovesRequest asks for the legal destinations of one square.
type PossibleMovesRequest struct {
	Square string `json:"square"`
}

// PossibleMovesResponse carries the piece on Square, null when it is empty,
// and its legal destinations.
type PossibleMovesResponse struct {
	Square string       `json:"square"`
	Piece  *model.Piece `json:"piece"`
	Moves  []string     `json:"moves"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
