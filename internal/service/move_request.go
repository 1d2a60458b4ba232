package service

import "github.com/benbeisheim/chessrules-backend/internal/model"

// MoveRequest is a move as clients send it, over REST or websocket.
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (m MoveRequest) toModel() (model.Move, error) {
	from, err := model.ParseSquare(m.From)
	if err != nil {
		return model.Move{}, err
	}
	to, err := model.ParseSquare(m.To)
	if err != nil {
		return model.Move{}, err
	}
	promotion, err := model.ParsePieceType(m.Promotion)
	if err != nil {
		return model.Move{}, err
	}
	return model.Move{From: from, To: to, Promotion: promotion}, nil
}
