package model

import "strings"

// Move is a request to move the piece on From to To. Promotion names the
// piece a pawn becomes on its last rank and is empty otherwise.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// String formats the move in long algebraic (UCI) form, e.g. "e7e8q".
func (m Move) String() string {
	s := m.From.getSquareNotation() + m.To.getSquareNotation()
	if m.Promotion != "" {
		s += strings.ToLower(m.Promotion.getPieceNotation())
	}
	return s
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Ply records a move that has been applied to a game.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	EnPassant      bool            `json:"enPassant"`
	Promotion      PieceType       `json:"promotion"`
	Notation       string          `json:"notation"`
	Phase          GamePhase       `json:"phase"`
}
