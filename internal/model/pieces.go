package model

import (
	"fmt"
	"strings"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// CanPromoteTo reports whether a pawn may be promoted to p.
func (p PieceType) CanPromoteTo() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// ParsePieceType accepts a piece name ("queen") or its letter ("q", "N").
// The empty string parses to the empty PieceType, meaning "no promotion".
func ParsePieceType(text string) (PieceType, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "":
		return "", nil
	case "k", "king":
		return King, nil
	case "q", "queen":
		return Queen, nil
	case "r", "rook":
		return Rook, nil
	case "b", "bishop":
		return Bishop, nil
	case "n", "knight":
		return Knight, nil
	case "p", "pawn":
		return Pawn, nil
	}
	return "", fmt.Errorf("%w: unknown piece %q", ErrInvalidPromotion, text)
}

// Piece is a plain value; an empty board cell holds the zero Piece.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p Piece) isEmpty() bool {
	return p.Type == ""
}

// direction is a step vector on the board: X along files, Y along rows.
type direction struct {
	X int
	Y int
}

var (
	knightDirs = []direction{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []direction{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	rookDirs   = []direction{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []direction{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = []direction{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}

	backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

	promotionChoices = []PieceType{Queen, Rook, Bishop, Knight}
)

// pawnDirection is the row delta of a pawn step. Row 0 is Black's back rank,
// so White pawns move towards lower rows.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func backRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func promotionRow(c Color) int {
	return backRow(c.Opponent())
}
