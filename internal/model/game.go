package model

import (
	"fmt"
)

type GamePhase string

const (
	InProgress GamePhase = "inProgress"
	Check      GamePhase = "check"
	Checkmate  GamePhase = "checkmate"
	Stalemate  GamePhase = "stalemate"
)

// IsTerminal reports whether no further moves may be played.
func (p GamePhase) IsTerminal() bool {
	return p == Checkmate || p == Stalemate
}

// Game owns the board, the side to move and the current phase. A Game is not
// safe for concurrent use.
type Game struct {
	position       Position
	phase          GamePhase
	halfMoveClock  int
	fullMoveNumber int
}

// NewGame returns a game in the standard starting position with White to move.
func NewGame() *Game {
	g := &Game{
		position:       Position{ToMove: White},
		phase:          InProgress,
		fullMoveNumber: 1,
	}
	g.position.Board.SetupInitialPosition()
	return g
}

func (g *Game) Phase() GamePhase {
	return g.phase
}

func (g *Game) ToMove() Color {
	return g.position.ToMove
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.position.Board
}

// Each visits every square of the board, see Board.Each.
func (g *Game) Each(fn func(sq Square, piece Piece, occupied bool)) {
	g.position.Board.Each(fn)
}

// EnPassantTarget returns the square a pawn may capture onto en passant, if any.
func (g *Game) EnPassantTarget() (Square, bool) {
	if g.position.EnPassantTarget == nil {
		return Square{}, false
	}
	return *g.position.EnPassantTarget, true
}

// PieceAt returns the piece on the square named by text.
func (g *Game) PieceAt(text string) (Piece, error) {
	sq, err := ParseSquare(text)
	if err != nil {
		return Piece{}, err
	}
	piece, ok := g.position.Board.At(sq)
	if !ok {
		return Piece{}, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}
	return piece, nil
}

// LegalMoves returns the legal destinations of the piece on sq, whichever
// side owns it. Turn order is only enforced when a move is played.
func (g *Game) LegalMoves(sq Square) (SquareSet, error) {
	return g.position.LegalMoves(sq)
}

// PossibleMoves is LegalMoves in algebraic notation. An empty square has no
// possible moves.
func (g *Game) PossibleMoves(text string) ([]string, error) {
	sq, err := ParseSquare(text)
	if err != nil {
		return nil, err
	}
	moves, err := g.LegalMoves(sq)
	if err != nil {
		return nil, err
	}
	return moves.Strings(), nil
}

// AllLegalMoves lists every legal move of the side to move, with one entry
// per promotion choice.
func (g *Game) AllLegalMoves() ([]Move, error) {
	return g.position.legalMovesFor(g.position.ToMove)
}

// MakeMove plays a move given in algebraic notation and returns the new phase.
// promotion is empty unless the move takes a pawn to its last rank.
func (g *Game) MakeMove(from, to string, promotion PieceType) (GamePhase, error) {
	fromSq, err := ParseSquare(from)
	if err != nil {
		return g.phase, err
	}
	toSq, err := ParseSquare(to)
	if err != nil {
		return g.phase, err
	}
	if _, err := g.Play(Move{From: fromSq, To: toSq, Promotion: promotion}); err != nil {
		return g.phase, err
	}
	return g.phase, nil
}

// Play validates and applies m. On error the game is left untouched.
func (g *Game) Play(m Move) (Ply, error) {
	if g.phase.IsTerminal() {
		return Ply{}, fmt.Errorf("%w: %s", ErrGameOver, g.phase)
	}
	if err := g.validateMove(m); err != nil {
		return Ply{}, err
	}
	piece, _ := g.position.Board.At(m.From)

	notation, err := g.position.getNotation(m, piece)
	if err != nil {
		return Ply{}, err
	}

	next := g.position
	captured, err := next.apply(m.From, m.To, m.Promotion)
	if err != nil {
		return Ply{}, err
	}
	phase, err := next.phase()
	if err != nil {
		return Ply{}, err
	}

	ply := Ply{
		Piece:          piece,
		From:           m.From,
		To:             m.To,
		CastleRookMove: castleRookMove(piece, m.From, m.To),
		Promotion:      m.Promotion,
		Phase:          phase,
	}
	if !captured.isEmpty() {
		ply.CapturedPiece = &captured
		ply.EnPassant = piece.Type == Pawn && !g.isOccupied(m.To)
	}
	switch phase {
	case Checkmate:
		ply.Notation = notation + "#"
	case Check:
		ply.Notation = notation + "+"
	default:
		ply.Notation = notation
	}

	if piece.Type == Pawn || !captured.isEmpty() {
		g.halfMoveClock = 0
	} else {
		g.halfMoveClock++
	}
	if piece.Color == Black {
		g.fullMoveNumber++
	}
	g.position = next
	g.phase = phase
	return ply, nil
}

func (g *Game) validateMove(m Move) error {
	if !boundaryCheck(m.From) || !boundaryCheck(m.To) {
		return fmt.Errorf("%w: out of bounds", ErrInvalidCoordinate)
	}
	piece, ok := g.position.Board.At(m.From)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptySource, m.From)
	}
	if piece.Color != g.position.ToMove {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.position.ToMove)
	}
	legalMoves, err := g.position.LegalMoves(m.From)
	if err != nil {
		return err
	}
	if !legalMoves.Has(m.To) {
		return fmt.Errorf("%w: %s%s", ErrIllegalMove, m.From, m.To)
	}

	promotes := piece.Type == Pawn && m.To.Y == promotionRow(piece.Color)
	switch {
	case !promotes && m.Promotion != "":
		return fmt.Errorf("%w: %s%s", ErrPromotionNotApplicable, m.From, m.To)
	case promotes && m.Promotion == "":
		return fmt.Errorf("%w: %s%s", ErrPromotionRequired, m.From, m.To)
	case promotes && !m.Promotion.CanPromoteTo():
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, m.Promotion)
	}
	return nil
}

func (g *Game) isOccupied(sq Square) bool {
	_, ok := g.position.Board.At(sq)
	return ok
}
