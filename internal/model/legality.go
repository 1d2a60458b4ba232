package model

// IsAttacked reports whether any piece of color by attacks sq.
func IsAttacked(b *Board, sq Square, by Color) bool {
	for _, from := range b.piecesOf(by) {
		if attackedFrom(b, from).Has(sq) {
			return true
		}
	}
	return false
}

func isKingInCheck(b *Board, color Color) (bool, error) {
	king, err := b.KingSquare(color)
	if err != nil {
		return false, err
	}
	return IsAttacked(b, king, color.Opponent()), nil
}

// Position is the part of a game that move legality depends on.
type Position struct {
	Board           Board
	ToMove          Color
	EnPassantTarget *Square
}

// LegalMoves returns the destinations of the piece on from that do not leave
// its own king attacked. An empty square yields an empty set.
func (p *Position) LegalMoves(from Square) (SquareSet, error) {
	piece, ok := p.Board.At(from)
	if !ok {
		return 0, nil
	}
	if _, err := p.Board.KingSquare(piece.Color); err != nil {
		return 0, err
	}

	psuedoMoves := PseudoLegalMoves(&p.Board, from, p.EnPassantTarget)
	if piece.Type == King {
		castles, err := p.getCastleMoves(from, piece)
		if err != nil {
			return 0, err
		}
		psuedoMoves |= castles
	}
	return p.filterLegalMoves(from, piece.Color, psuedoMoves)
}

func (p *Position) filterLegalMoves(from Square, color Color, psuedoMoves SquareSet) (SquareSet, error) {
	var legalMoves SquareSet
	for _, to := range psuedoMoves.Squares() {
		next := *p
		if _, err := next.apply(from, to, ""); err != nil {
			return 0, err
		}
		inCheck, err := isKingInCheck(&next.Board, color)
		if err != nil {
			return 0, err
		}
		if !inCheck {
			legalMoves.Add(to)
		}
	}
	return legalMoves, nil
}

// getCastleMoves returns the king's two-square castling destinations. The
// king and rook must be unmoved, the squares between them empty, and the
// king may not castle out of, through, or into check.
func (p *Position) getCastleMoves(from Square, king Piece) (SquareSet, error) {
	var castles SquareSet
	row := backRow(king.Color)
	if king.HasMoved || from != (Square{X: 4, Y: row}) {
		return 0, nil
	}
	enemy := king.Color.Opponent()
	if IsAttacked(&p.Board, from, enemy) {
		return 0, nil
	}

	sides := []struct {
		rookX   int
		empty   []int
		transit []int
		kingTo  int
	}{
		{rookX: 7, empty: []int{5, 6}, transit: []int{5, 6}, kingTo: 6},
		{rookX: 0, empty: []int{1, 2, 3}, transit: []int{3, 2}, kingTo: 2},
	}
SideLoop:
	for _, side := range sides {
		rook, ok := p.Board.At(Square{X: side.rookX, Y: row})
		if !ok || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		for _, x := range side.empty {
			if _, occupied := p.Board.At(Square{X: x, Y: row}); occupied {
				continue SideLoop
			}
		}
		for _, x := range side.transit {
			if IsAttacked(&p.Board, Square{X: x, Y: row}, enemy) {
				continue SideLoop
			}
		}
		castles.Add(Square{X: side.kingTo, Y: row})
	}
	return castles, nil
}

// apply plays from->to on the position without checking legality, moving the
// rook when the king castles and removing the pawn taken en passant. It
// returns the captured piece, if any.
func (p *Position) apply(from, to Square, promotion PieceType) (Piece, error) {
	piece, ok := p.Board.At(from)
	if !ok {
		return Piece{}, ErrEmptySource
	}
	captured, _ := p.Board.At(to)

	if piece.Type == Pawn && captured.isEmpty() && from.X != to.X {
		// en passant: the captured pawn stands beside the mover
		victim := Square{X: to.X, Y: from.Y}
		captured, _ = p.Board.At(victim)
		p.Board.Clear(victim)
	}
	if rookMove := castleRookMove(piece, from, to); rookMove != nil {
		if err := p.Board.MovePiece(rookMove.From, rookMove.To); err != nil {
			return Piece{}, err
		}
	}
	if err := p.Board.MovePiece(from, to); err != nil {
		return Piece{}, err
	}
	if promotion != "" {
		promoted, _ := p.Board.At(to)
		promoted.Type = promotion
		p.Board.Place(to, promoted)
	}

	p.EnPassantTarget = nil
	if piece.Type == Pawn && abs(to.Y-from.Y) == 2 {
		p.EnPassantTarget = &Square{X: from.X, Y: (from.Y + to.Y) / 2}
	}
	p.ToMove = piece.Color.Opponent()
	return captured, nil
}

// castleRookMove returns the rook's part of a castling move, or nil when the
// move is not a castle.
func castleRookMove(piece Piece, from, to Square) *CastleRookMove {
	if piece.Type != King || abs(to.X-from.X) != 2 {
		return nil
	}
	if to.X == 6 {
		return &CastleRookMove{From: Square{X: 7, Y: from.Y}, To: Square{X: 5, Y: from.Y}}
	}
	return &CastleRookMove{From: Square{X: 0, Y: from.Y}, To: Square{X: 3, Y: from.Y}}
}

// legalMovesFor lists every legal move of color, one entry per promotion choice.
func (p *Position) legalMovesFor(color Color) ([]Move, error) {
	var moves []Move
	for _, from := range p.Board.piecesOf(color) {
		destinations, err := p.LegalMoves(from)
		if err != nil {
			return nil, err
		}
		piece, _ := p.Board.At(from)
		for _, to := range destinations.Squares() {
			if piece.Type == Pawn && to.Y == promotionRow(color) {
				for _, choice := range promotionChoices {
					moves = append(moves, Move{From: from, To: to, Promotion: choice})
				}
				continue
			}
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves, nil
}

func (p *Position) hasLegalMove(color Color) (bool, error) {
	for _, from := range p.Board.piecesOf(color) {
		destinations, err := p.LegalMoves(from)
		if err != nil {
			return false, err
		}
		if destinations.Len() > 0 {
			return true, nil
		}
	}
	return false, nil
}

// phase classifies the position from the point of view of the side to move.
func (p *Position) phase() (GamePhase, error) {
	inCheck, err := isKingInCheck(&p.Board, p.ToMove)
	if err != nil {
		return "", err
	}
	canMove, err := p.hasLegalMove(p.ToMove)
	if err != nil {
		return "", err
	}
	switch {
	case !canMove && inCheck:
		return Checkmate, nil
	case !canMove:
		return Stalemate, nil
	case inCheck:
		return Check, nil
	default:
		return InProgress, nil
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
