package model

// PseudoLegalMoves returns the destinations the piece on from can reach by
// its movement geometry, without regard to the safety of its own king.
// enPassant is the square a pawn may capture onto en passant, or nil.
// An empty square yields an empty set.
func PseudoLegalMoves(b *Board, from Square, enPassant *Square) SquareSet {
	piece, ok := b.At(from)
	if !ok {
		return 0
	}
	switch piece.Type {
	case Pawn:
		return getPsuedoPawnMoves(b, from, piece, enPassant)
	case Knight:
		return getStepMoves(b, from, piece.Color, knightDirs)
	case King:
		return getStepMoves(b, from, piece.Color, kingDirs)
	case Bishop:
		return getSlidingMoves(b, from, piece.Color, bishopDirs)
	case Rook:
		return getSlidingMoves(b, from, piece.Color, rookDirs)
	case Queen:
		return getSlidingMoves(b, from, piece.Color, queenDirs)
	default:
		return 0
	}
}

// attackedFrom returns the squares the piece on from attacks. It differs from
// PseudoLegalMoves only for pawns, which attack both forward diagonals
// whether or not anything stands there, and never attack straight ahead.
func attackedFrom(b *Board, from Square) SquareSet {
	piece, ok := b.At(from)
	if !ok {
		return 0
	}
	if piece.Type == Pawn {
		return getPawnAttacks(from, piece.Color)
	}
	return PseudoLegalMoves(b, from, nil)
}

func getStepMoves(b *Board, from Square, color Color, dirs []direction) SquareSet {
	var moves SquareSet
	for _, dir := range dirs {
		target := from.add(dir)
		if !boundaryCheck(target) {
			continue
		}
		if occupant, ok := b.At(target); ok && occupant.Color == color {
			continue
		}
		moves.Add(target)
	}
	return moves
}

func getSlidingMoves(b *Board, from Square, color Color, dirs []direction) SquareSet {
	var moves SquareSet
	for _, dir := range dirs {
		for target := from.add(dir); boundaryCheck(target); target = target.add(dir) {
			occupant, ok := b.At(target)
			if !ok {
				moves.Add(target)
				continue
			}
			if occupant.Color != color {
				moves.Add(target)
			}
			break
		}
	}
	return moves
}

func getPsuedoPawnMoves(b *Board, from Square, piece Piece, enPassant *Square) SquareSet {
	var moves SquareSet
	dir := pawnDirection(piece.Color)

	// forward 1, then forward 2 for a pawn that has not moved
	one := Square{X: from.X, Y: from.Y + dir}
	if boundaryCheck(one) {
		if _, occupied := b.At(one); !occupied {
			moves.Add(one)
			two := Square{X: from.X, Y: from.Y + 2*dir}
			if !piece.HasMoved && boundaryCheck(two) {
				if _, occupied := b.At(two); !occupied {
					moves.Add(two)
				}
			}
		}
	}

	// captures, including en passant onto the empty target square
	for _, target := range getPawnAttacks(from, piece.Color).Squares() {
		occupant, ok := b.At(target)
		if ok && occupant.Color != piece.Color {
			moves.Add(target)
		}
		if !ok && enPassant != nil && *enPassant == target {
			victim, found := b.At(Square{X: target.X, Y: from.Y})
			if found && victim.Type == Pawn && victim.Color != piece.Color {
				moves.Add(target)
			}
		}
	}
	return moves
}

func getPawnAttacks(from Square, color Color) SquareSet {
	var attacks SquareSet
	dir := pawnDirection(color)
	for _, dx := range []int{-1, 1} {
		target := Square{X: from.X + dx, Y: from.Y + dir}
		if boundaryCheck(target) {
			attacks.Add(target)
		}
	}
	return attacks
}
