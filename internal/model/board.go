package model

import "fmt"

// Board is an 8x8 grid of pieces indexed [row][column]. It is a plain value:
// assigning a Board copies every cell.
type Board struct {
	squares [8][8]Piece
}

// At returns the piece on sq and whether the square is occupied.
func (b *Board) At(sq Square) (Piece, bool) {
	p := b.squares[sq.Y][sq.X]
	return p, !p.isEmpty()
}

func (b *Board) Place(sq Square, piece Piece) {
	b.squares[sq.Y][sq.X] = piece
}

func (b *Board) Clear(sq Square) {
	b.squares[sq.Y][sq.X] = Piece{}
}

// MovePiece moves the occupant of from onto to, discarding whatever stood on
// to, and marks the piece as moved.
func (b *Board) MovePiece(from, to Square) error {
	piece, ok := b.At(from)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptySource, from)
	}
	piece.HasMoved = true
	b.squares[to.Y][to.X] = piece
	b.squares[from.Y][from.X] = Piece{}
	return nil
}

// SetupInitialPosition resets the board to the standard opening arrangement.
func (b *Board) SetupInitialPosition() {
	*b = Board{}
	for x, t := range backRankOrder {
		b.squares[0][x] = Piece{Type: t, Color: Black}
		b.squares[7][x] = Piece{Type: t, Color: White}
		b.squares[1][x] = Piece{Type: Pawn, Color: Black}
		b.squares[6][x] = Piece{Type: Pawn, Color: White}
	}
}

// Each calls fn for every square from A8 to H1, rank by rank.
func (b *Board) Each(fn func(sq Square, piece Piece, occupied bool)) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := b.squares[y][x]
			fn(Square{X: x, Y: y}, p, !p.isEmpty())
		}
	}
}

// KingSquare locates the king of the given color.
func (b *Board) KingSquare(color Color) (Square, error) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := b.squares[y][x]; p.Type == King && p.Color == color {
				return Square{X: x, Y: y}, nil
			}
		}
	}
	return Square{}, fmt.Errorf("%w: no %s king", ErrKingMissing, color)
}

func (b *Board) piecesOf(color Color) []Square {
	squares := make([]Square, 0, 16)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := b.squares[y][x]; !p.isEmpty() && p.Color == color {
				squares = append(squares, Square{X: x, Y: y})
			}
		}
	}
	return squares
}
