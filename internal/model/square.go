package model

import (
	"fmt"
	"math/bits"
	"strings"
)

// Square addresses a board cell. X is the column (0 is the a-file) and Y is
// the row, where row 0 is rank 8 and row 7 is rank 1.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ParseSquare converts algebraic text such as "e2" or "E2" into a Square.
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, text)
	}
	file := text[0] | 0x20 // ASCII lower-case
	rank := text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, text)
	}
	return Square{X: int(file - 'a'), Y: 7 - int(rank-'1')}, nil
}

// MustParseSquare is ParseSquare for compile-time constants; it panics on bad input.
func MustParseSquare(text string) Square {
	sq, err := ParseSquare(text)
	if err != nil {
		panic(err)
	}
	return sq
}

// String formats the square as an upper-case algebraic coordinate ("E2").
func (s Square) String() string {
	return fmt.Sprintf("%c%d", s.X+'A', 8-s.Y)
}

func (s Square) getSquareNotation() string {
	return fmt.Sprintf("%c%d", s.X+'a', 8-s.Y)
}

func (s Square) getFileNotation() string {
	return fmt.Sprintf("%c", s.X+'a')
}

func (s Square) getRankNotation() string {
	return fmt.Sprintf("%d", 8-s.Y)
}

func (s Square) add(d direction) Square {
	return Square{X: s.X + d.X, Y: s.Y + d.Y}
}

func boundaryCheck(s Square) bool {
	return s.X >= 0 && s.X < 8 && s.Y >= 0 && s.Y < 8
}

// SquareSet is an unordered set of squares, one bit per board cell.
type SquareSet uint64

func squareBit(s Square) SquareSet {
	return 1 << uint(s.Y*8+s.X)
}

func (set *SquareSet) Add(s Square) {
	*set |= squareBit(s)
}

func (set SquareSet) Has(s Square) bool {
	return boundaryCheck(s) && set&squareBit(s) != 0
}

func (set SquareSet) Len() int {
	return bits.OnesCount64(uint64(set))
}

// Squares lists the members row by row, starting at A8.
func (set SquareSet) Squares() []Square {
	squares := make([]Square, 0, set.Len())
	for rest := uint64(set); rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros64(rest)
		squares = append(squares, Square{X: i % 8, Y: i / 8})
	}
	return squares
}

// Strings lists the members in algebraic notation.
func (set SquareSet) Strings() []string {
	out := make([]string, 0, set.Len())
	for _, s := range set.Squares() {
		out = append(out, s.String())
	}
	return out
}

func (set SquareSet) String() string {
	return "{" + strings.Join(set.Strings(), " ") + "}"
}
