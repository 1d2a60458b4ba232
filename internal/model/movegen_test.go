package model

import (
	"math/rand"
	"testing"
)

func setOf(names ...string) SquareSet {
	var set SquareSet
	for _, name := range names {
		set.Add(MustParseSquare(name))
	}
	return set
}

func boardFrom(pieces map[string]Piece) Board {
	var b Board
	for name, piece := range pieces {
		b.Place(MustParseSquare(name), piece)
	}
	return b
}

var pieceTypes = []PieceType{King, Queen, Rook, Bishop, Knight, Pawn}

// randomBoard scatters n pieces of random type and color; it may lack kings.
func randomBoard(rng *rand.Rand, n int) Board {
	var b Board
	for i := 0; i < n; i++ {
		color := White
		if rng.Intn(2) == 1 {
			color = Black
		}
		b.Place(Square{X: rng.Intn(8), Y: rng.Intn(8)}, Piece{
			Type:     pieceTypes[rng.Intn(len(pieceTypes))],
			Color:    color,
			HasMoved: rng.Intn(2) == 1,
		})
	}
	return b
}

func TestPseudoLegalMovesFromStart(t *testing.T) {
	var b Board
	b.SetupInitialPosition()
	tests := []struct {
		square string
		want   SquareSet
	}{
		{"e2", setOf("e3", "e4")},
		{"b1", setOf("a3", "c3")},
		{"g8", setOf("f6", "h6")},
		{"d7", setOf("d6", "d5")},
		{"e1", 0},
		{"a1", 0},
		{"c1", 0},
		{"d1", 0},
		{"e4", 0},
	}
	for _, tt := range tests {
		if got := PseudoLegalMoves(&b, MustParseSquare(tt.square), nil); got != tt.want {
			t.Errorf("PseudoLegalMoves(%s) = %s, want %s", tt.square, got, tt.want)
		}
	}
}

func TestPawnMoves(t *testing.T) {
	t.Run("blocked pawn has no forward moves", func(t *testing.T) {
		b := boardFrom(map[string]Piece{
			"e2": {Type: Pawn, Color: White},
			"e3": {Type: Knight, Color: Black},
		})
		if got := PseudoLegalMoves(&b, MustParseSquare("e2"), nil); got != 0 {
			t.Fatalf("got %s, want {}", got)
		}
	})
	t.Run("double step needs an empty destination", func(t *testing.T) {
		b := boardFrom(map[string]Piece{
			"e7": {Type: Pawn, Color: Black},
			"e5": {Type: Pawn, Color: White, HasMoved: true},
		})
		if got := PseudoLegalMoves(&b, MustParseSquare("e7"), nil); got != setOf("e6") {
			t.Fatalf("got %s, want {E6}", got)
		}
	})
	t.Run("moved pawn steps once", func(t *testing.T) {
		b := boardFrom(map[string]Piece{"e4": {Type: Pawn, Color: White, HasMoved: true}})
		if got := PseudoLegalMoves(&b, MustParseSquare("e4"), nil); got != setOf("e5") {
			t.Fatalf("got %s, want {E5}", got)
		}
	})
	t.Run("captures only opposing pieces diagonally", func(t *testing.T) {
		b := boardFrom(map[string]Piece{
			"d4": {Type: Pawn, Color: White, HasMoved: true},
			"c5": {Type: Rook, Color: Black},
			"e5": {Type: Rook, Color: White},
			"d5": {Type: Bishop, Color: Black},
		})
		if got := PseudoLegalMoves(&b, MustParseSquare("d4"), nil); got != setOf("c5") {
			t.Fatalf("got %s, want {C5}", got)
		}
	})
	t.Run("edge file pawn", func(t *testing.T) {
		b := boardFrom(map[string]Piece{
			"a7": {Type: Pawn, Color: Black},
			"b6": {Type: Queen, Color: White},
		})
		if got := PseudoLegalMoves(&b, MustParseSquare("a7"), nil); got != setOf("a6", "a5", "b6") {
			t.Fatalf("got %s", got)
		}
	})
	t.Run("promotion rank is a destination", func(t *testing.T) {
		b := boardFrom(map[string]Piece{
			"g7": {Type: Pawn, Color: White, HasMoved: true},
			"h8": {Type: Rook, Color: Black},
		})
		if got := PseudoLegalMoves(&b, MustParseSquare("g7"), nil); got != setOf("g8", "h8") {
			t.Fatalf("got %s, want {G8 H8}", got)
		}
	})
	t.Run("en passant onto the target square", func(t *testing.T) {
		b := boardFrom(map[string]Piece{
			"e5": {Type: Pawn, Color: White, HasMoved: true},
			"d5": {Type: Pawn, Color: Black, HasMoved: true},
		})
		target := MustParseSquare("d6")
		if got := PseudoLegalMoves(&b, MustParseSquare("e5"), &target); got != setOf("e6", "d6") {
			t.Fatalf("got %s, want {D6 E6}", got)
		}
		// the pawn that just double-stepped cannot use its own target
		if got := PseudoLegalMoves(&b, MustParseSquare("d5"), &target); got != setOf("d4") {
			t.Fatalf("got %s, want {D4}", got)
		}
	})
}

func TestSlidingMoves(t *testing.T) {
	b := boardFrom(map[string]Piece{
		"d4": {Type: Rook, Color: White},
		"d6": {Type: Pawn, Color: Black},
		"b4": {Type: Knight, Color: White},
		"f6": {Type: Bishop, Color: Black},
	})
	want := setOf("d5", "d6", "d3", "d2", "d1", "c4", "e4", "f4", "g4", "h4")
	if got := PseudoLegalMoves(&b, MustParseSquare("d4"), nil); got != want {
		t.Fatalf("rook: got %s, want %s", got, want)
	}

	b.Place(MustParseSquare("d4"), Piece{Type: Bishop, Color: White})
	want = setOf("e5", "f6", "c5", "b6", "a7", "c3", "b2", "a1", "e3", "f2", "g1")
	if got := PseudoLegalMoves(&b, MustParseSquare("d4"), nil); got != want {
		t.Fatalf("bishop: got %s, want %s", got, want)
	}

	b.Place(MustParseSquare("d4"), Piece{Type: Queen, Color: White})
	want = setOf("d5", "d6", "d3", "d2", "d1", "c4", "e4", "f4", "g4", "h4",
		"e5", "f6", "c5", "b6", "a7", "c3", "b2", "a1", "e3", "f2", "g1")
	if got := PseudoLegalMoves(&b, MustParseSquare("d4"), nil); got != want {
		t.Fatalf("queen: got %s, want %s", got, want)
	}
}

func TestKingAndKnightInCorner(t *testing.T) {
	b := boardFrom(map[string]Piece{
		"a1": {Type: King, Color: White},
		"h8": {Type: Knight, Color: Black},
		"g6": {Type: Pawn, Color: Black},
	})
	if got := PseudoLegalMoves(&b, MustParseSquare("a1"), nil); got != setOf("a2", "b1", "b2") {
		t.Fatalf("king: got %s", got)
	}
	if got := PseudoLegalMoves(&b, MustParseSquare("h8"), nil); got != setOf("f7") {
		t.Fatalf("knight: got %s", got)
	}
}

func TestKnightNeverLandsOnOwnPieceOrOffBoard(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		b := randomBoard(rng, 20)
		from := Square{X: rng.Intn(8), Y: rng.Intn(8)}
		color := White
		if i%2 == 1 {
			color = Black
		}
		b.Place(from, Piece{Type: Knight, Color: color})

		for _, to := range PseudoLegalMoves(&b, from, nil).Squares() {
			if !boundaryCheck(to) {
				t.Fatalf("off-board destination %+v", to)
			}
			dx, dy := abs(to.X-from.X), abs(to.Y-from.Y)
			if !(dx == 1 && dy == 2) && !(dx == 2 && dy == 1) {
				t.Fatalf("%s->%s is not a knight jump", from, to)
			}
			if occupant, ok := b.At(to); ok && occupant.Color == color {
				t.Fatalf("%s->%s lands on own piece", from, to)
			}
		}
	}
}

func TestSlidingPiecesNeverJump(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 300; i++ {
		b := randomBoard(rng, 24)
		from := Square{X: rng.Intn(8), Y: rng.Intn(8)}
		slider := []PieceType{Rook, Bishop, Queen}[i%3]
		b.Place(from, Piece{Type: slider, Color: White})

		for _, to := range PseudoLegalMoves(&b, from, nil).Squares() {
			dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)
			for sq := (Square{X: from.X + dx, Y: from.Y + dy}); sq != to; sq = (Square{X: sq.X + dx, Y: sq.Y + dy}) {
				if _, ok := b.At(sq); ok {
					t.Fatalf("%s %s->%s jumps over %s", slider, from, to, sq)
				}
			}
			if occupant, ok := b.At(to); ok && occupant.Color == White {
				t.Fatalf("%s %s->%s lands on own piece", slider, from, to)
			}
		}
	}
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

func TestEmptySquareHasNoMoves(t *testing.T) {
	var b Board
	if got := PseudoLegalMoves(&b, MustParseSquare("e4"), nil); got != 0 {
		t.Fatalf("got %s, want {}", got)
	}
}
