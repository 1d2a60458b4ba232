package model

import (
	"fmt"
	"strconv"
	"strings"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[byte]PieceType{
	'k': King,
	'q': Queen,
	'r': Rook,
	'b': Bishop,
	'n': Knight,
	'p': Pawn,
}

// ParseFEN builds a game from Forsyth-Edwards Notation. The move counters
// may be omitted. Castling rights are recorded as unmoved kings and rooks;
// pawns away from their starting row are marked as moved.
func ParseFEN(fen string) (*Game, error) {
	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	g := &Game{fullMoveNumber: 1}

	if err := parsePlacement(&g.position.Board, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		g.position.ToMove = White
	case "b":
		g.position.ToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if err := applyCastlingRights(&g.position.Board, fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, fields[3])
		}
		// the target sits behind a pawn of the side that just moved
		if target.Y != pawnStartRow(g.position.ToMove.Opponent())+pawnDirection(g.position.ToMove.Opponent()) {
			return nil, fmt.Errorf("%w: en passant square %s on the wrong rank", ErrInvalidFEN, fields[3])
		}
		g.position.EnPassantTarget = &target
	}

	if len(fields) == 6 {
		halfMove, err := strconv.Atoi(fields[4])
		if err != nil || halfMove < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		fullMove, err := strconv.Atoi(fields[5])
		if err != nil || fullMove < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		g.halfMoveClock, g.fullMoveNumber = halfMove, fullMove
	}

	phase, err := g.position.phase()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFEN, err)
	}
	g.phase = phase
	return g, nil
}

func parsePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for y, rankData := range ranks {
		x := 0
		for i := 0; i < len(rankData); i++ {
			symbol := rankData[i]
			if symbol >= '1' && symbol <= '8' {
				x += int(symbol - '0')
				continue
			}
			pieceType, ok := fenPieces[symbol|0x20]
			if !ok || x > 7 {
				return fmt.Errorf("%w: bad rank %q", ErrInvalidFEN, rankData)
			}
			color := Black
			if symbol < 'a' {
				color = White
			}
			piece := Piece{Type: pieceType, Color: color}
			switch pieceType {
			case Pawn:
				piece.HasMoved = y != pawnStartRow(color)
			case King, Rook:
				// cleared again by the castling field
				piece.HasMoved = true
			}
			b.Place(Square{X: x, Y: y}, piece)
			x++
		}
		if x != 8 {
			return fmt.Errorf("%w: rank %q does not cover 8 files", ErrInvalidFEN, rankData)
		}
	}
	return nil
}

func applyCastlingRights(b *Board, rights string) error {
	if rights == "-" {
		return nil
	}
	for i := 0; i < len(rights); i++ {
		var color Color
		var rookX int
		switch rights[i] {
		case 'K':
			color, rookX = White, 7
		case 'Q':
			color, rookX = White, 0
		case 'k':
			color, rookX = Black, 7
		case 'q':
			color, rookX = Black, 0
		default:
			return fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, rights)
		}
		row := backRow(color)
		kingSq, rookSq := Square{X: 4, Y: row}, Square{X: rookX, Y: row}
		king, kingOK := b.At(kingSq)
		rook, rookOK := b.At(rookSq)
		if !kingOK || king.Type != King || king.Color != color || !rookOK || rook.Type != Rook || rook.Color != color {
			return fmt.Errorf("%w: castling right %c without king and rook at home", ErrInvalidFEN, rights[i])
		}
		king.HasMoved, rook.HasMoved = false, false
		b.Place(kingSq, king)
		b.Place(rookSq, rook)
	}
	return nil
}

// FEN serialises the game in Forsyth-Edwards Notation.
func (g *Game) FEN() string {
	var sb strings.Builder
	b := &g.position.Board
	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			piece, ok := b.At(Square{X: x, Y: y})
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(fenSymbol(piece))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if g.position.ToMove == Black {
		side = "b"
	}
	epString := "-"
	if g.position.EnPassantTarget != nil {
		epString = g.position.EnPassantTarget.getSquareNotation()
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, castlingRights(b), epString, g.halfMoveClock, g.fullMoveNumber)
	return sb.String()
}

func fenSymbol(p Piece) string {
	symbol := p.Type.getPieceNotation()
	if p.Type == Pawn {
		symbol = "P"
	}
	if p.Color == Black {
		return strings.ToLower(symbol)
	}
	return symbol
}

func castlingRights(b *Board) string {
	rights := ""
	for _, r := range []struct {
		symbol string
		color  Color
		rookX  int
	}{
		{"K", White, 7}, {"Q", White, 0}, {"k", Black, 7}, {"q", Black, 0},
	} {
		row := backRow(r.color)
		king, ok := b.At(Square{X: 4, Y: row})
		if !ok || king.Type != King || king.Color != r.color || king.HasMoved {
			continue
		}
		rook, ok := b.At(Square{X: r.rookX, Y: row})
		if !ok || rook.Type != Rook || rook.Color != r.color || rook.HasMoved {
			continue
		}
		rights += r.symbol
	}
	if rights == "" {
		return "-"
	}
	return rights
}
