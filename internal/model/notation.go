package model

import "fmt"

// getNotation returns the Standard Algebraic Notation of m without the check
// suffix. It must be called before m is applied.
func (p *Position) getNotation(m Move, piece Piece) (string, error) {
	if rookMove := castleRookMove(piece, m.From, m.To); rookMove != nil {
		if m.To.X == 6 {
			return "O-O", nil
		}
		return "O-O-O", nil
	}

	pieceNotationPrefix := piece.Type.getPieceNotation()
	pieceNotationCapture := ""
	if _, occupied := p.Board.At(m.To); occupied || (piece.Type == Pawn && m.From.X != m.To.X) {
		pieceNotationCapture = "x"
	}

	disambiguation := ""
	if piece.Type == Pawn {
		if pieceNotationCapture != "" {
			disambiguation = m.From.getFileNotation()
		}
	} else {
		var err error
		disambiguation, err = p.getDisambiguation(m, piece)
		if err != nil {
			return "", err
		}
	}

	promotion := ""
	if m.Promotion != "" {
		promotion = "=" + m.Promotion.getPieceNotation()
	}
	return fmt.Sprintf("%s%s%s%s%s", pieceNotationPrefix, disambiguation, pieceNotationCapture, m.To.getSquareNotation(), promotion), nil
}

// getDisambiguation names the file, rank or both of m.From when another piece
// of the same type and color could also reach m.To.
func (p *Position) getDisambiguation(m Move, piece Piece) (string, error) {
	rivals := 0
	sameFile, sameRank := false, false
	for _, sq := range p.Board.piecesOf(piece.Color) {
		if sq == m.From {
			continue
		}
		other, _ := p.Board.At(sq)
		if other.Type != piece.Type {
			continue
		}
		moves, err := p.LegalMoves(sq)
		if err != nil {
			return "", err
		}
		if !moves.Has(m.To) {
			continue
		}
		rivals++
		sameFile = sameFile || sq.X == m.From.X
		sameRank = sameRank || sq.Y == m.From.Y
	}
	switch {
	case rivals == 0:
		return "", nil
	case !sameFile:
		return m.From.getFileNotation(), nil
	case !sameRank:
		return m.From.getRankNotation(), nil
	default:
		return m.From.getSquareNotation(), nil
	}
}
