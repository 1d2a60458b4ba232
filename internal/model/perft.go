package model

// Perft counts the leaf positions reachable from g in exactly depth plies.
// Each promotion choice counts as a separate move.
func Perft(g *Game, depth int) (uint64, error) {
	return perft(&g.position, depth)
}

// PerftDivide reports the perft count below each root move, keyed by the
// move in long algebraic form.
func PerftDivide(g *Game, depth int) (map[string]uint64, error) {
	divide := make(map[string]uint64)
	if depth < 1 {
		return divide, nil
	}
	moves, err := g.position.legalMovesFor(g.position.ToMove)
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		next := g.position
		if _, err := next.apply(m.From, m.To, m.Promotion); err != nil {
			return nil, err
		}
		nodes, err := perft(&next, depth-1)
		if err != nil {
			return nil, err
		}
		divide[m.String()] = nodes
	}
	return divide, nil
}

func perft(p *Position, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	moves, err := p.legalMovesFor(p.ToMove)
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return uint64(len(moves)), nil
	}
	var nodes uint64
	for _, m := range moves {
		next := *p
		if _, err := next.apply(m.From, m.To, m.Promotion); err != nil {
			return 0, err
		}
		count, err := perft(&next, depth-1)
		if err != nil {
			return 0, err
		}
		nodes += count
	}
	return nodes, nil
}
