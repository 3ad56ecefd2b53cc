package model

// isAttacked reports whether any piece of byColor has sq in its attack-only move set.
func (g *Game) isAttacked(sq Square, byColor Color) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			from := Square{Row: row, Col: col}
			p, ok := g.board.Get(from)
			if !ok || p.Color != byColor {
				continue
			}
			for _, m := range g.pseudoMoves(from, attackGenerators) {
				if m.To == sq {
					return true
				}
			}
		}
	}
	return false
}

// isInCheck is false when color has no king on the board.
func (g *Game) isInCheck(color Color) bool {
	king, ok := g.board.find(Piece{Type: King, Color: color})
	if !ok {
		return false
	}
	return g.isAttacked(king, color.Opponent())
}

// IsAttacked reports whether byColor attacks sq. It panics if sq is off the board.
func (g *Game) IsAttacked(sq Square, byColor Color) bool {
	mustOnBoard(sq)
	return g.isAttacked(sq, byColor)
}

func (g *Game) IsInCheck(color Color) bool {
	return g.isInCheck(color)
}

// simulate relocates the piece on from to to, runs probe, and restores both
// squares on every exit path. Only the primary relocation is simulated: an
// en-passant victim or a castling rook stays put.
func (g *Game) simulate(from, to Square, probe func() bool) bool {
	moving, _ := g.board.Get(from)
	original, _ := g.board.Get(to)
	defer func() {
		g.board.Set(from, moving)
		g.board.Set(to, original)
	}()

	g.board.Set(to, moving)
	g.board.Clear(from)
	return probe()
}

func (g *Game) wouldBeInCheckAfter(from, to Square, color Color) bool {
	return g.simulate(from, to, func() bool { return g.isInCheck(color) })
}

// filterLegal keeps the moves that do not leave color's own king in check.
func (g *Game) filterLegal(moves []Move, from Square, color Color) []Move {
	legalMoves := []Move{}
	for _, m := range moves {
		if !g.wouldBeInCheckAfter(from, m.To, color) {
			legalMoves = append(legalMoves, m)
		}
	}
	return legalMoves
}

// legalMovesFrom ignores turn and game-over state.
func (g *Game) legalMovesFrom(from Square) []Move {
	piece, ok := g.board.Get(from)
	if !ok {
		return []Move{}
	}
	return g.filterLegal(g.pseudoMoves(from, pseudoGenerators), from, piece.Color)
}

func (g *Game) hasLegalMoves(color Color) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			from := Square{Row: row, Col: col}
			if p, ok := g.board.Get(from); ok && p.Color == color && len(g.legalMovesFrom(from)) > 0 {
				return true
			}
		}
	}
	return false
}
