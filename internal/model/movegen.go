package model

// moveGenerator enumerates pseudo-legal moves for the piece of the given color on from.
type moveGenerator func(g *Game, from Square, color Color) []Move

// pseudoGenerators is the full rule set, used for move selection.
var pseudoGenerators = map[PieceType]moveGenerator{
	Pawn:   (*Game).pseudoPawnMoves,
	Rook:   (*Game).pseudoRookMoves,
	Bishop: (*Game).pseudoBishopMoves,
	Knight: (*Game).pseudoKnightMoves,
	Queen:  (*Game).pseudoQueenMoves,
	King:   (*Game).pseudoKingMoves,
}

// attackGenerators is the rule set used by the check detector. The king entry
// never considers castling, which would recurse back into check detection.
var attackGenerators = map[PieceType]moveGenerator{
	Pawn:   (*Game).pseudoPawnMoves,
	Rook:   (*Game).pseudoRookMoves,
	Bishop: (*Game).pseudoBishopMoves,
	Knight: (*Game).pseudoKnightMoves,
	Queen:  (*Game).pseudoQueenMoves,
	King:   (*Game).kingStepMoves,
}

type direction struct {
	dRow, dCol int
}

var (
	rookDirs   = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingDirs   = []direction{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// pseudoMoves dispatches on the type of the piece standing on from.
func (g *Game) pseudoMoves(from Square, table map[PieceType]moveGenerator) []Move {
	piece, ok := g.board.Get(from)
	if !ok {
		return nil
	}
	gen, ok := table[piece.Type]
	if !ok {
		return nil
	}
	return gen(g, from, piece.Color)
}

// canMoveTo reports whether a stepping piece of color may land on sq.
func (g *Game) canMoveTo(sq Square, color Color) bool {
	if !sq.OnBoard() {
		return false
	}
	target, occupied := g.board.Get(sq)
	return !occupied || target.Color != color
}

func (g *Game) pseudoPawnMoves(from Square, color Color) []Move {
	pawnMoves := []Move{}
	dir := color.forward()

	// forward one, then two from the start row
	one := from.offset(dir, 0)
	if one.OnBoard() && g.board.isEmpty(one) {
		pawnMoves = append(pawnMoves, Move{From: from, To: one})
		two := from.offset(2*dir, 0)
		if from.Row == color.pawnStartRow() && g.board.isEmpty(two) {
			pawnMoves = append(pawnMoves, Move{From: from, To: two})
		}
	}

	for _, dCol := range [...]int{-1, 1} {
		target := from.offset(dir, dCol)
		if !target.OnBoard() {
			continue
		}
		if p, ok := g.board.Get(target); ok && p.Color != color {
			pawnMoves = append(pawnMoves, Move{From: from, To: target})
		}
	}

	if g.enPassant == nil {
		return pawnMoves
	}
	passed := *g.enPassant
	for _, dCol := range [...]int{-1, 1} {
		if passed.Row != from.Row || passed.Col != from.Col+dCol {
			continue
		}
		target := from.offset(dir, dCol)
		if !target.OnBoard() {
			continue
		}
		if p, ok := g.board.Get(passed); ok && p.Type == Pawn && p.Color != color {
			pawnMoves = append(pawnMoves, Move{From: from, To: target, Special: SpecialEnPassant})
		}
	}
	return pawnMoves
}

// slidingMoves walks each direction until the edge, stopping before a friendly
// piece and on an enemy one.
func (g *Game) slidingMoves(from Square, color Color, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.offset(dir.dRow, dir.dCol)
		for target.OnBoard() {
			p, occupied := g.board.Get(target)
			if !occupied {
				moves = append(moves, Move{From: from, To: target})
			} else {
				if p.Color != color {
					moves = append(moves, Move{From: from, To: target})
				}
				break
			}
			target = target.offset(dir.dRow, dir.dCol)
		}
	}
	return moves
}

func (g *Game) stepMoves(from Square, color Color, offsets []direction) []Move {
	moves := []Move{}
	for _, off := range offsets {
		target := from.offset(off.dRow, off.dCol)
		if g.canMoveTo(target, color) {
			moves = append(moves, Move{From: from, To: target})
		}
	}
	return moves
}

func (g *Game) pseudoRookMoves(from Square, color Color) []Move {
	return g.slidingMoves(from, color, rookDirs)
}

func (g *Game) pseudoBishopMoves(from Square, color Color) []Move {
	return g.slidingMoves(from, color, bishopDirs)
}

func (g *Game) pseudoQueenMoves(from Square, color Color) []Move {
	return append(g.pseudoRookMoves(from, color), g.pseudoBishopMoves(from, color)...)
}

func (g *Game) pseudoKnightMoves(from Square, color Color) []Move {
	return g.stepMoves(from, color, knightDirs)
}

// kingStepMoves is the attack-only king move set.
func (g *Game) kingStepMoves(from Square, color Color) []Move {
	return g.stepMoves(from, color, kingDirs)
}

func (g *Game) pseudoKingMoves(from Square, color Color) []Move {
	kingMoves := g.kingStepMoves(from, color)
	if g.castling.of(color).KingMoved || g.isInCheck(color) {
		return kingMoves
	}
	for _, side := range [...]CastleSide{Kingside, Queenside} {
		if g.canCastle(color, side) {
			layout := castleLayouts[side]
			kingMoves = append(kingMoves, Move{
				From:    from,
				To:      Square{Row: from.Row, Col: layout.kingTo},
				Special: layout.special,
			})
		}
	}
	return kingMoves
}
