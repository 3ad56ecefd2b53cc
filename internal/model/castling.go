package model

type CastleSide uint8

const (
	Kingside CastleSide = iota
	Queenside
)

func (s CastleSide) String() string {
	if s == Kingside {
		return "kingside"
	}
	return "queenside"
}

// SideRights holds the castling flags of one color. Flags are only ever set.
type SideRights struct {
	KingMoved          bool `json:"kingMoved"`
	KingsideRookMoved  bool `json:"kingsideRookMoved"`
	QueensideRookMoved bool `json:"queensideRookMoved"`
}

func (r SideRights) rookMoved(side CastleSide) bool {
	if side == Kingside {
		return r.KingsideRookMoved
	}
	return r.QueensideRookMoved
}

type CastlingRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

func (r *CastlingRights) of(c Color) *SideRights {
	if c == White {
		return &r.White
	}
	return &r.Black
}

const kingHomeCol = 4

type castleLayout struct {
	rookCol  int
	kingTo   int
	rookTo   int
	between  []int // squares strictly between king and rook
	kingPath []int // squares the king crosses, destination included
	special  SpecialMove
}

var castleLayouts = map[CastleSide]castleLayout{
	Kingside: {
		rookCol:  7,
		kingTo:   6,
		rookTo:   5,
		between:  []int{5, 6},
		kingPath: []int{5, 6},
		special:  SpecialCastleKingside,
	},
	Queenside: {
		rookCol:  0,
		kingTo:   2,
		rookTo:   3,
		between:  []int{1, 2, 3},
		kingPath: []int{3, 2},
		special:  SpecialCastleQueenside,
	},
}

func castleSideOf(special SpecialMove) (CastleSide, bool) {
	switch special {
	case SpecialCastleKingside:
		return Kingside, true
	case SpecialCastleQueenside:
		return Queenside, true
	}
	return 0, false
}

// canCastle requires the rook flag to be clear, every square between king and
// rook to be empty, the king to be out of check and no square on its path to be
// attacked. King and rook must also still stand on their home squares.
// The king-moved flag is the caller's concern.
func (g *Game) canCastle(color Color, side CastleSide) bool {
	layout := castleLayouts[side]
	row := color.homeRow()

	if g.castling.of(color).rookMoved(side) {
		return false
	}
	for _, col := range layout.between {
		if !g.board.isEmpty(Square{Row: row, Col: col}) {
			return false
		}
	}
	kingSq := Square{Row: row, Col: kingHomeCol}
	if king, _ := g.board.Get(kingSq); king != (Piece{Type: King, Color: color}) {
		return false
	}
	if g.isInCheck(color) {
		return false
	}
	for _, col := range layout.kingPath {
		if g.wouldBeInCheckAfter(kingSq, Square{Row: row, Col: col}, color) {
			return false
		}
	}
	rook, _ := g.board.Get(Square{Row: row, Col: layout.rookCol})
	return rook == Piece{Type: Rook, Color: color}
}

// CanCastle reports whether color may castle toward side in the current position.
func (g *Game) CanCastle(color Color, side CastleSide) bool {
	if g.castling.of(color).KingMoved {
		return false
	}
	return g.canCastle(color, side)
}

// updateCastlingRights sets the flags touched by a move of piece. A rook only
// counts when it leaves its home square.
func (g *Game) updateCastlingRights(piece Piece, move Move) {
	rights := g.castling.of(piece.Color)
	switch piece.Type {
	case King:
		rights.KingMoved = true
		if side, ok := castleSideOf(move.Special); ok {
			rights.markRook(side)
		}
	case Rook:
		if move.From.Row != piece.Color.homeRow() {
			return
		}
		switch move.From.Col {
		case castleLayouts[Kingside].rookCol:
			rights.markRook(Kingside)
		case castleLayouts[Queenside].rookCol:
			rights.markRook(Queenside)
		}
	}
}

func (r *SideRights) markRook(side CastleSide) {
	if side == Kingside {
		r.KingsideRookMoved = true
	} else {
		r.QueensideRookMoved = true
	}
}
