package model

// GameState is a serializable snapshot of a Game.
type GameState struct {
	Board           [][]*Piece     `json:"board"`
	Turn            Color          `json:"turn"`
	Phase           Phase          `json:"phase"`
	Status          GameStatus     `json:"status"`
	EnPassantTarget *Square        `json:"enPassantTarget"`
	CastlingRights  CastlingRights `json:"castlingRights"`
	Selected        *Square        `json:"selectedSquare"`
	LegalMoves      []Move         `json:"legalMoves"`
	History         []HistoryEntry `json:"moveHistory"`
}

func (g *Game) State() GameState {
	state := GameState{
		Board:          g.board.Rows(),
		Turn:           g.turn,
		Phase:          g.Phase(),
		Status:         g.status,
		CastlingRights: g.castling,
		LegalMoves:     []Move{},
		History:        g.History(),
	}
	if sq, ok := g.EnPassantTarget(); ok {
		state.EnPassantTarget = &sq
	}
	if sq, moves, ok := g.Selection(); ok {
		state.Selected = &sq
		state.LegalMoves = moves
	}
	return state
}
