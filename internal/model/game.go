package model

import "fmt"

// Phase is the selection state of a game.
type Phase uint8

const (
	PhaseSelecting Phase = iota
	PhaseMoveChosen
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMoveChosen:
		return "move-chosen"
	case PhaseGameOver:
		return "game-over"
	}
	return "selecting"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, v := range []Phase{PhaseSelecting, PhaseMoveChosen, PhaseGameOver} {
		if v.String() == string(text) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Game is one engine instance: the authoritative position plus turn, castling
// and en-passant state, history and the pending selection. A Game is not safe
// for concurrent use; callers serialize access.
type Game struct {
	board     Board
	turn      Color
	castling  CastlingRights
	enPassant *Square // pawn that advanced two squares on the previous move
	history   []HistoryEntry
	status    GameStatus

	selected      *Square
	selectedMoves []Move
}

// MoveResult is returned by ApplyMove. A rejected move leaves the game untouched.
type MoveResult struct {
	Applied bool       `json:"applied"`
	Status  GameStatus `json:"status"`
}

// ClickResult describes the game after a Click.
type ClickResult struct {
	Applied  bool       `json:"applied"`
	Selected *Square    `json:"selected"`
	Moves    []Move     `json:"moves"`
	Status   GameStatus `json:"status"`
}

// NewGame returns the standard starting position with white to move.
func NewGame() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset restores the starting position and clears history, flags and selection.
func (g *Game) Reset() {
	*g = Game{
		board:   NewBoard(),
		turn:    White,
		history: make([]HistoryEntry, 0),
		status:  InProgress(),
	}
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.board
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) Status() GameStatus {
	return g.status
}

func (g *Game) IsOver() bool {
	return g.status.IsTerminal()
}

func (g *Game) Phase() Phase {
	switch {
	case g.IsOver():
		return PhaseGameOver
	case g.selected != nil:
		return PhaseMoveChosen
	}
	return PhaseSelecting
}

func (g *Game) EnPassantTarget() (Square, bool) {
	if g.enPassant == nil {
		return Square{}, false
	}
	return *g.enPassant, true
}

func (g *Game) CastlingRights() CastlingRights {
	return g.castling
}

// History returns a copy of the applied moves, oldest first.
func (g *Game) History() []HistoryEntry {
	out := make([]HistoryEntry, len(g.history))
	copy(out, g.history)
	return out
}

// Selection returns the selected square and its cached legal moves.
func (g *Game) Selection() (Square, []Move, bool) {
	if g.selected == nil {
		return Square{}, nil, false
	}
	return *g.selected, append([]Move{}, g.selectedMoves...), true
}

// LegalMoves returns the legal moves of the piece on sq. The result is empty
// when sq is empty, holds a piece of the side not to move, or the game is over.
// It panics if sq is off the board.
func (g *Game) LegalMoves(sq Square) []Move {
	mustOnBoard(sq)
	if g.IsOver() {
		return []Move{}
	}
	if p, ok := g.board.Get(sq); !ok || p.Color != g.turn {
		return []Move{}
	}
	return g.legalMovesFrom(sq)
}

// Select makes sq the pending selection if it holds a piece of the side to
// move; otherwise it clears any selection. It returns the selection's legal moves.
func (g *Game) Select(sq Square) []Move {
	mustOnBoard(sq)
	g.ClearSelection()
	if g.IsOver() {
		return []Move{}
	}
	if p, ok := g.board.Get(sq); !ok || p.Color != g.turn {
		return []Move{}
	}
	selected := sq
	g.selected = &selected
	g.selectedMoves = g.legalMovesFrom(sq)
	return append([]Move{}, g.selectedMoves...)
}

func (g *Game) ClearSelection() {
	g.selected = nil
	g.selectedMoves = nil
}

// ApplyMove plays from->to if to is among the legal destinations of from.
// Anything else, including a move after the game ended, is a silent no-op.
// It panics if either square is off the board.
func (g *Game) ApplyMove(from, to Square) MoveResult {
	mustOnBoard(from)
	mustOnBoard(to)
	if g.IsOver() {
		return MoveResult{Status: g.status}
	}

	moves := g.selectedMoves
	if g.selected == nil || *g.selected != from {
		moves = g.LegalMoves(from)
	}
	move, ok := findMove(moves, to)
	if !ok {
		return MoveResult{Status: g.status}
	}

	g.executeMove(move)
	return MoveResult{Applied: true, Status: g.status}
}

// Click drives the selection state machine with one square: a destination of
// the current selection plays the move, a piece of the side to move becomes the
// selection, and anything else clears it.
func (g *Game) Click(sq Square) ClickResult {
	mustOnBoard(sq)
	if g.IsOver() {
		return ClickResult{Moves: []Move{}, Status: g.status}
	}

	if g.selected != nil {
		if _, ok := findMove(g.selectedMoves, sq); ok {
			res := g.ApplyMove(*g.selected, sq)
			return ClickResult{Applied: res.Applied, Moves: []Move{}, Status: res.Status}
		}
	}

	moves := g.Select(sq)
	res := ClickResult{Moves: moves, Status: g.status}
	if sel, _, ok := g.Selection(); ok {
		res.Selected = &sel
	}
	return res
}

func (g *Game) executeMove(move Move) {
	piece, _ := g.board.Get(move.From)
	var captured *Piece
	if p, ok := g.board.Get(move.To); ok {
		captured = &p
	}

	switch move.Special {
	case SpecialEnPassant:
		if g.enPassant != nil {
			if p, ok := g.board.Get(*g.enPassant); ok {
				captured = &p
			}
			g.board.Clear(*g.enPassant)
		}
	case SpecialCastleKingside, SpecialCastleQueenside:
		side, _ := castleSideOf(move.Special)
		layout := castleLayouts[side]
		rookFrom := Square{Row: move.From.Row, Col: layout.rookCol}
		rook, _ := g.board.Get(rookFrom)
		g.board.Set(Square{Row: move.From.Row, Col: layout.rookTo}, rook)
		g.board.Clear(rookFrom)
	}

	g.updateCastlingRights(piece, move)

	g.enPassant = nil
	if piece.Type == Pawn && abs(move.To.Row-move.From.Row) == 2 {
		passed := move.To
		g.enPassant = &passed
	}

	g.history = append(g.history, HistoryEntry{
		From:     move.From,
		To:       move.To,
		Piece:    piece,
		Captured: captured,
		Mover:    g.turn,
		Special:  move.Special,
	})

	g.board.Set(move.To, piece)
	g.board.Clear(move.From)

	g.ClearSelection()
	g.turn = g.turn.Opponent()
	g.status = g.evaluateStatus()
}

// evaluateStatus classifies the position for the side to move.
func (g *Game) evaluateStatus() GameStatus {
	inCheck := g.isInCheck(g.turn)
	if !g.hasLegalMoves(g.turn) {
		if inCheck {
			return Checkmate(g.turn.Opponent())
		}
		return Stalemate()
	}
	if inCheck {
		return Check(g.turn)
	}
	return InProgress()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
