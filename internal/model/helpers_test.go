package model

import "testing"

func mustSquare(t *testing.T, name string) Square {
	t.Helper()
	sq, ok := ParseSquare(name)
	if !ok {
		t.Fatalf("invalid square %q", name)
	}
	return sq
}

// emptyGame returns a game with no pieces and the given side to move.
func emptyGame(turn Color) *Game {
	return &Game{
		turn:    turn,
		history: make([]HistoryEntry, 0),
		status:  InProgress(),
	}
}

func place(t *testing.T, g *Game, name string, typ PieceType, color Color) {
	t.Helper()
	g.board.Set(mustSquare(t, name), Piece{Type: typ, Color: color})
}

// play applies a sequence of moves in coordinate notation ("e2e4") and fails
// the test on the first rejected one.
func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if len(mv) != 4 {
			t.Fatalf("bad move %q", mv)
		}
		res := g.ApplyMove(mustSquare(t, mv[:2]), mustSquare(t, mv[2:]))
		if !res.Applied {
			t.Fatalf("move %s rejected (turn %s, status %s)", mv, g.Turn(), g.Status())
		}
	}
}

func destinations(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	return out
}

func countLegalMoves(g *Game) int {
	n := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			n += len(g.LegalMoves(Square{Row: row, Col: col}))
		}
	}
	return n
}
