package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPinnedPieceHasNoMoves(t *testing.T) {
	g := emptyGame(White)
	place(t, g, "e1", King, White)
	place(t, g, "e2", Bishop, White)
	place(t, g, "e8", Rook, Black)
	place(t, g, "a8", King, Black)
	g.castling.White.KingMoved = true

	if got := g.LegalMoves(mustSquare(t, "e2")); len(got) != 0 {
		t.Fatalf("pinned bishop should have no legal moves, got %v", destinations(got))
	}
	if g.IsInCheck(White) {
		t.Fatalf("the bishop blocks the check")
	}
}

func TestMustAnswerCheck(t *testing.T) {
	g := emptyGame(White)
	place(t, g, "e1", King, White)
	place(t, g, "a2", Rook, White)
	place(t, g, "e8", Rook, Black)
	place(t, g, "a8", King, Black)
	g.castling.White.KingMoved = true

	if !g.IsInCheck(White) {
		t.Fatalf("white king on an open file facing a rook is in check")
	}
	// only the block on e2 answers the check
	got := destinations(g.LegalMoves(mustSquare(t, "a2")))
	if diff := cmp.Diff([]string{"e2"}, got); diff != "" {
		t.Fatalf("rook moves (-want +got):\n%s", diff)
	}
	kingMoves := destinations(g.LegalMoves(mustSquare(t, "e1")))
	for _, sq := range kingMoves {
		if sq[0] == 'e' {
			t.Fatalf("king may not stay on the e-file: %v", kingMoves)
		}
	}
}

func TestIsAttacked(t *testing.T) {
	g := emptyGame(White)
	place(t, g, "d4", Pawn, Black)
	place(t, g, "b5", Knight, White)
	place(t, g, "h1", King, White)
	place(t, g, "f6", Pawn, White)

	tests := []struct {
		square string
		by     Color
		want   bool
	}{
		{"h2", White, true},  // king step
		{"a3", White, true},  // knight jump
		{"d6", White, true},  // knight jump
		{"d4", White, true},  // knight captures the pawn
		{"b4", White, false}, // nothing reaches it
		{"e7", White, false}, // pawn diagonal onto an empty square
		{"d5", White, false},
		{"c1", Black, false},
	}
	for _, tt := range tests {
		if got := g.IsAttacked(mustSquare(t, tt.square), tt.by); got != tt.want {
			t.Errorf("IsAttacked(%s, %s) = %v, want %v", tt.square, tt.by, got, tt.want)
		}
	}

	// a piece standing on the diagonal is attacked by the pawn
	place(t, g, "e7", Rook, Black)
	if !g.IsAttacked(mustSquare(t, "e7"), White) {
		t.Fatalf("pawn on f6 attacks an occupied e7")
	}
}

func TestIsInCheckMatchesAttackSets(t *testing.T) {
	g := NewGame()
	line := []string{"e2e4", "f7f5", "d1h5", "g7g6", "h5g6", "h7g6"}
	for i := 0; i <= len(line); i++ {
		for _, color := range []Color{White, Black} {
			king, _ := g.board.find(Piece{Type: King, Color: color})
			want := false
			for row := 0; row < BoardSize; row++ {
				for col := 0; col < BoardSize; col++ {
					from := Square{Row: row, Col: col}
					if p, ok := g.board.Get(from); ok && p.Color != color {
						for _, m := range g.pseudoMoves(from, attackGenerators) {
							want = want || m.To == king
						}
					}
				}
			}
			if got := g.IsInCheck(color); got != want {
				t.Fatalf("after %d moves: IsInCheck(%s) = %v, want %v", i, color, got, want)
			}
		}
		if i < len(line) {
			play(t, g, line[i])
		}
	}
}

func TestSimulationRestoresBoard(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "d7d5", "f1b5")

	before := g.Board()
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			g.LegalMoves(Square{Row: row, Col: col})
		}
	}
	g.CanCastle(White, Kingside)
	g.CanCastle(Black, Queenside)
	after := g.Board()
	if diff := cmp.Diff(before.Rows(), after.Rows()); diff != "" {
		t.Fatalf("legality checks mutated the board (-before +after):\n%s", diff)
	}

	result := g.simulate(mustSquare(t, "b5"), mustSquare(t, "e8"), func() bool {
		if p, _ := g.board.Get(mustSquare(t, "e8")); p.Type != Bishop {
			t.Fatalf("simulation did not relocate the piece")
		}
		return true
	})
	if !result {
		t.Fatalf("simulate should return the probe result")
	}
	if g.Board() != before {
		t.Fatalf("simulate left the board mutated")
	}
}

// The legality simulation only relocates the moving pawn, so an en-passant
// capture that uncovers a check along the rank is still offered.
func TestEnPassantDiscoveredCheckIsNotDetected(t *testing.T) {
	g := emptyGame(Black)
	place(t, g, "a5", King, White)
	place(t, g, "b5", Pawn, White)
	place(t, g, "c7", Pawn, Black)
	place(t, g, "h5", Rook, Black)
	place(t, g, "h8", King, Black)
	g.castling.White.KingMoved = true
	g.castling.Black.KingMoved = true

	play(t, g, "c7c5")
	want := []Move{
		{From: mustSquare(t, "b5"), To: mustSquare(t, "b6")},
		{From: mustSquare(t, "b5"), To: mustSquare(t, "c6"), Special: SpecialEnPassant},
	}
	if diff := cmp.Diff(want, g.LegalMoves(mustSquare(t, "b5"))); diff != "" {
		t.Fatalf("b5 moves (-want +got):\n%s", diff)
	}

	play(t, g, "b5c6")
	if !g.IsInCheck(White) {
		t.Fatalf("after the capture the rook on h5 gives check")
	}
}
