package model

import "fmt"

// SpecialMove tags the moves whose application has a side effect beyond
// relocating the moving piece.
type SpecialMove uint8

const (
	SpecialNone SpecialMove = iota
	SpecialEnPassant
	SpecialCastleKingside
	SpecialCastleQueenside
)

var specialMoveNames = [...]string{
	SpecialNone:            "none",
	SpecialEnPassant:       "en-passant",
	SpecialCastleKingside:  "castle-kingside",
	SpecialCastleQueenside: "castle-queenside",
}

func (s SpecialMove) String() string {
	if int(s) < len(specialMoveNames) {
		return specialMoveNames[s]
	}
	return fmt.Sprintf("SpecialMove(%d)", uint8(s))
}

func (s SpecialMove) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SpecialMove) UnmarshalText(text []byte) error {
	for i, name := range specialMoveNames {
		if name == string(text) {
			*s = SpecialMove(i)
			return nil
		}
	}
	return fmt.Errorf("unknown special move %q", text)
}

// Move is a candidate transition, generated fresh per query.
type Move struct {
	From    Square      `json:"from"`
	To      Square      `json:"to"`
	Special SpecialMove `json:"special"`
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// HistoryEntry records one applied move. Entries are appended and never changed.
type HistoryEntry struct {
	From     Square      `json:"from"`
	To       Square      `json:"to"`
	Piece    Piece       `json:"piece"`
	Captured *Piece      `json:"captured"`
	Mover    Color       `json:"mover"`
	Special  SpecialMove `json:"special"`
}

func findMove(moves []Move, to Square) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}
