package model

import (
	"encoding/json"
	"fmt"
)

type StatusKind uint8

const (
	StatusInProgress StatusKind = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
)

var statusKindNames = [...]string{
	StatusInProgress: "in-progress",
	StatusCheck:      "check",
	StatusCheckmate:  "checkmate",
	StatusStalemate:  "stalemate",
}

func (k StatusKind) String() string {
	if int(k) < len(statusKindNames) {
		return statusKindNames[k]
	}
	return fmt.Sprintf("StatusKind(%d)", uint8(k))
}

func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StatusKind) UnmarshalText(text []byte) error {
	for i, name := range statusKindNames {
		if name == string(text) {
			*k = StatusKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// GameStatus is derived from the board and the side to move after every move.
// Color is the checked side for StatusCheck and the winner for StatusCheckmate;
// it carries no meaning for the other kinds.
type GameStatus struct {
	Kind  StatusKind
	Color Color
}

func InProgress() GameStatus { return GameStatus{Kind: StatusInProgress} }
func Check(checked Color) GameStatus { return GameStatus{Kind: StatusCheck, Color: checked} }
func Checkmate(winner Color) GameStatus { return GameStatus{Kind: StatusCheckmate, Color: winner} }
func Stalemate() GameStatus { return GameStatus{Kind: StatusStalemate} }

// IsTerminal is true for checkmate and stalemate.
func (s GameStatus) IsTerminal() bool {
	return s.Kind == StatusCheckmate || s.Kind == StatusStalemate
}

func (s GameStatus) Winner() (Color, bool) {
	return s.Color, s.Kind == StatusCheckmate
}

func (s GameStatus) String() string {
	switch s.Kind {
	case StatusCheck:
		return fmt.Sprintf("check(%s)", s.Color)
	case StatusCheckmate:
		return fmt.Sprintf("checkmate(%s)", s.Color)
	}
	return s.Kind.String()
}

type statusJSON struct {
	Kind   StatusKind `json:"kind"`
	Color  *Color     `json:"checked,omitempty"`
	Winner *Color     `json:"winner,omitempty"`
}

func (s GameStatus) MarshalJSON() ([]byte, error) {
	out := statusJSON{Kind: s.Kind}
	c := s.Color
	switch s.Kind {
	case StatusCheck:
		out.Color = &c
	case StatusCheckmate:
		out.Winner = &c
	}
	return json.Marshal(out)
}

func (s *GameStatus) UnmarshalJSON(data []byte) error {
	var in statusJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = GameStatus{Kind: in.Kind}
	switch {
	case in.Color != nil:
		s.Color = *in.Color
	case in.Winner != nil:
		s.Color = *in.Winner
	}
	return nil
}
