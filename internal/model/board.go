package model

import "fmt"

// BoardSize is the number of rows and columns on the board.
const BoardSize = 8

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Rook
	Bishop
	Knight
	Queen
	King
)

var pieceTypeNames = [...]string{
	NoPieceType: "",
	Pawn:        "pawn",
	Rook:        "rook",
	Bishop:      "bishop",
	Knight:      "knight",
	Queen:       "queen",
	King:        "king",
}

func (p PieceType) String() string {
	if int(p) < len(pieceTypeNames) {
		return pieceTypeNames[p]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(p))
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceTypeNames {
		if i != int(NoPieceType) && name == string(text) {
			*p = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

// Piece is an immutable (type, color) value. The zero Piece means an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsZero() bool {
	return p.Type == NoPieceType
}

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}

// Square is a (row, column) pair with the origin at the top-left corner.
// Row 0 is black's back rank and row 7 is white's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// OnBoard reports whether both coordinates are in [0,8).
func (s Square) OnBoard() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String returns the algebraic name of the square, e.g. "e2".
func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, BoardSize-s.Row)
}

// ParseSquare is the inverse of Square.String.
func ParseSquare(name string) (Square, bool) {
	if len(name) != 2 {
		return Square{}, false
	}
	sq := Square{Row: BoardSize - int(name[1]-'0'), Col: int(name[0] - 'a')}
	if name[0] < 'a' || name[1] < '1' || !sq.OnBoard() {
		return Square{}, false
	}
	return sq, true
}

func mustOnBoard(sq Square) {
	if !sq.OnBoard() {
		panic(fmt.Sprintf("model: square %v is off the board", sq))
	}
}

// Board is an 8x8 grid of optional pieces. It is a plain value: copying a Board
// copies every square.
type Board struct {
	cells [BoardSize][BoardSize]Piece
}

// Get returns the piece on sq and whether the square is occupied.
// It panics if sq is off the board.
func (b *Board) Get(sq Square) (Piece, bool) {
	mustOnBoard(sq)
	p := b.cells[sq.Row][sq.Col]
	return p, !p.IsZero()
}

// Set places p on sq, replacing any occupant. Setting the zero Piece empties sq.
// It panics if sq is off the board.
func (b *Board) Set(sq Square, p Piece) {
	mustOnBoard(sq)
	b.cells[sq.Row][sq.Col] = p
}

func (b *Board) Clear(sq Square) {
	b.Set(sq, Piece{})
}

// IsOnBoard reports whether sq lies on the board.
func (b *Board) IsOnBoard(sq Square) bool {
	return sq.OnBoard()
}

func (b *Board) isEmpty(sq Square) bool {
	_, occupied := b.Get(sq)
	return !occupied
}

// find returns the first square holding p, scanning row by row.
func (b *Board) find(p Piece) (Square, bool) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.cells[row][col] == p {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Rows returns the board as rows of nullable pieces, for serialization.
func (b *Board) Rows() [][]*Piece {
	rows := make([][]*Piece, BoardSize)
	for row := range rows {
		rows[row] = make([]*Piece, BoardSize)
		for col := 0; col < BoardSize; col++ {
			if p := b.cells[row][col]; !p.IsZero() {
				rows[row][col] = &p
			}
		}
	}
	return rows
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting layout: black on rows 0-1, white on rows 6-7.
func NewBoard() Board {
	var b Board
	for col := 0; col < BoardSize; col++ {
		b.cells[0][col] = Piece{Type: backRank[col], Color: Black}
		b.cells[1][col] = Piece{Type: Pawn, Color: Black}
		b.cells[6][col] = Piece{Type: Pawn, Color: White}
		b.cells[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return b
}
