package board

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")
var ErrOffBoard = errors.New("square off board")
var ErrBadPromotion = errors.New("invalid promotion piece")
var ErrCannotDrop = errors.New("cannot drop")

// Sub-reasons for a rejected drop; all match ErrCannotDrop via errors.Is.
var ErrDropOccupied = fmt.Errorf("%w: square occupied", ErrCannotDrop)
var ErrDropPawnRank = fmt.Errorf("%w: pawn on first or last rank", ErrCannotDrop)
var ErrDropExposesKing = fmt.Errorf("%w: leaves own king in check", ErrCannotDrop)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// ValidPieceType reports whether s names a known piece type.
func ValidPieceType(s string) bool {
	switch PieceType(s) {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

// Piece is an immutable (type, color) value. Promotions replace the piece
// rather than mutating it.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Square addresses the grid with zero-based (row, col). Row 0 is black's home
// rank, row 7 is white's; col 0 is the "a" file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row <= 7 && s.Col >= 0 && s.Col <= 7
}

type CastlingRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

type Rights struct {
	White CastlingRights `json:"white"`
	Black CastlingRights `json:"black"`
}

func (r *Rights) of(c Color) *CastlingRights {
	if c == White {
		return &r.White
	}
	return &r.Black
}

type MoveKind string

const (
	MoveNormal MoveKind = "normal"
	MoveDrop   MoveKind = "drop"
)

type CastleSide string

const (
	CastleKingSide  CastleSide = "kingSide"
	CastleQueenSide CastleSide = "queenSide"
)

// Move is the closed record appended to a state's history. Kind selects which
// fields are meaningful: normal moves carry From/Piece (plus capture, castle,
// en passant and promotion details), drops carry DropType and Color.
type Move struct {
	Kind       MoveKind   `json:"kind"`
	From       *Square    `json:"from,omitempty"`
	To         Square     `json:"to"`
	Piece      *Piece     `json:"piece,omitempty"`
	Captured   *Piece     `json:"captured,omitempty"`
	Castle     CastleSide `json:"castle,omitempty"`
	EnPassant  bool       `json:"enPassant,omitempty"`
	PromotedTo PieceType  `json:"promotedTo,omitempty"`
	DropType   PieceType  `json:"dropType,omitempty"`
	Color      Color      `json:"color,omitempty"`
}

// State is one board of a bughouse session: the grid plus everything needed
// to validate the next move. It is mutated only through MakeMove and
// DropPiece.
type State struct {
	Grid      [8][8]*Piece `json:"board"`
	Turn      Color        `json:"turn"`
	Rights    Rights       `json:"castlingRights"`
	EnPassant *Square      `json:"enPassantTarget"`
	History   []Move       `json:"moveHistory"`
	Check     bool         `json:"isCheck"`
	Checkmate bool         `json:"isCheckmate"`
	Stalemate bool         `json:"isStalemate"`
	Winner    *Color       `json:"winner"`
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewState returns the standard initial position with white to move.
func NewState() *State {
	s := &State{
		Turn: White,
		Rights: Rights{
			White: CastlingRights{KingSide: true, QueenSide: true},
			Black: CastlingRights{KingSide: true, QueenSide: true},
		},
		History: []Move{},
	}
	for col, pt := range backRank {
		s.Grid[0][col] = &Piece{Type: pt, Color: Black}
		s.Grid[7][col] = &Piece{Type: pt, Color: White}
	}
	for col := 0; col < 8; col++ {
		s.Grid[1][col] = &Piece{Type: Pawn, Color: Black}
		s.Grid[6][col] = &Piece{Type: Pawn, Color: White}
	}
	return s
}

func (s *State) at(sq Square) *Piece {
	return s.Grid[sq.Row][sq.Col]
}

// Over reports whether this board has reached a terminal position.
func (s *State) Over() bool {
	return s.Checkmate || s.Stalemate
}

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// pawnDir is the row delta a pawn of color c advances by.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func promotionRow(c Color) int {
	return homeRow(c.Opponent())
}

// clone copies the parts of the state the legality simulation needs. Piece
// pointers are shared; pieces are immutable values.
func (s *State) clone() *State {
	c := &State{
		Grid:   s.Grid,
		Turn:   s.Turn,
		Rights: s.Rights,
	}
	if s.EnPassant != nil {
		ep := *s.EnPassant
		c.EnPassant = &ep
	}
	return c
}

func (s *State) kingSquare(c Color) Square {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := s.Grid[r][f]; p != nil && p.Type == King && p.Color == c {
				return Square{Row: r, Col: f}
			}
		}
	}
	// A board without a king is a bug in the transition functions, not a
	// reachable game state.
	panic("board: no king for " + string(c))
}
