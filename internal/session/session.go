package session

import (
	"errors"

	"github.com/bughouse-gg/backend/internal/board"
)

var ErrWrongBoard = errors.New("piece is not on your board")
var ErrNotYourTurn = errors.New("not your turn")
var ErrPieceNotInBank = errors.New("piece not in bank")
var ErrGameOver = errors.New("game is over")
var ErrBadSeat = errors.New("invalid seat")

// Team labels the two partnerships. Even seats are team A, odd seats team B.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Reason explains why a session ended.
const (
	ReasonCheckmate = "checkmate"
	ReasonStalemate = "stalemate"
)

// BoardOf maps a seat to the board it plays on: seats 0,1 sit at board 0,
// seats 2,3 at board 1.
func BoardOf(seat int) int { return seat / 2 }

// Teammate is the fixed partner permutation: 0<->2, 1<->3.
func Teammate(seat int) int { return (seat + 2) % 4 }

func TeamOf(seat int) Team {
	if seat%2 == 0 {
		return TeamA
	}
	return TeamB
}

// ColorOf fixes the color convention: seat 0 plays white and seat 1 black on
// board 0; colors flip on board 1 so partners always play opposite colors.
func ColorOf(seat int) board.Color {
	switch seat {
	case 0, 3:
		return board.White
	default:
		return board.Black
	}
}

// seatFor inverts ColorOf/BoardOf: the seat playing color c on boardIndex.
func seatFor(boardIndex int, c board.Color) int {
	for seat := boardIndex * 2; seat < boardIndex*2+2; seat++ {
		if ColorOf(seat) == c {
			return seat
		}
	}
	return -1
}

// Session links two boards and four piece banks. Captures on either board
// feed the capturing player's teammate's bank on the other board, and either
// board reaching a terminal position ends the whole session.
type Session struct {
	Boards [2]*board.State  `json:"boards"`
	Banks  [4][]board.Piece `json:"banks"`

	Over      bool   `json:"over"`
	Winner    *Team  `json:"winner"`
	Reason    string `json:"reason,omitempty"`
	OverBoard int    `json:"overBoard"`
}

// New returns a fresh session: both boards at the initial position, all four
// banks empty.
func New() *Session {
	s := &Session{
		Boards: [2]*board.State{board.NewState(), board.NewState()},
	}
	for i := range s.Banks {
		s.Banks[i] = []board.Piece{}
	}
	return s
}

// ApplyMove validates seat ownership and turn, applies the move on the seat's
// board and, atomically with it, routes any captured piece into the
// teammate's bank before aggregating the terminal state.
func (s *Session) ApplyMove(seat, boardIndex int, from, to board.Square, promotion board.PieceType) error {
	if seat < 0 || seat > 3 {
		return ErrBadSeat
	}
	if s.Over {
		return ErrGameOver
	}
	if boardIndex != BoardOf(seat) {
		return ErrWrongBoard
	}
	b := s.Boards[boardIndex]
	if b.Turn != ColorOf(seat) {
		return ErrNotYourTurn
	}

	captured, err := b.MakeMove(from, to, promotion)
	if err != nil {
		return err
	}
	if captured != nil {
		s.routeCapture(seat, *captured)
	}
	s.aggregate(boardIndex)
	return nil
}

// ApplyDrop places a banked piece for seat. The bank is debited only after
// the board accepted the drop; a rejected drop leaves it untouched.
func (s *Session) ApplyDrop(seat int, pt board.PieceType, to board.Square) error {
	if seat < 0 || seat > 3 {
		return ErrBadSeat
	}
	if s.Over {
		return ErrGameOver
	}
	bi := BoardOf(seat)
	b := s.Boards[bi]
	color := ColorOf(seat)
	if b.Turn != color {
		return ErrNotYourTurn
	}

	idx := -1
	for i, p := range s.Banks[seat] {
		if p.Type == pt {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPieceNotInBank
	}

	if err := b.DropPiece(pt, to, color); err != nil {
		return err
	}
	s.Banks[seat] = append(s.Banks[seat][:idx], s.Banks[seat][idx+1:]...)
	s.aggregate(bi)
	return nil
}

// routeCapture recolors the captured piece to the teammate's side and
// appends it to the teammate's bank.
func (s *Session) routeCapture(capturingSeat int, captured board.Piece) {
	mate := Teammate(capturingSeat)
	s.Banks[mate] = append(s.Banks[mate], board.Piece{
		Type:  captured.Type,
		Color: ColorOf(mate),
	})
}

// aggregate derives the session outcome from the board that just moved.
// Checkmate wins for the mating side's team; stalemate draws the session.
// Either way both boards are frozen.
func (s *Session) aggregate(boardIndex int) {
	b := s.Boards[boardIndex]
	switch {
	case b.Checkmate:
		team := TeamOf(seatFor(boardIndex, *b.Winner))
		s.Over = true
		s.Winner = &team
		s.Reason = ReasonCheckmate
		s.OverBoard = boardIndex
	case b.Stalemate:
		s.Over = true
		s.Winner = nil
		s.Reason = ReasonStalemate
		s.OverBoard = boardIndex
	}
}

// LegalMoves answers the client query for the destinations of the piece on
// from. A finished session has no moves.
func (s *Session) LegalMoves(boardIndex int, from board.Square) ([]board.Square, error) {
	if boardIndex < 0 || boardIndex > 1 {
		return nil, board.ErrOffBoard
	}
	if s.Over {
		return []board.Square{}, nil
	}
	return s.Boards[boardIndex].LegalMoves(from)
}

// DropSquares answers the client query for the squares seat could drop pt on.
func (s *Session) DropSquares(seat int, pt board.PieceType) ([]board.Square, error) {
	if seat < 0 || seat > 3 {
		return nil, ErrBadSeat
	}
	if s.Over {
		return []board.Square{}, nil
	}
	return s.Boards[BoardOf(seat)].DropSquares(pt, ColorOf(seat)), nil
}

// MoveCount is the total number of half-moves played across both boards.
func (s *Session) MoveCount() int {
	return len(s.Boards[0].History) + len(s.Boards[1].History)
}
