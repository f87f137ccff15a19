package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bughouse-gg/backend/internal/board"
)

func TestSeatMapping(t *testing.T) {
	cases := []struct {
		seat     int
		board    int
		teammate int
		team     Team
		color    board.Color
	}{
		{seat: 0, board: 0, teammate: 2, team: TeamA, color: board.White},
		{seat: 1, board: 0, teammate: 3, team: TeamB, color: board.Black},
		{seat: 2, board: 1, teammate: 0, team: TeamA, color: board.Black},
		{seat: 3, board: 1, teammate: 1, team: TeamB, color: board.White},
	}
	for _, tc := range cases {
		require.Equal(t, tc.board, BoardOf(tc.seat), "board of seat %d", tc.seat)
		require.Equal(t, tc.teammate, Teammate(tc.seat), "teammate of seat %d", tc.seat)
		require.Equal(t, tc.team, TeamOf(tc.seat), "team of seat %d", tc.seat)
		require.Equal(t, tc.color, ColorOf(tc.seat), "color of seat %d", tc.seat)
	}
}

func TestNewSessionIsEmpty(t *testing.T) {
	s := New()
	require.False(t, s.Over)
	require.Nil(t, s.Winner)
	for seat, bank := range s.Banks {
		require.Empty(t, bank, "bank %d", seat)
	}
	require.Equal(t, board.White, s.Boards[0].Turn)
	require.Equal(t, board.White, s.Boards[1].Turn)
}

func TestApplyMoveGuards(t *testing.T) {
	s := New()

	// Seat 0 owns board 0, not board 1.
	err := s.ApplyMove(0, 1, board.Square{Row: 6, Col: 4}, board.Square{Row: 4, Col: 4}, "")
	require.ErrorIs(t, err, ErrWrongBoard)

	// Seat 1 is black; white moves first.
	err = s.ApplyMove(1, 0, board.Square{Row: 1, Col: 4}, board.Square{Row: 3, Col: 4}, "")
	require.ErrorIs(t, err, ErrNotYourTurn)

	err = s.ApplyMove(7, 0, board.Square{Row: 6, Col: 4}, board.Square{Row: 4, Col: 4}, "")
	require.ErrorIs(t, err, ErrBadSeat)

	// A board rejection passes through untouched.
	err = s.ApplyMove(0, 0, board.Square{Row: 6, Col: 4}, board.Square{Row: 3, Col: 4}, "")
	require.ErrorIs(t, err, board.ErrInvalidMove)
}

func TestCaptureRoutesToTeammateBank(t *testing.T) {
	s := New()

	// Board 0: white wins a knight on c6 with the d-pawn.
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 6, Col: 3}, board.Square{Row: 4, Col: 3}, ""))
	require.NoError(t, s.ApplyMove(1, 0, board.Square{Row: 0, Col: 1}, board.Square{Row: 2, Col: 2}, ""))
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 4, Col: 3}, board.Square{Row: 3, Col: 3}, ""))
	require.NoError(t, s.ApplyMove(1, 0, board.Square{Row: 1, Col: 0}, board.Square{Row: 2, Col: 0}, ""))
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 3, Col: 3}, board.Square{Row: 2, Col: 2}, ""))

	// The knight lands in seat 2's bank, recolored to seat 2's side, and
	// nowhere else.
	require.Len(t, s.Banks[2], 1)
	require.Equal(t, board.Piece{Type: board.Knight, Color: board.Black}, s.Banks[2][0])
	require.Empty(t, s.Banks[0])
	require.Empty(t, s.Banks[1])
	require.Empty(t, s.Banks[3])

	// Board 1: seat 3 (white) opens, then seat 2 drops the banked knight on
	// any empty square; no rank restriction applies to knights.
	require.NoError(t, s.ApplyMove(3, 1, board.Square{Row: 6, Col: 4}, board.Square{Row: 4, Col: 4}, ""))
	require.NoError(t, s.ApplyDrop(2, board.Knight, board.Square{Row: 4, Col: 3}))

	require.Empty(t, s.Banks[2])
	dropped := s.Boards[1].Grid[4][3]
	require.NotNil(t, dropped)
	require.Equal(t, board.Knight, dropped.Type)
	require.Equal(t, board.Black, dropped.Color)
}

func TestApplyDropGuards(t *testing.T) {
	s := New()

	// Empty bank.
	require.NoError(t, s.ApplyMove(3, 1, board.Square{Row: 6, Col: 4}, board.Square{Row: 4, Col: 4}, ""))
	err := s.ApplyDrop(2, board.Knight, board.Square{Row: 4, Col: 3})
	require.ErrorIs(t, err, ErrPieceNotInBank)

	// Stock a bank by hand and try to drop out of turn.
	s.Banks[3] = append(s.Banks[3], board.Piece{Type: board.Rook, Color: board.White})
	err = s.ApplyDrop(3, board.Rook, board.Square{Row: 4, Col: 0})
	require.ErrorIs(t, err, ErrNotYourTurn)
	require.Len(t, s.Banks[3], 1, "rejected drop must not debit the bank")

	// Board rejection leaves the bank untouched too.
	s.Banks[2] = append(s.Banks[2], board.Piece{Type: board.Pawn, Color: board.Black})
	err = s.ApplyDrop(2, board.Pawn, board.Square{Row: 7, Col: 3})
	require.ErrorIs(t, err, board.ErrCannotDrop)
	require.Len(t, s.Banks[2], 1)
}

func TestCheckmateEndsSession(t *testing.T) {
	s := New()

	// Fool's mate on board 0: seat 1 (black) delivers checkmate.
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 6, Col: 5}, board.Square{Row: 5, Col: 5}, ""))
	require.NoError(t, s.ApplyMove(1, 0, board.Square{Row: 1, Col: 4}, board.Square{Row: 3, Col: 4}, ""))
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 6, Col: 6}, board.Square{Row: 4, Col: 6}, ""))
	require.NoError(t, s.ApplyMove(1, 0, board.Square{Row: 0, Col: 3}, board.Square{Row: 4, Col: 7}, ""))

	require.True(t, s.Over)
	require.NotNil(t, s.Winner)
	require.Equal(t, TeamB, *s.Winner)
	require.Equal(t, ReasonCheckmate, s.Reason)
	require.Equal(t, 0, s.OverBoard)

	// No further moves on either board, including the one still in progress.
	err := s.ApplyMove(3, 1, board.Square{Row: 6, Col: 4}, board.Square{Row: 4, Col: 4}, "")
	require.ErrorIs(t, err, ErrGameOver)

	moves, err := s.LegalMoves(1, board.Square{Row: 6, Col: 4})
	require.NoError(t, err)
	require.Empty(t, moves)
	squares, err := s.DropSquares(2, board.Knight)
	require.NoError(t, err)
	require.Empty(t, squares)
}

// pieceCensus tallies (color,type) pairs across both boards and all banks.
func pieceCensus(s *Session) map[board.Piece]int {
	counts := map[board.Piece]int{}
	for _, b := range s.Boards {
		for r := 0; r < 8; r++ {
			for f := 0; f < 8; f++ {
				if p := b.Grid[r][f]; p != nil {
					counts[*p]++
				}
			}
		}
	}
	for _, bank := range s.Banks {
		for _, p := range bank {
			counts[p]++
		}
	}
	return counts
}

func TestPieceConservation(t *testing.T) {
	s := New()
	before := pieceCensus(s)

	// A capture on each board plus a drop; with partners on opposite colors
	// the bank transfer preserves the (color,type) multiset exactly.
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 6, Col: 4}, board.Square{Row: 4, Col: 4}, ""))
	require.NoError(t, s.ApplyMove(1, 0, board.Square{Row: 1, Col: 3}, board.Square{Row: 3, Col: 3}, ""))
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 4, Col: 4}, board.Square{Row: 3, Col: 3}, "")) // exd5
	require.NoError(t, s.ApplyMove(3, 1, board.Square{Row: 6, Col: 3}, board.Square{Row: 4, Col: 3}, ""))
	require.NoError(t, s.ApplyMove(2, 1, board.Square{Row: 1, Col: 4}, board.Square{Row: 3, Col: 4}, ""))
	require.NoError(t, s.ApplyMove(3, 1, board.Square{Row: 4, Col: 3}, board.Square{Row: 3, Col: 4}, "")) // dxe5
	require.NoError(t, s.ApplyMove(1, 0, board.Square{Row: 1, Col: 0}, board.Square{Row: 2, Col: 0}, ""))
	require.NoError(t, s.ApplyMove(0, 0, board.Square{Row: 7, Col: 6}, board.Square{Row: 5, Col: 5}, ""))
	// Seat 3's capture banked a pawn for seat 1; drop it back onto board 0.
	require.NoError(t, s.ApplyDrop(1, board.Pawn, board.Square{Row: 4, Col: 0}))

	require.Equal(t, before, pieceCensus(s))
}

func TestQueriesValidateInput(t *testing.T) {
	s := New()
	_, err := s.LegalMoves(2, board.Square{Row: 0, Col: 0})
	require.Error(t, err)
	_, err = s.DropSquares(9, board.Pawn)
	require.ErrorIs(t, err, ErrBadSeat)
}
