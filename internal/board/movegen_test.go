package board

import (
	"errors"
	"testing"
)

// bare position with no castling rights; tests place pieces directly.
func emptyBoard(turn Color) *State {
	return &State{Turn: turn, History: []Move{}}
}

func place(s *State, row, col int, pt PieceType, c Color) {
	s.Grid[row][col] = &Piece{Type: pt, Color: c}
}

func mustMoves(t *testing.T, s *State, from Square) []Square {
	t.Helper()
	moves, err := s.LegalMoves(from)
	if err != nil {
		t.Fatalf("LegalMoves(%v): %v", from, err)
	}
	return moves
}

func containsSquare(moves []Square, sq Square) bool {
	for _, m := range moves {
		if m == sq {
			return true
		}
	}
	return false
}

func TestInitialPosition(t *testing.T) {
	s := NewState()

	if s.Turn != White {
		t.Fatalf("want white to move, got %s", s.Turn)
	}
	if !s.Rights.White.KingSide || !s.Rights.White.QueenSide ||
		!s.Rights.Black.KingSide || !s.Rights.Black.QueenSide {
		t.Fatalf("expected full castling rights, got %+v", s.Rights)
	}

	count := 0
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if s.Grid[r][f] != nil {
				count++
			}
		}
	}
	if count != 32 {
		t.Fatalf("want 32 pieces, got %d", count)
	}
	if p := s.Grid[0][4]; p == nil || p.Type != King || p.Color != Black {
		t.Fatalf("black king missing from (0,4): %+v", p)
	}
	if p := s.Grid[7][4]; p == nil || p.Type != King || p.Color != White {
		t.Fatalf("white king missing from (7,4): %+v", p)
	}
}

func TestPawnMoves(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(*State)
		from    Square
		want    []Square
		notWant []Square
	}{
		{
			name:  "white pawn single and double step from start",
			setup: func(s *State) {},
			from:  Square{6, 4},
			want:  []Square{{5, 4}, {4, 4}},
		},
		{
			name: "double step blocked by piece on intermediate square",
			setup: func(s *State) {
				place(s, 5, 4, Knight, Black)
			},
			from:    Square{6, 4},
			notWant: []Square{{5, 4}, {4, 4}},
		},
		{
			name: "diagonal only when capturing",
			setup: func(s *State) {
				place(s, 5, 3, Knight, Black)
			},
			from:    Square{6, 4},
			want:    []Square{{5, 3}},
			notWant: []Square{{5, 5}},
		},
		{
			name: "no forward capture",
			setup: func(s *State) {
				place(s, 5, 4, Knight, Black)
			},
			from:    Square{6, 4},
			notWant: []Square{{5, 4}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			tc.setup(s)
			moves := mustMoves(t, s, tc.from)
			for _, w := range tc.want {
				if !containsSquare(moves, w) {
					t.Fatalf("want %v in %v", w, moves)
				}
			}
			for _, nw := range tc.notWant {
				if containsSquare(moves, nw) {
					t.Fatalf("did not want %v in %v", nw, moves)
				}
			}
		})
	}
}

func TestEnPassantNotOfferedToTheDoubleSteppingSide(t *testing.T) {
	s := NewState()
	if _, err := s.MakeMove(Square{6, 4}, Square{4, 4}, ""); err != nil {
		t.Fatalf("e2-e4: %v", err)
	}
	if s.EnPassant == nil || *s.EnPassant != (Square{5, 4}) {
		t.Fatalf("want en passant target (5,4), got %v", s.EnPassant)
	}

	// d2 belongs to the side that just double-stepped. Its diagonal to the
	// target square has no enemy pawn behind it, so no capture is listed.
	moves := mustMoves(t, s, Square{6, 3})
	if containsSquare(moves, Square{5, 4}) {
		t.Fatalf("phantom en passant destination for d2: %v", moves)
	}
}

func TestKnightIgnoresBlockers(t *testing.T) {
	s := NewState()
	moves := mustMoves(t, s, Square{7, 1})
	if !containsSquare(moves, Square{5, 0}) || !containsSquare(moves, Square{5, 2}) {
		t.Fatalf("knight from b1 should reach a3 and c3, got %v", moves)
	}
	if containsSquare(moves, Square{6, 3}) {
		t.Fatalf("knight cannot land on own pawn, got %v", moves)
	}
}

func TestSlidingStopsAtBlocker(t *testing.T) {
	s := emptyBoard(White)
	place(s, 7, 4, King, White)
	place(s, 0, 4, King, Black)
	place(s, 4, 0, Rook, White)
	place(s, 4, 5, Pawn, Black)
	place(s, 4, 2, Pawn, White)

	moves := mustMoves(t, s, Square{4, 0})
	if containsSquare(moves, Square{4, 2}) {
		t.Fatalf("rook cannot capture own pawn: %v", moves)
	}
	if !containsSquare(moves, Square{4, 1}) || !containsSquare(moves, Square{4, 5}) {
		t.Fatalf("rook should reach b4 and capture on f4: %v", moves)
	}
	if containsSquare(moves, Square{4, 6}) {
		t.Fatalf("rook cannot slide past the enemy pawn: %v", moves)
	}
}

func TestCastlingGating(t *testing.T) {
	base := func() *State {
		s := emptyBoard(White)
		s.Rights.White = CastlingRights{KingSide: true, QueenSide: true}
		place(s, 7, 4, King, White)
		place(s, 7, 7, Rook, White)
		place(s, 7, 0, Rook, White)
		place(s, 0, 4, King, Black)
		return s
	}
	kingFrom := Square{7, 4}
	kingSide := Square{7, 6}
	queenSide := Square{7, 2}

	cases := []struct {
		name  string
		setup func(*State)
		want  map[Square]bool
	}{
		{
			name:  "both sides open",
			setup: func(s *State) {},
			want:  map[Square]bool{kingSide: true, queenSide: true},
		},
		{
			name:  "rights revoked",
			setup: func(s *State) { s.Rights.White = CastlingRights{} },
			want:  map[Square]bool{kingSide: false, queenSide: false},
		},
		{
			name:  "piece between king and rook",
			setup: func(s *State) { place(s, 7, 5, Bishop, White) },
			want:  map[Square]bool{kingSide: false, queenSide: true},
		},
		{
			name:  "b1 blocks queen side only",
			setup: func(s *State) { place(s, 7, 1, Knight, White) },
			want:  map[Square]bool{kingSide: true, queenSide: false},
		},
		{
			name:  "king in check",
			setup: func(s *State) { place(s, 0, 4, Rook, Black); place(s, 0, 3, King, Black) },
			want:  map[Square]bool{kingSide: false, queenSide: false},
		},
		{
			name:  "transit square attacked",
			setup: func(s *State) { place(s, 0, 5, Rook, Black) },
			want:  map[Square]bool{kingSide: false, queenSide: true},
		},
		{
			name:  "destination attacked",
			setup: func(s *State) { place(s, 0, 6, Rook, Black) },
			want:  map[Square]bool{kingSide: false, queenSide: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			tc.setup(s)
			moves := mustMoves(t, s, kingFrom)
			for sq, want := range tc.want {
				if got := containsSquare(moves, sq); got != want {
					t.Fatalf("castle to %v: got %v, want %v (moves %v)", sq, got, want, moves)
				}
			}
		})
	}
}

func TestPinnedPieceCannotLeaveFile(t *testing.T) {
	s := emptyBoard(White)
	place(s, 7, 4, King, White)
	place(s, 5, 4, Rook, White)
	place(s, 0, 4, Rook, Black)
	place(s, 0, 0, King, Black)

	moves := mustMoves(t, s, Square{5, 4})
	if len(moves) == 0 {
		t.Fatalf("pinned rook can still slide along the pin")
	}
	for _, m := range moves {
		if m.Col != 4 {
			t.Fatalf("pinned rook left the e-file: %v", m)
		}
	}
}

func TestKingCannotMoveIntoCheck(t *testing.T) {
	s := emptyBoard(White)
	place(s, 7, 4, King, White)
	place(s, 0, 3, Rook, Black)
	place(s, 0, 0, King, Black)

	moves := mustMoves(t, s, Square{7, 4})
	if containsSquare(moves, Square{7, 3}) || containsSquare(moves, Square{6, 3}) {
		t.Fatalf("king may not step onto the attacked d-file: %v", moves)
	}
	if !containsSquare(moves, Square{7, 5}) {
		t.Fatalf("king should still have f1: %v", moves)
	}
}

func TestLegalMovesValidation(t *testing.T) {
	s := NewState()
	if _, err := s.LegalMoves(Square{8, 0}); !errors.Is(err, ErrOffBoard) {
		t.Fatalf("want ErrOffBoard, got %v", err)
	}
	moves, err := s.LegalMoves(Square{4, 4})
	if err != nil || len(moves) != 0 {
		t.Fatalf("empty square should yield no moves, got %v, %v", moves, err)
	}
}
