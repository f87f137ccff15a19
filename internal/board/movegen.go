package board

var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

var kingOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

var rookDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
var bishopDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// LegalMoves returns every destination the piece on from may move to,
// including castling destinations for the king. The piece's color does not
// have to match the side to move; turn gating happens in MakeMove.
func (s *State) LegalMoves(from Square) ([]Square, error) {
	if !from.InBounds() {
		return nil, ErrOffBoard
	}
	p := s.at(from)
	if p == nil {
		return []Square{}, nil
	}

	out := []Square{}
	for _, to := range s.pseudoMoves(from, p) {
		if !s.exposesKing(from, to, p.Color) {
			out = append(out, to)
		}
	}
	return out, nil
}

// pseudoMoves generates candidate destinations without checking whether the
// mover's own king ends up attacked.
func (s *State) pseudoMoves(from Square, p *Piece) []Square {
	switch p.Type {
	case Pawn:
		return s.pawnMoves(from, p.Color)
	case Knight:
		return s.offsetMoves(from, p.Color, knightOffsets[:])
	case Bishop:
		return s.slideMoves(from, p.Color, bishopDirs[:])
	case Rook:
		return s.slideMoves(from, p.Color, rookDirs[:])
	case Queen:
		moves := s.slideMoves(from, p.Color, rookDirs[:])
		return append(moves, s.slideMoves(from, p.Color, bishopDirs[:])...)
	case King:
		moves := s.offsetMoves(from, p.Color, kingOffsets[:])
		return append(moves, s.castleMoves(from, p.Color)...)
	}
	return nil
}

func (s *State) pawnMoves(from Square, c Color) []Square {
	moves := []Square{}
	dir := pawnDir(c)
	startRow := homeRow(c) + dir

	one := Square{Row: from.Row + dir, Col: from.Col}
	if one.InBounds() && s.at(one) == nil {
		moves = append(moves, one)
		two := Square{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == startRow && two.InBounds() && s.at(two) == nil {
			moves = append(moves, two)
		}
	}

	for _, dc := range []int{-1, 1} {
		diag := Square{Row: from.Row + dir, Col: from.Col + dc}
		if !diag.InBounds() {
			continue
		}
		if t := s.at(diag); t != nil && t.Color != c {
			moves = append(moves, diag)
		} else if t == nil && s.EnPassant != nil && diag == *s.EnPassant {
			// The passed pawn must actually be there; the target square
			// alone also matches pawns of the side that just double-stepped.
			if pp := s.Grid[from.Row][diag.Col]; pp != nil && pp.Type == Pawn && pp.Color != c {
				moves = append(moves, diag)
			}
		}
	}
	return moves
}

func (s *State) offsetMoves(from Square, c Color, offsets [][2]int) []Square {
	moves := []Square{}
	for _, d := range offsets {
		to := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
		if !to.InBounds() {
			continue
		}
		if t := s.at(to); t == nil || t.Color != c {
			moves = append(moves, to)
		}
	}
	return moves
}

func (s *State) slideMoves(from Square, c Color, dirs [][2]int) []Square {
	moves := []Square{}
	for _, d := range dirs {
		to := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
		for to.InBounds() {
			t := s.at(to)
			if t == nil {
				moves = append(moves, to)
			} else {
				if t.Color != c {
					moves = append(moves, to)
				}
				break
			}
			to = Square{Row: to.Row + d[0], Col: to.Col + d[1]}
		}
	}
	return moves
}

// castleMoves offers castling destinations when the rights flag is still set,
// the squares between king and rook are empty, and the king's start, transit
// and destination squares are all unattacked.
func (s *State) castleMoves(from Square, c Color) []Square {
	row := homeRow(c)
	if from.Row != row || from.Col != 4 {
		return nil
	}
	enemy := c.Opponent()
	if s.attacked(from, enemy) {
		return nil
	}

	moves := []Square{}
	rights := s.Rights.of(c)
	if rights.KingSide &&
		s.Grid[row][5] == nil && s.Grid[row][6] == nil &&
		!s.attacked(Square{Row: row, Col: 5}, enemy) &&
		!s.attacked(Square{Row: row, Col: 6}, enemy) {
		moves = append(moves, Square{Row: row, Col: 6})
	}
	if rights.QueenSide &&
		s.Grid[row][1] == nil && s.Grid[row][2] == nil && s.Grid[row][3] == nil &&
		!s.attacked(Square{Row: row, Col: 3}, enemy) &&
		!s.attacked(Square{Row: row, Col: 2}, enemy) {
		moves = append(moves, Square{Row: row, Col: 2})
	}
	return moves
}

// attacked reports whether any piece of color by attacks sq. Full-board scan;
// move volume per query is small enough that no incremental attack map is
// kept.
func (s *State) attacked(sq Square, by Color) bool {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := s.Grid[r][f]
			if p == nil || p.Color != by {
				continue
			}
			if s.pieceAttacks(Square{Row: r, Col: f}, p, sq) {
				return true
			}
		}
	}
	return false
}

func (s *State) pieceAttacks(from Square, p *Piece, sq Square) bool {
	switch p.Type {
	case Pawn:
		dir := pawnDir(p.Color)
		return sq.Row == from.Row+dir && (sq.Col == from.Col-1 || sq.Col == from.Col+1)
	case Knight:
		return offsetHits(from, sq, knightOffsets[:])
	case King:
		return offsetHits(from, sq, kingOffsets[:])
	case Bishop:
		return s.rayHits(from, sq, bishopDirs[:])
	case Rook:
		return s.rayHits(from, sq, rookDirs[:])
	case Queen:
		return s.rayHits(from, sq, rookDirs[:]) || s.rayHits(from, sq, bishopDirs[:])
	}
	return false
}

func offsetHits(from, sq Square, offsets [][2]int) bool {
	for _, d := range offsets {
		if sq.Row == from.Row+d[0] && sq.Col == from.Col+d[1] {
			return true
		}
	}
	return false
}

func (s *State) rayHits(from, sq Square, dirs [][2]int) bool {
	for _, d := range dirs {
		to := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
		for to.InBounds() {
			if to == sq {
				return true
			}
			if s.at(to) != nil {
				break
			}
			to = Square{Row: to.Row + d[0], Col: to.Col + d[1]}
		}
	}
	return false
}

// exposesKing simulates the candidate on a cloned board, including the rook
// relocation for castling and the pawn removal for en passant, and reports
// whether the mover's own king is attacked afterwards.
func (s *State) exposesKing(from, to Square, c Color) bool {
	sim := s.clone()
	sim.applyPiece(from, to)
	return sim.attacked(sim.kingSquare(c), c.Opponent())
}

// hasAnyLegalMove reports whether any piece of color c has at least one legal
// destination. Used for checkmate/stalemate detection.
func (s *State) hasAnyLegalMove(c Color) bool {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := s.Grid[r][f]
			if p == nil || p.Color != c {
				continue
			}
			moves, _ := s.LegalMoves(Square{Row: r, Col: f})
			if len(moves) > 0 {
				return true
			}
		}
	}
	return false
}
