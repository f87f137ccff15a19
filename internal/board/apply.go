package board

// applyPiece moves the piece on from to to, handling the en-passant pawn
// removal and the castling rook relocation. It returns the captured piece,
// if any. Bookkeeping (rights, turn, history, status) is the caller's job.
func (s *State) applyPiece(from, to Square) *Piece {
	p := s.at(from)
	captured := s.at(to)

	if p.Type == Pawn && captured == nil && from.Col != to.Col &&
		s.EnPassant != nil && to == *s.EnPassant {
		// The passed pawn sits on the mover's row in the destination file.
		captured = s.Grid[from.Row][to.Col]
		s.Grid[from.Row][to.Col] = nil
	}

	if p.Type == King && from.Col == 4 && (to.Col == 6 || to.Col == 2) && from.Row == to.Row {
		if to.Col == 6 {
			s.Grid[to.Row][5] = s.Grid[to.Row][7]
			s.Grid[to.Row][7] = nil
		} else {
			s.Grid[to.Row][3] = s.Grid[to.Row][0]
			s.Grid[to.Row][0] = nil
		}
	}

	s.Grid[to.Row][to.Col] = p
	s.Grid[from.Row][from.Col] = nil
	return captured
}

// MakeMove validates and applies a move for the side to move. It returns the
// captured piece, if any, so the caller can route it to the right bank; the
// board itself knows nothing about banks.
func (s *State) MakeMove(from, to Square, promotion PieceType) (*Piece, error) {
	if !from.InBounds() || !to.InBounds() {
		return nil, ErrOffBoard
	}
	if s.Over() {
		return nil, ErrInvalidMove
	}
	p := s.at(from)
	if p == nil || p.Color != s.Turn {
		return nil, ErrInvalidMove
	}
	switch promotion {
	case "", Queen, Rook, Bishop, Knight:
	default:
		return nil, ErrBadPromotion
	}

	legal, err := s.LegalMoves(from)
	if err != nil {
		return nil, err
	}
	found := false
	for _, m := range legal {
		if m == to {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrInvalidMove
	}

	rec := Move{Kind: MoveNormal, From: &from, To: to, Piece: p}
	wasEnPassant := p.Type == Pawn && from.Col != to.Col && s.at(to) == nil
	if p.Type == King && to.Col-from.Col == 2 {
		rec.Castle = CastleKingSide
	} else if p.Type == King && from.Col-to.Col == 2 {
		rec.Castle = CastleQueenSide
	}

	captured := s.applyPiece(from, to)
	rec.Captured = captured
	rec.EnPassant = wasEnPassant && captured != nil

	if p.Type == Pawn && to.Row == promotionRow(p.Color) {
		if promotion == "" {
			promotion = Queen
		}
		s.Grid[to.Row][to.Col] = &Piece{Type: promotion, Color: p.Color}
		rec.PromotedTo = promotion
	}

	s.updateRights(p, from, to, captured)

	if p.Type == Pawn && (to.Row-from.Row == 2 || from.Row-to.Row == 2) {
		s.EnPassant = &Square{Row: (from.Row + to.Row) / 2, Col: from.Col}
	} else {
		s.EnPassant = nil
	}

	s.Turn = s.Turn.Opponent()
	s.History = append(s.History, rec)
	s.refreshStatus(p.Color)
	return captured, nil
}

// updateRights revokes castling rights when a king moves, a rook leaves its
// original corner, or a piece on a rook corner is captured.
func (s *State) updateRights(p *Piece, from, to Square, captured *Piece) {
	if p.Type == King {
		r := s.Rights.of(p.Color)
		r.KingSide, r.QueenSide = false, false
	}
	if p.Type == Rook && from.Row == homeRow(p.Color) {
		r := s.Rights.of(p.Color)
		if from.Col == 0 {
			r.QueenSide = false
		} else if from.Col == 7 {
			r.KingSide = false
		}
	}
	if captured != nil && to.Row == homeRow(captured.Color) {
		r := s.Rights.of(captured.Color)
		if to.Col == 0 {
			r.QueenSide = false
		} else if to.Col == 7 {
			r.KingSide = false
		}
	}
}

// DropPiece places a banked piece of the given color on an empty square.
// Drops never affect castling rights.
func (s *State) DropPiece(pt PieceType, to Square, c Color) error {
	if !to.InBounds() {
		return ErrOffBoard
	}
	if s.Over() || c != s.Turn {
		return ErrCannotDrop
	}
	if err := s.dropAllowed(pt, to, c); err != nil {
		return err
	}

	s.Grid[to.Row][to.Col] = &Piece{Type: pt, Color: c}
	s.EnPassant = nil
	s.Turn = s.Turn.Opponent()
	s.History = append(s.History, Move{Kind: MoveDrop, To: to, DropType: pt, Color: c})
	s.refreshStatus(c)
	return nil
}

func (s *State) dropAllowed(pt PieceType, to Square, c Color) error {
	if s.at(to) != nil {
		return ErrDropOccupied
	}
	if pt == Pawn && (to.Row == 0 || to.Row == 7) {
		return ErrDropPawnRank
	}
	sim := s.clone()
	sim.Grid[to.Row][to.Col] = &Piece{Type: pt, Color: c}
	if sim.attacked(sim.kingSquare(c), c.Opponent()) {
		return ErrDropExposesKing
	}
	return nil
}

// DropSquares lists every square where a drop of pt would currently be
// accepted. Turn order is ignored so clients can preview targets.
func (s *State) DropSquares(pt PieceType, c Color) []Square {
	out := []Square{}
	if s.Over() {
		return out
	}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := Square{Row: r, Col: f}
			if s.dropAllowed(pt, sq, c) == nil {
				out = append(out, sq)
			}
		}
	}
	return out
}

// refreshStatus recomputes check and the terminal flags for the new side to
// move after mover's transition.
func (s *State) refreshStatus(mover Color) {
	next := s.Turn
	s.Check = s.attacked(s.kingSquare(next), mover)
	if s.hasAnyLegalMove(next) {
		s.Checkmate, s.Stalemate = false, false
		return
	}
	if s.Check {
		s.Checkmate = true
		w := mover
		s.Winner = &w
	} else {
		s.Stalemate = true
	}
}
