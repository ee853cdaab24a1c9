package board

// genFilter selects which subset of legal moves a generation pass produces.
type genFilter int

const (
	genAll genFilter = iota
	genCaptures
	genQuiets
)

// checkState bundles the per-node check/pin computation the legality filter
// needs, built once per GenerateLegalMoves call rather than per candidate
// move.
type checkState struct {
	inCheck     bool
	doubleCheck bool
	checkMask   Bitboard // squares a move must land on to resolve a single check; empty when not in check or in double check
	pinLine     [64]Bitboard
}

func (pos *Position) computeCheckState() checkState {
	t := pos.tables
	us := pos.sideToMove
	them := us.Opponent()
	ksq := pos.KingSquare(us)
	occ := pos.occ

	var cs checkState
	var checkers Bitboard
	checkers |= t.PawnAttacks(us, ksq) & pos.pieces[them][Pawn]
	checkers |= t.KnightAttacks(ksq) & pos.pieces[them][Knight]
	diagSliders := pos.pieces[them][Bishop] | pos.pieces[them][Queen]
	checkers |= t.BishopAttacks(ksq, occ) & diagSliders
	orthoSliders := pos.pieces[them][Rook] | pos.pieces[them][Queen]
	checkers |= t.RookAttacks(ksq, occ) & orthoSliders

	cs.inCheck = checkers != 0
	cs.doubleCheck = cs.inCheck && (checkers&(checkers-1)) != 0

	if cs.inCheck && !cs.doubleCheck {
		var checkerSq Bitboard = checkers
		csq := popLSB(&checkerSq)
		cs.checkMask = csq.Bit() | t.Between(ksq, csq)
	}

	// Pins: an enemy diagonal slider aligned with our king on a diagonal,
	// or an enemy orthogonal slider aligned on a rank/file, with exactly
	// one blocker (ours) strictly between, pins that blocker to the line.
	kf, kr := ksq.File(), ksq.Rank()
	for bb := diagSliders; bb != 0; {
		s := popLSB(&bb)
		df, dr := s.File()-kf, s.Rank()-kr
		if df == 0 || abs(df) != abs(dr) {
			continue
		}
		between := t.Between(ksq, s) & occ
		if countBits(between) != 1 {
			continue
		}
		var bbb Bitboard = between
		blocker := popLSB(&bbb)
		if pos.mailbox[blocker] != NoPiece && pos.mailbox[blocker].Color() == us {
			cs.pinLine[blocker] = t.Line(ksq, s)
		}
	}
	for bb := orthoSliders; bb != 0; {
		s := popLSB(&bb)
		df, dr := s.File()-kf, s.Rank()-kr
		if df != 0 && dr != 0 {
			continue
		}
		between := t.Between(ksq, s) & occ
		if countBits(between) != 1 {
			continue
		}
		var bbb Bitboard = between
		blocker := popLSB(&bbb)
		if pos.mailbox[blocker] != NoPiece && pos.mailbox[blocker].Color() == us {
			cs.pinLine[blocker] = t.Line(ksq, s)
		}
	}
	return cs
}

// GenerateLegalMoves appends the exact set of legal moves for the side to
// move into dst and returns the resulting slice. dst is truncated (len 0)
// and reused.
func (pos *Position) GenerateLegalMoves(dst []Move) []Move {
	return pos.generateFiltered(dst, genAll)
}

// GenerateCaptures appends legal captures (including en passant and capture
// promotions) only; used by quiescence search.
func (pos *Position) GenerateCaptures(dst []Move) []Move {
	return pos.generateFiltered(dst, genCaptures)
}

// GenerateQuiets appends legal non-capturing moves only.
func (pos *Position) GenerateQuiets(dst []Move) []Move {
	return pos.generateFiltered(dst, genQuiets)
}

func (pos *Position) generateFiltered(dst []Move, filter genFilter) []Move {
	moves := dst[:0]
	t := pos.tables
	us := pos.sideToMove
	them := us.Opponent()
	ownOcc := pos.colorOcc[us]
	oppOcc := pos.colorOcc[them]
	occ := pos.occ

	cs := pos.computeCheckState()

	appendTargets := func(from Square, targets Bitboard, promo PieceKind) {
		if cs.doubleCheck {
			return
		}
		if pin := cs.pinLine[from]; pin != 0 {
			targets &= pin
		}
		if cs.inCheck {
			targets &= cs.checkMask
		}
		if filter == genCaptures {
			targets &= oppOcc
		} else if filter == genQuiets {
			targets &^= oppOcc
		}
		for t := targets; t != 0; {
			to := popLSB(&t)
			isCap := oppOcc&to.Bit() != 0
			flag := FlagQuiet
			if isCap {
				flag = FlagCapture
			}
			if promo != NoKind {
				flag = promoFlag(promo, isCap)
			}
			moves = append(moves, NewMove(from, to, flag))
		}
	}

	// Pawns
	for bb := pos.pieces[us][Pawn]; !cs.doubleCheck && bb != 0; {
		from := popLSB(&bb)
		pin := cs.pinLine[from]

		var single, double Bitboard
		if us == White {
			if from.Rank() < 7 {
				single = SquareOf(from.File(), from.Rank()+1).Bit() &^ occ
			}
		} else {
			if from.Rank() > 0 {
				single = SquareOf(from.File(), from.Rank()-1).Bit() &^ occ
			}
		}
		if single != 0 {
			startRank := 1
			dir := 1
			if us == Black {
				startRank, dir = 6, -1
			}
			if from.Rank() == startRank {
				double = SquareOf(from.File(), from.Rank()+2*dir).Bit() &^ occ
			}
		}
		pushes := single | double
		if filter != genCaptures {
			if pin != 0 {
				pushes &= pin
			}
			if cs.inCheck {
				pushes &= cs.checkMask
			}
			for pb := pushes; pb != 0; {
				to := popLSB(&pb)
				promoRank := to.Rank() == 7
				if us == Black {
					promoRank = to.Rank() == 0
				}
				isDouble := abs(to.Rank()-from.Rank()) == 2
				switch {
				case promoRank:
					for _, k := range []PieceKind{Queen, Rook, Bishop, Knight} {
						moves = append(moves, NewMove(from, to, promoFlag(k, false)))
					}
				case isDouble:
					moves = append(moves, NewMove(from, to, FlagDoublePawnPush))
				default:
					moves = append(moves, NewMove(from, to, FlagQuiet))
				}
			}
		}

		if filter != genQuiets {
			caps := t.PawnAttacks(us, from) & oppOcc
			capsFiltered := caps
			if pin != 0 {
				capsFiltered &= pin
			}
			if cs.inCheck {
				capsFiltered &= cs.checkMask
			}
			for cb := capsFiltered; cb != 0; {
				to := popLSB(&cb)
				promoRank := to.Rank() == 7
				if us == Black {
					promoRank = to.Rank() == 0
				}
				if promoRank {
					for _, k := range []PieceKind{Queen, Rook, Bishop, Knight} {
						moves = append(moves, NewMove(from, to, promoFlag(k, true)))
					}
				} else {
					moves = append(moves, NewMove(from, to, FlagCapture))
				}
			}

			if pos.epSquare != NoSquare && t.PawnAttacks(us, from)&pos.epSquare.Bit() != 0 {
				if pos.epLegal(from, pos.epSquare, us, &cs) {
					moves = append(moves, NewMove(from, pos.epSquare, FlagEnPassant))
				}
			}
		}
	}

	if !cs.doubleCheck {
		for bb := pos.pieces[us][Knight]; bb != 0; {
			from := popLSB(&bb)
			appendTargets(from, t.KnightAttacks(from)&^ownOcc, NoKind)
		}
		for bb := pos.pieces[us][Bishop]; bb != 0; {
			from := popLSB(&bb)
			appendTargets(from, t.BishopAttacks(from, occ)&^ownOcc, NoKind)
		}
		for bb := pos.pieces[us][Rook]; bb != 0; {
			from := popLSB(&bb)
			appendTargets(from, t.RookAttacks(from, occ)&^ownOcc, NoKind)
		}
		for bb := pos.pieces[us][Queen]; bb != 0; {
			from := popLSB(&bb)
			appendTargets(from, t.QueenAttacks(from, occ)&^ownOcc, NoKind)
		}
	}

	// King
	if pos.pieces[us][King] != 0 {
		from := pos.KingSquare(us)
		targets := t.KingAttacks(from) &^ ownOcc
		for tb := targets; tb != 0; {
			to := popLSB(&tb)
			isCap := oppOcc&to.Bit() != 0
			if filter == genCaptures && !isCap {
				continue
			}
			if filter == genQuiets && isCap {
				continue
			}
			occAfter := (occ &^ from.Bit() &^ to.Bit()) | to.Bit()
			if pos.isAttackedWithOcc(to, them, occAfter) {
				continue
			}
			flag := FlagQuiet
			if isCap {
				flag = FlagCapture
			}
			moves = append(moves, NewMove(from, to, flag))
		}

		if filter != genCaptures && !cs.inCheck {
			moves = pos.appendCastles(moves, us, occ)
		}
	}

	return moves
}

func promoFlag(k PieceKind, capture bool) MoveFlag {
	switch {
	case !capture && k == Knight:
		return FlagPromoKnight
	case !capture && k == Bishop:
		return FlagPromoBishop
	case !capture && k == Rook:
		return FlagPromoRook
	case !capture && k == Queen:
		return FlagPromoQueen
	case capture && k == Knight:
		return FlagCapturePromoKnight
	case capture && k == Bishop:
		return FlagCapturePromoBishop
	case capture && k == Rook:
		return FlagCapturePromoRook
	default:
		return FlagCapturePromoQueen
	}
}

func (pos *Position) appendCastles(moves []Move, us Color, occ Bitboard) []Move {
	them := us.Opponent()
	if us == White {
		if pos.castling&WhiteKingside != 0 &&
			pos.mailbox[5] == NoPiece && pos.mailbox[6] == NoPiece &&
			!pos.isAttackedWithOcc(5, them, occ) && !pos.isAttackedWithOcc(6, them, occ) {
			moves = append(moves, NewMove(4, 6, FlagShortCastle))
		}
		if pos.castling&WhiteQueenside != 0 &&
			pos.mailbox[1] == NoPiece && pos.mailbox[2] == NoPiece && pos.mailbox[3] == NoPiece &&
			!pos.isAttackedWithOcc(3, them, occ) && !pos.isAttackedWithOcc(2, them, occ) {
			moves = append(moves, NewMove(4, 2, FlagLongCastle))
		}
	} else {
		if pos.castling&BlackKingside != 0 &&
			pos.mailbox[61] == NoPiece && pos.mailbox[62] == NoPiece &&
			!pos.isAttackedWithOcc(61, them, occ) && !pos.isAttackedWithOcc(62, them, occ) {
			moves = append(moves, NewMove(60, 62, FlagShortCastle))
		}
		if pos.castling&BlackQueenside != 0 &&
			pos.mailbox[59] == NoPiece && pos.mailbox[58] == NoPiece && pos.mailbox[57] == NoPiece &&
			!pos.isAttackedWithOcc(59, them, occ) && !pos.isAttackedWithOcc(58, them, occ) {
			moves = append(moves, NewMove(60, 58, FlagLongCastle))
		}
	}
	return moves
}

// isAttackedWithOcc is isAttacked against an explicit (possibly hypothetical)
// occupancy, used for king-move and castling safety checks where the real
// occupancy hasn't been committed yet.
func (pos *Position) isAttackedWithOcc(s Square, by Color, occ Bitboard) bool {
	t := pos.tables
	if t.PawnAttacks(by.Opponent(), s)&pos.pieces[by][Pawn] != 0 {
		return true
	}
	if t.KnightAttacks(s)&pos.pieces[by][Knight] != 0 {
		return true
	}
	if t.KingAttacks(s)&pos.pieces[by][King] != 0 {
		return true
	}
	bishops := pos.pieces[by][Bishop] | pos.pieces[by][Queen]
	if t.BishopAttacks(s, occ)&bishops != 0 {
		return true
	}
	rooks := pos.pieces[by][Rook] | pos.pieces[by][Queen]
	if t.RookAttacks(s, occ)&rooks != 0 {
		return true
	}
	return false
}

// epLegal re-checks an en-passant capture for the discovered-check case a
// normal pin mask misses: both the capturing and captured pawn leave the
// fifth rank, which can expose a rook/queen pin along that rank that the
// capturing pawn's own pin state (computed as if only it moved) does not
// see.
func (pos *Position) epLegal(from, to Square, us Color, cs *checkState) bool {
	if cs.doubleCheck {
		return false
	}
	them := us.Opponent()
	capSq := to - 8
	if us == Black {
		capSq = to + 8
	}
	if cs.inCheck {
		// The capture must resolve the check: either capturing the
		// checking pawn itself, or landing on the check-blocking mask.
		if cs.checkMask&capSq.Bit() == 0 && cs.checkMask&to.Bit() == 0 {
			return false
		}
	}
	occAfter := pos.occ &^ from.Bit() &^ capSq.Bit() | to.Bit()
	ksq := pos.KingSquare(us)
	t := pos.tables
	rooks := pos.pieces[them][Rook] | pos.pieces[them][Queen]
	if t.RookAttacks(ksq, occAfter)&rooks != 0 {
		return false
	}
	bishops := pos.pieces[them][Bishop] | pos.pieces[them][Queen]
	if t.BishopAttacks(ksq, occAfter)&bishops != 0 {
		return false
	}
	return true
}
