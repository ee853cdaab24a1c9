package board

// Make applies move, which is trusted to be legal in the current position
// (produced by GenerateLegalMoves, or otherwise known-legal); illegal moves
// passed here are a programmer error, not a runtime failure. Make pushes an
// undo record; the matching Unmake restores the position exactly, hash
// included.
func (pos *Position) Make(m Move) {
	t := pos.tables
	us := pos.sideToMove
	them := us.Opponent()
	from, to, flag := m.From(), m.To(), m.Flag()
	moved := pos.mailbox[from]
	movedKind := moved.Kind()

	rec := undoRecord{
		move:          m,
		captured:      NoPiece,
		captureSquare: NoSquare,
		castling:      pos.castling,
		epSquare:      pos.epSquare,
		halfmoveClock: pos.halfmoveClock,
		hash:          pos.hash,
	}

	if pos.epSquare != NoSquare {
		pos.hash ^= t.enPassantKey(pos.epSquare.File())
	}
	pos.epSquare = NoSquare

	switch flag {
	case FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		rec.captured = pos.mailbox[capSq]
		rec.captureSquare = capSq
		pos.remove(them, Pawn, capSq)
	default:
		if cap := pos.mailbox[to]; cap != NoPiece {
			rec.captured = cap
			rec.captureSquare = to
			pos.remove(them, cap.Kind(), to)
		}
	}

	pos.remove(us, movedKind, from)
	if promoKind := m.PromotionKind(); promoKind != NoKind {
		pos.put(us, promoKind, to)
	} else {
		pos.put(us, movedKind, to)
	}

	if flag == FlagShortCastle || flag == FlagLongCastle {
		var rookFrom, rookTo Square
		switch {
		case us == White && flag == FlagShortCastle:
			rookFrom, rookTo = 7, 5
		case us == White && flag == FlagLongCastle:
			rookFrom, rookTo = 0, 3
		case us == Black && flag == FlagShortCastle:
			rookFrom, rookTo = 63, 61
		default: // Black long castle
			rookFrom, rookTo = 56, 59
		}
		pos.remove(us, Rook, rookFrom)
		pos.put(us, Rook, rookTo)
	}

	newCastling := pos.castling
	switch {
	case movedKind == King && us == White:
		newCastling &^= WhiteKingside | WhiteQueenside
	case movedKind == King && us == Black:
		newCastling &^= BlackKingside | BlackQueenside
	}
	switch from {
	case 0:
		newCastling &^= WhiteQueenside
	case 7:
		newCastling &^= WhiteKingside
	case 56:
		newCastling &^= BlackQueenside
	case 63:
		newCastling &^= BlackKingside
	}
	switch to {
	case 0:
		newCastling &^= WhiteQueenside
	case 7:
		newCastling &^= WhiteKingside
	case 56:
		newCastling &^= BlackQueenside
	case 63:
		newCastling &^= BlackKingside
	}
	if newCastling != pos.castling {
		pos.hash ^= t.castleKey(pos.castling)
		pos.hash ^= t.castleKey(newCastling)
		pos.castling = newCastling
	}

	if movedKind == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		epSq := from + 8
		if us == Black {
			epSq = from - 8
		}
		pos.epSquare = epSq
		pos.hash ^= t.enPassantKey(epSq.File())
	}

	if movedKind == Pawn || rec.captured != NoPiece {
		pos.halfmoveClock = 0
	} else {
		pos.halfmoveClock++
	}
	if us == Black {
		pos.fullmoveNum++
	}

	pos.sideToMove = them
	pos.hash ^= t.sideKey()

	pos.undo = append(pos.undo, rec)
}

// Unmake reverses the most recent Make. The position must not have been
// modified by any other Make/Unmake in between; callers nest strictly.
func (pos *Position) Unmake() {
	n := len(pos.undo)
	rec := pos.undo[n-1]
	pos.undo = pos.undo[:n-1]

	m := rec.move
	from, to, flag := m.From(), m.To(), m.Flag()

	them := pos.sideToMove
	us := them.Opponent()

	if flag == FlagShortCastle || flag == FlagLongCastle {
		var rookFrom, rookTo Square
		switch {
		case us == White && flag == FlagShortCastle:
			rookFrom, rookTo = 7, 5
		case us == White && flag == FlagLongCastle:
			rookFrom, rookTo = 0, 3
		case us == Black && flag == FlagShortCastle:
			rookFrom, rookTo = 63, 61
		default:
			rookFrom, rookTo = 56, 59
		}
		pos.pieces[us][Rook] &^= rookTo.Bit()
		pos.colorOcc[us] &^= rookTo.Bit()
		pos.occ &^= rookTo.Bit()
		pos.mailbox[rookTo] = NoPiece

		pos.pieces[us][Rook] |= rookFrom.Bit()
		pos.colorOcc[us] |= rookFrom.Bit()
		pos.occ |= rookFrom.Bit()
		pos.mailbox[rookFrom] = MakePiece(us, Rook)
	}

	var movedKind PieceKind
	if promoKind := m.PromotionKind(); promoKind != NoKind {
		movedKind = Pawn
		pos.pieces[us][promoKind] &^= to.Bit()
	} else {
		movedKind = pos.mailbox[to].Kind()
		pos.pieces[us][movedKind] &^= to.Bit()
	}
	pos.colorOcc[us] &^= to.Bit()
	pos.occ &^= to.Bit()
	pos.mailbox[to] = NoPiece

	pos.pieces[us][movedKind] |= from.Bit()
	pos.colorOcc[us] |= from.Bit()
	pos.occ |= from.Bit()
	pos.mailbox[from] = MakePiece(us, movedKind)

	if rec.captured != NoPiece {
		capSq := rec.captureSquare
		capKind := rec.captured.Kind()
		pos.pieces[them][capKind] |= capSq.Bit()
		pos.colorOcc[them] |= capSq.Bit()
		pos.occ |= capSq.Bit()
		pos.mailbox[capSq] = rec.captured
	}

	pos.castling = rec.castling
	pos.epSquare = rec.epSquare
	pos.halfmoveClock = rec.halfmoveClock
	pos.sideToMove = us
	if us == Black {
		pos.fullmoveNum--
	}
	pos.hash = rec.hash
}
