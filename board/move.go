package board

import "fmt"

// Move is the compact 16-bit encoding: source square (bits 0-5), destination
// square (bits 6-11), flag (bits 12-15). Moved/captured piece kind is looked
// up from the position's mailbox at Make time, not carried in the move.
type Move uint16

// MoveFlag distinguishes the fourteen move shapes the encoding can hold.
type MoveFlag uint16

const (
	FlagQuiet MoveFlag = iota
	FlagDoublePawnPush
	FlagShortCastle
	FlagLongCastle
	FlagCapture
	FlagEnPassant
	FlagPromoKnight
	FlagPromoBishop
	FlagPromoRook
	FlagPromoQueen
	FlagCapturePromoKnight
	FlagCapturePromoBishop
	FlagCapturePromoRook
	FlagCapturePromoQueen
)

// NullMove is the all-zero sentinel ("0000" in UCI move text). It never
// arises from generation since from==to never occurs for a real move.
const NullMove Move = 0

const (
	moveFromShift = 0
	moveToShift   = 6
	moveFlagShift = 12
	moveMask6     = 0x3F
	moveMask4     = 0xF
)

// NewMove packs a move from its fields.
func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(uint16(from)&moveMask6) |
		Move(uint16(to)&moveMask6)<<moveToShift |
		Move(uint16(flag)&moveMask4)<<moveFlagShift
}

func (m Move) From() Square  { return Square((m >> moveFromShift) & moveMask6) }
func (m Move) To() Square    { return Square((m >> moveToShift) & moveMask6) }
func (m Move) Flag() MoveFlag { return MoveFlag((m >> moveFlagShift) & moveMask4) }

// IsCapture reports whether the move's flag marks a capture (including en
// passant and capture-promotions).
func (m Move) IsCapture() bool {
	switch m.Flag() {
	case FlagCapture, FlagEnPassant, FlagCapturePromoKnight, FlagCapturePromoBishop, FlagCapturePromoRook, FlagCapturePromoQueen:
		return true
	default:
		return false
	}
}

// IsPromotion reports whether the move's flag marks any promotion.
func (m Move) IsPromotion() bool {
	switch m.Flag() {
	case FlagPromoKnight, FlagPromoBishop, FlagPromoRook, FlagPromoQueen,
		FlagCapturePromoKnight, FlagCapturePromoBishop, FlagCapturePromoRook, FlagCapturePromoQueen:
		return true
	default:
		return false
	}
}

// PromotionKind returns the piece kind a promotion flag promotes to; NoKind
// if the move is not a promotion.
func (m Move) PromotionKind() PieceKind {
	switch m.Flag() {
	case FlagPromoKnight, FlagCapturePromoKnight:
		return Knight
	case FlagPromoBishop, FlagCapturePromoBishop:
		return Bishop
	case FlagPromoRook, FlagCapturePromoRook:
		return Rook
	case FlagPromoQueen, FlagCapturePromoQueen:
		return Queen
	default:
		return NoKind
	}
}

// IsCastle reports whether the move is a king castling move.
func (m Move) IsCastle() bool {
	return m.Flag() == FlagShortCastle || m.Flag() == FlagLongCastle
}

var promoLetter = map[PieceKind]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}

// String renders the move in UCI long-algebraic form.
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if k := m.PromotionKind(); k != NoKind {
		s += string(promoLetter[k])
	}
	return s
}

var promoKindFromLetter = map[byte]PieceKind{'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen}

// ParseMoveText decodes UCI long-algebraic move text against pos, matching
// it against the legal moves of the current position (the flag bits, in
// particular which of capture/en-passant/castle applies, cannot be
// recovered from the text alone).
func ParseMoveText(pos *Position, text string) (Move, error) {
	if text == "0000" {
		return NullMove, nil
	}
	if len(text) < 4 || len(text) > 5 {
		return NullMove, ErrMalformedMove(fmt.Sprintf("invalid move text %q", text))
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NullMove, err
	}
	var wantPromo PieceKind = NoKind
	if len(text) == 5 {
		k, ok := promoKindFromLetter[text[4]]
		if !ok {
			return NullMove, ErrMalformedMove(fmt.Sprintf("invalid promotion letter in %q", text))
		}
		wantPromo = k
	}

	var buf [MaxMovesPerPosition]Move
	legal := pos.GenerateLegalMoves(buf[:0])
	for _, mv := range legal {
		if mv.From() == from && mv.To() == to && mv.PromotionKind() == wantPromo {
			return mv, nil
		}
	}
	return NullMove, ErrMalformedMove(fmt.Sprintf("%q is not legal in the current position", text))
}
