package search

import (
	"chessx/board"

	"golang.org/x/exp/slices"
)

// mvvLva scores a capture by victim value (major) then attacker value
// (minor, inverted so a cheaper attacker scores higher). Indexed by
// [victimKind][attackerKind].
var mvvLva = [7][7]int32{
	board.NoKind: {},
	board.Pawn:   {0, 14, 13, 12, 11, 10, 0},
	board.Knight: {0, 24, 23, 22, 21, 20, 0},
	board.Bishop: {0, 34, 33, 32, 31, 30, 0},
	board.Rook:   {0, 44, 43, 42, 41, 40, 0},
	board.Queen:  {0, 54, 53, 52, 51, 50, 0},
	board.King:   {},
}

// Ordering offsets: PV first, then promotions, then MVV-LVA captures, then
// killer-tagged quiets, then the remaining quiets by history score.
const (
	pvOffset      int32 = 25000
	promoOffset   int32 = 20000
	captureOffset int32 = 15000
	killerOffset  int32 = 2000
)

type scoredMove struct {
	move  board.Move
	score int32
}

// orderMoves scores and sorts moves in place for the given node, favoring
// the PV move, then captures by MVV-LVA, then killer-tagged quiets. It
// returns the backing scored slice sorted best-first; callers iterate and
// pull out the board.Move field. The scratch buffer is taken from ply's own
// slot in s.scoredArena, since negamax recurses before a parent's call has
// finished iterating its own ordered moves: sharing one buffer across plies
// would let a child's call overwrite moves the parent hasn't looked at yet.
func (s *Searcher) orderMoves(pos *board.Position, moves []board.Move, ply int, pv board.Move) []scoredMove {
	scored := s.scoredArena[ply][:0]
	for _, m := range moves {
		var score int32
		switch {
		case m == pv:
			score = pvOffset
		case m.IsPromotion():
			score = promoOffset + int32(pieceValue[m.PromotionKind()])
		case m.IsCapture():
			victim := captureVictimKind(pos, m)
			attacker := pos.PieceAt(m.From()).Kind()
			score = captureOffset + mvvLva[victim][attacker]
		case s.killers[ply][0] == m:
			score = killerOffset + 200
		case s.killers[ply][1] == m:
			score = killerOffset
		default:
			score = int32(s.history[pos.SideToMove()][m.From()][m.To()])
		}
		scored = append(scored, scoredMove{move: m, score: score})
	}
	slices.SortFunc(scored, func(a, b scoredMove) bool { return a.score > b.score })
	return scored
}

func captureVictimKind(pos *board.Position, m board.Move) board.PieceKind {
	if m.Flag() == board.FlagEnPassant {
		return board.Pawn
	}
	return pos.PieceAt(m.To()).Kind()
}

// recordKiller inserts a quiet beta-cutoff move into the two-slot killer
// table for ply, shifting the previous entry down.
func (s *Searcher) recordKiller(ply int, m board.Move) {
	if s.killers[ply][0] == m {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = m
}

// recordHistory rewards a quiet move that caused a beta cutoff and
// penalizes quiet moves tried before it at the same node, the classic
// history heuristic.
func (s *Searcher) recordHistory(side board.Color, m board.Move, depth int, tried []board.Move) {
	bonus := int32(depth * depth)
	s.history[side][m.From()][m.To()] += bonus
	for _, t := range tried {
		if t == m {
			continue
		}
		s.history[side][t.From()][t.To()] -= bonus
		if s.history[side][t.From()][t.To()] < 0 {
			s.history[side][t.From()][t.To()] = 0
		}
	}
}
