// Package search implements iterative-deepening negamax with alpha-beta
// pruning and quiescence search over a board.Position.
package search

import (
	"sync/atomic"
	"time"

	"chessx/board"
)

// Evaluator scores a position from the side-to-move's perspective, in
// centipawns. The only requirement on an implementation is this one
// method; the material package supplies the default.
type Evaluator interface {
	Evaluate(pos *board.Position) int32
}

// Score bounds. MateScore is the MATE_BASE constant: a found mate at ply p
// is reported as MateScore-p, so shorter mates score higher, and any score
// whose absolute value exceeds MateScore-maxPly is recognizable as a mate
// score rather than a material one.
const (
	MateScore int32 = 32000
	DrawScore int32 = 0
	infScore  int32 = MateScore + 1
)

// pieceValue gives promotion-ordering weight; material.Evaluator owns the
// evaluation-time piece values independently.
var pieceValue = [7]int32{
	board.NoKind: 0,
	board.Pawn:   100,
	board.Knight: 320,
	board.Bishop: 330,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   0,
}

// Limits bounds a single search call. A zero value means "no limit from
// this source"; Run stops at the first limit that fires.
type Limits struct {
	Depth     int
	MoveTime  time.Duration
	Nodes     uint64
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Infinite  bool
}

// timeBudget estimates how long to spend on this move from the
// remaining-time/increment fields, a simple moves-to-go heuristic, never a
// search-instability-driven extension.
func (l Limits) timeBudget(side board.Color) (time.Duration, bool) {
	if l.MoveTime > 0 {
		return l.MoveTime, true
	}
	if l.Infinite {
		return 0, false
	}
	var remaining, inc time.Duration
	if side == board.White {
		remaining, inc = l.WTime, l.WInc
	} else {
		remaining, inc = l.BTime, l.BInc
	}
	if remaining <= 0 {
		return 0, false
	}
	movesToGo := l.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}
	budget := remaining/time.Duration(movesToGo) + inc/2
	if budget <= 0 {
		budget = time.Millisecond
	}
	if budget > remaining {
		budget = remaining
	}
	return budget, true
}

// Info is published once per completed iterative-deepening depth, and once
// more as the final result when the search stops.
type Info struct {
	Depth   int
	Score   int32
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.Move
}

const (
	maxPly      = board.MaxSearchPly
	maxPlyMoves = board.MaxMovesPerPosition
)

// Searcher holds all per-search mutable state: killer and history tables,
// the move-ordering scratch buffer, and a transposition table scoped to a
// single Run call. It is not safe for concurrent use by more than one
// goroutine at a time.
type Searcher struct {
	eval Evaluator
	tt   *transpositionTable

	killers [maxPly + 1][2]board.Move
	history [2][64][64]int32

	scoredArena [maxPly + 1][maxPlyMoves]scoredMove
	moveArena   [maxPly + 1][maxPlyMoves]board.Move

	pvTable [maxPly + 1]pvLine

	stop        *atomic.Bool
	nodes       uint64
	startTime   time.Time
	deadline    time.Time
	hasDeadline bool
	nodeLimit   uint64
}

// NewSearcher builds a Searcher around eval with a fresh, empty
// transposition table sized for ttSlots entries (rounded down to a whole
// number of clusters).
func NewSearcher(eval Evaluator, ttSlots int) *Searcher {
	return &Searcher{
		eval: eval,
		tt:   newTranspositionTable(ttSlots),
	}
}

// Reset clears all per-search tables. Callers invoke it on ucinewgame, not
// between successive go commands within the same game, so history and
// killer hints carry over move to move the way the reference engine's do.
func (s *Searcher) Reset() {
	s.tt.clear()
	s.killers = [maxPly + 1][2]board.Move{}
	s.history = [2][64][64]int32{}
}

// Run performs iterative deepening from pos until a stop condition fires,
// invoking onDepth after each completed iteration and returning the final
// Info. stop is the shared atomic flag the protocol dispatcher sets on
// stop/quit; Run polls it at every node entry, never caching its value.
func (s *Searcher) Run(pos *board.Position, limits Limits, stop *atomic.Bool, onDepth func(Info)) Info {
	s.tt.clear()
	s.stop = stop
	s.nodes = 0
	s.startTime = time.Now()
	s.nodeLimit = limits.Nodes
	s.hasDeadline = false
	if budget, ok := limits.timeBudget(pos.SideToMove()); ok {
		s.deadline = s.startTime.Add(budget)
		s.hasDeadline = true
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = maxPly
	}

	var last Info
	for depth := 1; depth <= maxDepth; depth++ {
		s.pvTable[0].clear()
		score := s.negamax(pos, depth, 0, -infScore, infScore)
		if s.aborted() && depth > 1 {
			break
		}
		elapsed := time.Since(s.startTime)
		last = Info{
			Depth:   depth,
			Score:   score,
			Nodes:   s.nodes,
			Elapsed: elapsed,
			PV:      s.pvTable[0].clone().moves,
		}
		if onDepth != nil {
			onDepth(last)
		}
		if s.aborted() {
			break
		}
		if limits.Depth > 0 && depth >= limits.Depth {
			break
		}
	}
	if len(last.PV) == 0 {
		// Stopped before depth 1 settled on a move: fall back to the first
		// legal move so a result is reported whenever one exists.
		var buf [maxPlyMoves]board.Move
		if legal := pos.GenerateLegalMoves(buf[:0]); len(legal) > 0 {
			last.PV = []board.Move{legal[0]}
		}
	}
	return last
}

// aborted reports whether the current search should stop: an external
// stop request, the wall-clock deadline, or the node budget. Checked on
// entry to every recursive call, never cached.
func (s *Searcher) aborted() bool {
	if s.stop != nil && s.stop.Load() {
		return true
	}
	if s.hasDeadline && time.Now().After(s.deadline) {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		return true
	}
	return false
}

// isDraw reports the fifty-move rule and the simplest insufficient-material
// cases (bare kings, king+minor vs king).
func isDraw(pos *board.Position) bool {
	if pos.HalfmoveClock() >= 100 {
		return true
	}
	return insufficientMaterial(pos)
}

func insufficientMaterial(pos *board.Position) bool {
	minorCount := 0
	for c := board.White; c <= board.Black; c++ {
		for _, k := range [...]board.PieceKind{board.Pawn, board.Rook, board.Queen} {
			if pos.PieceBB(c, k) != 0 {
				return false
			}
		}
		minorCount += popCount(pos.PieceBB(c, board.Knight)) + popCount(pos.PieceBB(c, board.Bishop))
	}
	return minorCount <= 1
}

func popCount(bb board.Bitboard) int {
	count := 0
	for bb != 0 {
		bb &= bb - 1
		count++
	}
	return count
}

// negamax searches pos to depth, recording the principal variation in
// s.pvTable[ply]. Legality filtering happened entirely during move
// generation, so every move here is trusted and Make never fails.
func (s *Searcher) negamax(pos *board.Position, depth, ply int, alpha, beta int32) int32 {
	s.pvTable[ply].clear()

	if ply > 0 && s.aborted() {
		return alpha
	}
	if ply > 0 && isDraw(pos) {
		return DrawScore
	}

	if depth <= 0 {
		return s.quiescence(pos, ply, alpha, beta)
	}

	moves := s.moveArena[ply][:0]
	moves = pos.GenerateLegalMoves(moves)
	if len(moves) == 0 {
		if pos.InCheck(pos.SideToMove()) {
			return -(MateScore - int32(ply))
		}
		return DrawScore
	}

	hash := pos.Hash()
	var ttMove board.Move
	if entry, ok := s.tt.probe(hash, ply); ok {
		ttMove = entry.move
		if entry.depth >= depth {
			switch entry.flag {
			case ttExact:
				return entry.score
			case ttLowerBound:
				if entry.score >= beta {
					return entry.score
				}
			case ttUpperBound:
				if entry.score <= alpha {
					return entry.score
				}
			}
		}
	}

	scored := s.orderMoves(pos, moves, ply, ttMove)
	origAlpha := alpha
	var best board.Move
	var triedQuiets []board.Move
	side := pos.SideToMove()

	for i := range scored {
		m := scored[i].move
		pos.Make(m)
		s.nodes++
		v := -s.negamax(pos, depth-1, ply+1, -beta, -alpha)
		pos.Unmake()

		if s.aborted() {
			return alpha
		}

		if v > alpha {
			alpha = v
			best = m
			s.pvTable[ply].update(m, &s.pvTable[ply+1])
		}
		if alpha >= beta {
			if !m.IsCapture() && !m.IsPromotion() {
				s.recordKiller(ply, m)
				s.recordHistory(side, m, depth, triedQuiets)
			}
			s.tt.store(hash, depth, ply, m, beta, ttLowerBound)
			return beta
		}
		if !m.IsCapture() && !m.IsPromotion() {
			triedQuiets = append(triedQuiets, m)
		}
	}

	flag := ttExact
	if alpha <= origAlpha {
		flag = ttUpperBound
	}
	s.tt.store(hash, depth, ply, best, alpha, flag)
	return alpha
}

// quiescence extends search through captures and promotions only, so a
// leaf's static evaluation is never taken mid-exchange.
func (s *Searcher) quiescence(pos *board.Position, ply int, alpha, beta int32) int32 {
	if s.aborted() {
		return alpha
	}
	s.nodes++

	standPat := s.eval.Evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= maxPly {
		return alpha
	}

	moves := s.moveArena[ply][:0]
	moves = pos.GenerateCaptures(moves)
	// Quiet moves are generated into the arena slots after the captures and
	// only the non-capturing promotions among them are kept.
	for _, m := range pos.GenerateQuiets(s.moveArena[ply][len(moves):len(moves)]) {
		if m.IsPromotion() {
			moves = append(moves, m)
		}
	}
	if len(moves) == 0 {
		return alpha
	}
	scored := s.orderMoves(pos, moves, ply, board.NullMove)

	for i := range scored {
		m := scored[i].move
		pos.Make(m)
		v := -s.quiescence(pos, ply+1, -beta, -alpha)
		pos.Unmake()

		if s.aborted() {
			return alpha
		}
		if v >= beta {
			return beta
		}
		if v > alpha {
			alpha = v
		}
	}
	return alpha
}
