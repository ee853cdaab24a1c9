// Package material implements the default search.Evaluator: tapered
// material plus piece-square tables, grounded on the reference engine's own
// evaluation module but reduced to the handful of terms named in scope --
// material, PSTs, bishop pair, passed pawns, and doubled/isolated pawns.
package material

import (
	"math/bits"

	"chessx/board"
)

// pieceValue gives the standard centipawn material values. These are
// intentionally the textbook constants, not the reference engine's tuned
// weights: the expansion calls for "standard centipawn values" as the
// default evaluator's material term.
var pieceValue = [7]int32{
	board.Pawn:   100,
	board.Knight: 320,
	board.Bishop: 330,
	board.Rook:   500,
	board.Queen:  900,
}

// phaseWeight is the classic tapered-eval weighting: each side's non-pawn
// material contributes to a 0-24 phase scalar, 24 meaning full middlegame
// material still on the board, 0 a bare-king-and-pawns endgame.
var phaseWeight = [7]int32{
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
}

const maxPhase = 24

const (
	bishopPairMG int32 = 10
	bishopPairEG int32 = 50
	doubledMG    int32 = -4
	doubledEG    int32 = -17
	isolatedMG   int32 = -6
	isolatedEG   int32 = -7
)

// Evaluator is the default search.Evaluator: tapered material and PSTs plus
// a small set of positional terms, each a minor additive correction on top
// of the taper.
type Evaluator struct{}

// Evaluate returns a centipawn score from the side-to-move's perspective.
func (Evaluator) Evaluate(pos *board.Position) int32 {
	var mg, eg, phase int32

	for c := board.White; c <= board.Black; c++ {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		for k := board.Pawn; k <= board.King; k++ {
			bb := pos.PieceBB(c, k)
			for bb != 0 {
				s := board.Square(bits.TrailingZeros64(uint64(bb)))
				bb &= bb - 1

				if k != board.King {
					mg += sign * pieceValue[k]
					eg += sign * pieceValue[k]
				}
				mg += sign * pstValue(&mgTable, c, k, s)
				eg += sign * pstValue(&egTable, c, k, s)
				phase += phaseWeight[k]

				if k == board.Pawn {
					opp := c.Opponent()
					if pos.PieceBB(opp, board.Pawn)&pos.Tables().PassedMask(c, s) == 0 {
						mg += sign * pstValue(&passedTableMG, c, board.Pawn, s)
						eg += sign * pstValue(&passedTableEG, c, board.Pawn, s)
					}
				}
			}
		}

		if bits.OnesCount64(uint64(pos.PieceBB(c, board.Bishop))) >= 2 {
			mg += sign * bishopPairMG
			eg += sign * bishopPairEG
		}

		mg += sign * pawnStructurePenalty(pos, c, doubledMG, isolatedMG)
		eg += sign * pawnStructurePenalty(pos, c, doubledEG, isolatedEG)
	}

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if pos.SideToMove() == board.Black {
		score = -score
	}
	return score
}

// passedTableMG/EG wrap the passed-pawn bonus arrays so pstValue's mirror
// logic (White's own pawn-advance direction) applies uniformly.
var passedTableMG = [7][64]int32{board.Pawn: passedPawnMG}
var passedTableEG = [7][64]int32{board.Pawn: passedPawnEG}

// pawnStructurePenalty sums doubled- and isolated-pawn penalties for c's
// pawns, one unit of doubledWeight per pawn beyond the first on a file and
// one unit of isolatedWeight per pawn with no friendly pawn on an adjacent
// file.
func pawnStructurePenalty(pos *board.Position, c board.Color, doubledWeight, isolatedWeight int32) int32 {
	pawns := pos.PieceBB(c, board.Pawn)
	var total int32
	for f := 0; f < 8; f++ {
		onFile := bits.OnesCount64(uint64(pawns & pos.Tables().FileBB(f)))
		if onFile == 0 {
			continue
		}
		if onFile > 1 {
			total += int32(onFile-1) * doubledWeight
		}
		var neighbors board.Bitboard
		if f > 0 {
			neighbors |= pos.Tables().FileBB(f - 1)
		}
		if f < 7 {
			neighbors |= pos.Tables().FileBB(f + 1)
		}
		if pawns&neighbors == 0 {
			total += int32(onFile) * isolatedWeight
		}
	}
	return total
}
