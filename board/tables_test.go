package board_test

import (
	"testing"

	"chessx/board"
)

func TestBetweenExcludesEndpointLineIncludesIt(t *testing.T) {
	tb := board.NewTables()
	a, b := board.SquareOf(0, 0), board.SquareOf(7, 7) // a1, h8 diagonal
	between := tb.Between(a, b)
	line := tb.Line(a, b)
	if between&b.Bit() != 0 {
		t.Fatalf("Between(a1,h8) must not include endpoint b")
	}
	if line&b.Bit() == 0 {
		t.Fatalf("Line(a1,h8) must include endpoint b")
	}
	if (line &^ b.Bit()) != between {
		t.Fatalf("Line minus endpoint must equal Between: line=%#x between=%#x", line, between)
	}
}

func TestLineUnrelatedSquaresIsZero(t *testing.T) {
	tb := board.NewTables()
	a, b := board.SquareOf(0, 0), board.SquareOf(1, 2) // a1, b3: no shared rank/file/diagonal
	if tb.Line(a, b) != 0 {
		t.Fatalf("expected zero Line for unaligned squares, got %#x", tb.Line(a, b))
	}
	if tb.Between(a, b) != 0 {
		t.Fatalf("expected zero Between for unaligned squares, got %#x", tb.Between(a, b))
	}
}

func TestPassedMaskUsesBothAdjacentFiles(t *testing.T) {
	tb := board.NewTables()
	// d4 (file index 3): passed mask should draw from c, d, and e files.
	s := board.SquareOf(3, 3)
	mask := tb.PassedMask(board.White, s)
	if mask&tb.FileBB(2) == 0 {
		t.Errorf("expected passed mask to include c-file (file-1)")
	}
	if mask&tb.FileBB(4) == 0 {
		t.Errorf("expected passed mask to include e-file (file+1)")
	}
	if mask&tb.FileBB(3) == 0 {
		t.Errorf("expected passed mask to include d-file itself")
	}
}

func TestRookBishopAttacksMatchSlowRayWalk(t *testing.T) {
	tb := board.NewTables()
	// A handful of occupancies including the empty board and a cluttered one.
	occupancies := []board.Bitboard{
		0,
		board.SquareOf(3, 3).Bit() | board.SquareOf(3, 5).Bit() | board.SquareOf(5, 3).Bit(),
		board.SquareOf(0, 0).Bit() | board.SquareOf(7, 7).Bit() | board.SquareOf(0, 7).Bit(),
	}
	for sq := board.Square(0); sq < 64; sq++ {
		for _, occ := range occupancies {
			if got, want := tb.RookAttacks(sq, occ), slowRookAttacks(sq, occ); got != want {
				t.Fatalf("rook attacks at %s occ=%#x: got %#x want %#x", sq, occ, got, want)
			}
			if got, want := tb.BishopAttacks(sq, occ), slowBishopAttacks(sq, occ); got != want {
				t.Fatalf("bishop attacks at %s occ=%#x: got %#x want %#x", sq, occ, got, want)
			}
		}
	}
}

func slowRookAttacks(sq board.Square, occ board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	f, r := sq.File(), sq.Rank()
	dirs := [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	for _, d := range dirs {
		nf, nr := f+d[0], r+d[1]
		for nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
			s := board.SquareOf(nf, nr)
			attacks |= s.Bit()
			if occ&s.Bit() != 0 {
				break
			}
			nf += d[0]
			nr += d[1]
		}
	}
	return attacks
}

func slowBishopAttacks(sq board.Square, occ board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	f, r := sq.File(), sq.Rank()
	dirs := [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for _, d := range dirs {
		nf, nr := f+d[0], r+d[1]
		for nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
			s := board.SquareOf(nf, nr)
			attacks |= s.Bit()
			if occ&s.Bit() != 0 {
				break
			}
			nf += d[0]
			nr += d[1]
		}
	}
	return attacks
}
