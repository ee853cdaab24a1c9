package search_test

import (
	"sync/atomic"
	"testing"
	"time"

	"chessx/board"
	"chessx/material"
	"chessx/search"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(board.DefaultTables(), fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestDepthOneSearchReturnsLegalMove(t *testing.T) {
	pos := mustFEN(t, "7k/8/8/8/8/8/R7/1R5K w - - 0 1")
	s := search.NewSearcher(material.Evaluator{}, 1<<12)
	var stop atomic.Bool

	result := s.Run(pos, search.Limits{Depth: 1}, &stop, nil)
	if len(result.PV) == 0 {
		t.Fatalf("expected a best move, got empty PV")
	}

	legal := pos.GenerateLegalMoves(nil)
	found := false
	for _, m := range legal {
		if m == result.PV[0] {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("bestmove %s is not among legal moves %v", result.PV[0], legal)
	}
}

func TestFindsMateInOne(t *testing.T) {
	// Black king boxed in by its own pawns on the back rank: Ra8# next move.
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/6PP/R5K1 w - - 0 1")
	s := search.NewSearcher(material.Evaluator{}, 1<<12)
	var stop atomic.Bool

	result := s.Run(pos, search.Limits{Depth: 3}, &stop, nil)
	if result.Score < search.MateScore-10 {
		t.Fatalf("expected a near-mate score, got %d", result.Score)
	}
}

func TestMoveTimeStopsPromptly(t *testing.T) {
	pos := mustFEN(t, board.StartFEN)
	s := search.NewSearcher(material.Evaluator{}, 1<<14)
	var stop atomic.Bool

	start := time.Now()
	result := s.Run(pos, search.Limits{MoveTime: 50 * time.Millisecond}, &stop, nil)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Fatalf("search ran for %s, expected to stop near its 50ms budget", elapsed)
	}
	if len(result.PV) == 0 {
		t.Fatalf("expected a best move even when stopped early")
	}
}

func TestExternalStopFlagAborts(t *testing.T) {
	pos := mustFEN(t, board.StartFEN)
	s := search.NewSearcher(material.Evaluator{}, 1<<14)
	var stop atomic.Bool
	stop.Store(true)

	result := s.Run(pos, search.Limits{Depth: 10}, &stop, nil)
	if result.Depth > 1 {
		t.Fatalf("expected the search to abort at depth 1 with stop preset, completed depth %d", result.Depth)
	}
}

func TestStalemateScoresAsDraw(t *testing.T) {
	pos := mustFEN(t, "7k/8/6Q1/8/8/8/8/6K1 b - - 0 1")
	s := search.NewSearcher(material.Evaluator{}, 1<<12)
	var stop atomic.Bool

	result := s.Run(pos, search.Limits{Depth: 1}, &stop, nil)
	if result.Score != search.DrawScore {
		t.Fatalf("expected stalemate to score 0, got %d", result.Score)
	}
}
