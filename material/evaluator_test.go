package material_test

import (
	"testing"

	"chessx/board"
	"chessx/material"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(board.DefaultTables(), fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestStartPositionIsApproximatelyBalanced(t *testing.T) {
	pos := mustFEN(t, board.StartFEN)
	score := material.Evaluator{}.Evaluate(pos)
	if score < -20 || score > 20 {
		t.Fatalf("expected a near-zero opening score, got %d", score)
	}
}

func TestExtraQueenScoresDecisivelyForItsSide(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	score := material.Evaluator{}.Evaluate(pos)
	if score < 800 {
		t.Fatalf("expected a decisive white-favoring score, got %d", score)
	}
}

func TestScoreFlipsSignWithSideToMove(t *testing.T) {
	white := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	ws := material.Evaluator{}.Evaluate(white)
	bs := material.Evaluator{}.Evaluate(black)
	if ws != -bs {
		t.Fatalf("expected evaluation to flip sign with side to move: white=%d black=%d", ws, bs)
	}
}

func TestBishopPairOutscoresLoneBishop(t *testing.T) {
	pair := mustFEN(t, "4k3/8/8/8/8/2B2B2/8/4K3 w - - 0 1")
	lone := mustFEN(t, "4k3/8/8/8/8/2B5/8/4K3 w - - 0 1")
	pairScore := material.Evaluator{}.Evaluate(pair)
	loneScore := material.Evaluator{}.Evaluate(lone)
	if pairScore-loneScore < 330 {
		t.Fatalf("expected the bishop pair bonus on top of the second bishop's material, got pair=%d lone=%d", pairScore, loneScore)
	}
}
