package board_test

import (
	"testing"

	"chessx/board"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	}
	for _, fen := range fens {
		pos, err := board.ParseFEN(board.DefaultTables(), fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("round trip mismatch: got %q want %q", got, fen)
		}
	}
}

func TestParseFENRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"8/8/8/8/8/8/8/8 w KQkq - 0 1",                          // no kings
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", // bad side to move
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XYZQ - 0 1", // bad castling letter
	}
	for _, fen := range cases {
		_, err := board.ParseFEN(board.DefaultTables(), fen)
		if err == nil {
			t.Errorf("ParseFEN(%q): expected error, got nil", fen)
			continue
		}
		var berr *board.Error
		if !okAsBoardError(err, &berr) {
			t.Errorf("ParseFEN(%q): error %v is not a *board.Error", fen, err)
			continue
		}
		if berr.Kind != board.MalformedPositionKind {
			t.Errorf("ParseFEN(%q): got kind %v want MalformedPositionKind", fen, berr.Kind)
		}
	}
}

func okAsBoardError(err error, out **board.Error) bool {
	berr, ok := err.(*board.Error)
	if ok {
		*out = berr
	}
	return ok
}
