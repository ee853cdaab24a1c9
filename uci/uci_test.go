package uci_test

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chessx/board"
	"chessx/material"
	"chessx/search"
	"chessx/uci"
)

func newDispatcher(t *testing.T) (*uci.Dispatcher, *bytes.Buffer) {
	t.Helper()
	tables := board.NewTables()
	searcher := search.NewSearcher(material.Evaluator{}, 1<<12)
	var out bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "chessx.log")
	d, err := uci.New("chessx", "chessx contributors", tables, searcher, &out, logPath)
	if err != nil {
		t.Fatalf("uci.New: %v", err)
	}
	return d, &out
}

func lines(out *bytes.Buffer) []string {
	var ls []string
	sc := bufio.NewScanner(bytes.NewReader(out.Bytes()))
	for sc.Scan() {
		ls = append(ls, sc.Text())
	}
	return ls
}

func TestUCIHandshake(t *testing.T) {
	d, out := newDispatcher(t)
	code := d.Run(strings.NewReader("uci\nquit\n"))
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	ls := lines(out)
	if len(ls) < 3 || ls[len(ls)-1] != "uciok" {
		t.Fatalf("expected uci handshake ending in uciok, got %v", ls)
	}
}

func TestIsReadyRespondsReadyOk(t *testing.T) {
	d, out := newDispatcher(t)
	d.Run(strings.NewReader("isready\nquit\n"))
	ls := lines(out)
	if len(ls) == 0 || ls[0] != "readyok" {
		t.Fatalf("expected readyok, got %v", ls)
	}
}

func TestGoDepthOneReturnsBestMove(t *testing.T) {
	d, out := newDispatcher(t)
	d.Run(strings.NewReader("position startpos\ngo depth 1\nquit\n"))
	ls := lines(out)
	last := ls[len(ls)-1]
	if !strings.HasPrefix(last, "bestmove ") {
		t.Fatalf("expected a bestmove line, got %v", ls)
	}
	move := strings.TrimPrefix(last, "bestmove ")
	if len(move) < 4 {
		t.Fatalf("bestmove %q does not look like long algebraic notation", move)
	}
}

func TestMoveTimeStopsAndReportsBestMove(t *testing.T) {
	d, out := newDispatcher(t)
	d.Run(strings.NewReader("position startpos\ngo movetime 20\nquit\n"))
	ls := lines(out)
	last := ls[len(ls)-1]
	if !strings.HasPrefix(last, "bestmove ") {
		t.Fatalf("expected a bestmove line after movetime search, got %v", ls)
	}
}

func TestPositionWithMovesAppliesThem(t *testing.T) {
	d, out := newDispatcher(t)
	d.Run(strings.NewReader("position startpos moves e2e4 e7e5\ngo depth 1\nquit\n"))
	ls := lines(out)
	last := ls[len(ls)-1]
	if !strings.HasPrefix(last, "bestmove ") {
		t.Fatalf("expected a bestmove line, got %v", ls)
	}
}

func TestLogFileIsCreatedAndRotatedOnRestart(t *testing.T) {
	tables := board.NewTables()
	searcher := search.NewSearcher(material.Evaluator{}, 1<<10)
	var out bytes.Buffer
	dir := t.TempDir()
	logPath := filepath.Join(dir, "chessx.log")

	d1, err := uci.New("chessx", "chessx contributors", tables, searcher, &out, logPath)
	if err != nil {
		t.Fatalf("uci.New: %v", err)
	}
	d1.Run(strings.NewReader("isready\nquit\n"))

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}

	d2, err := uci.New("chessx", "chessx contributors", tables, searcher, &out, logPath)
	if err != nil {
		t.Fatalf("uci.New (second run): %v", err)
	}
	d2.Run(strings.NewReader("quit\n"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected the first log to be rotated aside, got entries %v", entries)
	}
}
