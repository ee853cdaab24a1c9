// Package uci implements the text protocol dispatcher: a read-eval-print
// loop over stdin that drives a board.Position and a search.Searcher. The
// loop itself is the I/O thread; a `go` command runs the search on its own
// goroutine so the I/O thread keeps reading and can act on `stop`/`quit`
// while a search is in flight, the goroutine-plus-atomic-stop-flag idiom
// grounded in the reference corpus's own concurrent UCI handler.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"chessx/board"
	"chessx/search"
)

// Dispatcher owns the single Position shared between the protocol handler
// and the worker: it belongs to the handler except for the duration of a
// Run call on the searcher, when ownership transfers to the worker. While a
// search is in flight, `searching` is true and commands that would mutate
// Position or Searcher state (position, ucinewgame, a second go) are
// refused rather than racing the worker goroutine.
type Dispatcher struct {
	name, author string

	tables   *board.Tables
	pos      *board.Position
	searcher *search.Searcher

	out     io.Writer
	outMu   sync.Mutex
	logger  *log.Logger
	logFile *os.File

	stop      atomic.Bool
	searching atomic.Bool
	searchWG  sync.WaitGroup
}

// New builds a Dispatcher writing protocol responses to out and logging
// every inbound/outbound line (plus internal events) to logPath, rotating
// any previous log aside first.
func New(name, author string, tables *board.Tables, searcher *search.Searcher, out io.Writer, logPath string) (*Dispatcher, error) {
	logger, f, err := openLog(logPath)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		name:     name,
		author:   author,
		tables:   tables,
		pos:      board.NewPosition(tables),
		searcher: searcher,
		out:      out,
		logger:   logger,
		logFile:  f,
	}, nil
}

// Run reads commands from in until quit or end of input, returning the
// process exit code: 0 on a normal quit or clean EOF, nonzero on a fatal
// internal error (a malformed command never counts as fatal; it is
// reported with an info string line and the loop continues).
func (d *Dispatcher) Run(in io.Reader) int {
	defer d.logFile.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		d.logger.Println("<", line)

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			d.reply(fmt.Sprintf("id name %s", d.name))
			d.reply(fmt.Sprintf("id author %s", d.author))
			d.reply("uciok")
		case "isready":
			d.reply("readyok")
		case "ucinewgame":
			if d.searching.Load() {
				d.reply("info string search in progress, ignoring ucinewgame")
				break
			}
			d.pos = board.NewPosition(d.tables)
			d.searcher.Reset()
		case "position":
			if d.searching.Load() {
				d.reply("info string search in progress, ignoring position")
				break
			}
			d.handlePosition(line)
		case "go":
			d.handleGo(line)
		case "stop":
			d.stop.Store(true)
		case "quit":
			d.stop.Store(true)
			d.searchWG.Wait()
			d.logger.Println("quit")
			return 0
		default:
			d.reply(fmt.Sprintf("info string unknown command: %s", line))
		}
	}
	d.searchWG.Wait()

	if err := scanner.Err(); err != nil {
		d.logger.Println("fatal:", err)
		return 1
	}
	return 0
}

// reply is called from both the I/O goroutine (immediate replies, and the
// position/go handlers) and the search goroutine (info/bestmove lines), so
// writes to out and the log are serialized under outMu.
func (d *Dispatcher) reply(line string) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintln(d.out, line)
	d.logger.Println(">", line)
}

// handlePosition implements "position startpos [moves ...]" and
// "position fen <6 fields> [moves ...]". A malformed command is logged via
// info string and otherwise ignored; it never aborts the loop.
func (d *Dispatcher) handlePosition(line string) {
	sc := bufio.NewScanner(strings.NewReader(line))
	sc.Split(bufio.ScanWords)
	sc.Scan() // "position"

	if !sc.Scan() {
		d.reply("info string malformed position command")
		return
	}

	switch strings.ToLower(sc.Text()) {
	case "startpos":
		d.pos = board.NewPosition(d.tables)
		sc.Scan() // advance past startpos, leaving sc positioned on "moves" or exhausted
	case "fen":
		var fields []string
		for sc.Scan() && strings.ToLower(sc.Text()) != "moves" {
			fields = append(fields, sc.Text())
		}
		fen := strings.Join(fields, " ")
		pos, err := board.ParseFEN(d.tables, fen)
		if err != nil {
			d.reply(fmt.Sprintf("info string %s", err))
			return
		}
		d.pos = pos
	default:
		d.reply("info string invalid position subcommand")
		return
	}

	if strings.ToLower(sc.Text()) != "moves" {
		return
	}
	for sc.Scan() {
		moveText := strings.ToLower(sc.Text())
		m, err := board.ParseMoveText(d.pos, moveText)
		if err != nil {
			d.reply(fmt.Sprintf("info string move %s not found for position %s", moveText, d.pos.ToFEN()))
			continue
		}
		d.pos.Make(m)
	}
}

// handleGo implements "go [depth N] [movetime MS] [nodes N] [wtime ...]
// [btime ...] [winc ...] [binc ...] [movestogo N] [infinite]", scanning
// sub-tokens with a nested word scanner matching the reference dispatcher's
// own parameter-scanning idiom, then starts the search on its own goroutine
// and returns; the worker writes the info lines and the final bestmove.
func (d *Dispatcher) handleGo(line string) {
	if d.searching.Load() {
		d.reply("info string search already in progress, ignoring go")
		return
	}

	sc := bufio.NewScanner(strings.NewReader(line))
	sc.Split(bufio.ScanWords)
	sc.Scan() // "go"

	var limits search.Limits
	for sc.Scan() {
		tok := strings.ToLower(sc.Text())
		switch tok {
		case "infinite":
			limits.Infinite = true
		case "depth":
			if v, ok := nextInt(sc); ok {
				limits.Depth = v
			} else {
				d.reply("info string malformed go option depth")
			}
		case "movetime":
			if v, ok := nextInt(sc); ok {
				limits.MoveTime = time.Duration(v) * time.Millisecond
			} else {
				d.reply("info string malformed go option movetime")
			}
		case "nodes":
			if v, ok := nextInt(sc); ok {
				limits.Nodes = uint64(v)
			} else {
				d.reply("info string malformed go option nodes")
			}
		case "wtime":
			if v, ok := nextInt(sc); ok {
				limits.WTime = time.Duration(v) * time.Millisecond
			} else {
				d.reply("info string malformed go option wtime")
			}
		case "btime":
			if v, ok := nextInt(sc); ok {
				limits.BTime = time.Duration(v) * time.Millisecond
			} else {
				d.reply("info string malformed go option btime")
			}
		case "winc":
			if v, ok := nextInt(sc); ok {
				limits.WInc = time.Duration(v) * time.Millisecond
			} else {
				d.reply("info string malformed go option winc")
			}
		case "binc":
			if v, ok := nextInt(sc); ok {
				limits.BInc = time.Duration(v) * time.Millisecond
			} else {
				d.reply("info string malformed go option binc")
			}
		case "movestogo":
			if v, ok := nextInt(sc); ok {
				limits.MovesToGo = v
			} else {
				d.reply("info string malformed go option movestogo")
			}
		default:
			d.reply(fmt.Sprintf("info string unknown go subcommand %s", tok))
		}
	}

	d.stop.Store(false)
	d.searching.Store(true)
	pos := d.pos

	d.searchWG.Add(1)
	go func() {
		defer d.searchWG.Done()
		defer d.searching.Store(false)

		result := d.searcher.Run(pos, limits, &d.stop, func(info search.Info) {
			d.reply(formatInfo(info))
		})
		d.reply("bestmove " + bestMoveText(result))
	}()
}

func nextInt(sc *bufio.Scanner) (int, bool) {
	if !sc.Scan() {
		return 0, false
	}
	v, err := strconv.Atoi(sc.Text())
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatInfo(info search.Info) string {
	var pv strings.Builder
	for i, m := range info.PV {
		if i > 0 {
			pv.WriteByte(' ')
		}
		pv.WriteString(m.String())
	}
	return fmt.Sprintf("info depth %d score cp %d nodes %d time %d pv %s",
		info.Depth, info.Score, info.Nodes, info.Elapsed.Milliseconds(), pv.String())
}

func bestMoveText(result search.Info) string {
	if len(result.PV) == 0 {
		return board.NullMove.String()
	}
	return result.PV[0].String()
}
