package main

import (
	"flag"
	"fmt"
	"os"

	"chessx/board"
	"chessx/material"
	"chessx/search"
	"chessx/uci"
)

const (
	engineName   = "chessx"
	engineAuthor = "chessx contributors"
)

func main() {
	logPath := flag.String("log", "chessx.log", "path to the rotating protocol log")
	hashSlots := flag.Int("hash", 1<<16, "number of transposition table entries (rounded to a whole number of clusters)")
	flag.Parse()

	tables := board.NewTables()
	evaluator := material.Evaluator{}
	searcher := search.NewSearcher(evaluator, *hashSlots)

	dispatcher, err := uci.New(engineName, engineAuthor, tables, searcher, os.Stdout, *logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "chessx-uci: fatal:", err)
		os.Exit(1)
	}

	os.Exit(dispatcher.Run(os.Stdin))
}
