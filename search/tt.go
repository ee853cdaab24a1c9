package search

import "chessx/board"

// ttFlag records which bound a stored score represents.
type ttFlag int8

const (
	ttExact ttFlag = iota
	ttLowerBound
	ttUpperBound
)

type ttEntry struct {
	hash  uint64
	depth int
	move  board.Move
	score int32
	flag  ttFlag
}

// mateThreshold marks scores whose magnitude can only arise from a mate
// line; regular material/positional evaluation never reaches it. Scores
// past this threshold are ply-relative (MateScore-ply) and must be rebased
// to the storing node before caching, and back to the probing node on read,
// since a transposition can reach the same position at a different ply.
const mateThreshold int32 = 20000

// transpositionTable is a fixed-size, clustered, move-ordering and
// alpha-beta-cutoff accelerant scoped to a single search call: built fresh
// in NewSearcher/Reset and discarded when the Searcher is, never persisted
// across games or processes. ttClusterSize slots per index; when no empty or
// matching slot is free, the shallowest entry in the cluster is replaced.
type transpositionTable struct {
	entries      []ttEntry
	clusterCount uint64
}

const ttClusterSize = 4

// newTranspositionTable builds a table sized for slots entries (rounded
// down to a whole number of clusters), deliberately small relative to the
// teacher's persistent-across-a-game 256MB default: this table's lifetime
// is one search.
func newTranspositionTable(slots int) *transpositionTable {
	clusters := uint64(slots / ttClusterSize)
	if clusters == 0 {
		clusters = 1
	}
	return &transpositionTable{entries: make([]ttEntry, clusters*ttClusterSize), clusterCount: clusters}
}

func (tt *transpositionTable) clear() {
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
}

// probe returns the entry for hash with its score rebased from the
// storing node's distance-to-mate back to a score relative to ply, the
// current node's own distance from the root.
func (tt *transpositionTable) probe(hash uint64, ply int) (ttEntry, bool) {
	base := (hash % tt.clusterCount) * ttClusterSize
	for i := uint64(0); i < ttClusterSize; i++ {
		e := tt.entries[base+i]
		if e.hash == hash && e.depth > 0 {
			if e.score > mateThreshold {
				e.score -= int32(ply)
			} else if e.score < -mateThreshold {
				e.score += int32(ply)
			}
			return e, true
		}
	}
	return ttEntry{}, false
}

// store caches score for hash. A mate score is ply-relative (MateScore-ply
// from the root), so it is rebased to the storing node's own
// distance-to-mate before being cached, the inverse of probe's adjustment,
// so a later probe at a different ply can re-root it correctly.
func (tt *transpositionTable) store(hash uint64, depth, ply int, move board.Move, score int32, flag ttFlag) {
	if score > mateThreshold {
		score += int32(ply)
	} else if score < -mateThreshold {
		score -= int32(ply)
	}
	base := (hash % tt.clusterCount) * ttClusterSize
	target := base
	shallowest := tt.entries[base].depth
	for i := uint64(0); i < ttClusterSize; i++ {
		idx := base + i
		e := &tt.entries[idx]
		if e.hash == hash {
			target = idx
			break
		}
		if e.depth == 0 {
			target = idx
			break
		}
		if e.depth < shallowest {
			shallowest = e.depth
			target = idx
		}
	}
	tt.entries[target] = ttEntry{hash: hash, depth: depth, move: move, score: score, flag: flag}
}
