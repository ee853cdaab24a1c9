package board

import "math/rand"

// zobristKeys is the key set used to maintain Position's incremental hash.
// Seeded deterministically (fixed seed) so repeated table builds, and tests
// that build a fresh Tables handle, get identical keys.
type zobristKeys struct {
	piece    [16][64]uint64 // indexed by Piece value (0..15), NoPiece row unused
	castle   [16]uint64
	enPassant [8]uint64
	side     uint64
}

func (t *Tables) initZobrist() {
	rnd := rand.New(rand.NewSource(0xC0DE))

	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			t.zob.piece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		t.zob.castle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		t.zob.enPassant[f] = rnd.Uint64()
	}
	t.zob.side = rnd.Uint64()
}

func (t *Tables) pieceKey(p Piece, s Square) uint64 { return t.zob.piece[p][s] }
func (t *Tables) castleKey(cr CastlingRights) uint64 { return t.zob.castle[cr] }
func (t *Tables) enPassantKey(file int) uint64       { return t.zob.enPassant[file] }
func (t *Tables) sideKey() uint64                    { return t.zob.side }

// ComputeHash recomputes the zobrist hash of pos from scratch; used to
// verify the incrementally maintained hash in tests.
func (t *Tables) ComputeHash(pos *Position) uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if p := pos.mailbox[sq]; p != NoPiece {
			key ^= t.pieceKey(p, sq)
		}
	}
	if pos.sideToMove == Black {
		key ^= t.sideKey()
	}
	key ^= t.castleKey(pos.castling)
	if pos.epSquare != NoSquare {
		key ^= t.enPassantKey(pos.epSquare.File())
	}
	return key
}
