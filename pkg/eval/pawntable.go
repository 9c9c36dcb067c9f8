package eval

import (
	. "github.com/pelicanchess/pelican/pkg/common"
)

type pawnEntry struct {
	key   uint64
	score Score
}

// pawnTable caches the pawn structure score by pawn hash key. Each
// evaluation service owns a private table, so no locking is needed.
type pawnTable struct {
	entries []pawnEntry
	mask    uint64
}

func newPawnTable(size int) *pawnTable {
	if size&(size-1) != 0 {
		panic("pawn table size must be a power of two")
	}
	return &pawnTable{
		entries: make([]pawnEntry, size),
		mask:    uint64(size - 1),
	}
}

func (pt *pawnTable) probe(key uint64) (Score, bool) {
	var entry = &pt.entries[key&pt.mask]
	if entry.key == key {
		return entry.score, true
	}
	return 0, false
}

func (pt *pawnTable) store(key uint64, score Score) {
	var entry = &pt.entries[key&pt.mask]
	entry.key = key
	entry.score = score
}

func (pt *pawnTable) clear() {
	for i := range pt.entries {
		pt.entries[i] = pawnEntry{}
	}
}

// evaluatePawns scores the pawn structure from white's point of view:
// isolated and doubled pawns are penalized, passed pawns earn a bonus
// growing with the rank.
func (e *EvaluationService) evaluatePawns(p *Position) Score {
	if score, ok := e.pawnCache.probe(p.PawnKey); ok {
		return score
	}

	var s Score
	var whitePawns = p.Pawns & p.White
	var blackPawns = p.Pawns & p.Black

	for x := whitePawns; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		if (adjacentFilesMask[File(sq)] & whitePawns) == 0 {
			s += e.PawnIsolated
		}
		if (UpFill(Up(SquareMask[sq])) & whitePawns) != 0 {
			s += e.PawnDoubled
		}
		if (passedPawnMask[SideWhite][sq] & blackPawns) == 0 {
			s += e.PawnPassed[Rank(sq)]
		}
	}

	for x := blackPawns; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		if (adjacentFilesMask[File(sq)] & blackPawns) == 0 {
			s -= e.PawnIsolated
		}
		if (DownFill(Down(SquareMask[sq])) & blackPawns) != 0 {
			s -= e.PawnDoubled
		}
		if (passedPawnMask[SideBlack][sq] & whitePawns) == 0 {
			s -= e.PawnPassed[Rank(FlipSquare(sq))]
		}
	}

	e.pawnCache.store(p.PawnKey, s)
	return s
}

var adjacentFilesMask [8]uint64
var passedPawnMask [2][64]uint64

func init() {
	for f := FileA; f <= FileH; f++ {
		if f > FileA {
			adjacentFilesMask[f] |= FileMask[f-1]
		}
		if f < FileH {
			adjacentFilesMask[f] |= FileMask[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		var front = FileMask[File(sq)] | adjacentFilesMask[File(sq)]
		passedPawnMask[SideWhite][sq] = front & UpFill(Up(SquareMask[sq]))
		passedPawnMask[SideBlack][sq] = front & DownFill(Down(SquareMask[sq]))
	}
}
