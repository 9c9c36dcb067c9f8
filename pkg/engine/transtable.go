package engine

import (
	"sync/atomic"

	. "github.com/pelicanchess/pelican/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

//16 bytes
type transEntry struct {
	gate     int32
	key32    uint32
	moveDate uint32
	score    int16
	depth    int8
	bound    uint8
}

func (entry *transEntry) Move() Move {
	return Move(entry.moveDate & 0x1fffff)
}

func (entry *transEntry) Date() uint16 {
	return uint16(entry.moveDate >> 21)
}

func (entry *transEntry) SetMoveAndDate(move Move, date uint16) {
	entry.moveDate = uint32(move) + uint32(date)<<21
}

// transTable is shared by all search threads. Each slot is guarded by a
// one-word CAS gate instead of a mutex; a thread that loses the race
// simply skips the probe or store.
type transTable struct {
	megabytes int
	entries   []transEntry
	date      uint16
	mask      uint32
}

func newTransTable(megabytes int) *transTable {
	var size = roundPowerOfTwo(1024 * 1024 * megabytes / 16)
	return &transTable{
		megabytes: megabytes,
		entries:   make([]transEntry, size),
		mask:      uint32(size - 1),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) IncDate() {
	tt.date = (tt.date + 1) & 0x7ff
}

func (tt *transTable) Clear() {
	tt.date = 0
	for i := range tt.entries {
		tt.entries[i] = transEntry{}
	}
}

func (tt *transTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		if entry.key32 == uint32(key>>32) {
			entry.SetMoveAndDate(entry.Move(), tt.date)
			score = int(entry.score)
			move = entry.Move()
			depth = int(entry.depth)
			bound = int(entry.bound)
			ok = true
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
	return
}

// Update prefers fresh information: the slot is overwritten when the new
// entry is for the same position and not much shallower, or when the
// occupant is from an earlier search or shallower than the newcomer.
func (tt *transTable) Update(key uint64, depth, score, bound int, move Move) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		var replace bool
		if entry.key32 == uint32(key>>32) {
			replace = depth >= int(entry.depth)-3 || bound == boundExact
		} else {
			replace = entry.Date() != tt.date ||
				depth >= int(entry.depth)
		}
		if replace {
			entry.key32 = uint32(key >> 32)
			entry.score = int16(score)
			entry.depth = int8(depth)
			entry.bound = uint8(bound)
			entry.SetMoveAndDate(move, tt.date)
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
}
