package engine

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// hashSnapshot is the on-disk form of the transposition table. Fields
// are stored as parallel columns, which both gob and zstd handle far
// better than an array of small structs.
type hashSnapshot struct {
	Megabytes int
	Date      uint16
	Keys      []uint32
	MoveDates []uint32
	Scores    []int16
	Depths    []int8
	Bounds    []uint8
}

// SaveHash writes the current transposition table to path so a later
// process can resume with a warm table.
func (e *Engine) SaveHash(path string) error {
	e.Prepare()
	var tt = e.transTable

	var snapshot = hashSnapshot{
		Megabytes: tt.megabytes,
		Date:      tt.date,
		Keys:      make([]uint32, len(tt.entries)),
		MoveDates: make([]uint32, len(tt.entries)),
		Scores:    make([]int16, len(tt.entries)),
		Depths:    make([]int8, len(tt.entries)),
		Bounds:    make([]uint8, len(tt.entries)),
	}
	for i := range tt.entries {
		var entry = &tt.entries[i]
		snapshot.Keys[i] = entry.key32
		snapshot.MoveDates[i] = entry.moveDate
		snapshot.Scores[i] = entry.score
		snapshot.Depths[i] = entry.depth
		snapshot.Bounds[i] = entry.bound
	}

	var f, err = os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(zw).Encode(&snapshot); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// LoadHash replaces the transposition table with the snapshot at path.
// The snapshot must have been written with the same Hash size.
func (e *Engine) LoadHash(path string) error {
	var f, err = os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	var snapshot hashSnapshot
	if err := gob.NewDecoder(zr).Decode(&snapshot); err != nil {
		return err
	}

	var tt = newTransTable(snapshot.Megabytes)
	if len(snapshot.Keys) != len(tt.entries) {
		return fmt.Errorf("hash snapshot %v: bad entry count %d", path, len(snapshot.Keys))
	}
	tt.date = snapshot.Date
	for i := range tt.entries {
		tt.entries[i] = transEntry{
			key32:    snapshot.Keys[i],
			moveDate: snapshot.MoveDates[i],
			score:    snapshot.Scores[i],
			depth:    snapshot.Depths[i],
			bound:    snapshot.Bounds[i],
		}
	}

	e.Hash = snapshot.Megabytes
	e.transTable = tt
	return nil
}
