package common

import (
	"math/bits"
	"testing"
)

func TestMoreThanOne(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		want  bool
	}{
		// test cases.
		{"zero", 0, false},
		{"one", 1, false},
		{"far one", 1 << 5, false},
		{"farther one", 1 << 60, false},
		{"two ones", 3, true},
		{"two ones apart", 1<<6 | 1<<25, true},
		{"three ones apart", 1<<6 | 1<<25 | 1<<36, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoreThanOne(tt.value); got != tt.want {
				t.Errorf("MoreThanOne() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Magic lookups must agree with a plain ray walk for every square and a
// sample of occupancies.
func TestSlidingAttacks(t *testing.T) {
	var occupancies = []uint64{
		0,
		0xffff00000000ffff,
		0x0004085000500800,
		0x00ff0000a5a500ff,
	}
	for sq := 0; sq < 64; sq++ {
		for _, occ := range occupancies {
			if got, want := RookAttacks(sq, occ), slowSlideAttacks(sq, occ, [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}); got != want {
				t.Fatalf("RookAttacks(%v, %x) = %x, want %x", SquareName(sq), occ, got, want)
			}
			if got, want := BishopAttacks(sq, occ), slowSlideAttacks(sq, occ, [][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}); got != want {
				t.Fatalf("BishopAttacks(%v, %x) = %x, want %x", SquareName(sq), occ, got, want)
			}
		}
	}
}

func slowSlideAttacks(sq int, occ uint64, dirs [][2]int) uint64 {
	var result uint64
	for _, d := range dirs {
		for f, r := File(sq)+d[0], Rank(sq)+d[1]; f >= FileA && f <= FileH && r >= Rank1 && r <= Rank8; f, r = f+d[0], r+d[1] {
			var to = MakeSquare(f, r)
			result |= SquareMask[to]
			if (occ & SquareMask[to]) != 0 {
				break
			}
		}
	}
	return result
}

func TestBetween(t *testing.T) {
	tests := []struct {
		sq1, sq2 int
		want     uint64
	}{
		{SquareA1, SquareH8, SquareMask[SquareB2] | SquareMask[SquareC3] | SquareMask[SquareD4] | SquareMask[SquareE5] | SquareMask[SquareF6] | SquareMask[SquareG7]},
		{SquareA1, SquareA8, FileAMask &^ (SquareMask[SquareA1] | SquareMask[SquareA8])},
		{SquareE4, SquareE5, 0},
		{SquareA1, SquareB3, 0},
	}
	for _, tt := range tests {
		if got := Between(tt.sq1, tt.sq2); got != tt.want {
			t.Errorf("Between(%v, %v) = %x, want %x",
				SquareName(tt.sq1), SquareName(tt.sq2), got, tt.want)
		}
		if got := Between(tt.sq2, tt.sq1); got != tt.want {
			t.Errorf("Between(%v, %v) = %x, want %x",
				SquareName(tt.sq2), SquareName(tt.sq1), got, tt.want)
		}
	}
}

func TestPawnAttacks(t *testing.T) {
	if PawnAttacks(SquareE4, true) != SquareMask[SquareD5]|SquareMask[SquareF5] {
		t.Error("white pawn attacks from e4")
	}
	if PawnAttacks(SquareE4, false) != SquareMask[SquareD3]|SquareMask[SquareF3] {
		t.Error("black pawn attacks from e4")
	}
	if bits.OnesCount64(PawnAttacks(SquareA2, true)) != 1 {
		t.Error("edge pawn attacks one square")
	}
}
