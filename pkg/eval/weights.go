package eval

import (
	. "github.com/pelicanchess/pelican/pkg/common"
)

// Classic hand-tuned material and piece-square weights. Tables are from
// white's perspective with index 0 = a1.

var materialMiddle = [King + 1]int16{0, 100, 320, 330, 500, 900, 0}
var materialEnd = [King + 1]int16{0, 120, 320, 330, 520, 930, 0}

var pawnPST = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int16{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int16{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int16{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int16{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMiddlePST = [64]int16{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var kingEndPST = [64]int16{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

type Weights struct {
	PST                [2][King + 1][64]Score
	BishopPairMaterial Score
	PawnIsolated       Score
	PawnDoubled        Score
	PawnPassed         [8]Score
}

func (w *Weights) init() {
	var tables = [King + 1]*[64]int16{
		nil,
		&pawnPST,
		&knightPST,
		&bishopPST,
		&rookPST,
		&queenPST,
		nil,
	}
	for piece := Pawn; piece <= King; piece++ {
		for sq := 0; sq < 64; sq++ {
			var s Score
			if piece == King {
				s = S(kingMiddlePST[sq], kingEndPST[sq])
			} else {
				s = S(materialMiddle[piece]+tables[piece][sq],
					materialEnd[piece]+tables[piece][sq])
			}
			w.PST[SideWhite][piece][sq] = s
			w.PST[SideBlack][piece][FlipSquare(sq)] = -s
		}
	}

	w.BishopPairMaterial = S(30, 45)
	w.PawnIsolated = S(-13, -18)
	w.PawnDoubled = S(-18, -28)
	w.PawnPassed = [8]Score{
		0, S(0, 5), S(10, 15), S(20, 25), S(35, 45), S(60, 75), S(100, 125), 0,
	}
}
