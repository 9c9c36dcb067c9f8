package eval

import (
	"testing"

	"github.com/pelicanchess/pelican/pkg/common"
)

var testFENs = []string{
	common.InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1",
}

// The evaluation must be color symmetric: mirroring the position flips
// nothing but the sign owner, so the score stays the same.
func TestEvalSymmetry(t *testing.T) {
	var e = NewEvaluationService()
	for _, fen := range testFENs {
		var p, err = common.NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var mirror = common.MirrorPosition(&p)
		if e.Evaluate(&p) != e.Evaluate(&mirror) {
			t.Error("eval not symmetric", fen)
		}
	}
}

func TestEvalMaterial(t *testing.T) {
	var e = NewEvaluationService()

	var up, err = common.NewPositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if e.Evaluate(&up) <= 0 {
		t.Error("extra queen should score positive for the side to move")
	}

	down, err := common.NewPositionFromFEN("4k3/8/8/8/8/8/8/q3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if e.Evaluate(&down) >= 0 {
		t.Error("opponent queen should score negative for the side to move")
	}
}

func TestPawnCache(t *testing.T) {
	var e = NewEvaluationService()
	var p, err = common.NewPositionFromFEN("4k3/pp5p/8/8/8/8/P1P4P/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var first = e.Evaluate(&p)
	if second := e.Evaluate(&p); second != first {
		t.Error("cached pawn score differs", first, second)
	}
	e.Clear()
	if third := e.Evaluate(&p); third != first {
		t.Error("score after cache clear differs", first, third)
	}
}

// The resized cache holds the largest power-of-two entry count that
// fits the megabyte budget; 1 MB is exactly the constructor default.
func TestResizePawnHash(t *testing.T) {
	var e = NewEvaluationService()
	if len(e.pawnCache.entries) != 1<<16 {
		t.Fatal("unexpected default size", len(e.pawnCache.entries))
	}
	e.ResizePawnHash(1)
	if len(e.pawnCache.entries) != 1<<16 {
		t.Error("1 MB resize", len(e.pawnCache.entries))
	}
	e.ResizePawnHash(2)
	if len(e.pawnCache.entries) != 1<<17 {
		t.Error("2 MB resize", len(e.pawnCache.entries))
	}
	e.ResizePawnHash(64)
	if len(e.pawnCache.entries) != 1<<22 {
		t.Error("64 MB resize", len(e.pawnCache.entries))
	}

	var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	if before := e.Evaluate(&p); e.Evaluate(&p) != before {
		t.Error("evaluation unstable after resize")
	}
}
