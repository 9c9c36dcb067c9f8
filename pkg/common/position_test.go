package common

import (
	"math/rand"
	"strings"
	"testing"
)

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
}

func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		if got := p.String(); got != fen {
			t.Errorf("round trip %q -> %q", fen, got)
		}
	}
}

func TestIncrementalKeys(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		if p.Key != p.ComputeKey() || p.PawnKey != p.ComputePawnKey() {
			t.Error("initial key mismatch", fen)
		}
	}
}

// Applies random legal moves and undoes all of them, checking that every
// incrementally maintained field matches a from-scratch recomputation at
// each step and that the start position returns intact.
func TestMakeUnmakeSymmetry(t *testing.T) {
	var rnd = rand.New(rand.NewSource(1))
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var initial = p.Clone()
		var applied = 0
		for i := 0; i < 64; i++ {
			var moves = p.GenerateLegalMoves()
			if len(moves) == 0 {
				break
			}
			if !p.MakeMove(moves[rnd.Intn(len(moves))]) {
				t.Fatal("legal move rejected", fen)
			}
			applied++
			if p.Key != p.ComputeKey() {
				t.Fatal("incremental key diverged", fen, p.String())
			}
			if p.PawnKey != p.ComputePawnKey() {
				t.Fatal("incremental pawn key diverged", fen, p.String())
			}
		}
		for ; applied > 0; applied-- {
			p.UnmakeMove()
		}
		if !samePosition(&p, &initial) {
			t.Errorf("unmake did not restore %q, got %q", fen, p.String())
		}
	}
}

func TestNullMoveSymmetry(t *testing.T) {
	var p, err = NewPositionFromFEN(testFENs[1])
	if err != nil {
		t.Fatal(err)
	}
	var initial = p.Clone()
	p.MakeNullMove()
	if p.WhiteMove == initial.WhiteMove || p.Key == initial.Key {
		t.Error("null move changed nothing")
	}
	if p.Key != p.ComputeKey() {
		t.Error("null move key diverged")
	}
	p.UnmakeMove()
	if !samePosition(&p, &initial) {
		t.Error("null move unmake did not restore position")
	}
}

func TestUnmakeEmptyStackPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	p.UnmakeMove()
}

func TestRepeated(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	for _, lan := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		if p.Repeated() {
			t.Fatal("premature repetition before", lan)
		}
		if !p.MakeMoveLAN(lan) {
			t.Fatal("bad move", lan)
		}
	}
	if !p.Repeated() {
		t.Error("knight shuffle should repeat the start position")
	}

	// A pawn move resets the horizon.
	if !p.MakeMoveLAN("e2e4") {
		t.Fatal("bad move e2e4")
	}
	for _, lan := range []string{"g8f6", "g1f3", "f6g8", "f3g1"} {
		if !p.MakeMoveLAN(lan) {
			t.Fatal("bad move", lan)
		}
	}
	if !p.Repeated() {
		t.Error("shuffle after e4 should repeat")
	}
}

func TestCloneIsolatesHistory(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	p.MakeMoveLAN("e2e4")
	var clone = p.Clone()
	clone.MakeMoveLAN("e7e5")
	clone.UnmakeMove()
	clone.UnmakeMove()
	if p.Ply() != 1 || p.String() == clone.String() {
		t.Error("clone shares undo history with original")
	}
}

func TestMakeMoveLAN(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	if p.MakeMoveLAN("e2e5") {
		t.Error("accepted illegal move")
	}
	for _, lan := range strings.Fields("e2e4 e7e5 g1f3 b8c6 f1b5") {
		if !p.MakeMoveLAN(lan) {
			t.Fatal("bad move", lan)
		}
	}
	if p.String() != "r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3" {
		t.Error("unexpected position", p.String())
	}
}

func samePosition(a, b *Position) bool {
	return a.Pawns == b.Pawns &&
		a.Knights == b.Knights &&
		a.Bishops == b.Bishops &&
		a.Rooks == b.Rooks &&
		a.Queens == b.Queens &&
		a.Kings == b.Kings &&
		a.White == b.White &&
		a.Black == b.Black &&
		a.Checkers == b.Checkers &&
		a.WhiteMove == b.WhiteMove &&
		a.CastleRights == b.CastleRights &&
		a.Rule50 == b.Rule50 &&
		a.FullMove == b.FullMove &&
		a.EpSquare == b.EpSquare &&
		a.Key == b.Key &&
		a.PawnKey == b.PawnKey &&
		a.LastMove == b.LastMove
}
