package bots

import (
	"testing"

	"github.com/pelicanchess/pelican/pkg/common"
)

func TestRandomBotLegality(t *testing.T) {
	var bot = NewRandomBot(1)
	var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		var move = bot.BestMove(&p)
		if move == common.MoveEmpty {
			break
		}
		if !p.MakeMove(move) {
			t.Fatal("random bot produced illegal move", move)
		}
	}
}

// The transcript must replay: every emitted SAN string names exactly
// the move that was played.
func TestPlayGameTranscript(t *testing.T) {
	var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var sans = PlayGame(&p, NewRandomBot(1), NewAlphaBetaBot(2), 40)
	if len(sans) == 0 {
		t.Fatal("empty transcript from the initial position")
	}
	var replay, _ = common.NewPositionFromFEN(common.InitialPositionFen)
	for i, san := range sans {
		var move = common.ParseMoveSAN(&replay, san)
		if move == common.MoveEmpty {
			t.Fatalf("move %d: %q does not parse in %q", i, san, replay.String())
		}
		if !replay.MakeMove(move) {
			t.Fatalf("move %d: %q illegal in %q", i, san, replay.String())
		}
	}
	if replay.String() != p.String() {
		t.Errorf("replay diverged: %q vs %q", replay.String(), p.String())
	}
}

func TestBotsNoLegalMoves(t *testing.T) {
	var stalemate = "7k/5K2/6Q1/8/8/8/8/8 b - - 0 1"
	var p, err = common.NewPositionFromFEN(stalemate)
	if err != nil {
		t.Fatal(err)
	}
	if m := NewRandomBot(1).BestMove(&p); m != common.MoveEmpty {
		t.Error("random bot moved in stalemate", m)
	}
	if m := NewMiniMaxBot(2).BestMove(&p); m != common.MoveEmpty {
		t.Error("minimax bot moved in stalemate", m)
	}
	if m := NewAlphaBetaBot(2).BestMove(&p); m != common.MoveEmpty {
		t.Error("alpha-beta bot moved in stalemate", m)
	}
}

// Pruning must not change the move choice: on tactical positions with a
// single best capture, alpha-beta agrees with the full minimax search.
func TestAlphaBetaMatchesMiniMax(t *testing.T) {
	var tests = []string{
		// hanging queen
		"4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1",
		// back-rank mate
		"6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1",
		// free rook for black
		"4k3/3r4/8/8/8/8/3B4/4K3 b - - 0 1",
	}
	for _, fen := range tests {
		var p1, err = common.NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var p2 = p1.Clone()
		var mm = NewMiniMaxBot(3).BestMove(&p1)
		var ab = NewAlphaBetaBot(3).BestMove(&p2)
		if mm != ab {
			t.Error(fen, "minimax", mm, "alpha-beta", ab)
		}
	}
}
