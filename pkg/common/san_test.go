package common

import (
	"testing"
)

func TestMoveSAN(t *testing.T) {
	var tests = []struct {
		fen string
		lan string
		san string
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", "O-O"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", "e4d5", "exd5"},
		{"8/P7/8/8/8/8/k6K/8 w - - 0 1", "a7a8q", "a8=Q"},
		{"8/P7/8/8/8/8/k6K/8 w - - 0 1", "a7a8n", "a8=N"},
		// knights on b1 and f3 both reach d2
		{"4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "f3d2", "Nfd2"},
		{"4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "b1d2", "Nbd2"},
		// rooks on a1 and f1 both reach d1
		{"4k3/8/8/8/8/4K3/8/R4R2 w - - 0 1", "a1d1", "Rad1"},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "g1f3", "Nf3"},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(test.fen, err)
		}
		var move = MoveEmpty
		for _, mv := range p.GenerateLegalMoves() {
			if mv.String() == test.lan {
				move = mv
				break
			}
		}
		if move == MoveEmpty {
			t.Fatal(test.fen, "no legal move", test.lan)
		}
		if san := p.MoveSAN(move); san != test.san {
			t.Errorf("%v %v: got %q, want %q", test.fen, test.lan, san, test.san)
		}
	}
}

func TestParseMoveSANRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		for _, mv := range p.GenerateLegalMoves() {
			var san = p.MoveSAN(mv)
			if parsed := ParseMoveSAN(&p, san); parsed != mv {
				t.Errorf("%v: %v -> %q -> %v", fen, mv, san, parsed)
			}
		}
	}
}
