package uci

import (
	"context"
	"testing"
	"time"

	"github.com/pelicanchess/pelican/pkg/common"
)

type fakeEngine struct{}

func (fakeEngine) Prepare() {}
func (fakeEngine) Clear()   {}
func (fakeEngine) Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo {
	return common.SearchInfo{}
}

func TestPositionCommand(t *testing.T) {
	var uci = New("test", "tester", "0.1", fakeEngine{}, nil)

	if err := uci.positionCommand([]string{"startpos", "moves", "e2e4", "c7c5"}); err != nil {
		t.Fatal(err)
	}
	if got := uci.position.String(); got != "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2" {
		t.Error("unexpected position", got)
	}

	if err := uci.positionCommand([]string{"fen", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8", "w", "-", "-", "0", "1"}); err != nil {
		t.Fatal(err)
	}
	if got := uci.position.String(); got != "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1" {
		t.Error("unexpected position", got)
	}

	if err := uci.positionCommand([]string{"startpos", "moves", "e2e5"}); err == nil {
		t.Error("expected error for illegal move")
	}
}

func TestParseLimits(t *testing.T) {
	var limits = parseLimits([]string{"wtime", "60000", "btime", "55000", "winc", "1000", "binc", "1000", "movestogo", "20"})
	if limits.WhiteTime != 60000 || limits.BlackTime != 55000 ||
		limits.WhiteIncrement != 1000 || limits.BlackIncrement != 1000 ||
		limits.MovesToGo != 20 {
		t.Error("bad clock limits", limits)
	}

	limits = parseLimits([]string{"depth", "12"})
	if limits.Depth != 12 {
		t.Error("bad depth limit", limits)
	}

	limits = parseLimits([]string{"nodes", "5000000000"})
	if limits.Nodes != 5000000000 {
		t.Error("bad nodes limit", limits)
	}

	limits = parseLimits([]string{"infinite"})
	if !limits.Infinite {
		t.Error("bad infinite limit", limits)
	}

	// truncated input must parse as unset, not panic
	limits = parseLimits([]string{"wtime"})
	if limits != (common.LimitsType{}) {
		t.Error("truncated wtime", limits)
	}
	limits = parseLimits([]string{"depth", "8", "nodes"})
	if limits.Depth != 8 || limits.Nodes != 0 {
		t.Error("truncated nodes", limits)
	}
}

func TestSetOption(t *testing.T) {
	var hash = 16
	var nullMove = true
	var uci = New("test", "tester", "0.1", fakeEngine{}, []Option{
		&IntOption{Name: "Hash", Min: 4, Max: 128, Value: &hash},
		&BoolOption{Name: "NullMove", Value: &nullMove},
	})

	if err := uci.setOptionCommand([]string{"name", "NullMove", "value", "false"}); err != nil {
		t.Fatal(err)
	}
	if nullMove {
		t.Error("bool option not applied")
	}
	if err := uci.setOptionCommand([]string{"name", "Hash", "value", "64"}); err != nil {
		t.Fatal(err)
	}
	if hash != 64 {
		t.Error("int option not applied", hash)
	}
	if err := uci.setOptionCommand([]string{"name", "Hash", "value", "1000"}); err == nil {
		t.Error("expected out of range error")
	}
	if err := uci.setOptionCommand([]string{"name", "Unknown", "value", "1"}); err == nil {
		t.Error("expected unhandled option error")
	}
}

func TestSearchInfoToUci(t *testing.T) {
	var m1, m2 common.Move
	{
		var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
		if err != nil {
			t.Fatal(err)
		}
		p.MakeMoveLAN("e2e4")
		m1 = p.LastMove
		p.MakeMoveLAN("e7e5")
		m2 = p.LastMove
	}
	var got = searchInfoToUci(common.SearchInfo{
		Depth:    8,
		Score:    common.UciScore{Centipawns: 35},
		Nodes:    100000,
		Time:     time.Second,
		MainLine: []common.Move{m1, m2},
	})
	if got != "info depth 8 score cp 35 nodes 100000 time 1000 nps 99900 pv e2e4 e7e5" {
		t.Error("unexpected info line", got)
	}

	got = searchInfoToUci(common.SearchInfo{
		Depth:    4,
		Score:    common.UciScore{Mate: 2},
		MainLine: []common.Move{m1},
	})
	if got != "info depth 4 score mate 2 nodes 0 time 0 nps 0 pv e2e4" {
		t.Error("unexpected mate info line", got)
	}
}
