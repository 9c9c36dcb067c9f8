package engine

import (
	"context"
	"math"
	"runtime"
	"time"

	. "github.com/pelicanchess/pelican/pkg/common"
)

type Engine struct {
	Hash              int
	Threads           int
	PawnHash          int
	NullMove          bool
	ProgressMinNodes  int
	evalBuilder       func() Evaluator
	builtPawnHash     int
	timeManager       *timeManager
	transTable        *transTable
	lateMoveReduction func(d, m int) int
	threads           []thread
	progress          func(SearchInfo)
	limits            LimitsType
	mainLine          mainLine
	start             time.Time
	sharedNodes       int64
}

type thread struct {
	engine    *Engine
	history   historyTable
	evaluator Evaluator
	position  Position
	rootMove  Move
	nodes     int64
	stack     [stackSize]struct {
		moveList       [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		pv             pv
		staticEval     int
		killer1        Move
		killer2        Move
	}
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves []Move
	score int
	depth int
	nodes int64
}

type Evaluator interface {
	Evaluate(p *Position) int
}

type pawnHashResizer interface {
	ResizePawnHash(megabytes int)
}

func NewEngine(evalBuilder func() Evaluator) *Engine {
	return &Engine{
		Hash:             16,
		Threads:          1,
		PawnHash:         1,
		NullMove:         true,
		ProgressMinNodes: 200000,
		evalBuilder:      evalBuilder,
	}
}

func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTable(e.Hash)
	}
	if e.lateMoveReduction == nil {
		e.lateMoveReduction = initLmr(lmrMult)
	}
	if len(e.threads) != e.Threads {
		e.threads = make([]thread, e.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.evaluator = e.evalBuilder()
		}
		e.builtPawnHash = 0
	}
	if e.builtPawnHash != e.PawnHash {
		for i := range e.threads {
			if r, ok := e.threads[i].evaluator.(pawnHashResizer); ok {
				r.ResizePawnHash(e.PawnHash)
			}
		}
		e.builtPawnHash = e.PawnHash
	}
}

// Search runs an iterative-deepening search of the given position. It
// blocks until the time manager stops the search or ctx is cancelled,
// and returns the best line found.
func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var p = &searchParams.Position
	e.limits = searchParams.Limits
	e.timeManager = newTimeManager(ctx, e.start, searchParams.Limits, p)
	defer e.timeManager.Close()
	e.transTable.IncDate()
	e.sharedNodes = 0
	e.mainLine = mainLine{}
	for i := range e.threads {
		var t = &e.threads[i]
		t.nodes = 0
		t.position = p.Clone()
	}
	e.progress = searchParams.Progress
	lazySmp(e)
	return e.currentSearchResult()
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		var t = &e.threads[i]
		t.history.Clear()
	}
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.mainLine.nodes,
		Time:     time.Since(e.start),
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func (t *thread) clearPV(height int) {
	t.stack[height].pv.clear()
}

func (t *thread) assignPV(height int, move Move) {
	if height+1 < stackSize {
		t.stack[height].pv.assign(move, &t.stack[height+1].pv)
	}
}

func initLmr(f func(d, m float64) float64) func(d, m int) int {
	var reductions [64][64]int
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			reductions[d][m] = int(f(float64(d), float64(m)))
		}
	}
	return func(d, m int) int {
		return reductions[Min(d, 63)][Min(m, 63)]
	}
}

func lmrMult(d, m float64) float64 {
	return lirp(math.Log(d)*math.Log(m), math.Log(5)*math.Log(22), math.Log(63)*math.Log(63), 3, 8)
}

func lirp(x, x1, x2, y1, y2 float64) float64 {
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}
