package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pelicanchess/pelican/pkg/common"
)

var errSearchTimeout = errors.New("search timeout")

type searchTask struct {
	depth        int
	startingMove common.Move //for move ordering
}

// lazySmp runs the worker threads on copies of the root position. All
// threads share the transposition table; coordination is limited to the
// task and result channels.
func lazySmp(e *Engine) {
	var ml = e.genRootMoves()
	if len(ml) != 0 {
		e.mainLine = mainLine{
			depth: 0,
			score: 0,
			nodes: 0,
			moves: []common.Move{ml[0]},
		}
	}
	if len(ml) <= 1 {
		return
	}

	var tasks = make(chan searchTask)
	var taskResults = make(chan mainLine)

	var faults int32
	var g errgroup.Group
	for i := 0; i < e.Threads; i++ {
		var t = &e.threads[i]
		g.Go(func() error {
			return searchDepth(t, tasks, taskResults, &faults)
		})
	}

	go func() {
		g.Wait()
		close(taskResults)
	}()

	iterativeDeepening(e, tasks, taskResults)

	if int(atomic.LoadInt32(&faults)) == e.Threads {
		// every worker died outside the timeout path; nothing that was
		// reported can be trusted
		e.mainLine = mainLine{}
	}
}

// iterativeDeepening hands out depths to idle workers. Once half the
// workers have taken a depth, the next idle worker skips ahead one ply
// so the threads do not all explore the same tree.
func iterativeDeepening(
	e *Engine,
	tasks chan<- searchTask,
	taskResults <-chan mainLine,
) {
	var searchCountByDepth [stackSize]int
	for {
		var task = searchTask{
			depth:        e.mainLine.depth + 1, // next iteration
			startingMove: e.mainLine.moves[0],
		}
		if task.depth < len(searchCountByDepth) &&
			searchCountByDepth[task.depth] >= (e.Threads+1)/2 {
			// some threads search deeper
			task.depth = e.mainLine.depth + 2
		}

		if task.depth > maxHeight ||
			(e.limits.Depth != 0 && task.depth > e.limits.Depth) ||
			e.timeManager.IsDone() {
			// no new iterations
			if tasks != nil {
				close(tasks)
				tasks = nil
			}
		}

		select {
		case taskResult, ok := <-taskResults:
			if !ok {
				// all searches finished
				return
			}
			e.mainLine.nodes += taskResult.nodes
			if betterLine(taskResult, e.mainLine) {
				e.mainLine.depth = taskResult.depth
				e.mainLine.score = taskResult.score
				e.mainLine.moves = taskResult.moves
				e.timeManager.OnIterationComplete(e.mainLine)
				if e.progress != nil && e.mainLine.nodes >= int64(e.ProgressMinNodes) {
					e.progress(e.currentSearchResult())
				}
			}
		case tasks <- task:
			searchCountByDepth[task.depth]++
		}
	}
}

// betterLine prefers the deeper completed iteration, breaking depth
// ties by score.
func betterLine(candidate, current mainLine) bool {
	if candidate.depth != current.depth {
		return candidate.depth > current.depth
	}
	return candidate.score > current.score
}

// searchDepth is the worker loop. A timed-out search unwinds with a
// panic that is swallowed here; partial results of that iteration are
// discarded. Any other panic retires this worker without taking the
// search down, so the remaining workers still produce a move.
func searchDepth(
	t *thread,
	tasks <-chan searchTask,
	taskResults chan<- mainLine,
	faults *int32,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchTimeout {
				return
			}
			atomic.AddInt32(faults, 1)
			err = fmt.Errorf("search worker fault: %v", r)
		}
	}()

	const height = 0
	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = common.MoveEmpty
		t.stack[h].killer2 = common.MoveEmpty
	}

	for task := range tasks {
		var score = searchRoot(t, task.depth, task.startingMove)
		taskResults <- mainLine{
			depth: task.depth,
			score: score,
			moves: t.stack[height].pv.toSlice(),
			nodes: t.nodes,
		}
		t.nodes = 0
	}
	return
}
