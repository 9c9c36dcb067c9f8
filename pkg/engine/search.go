package engine

import (
	"sync/atomic"

	. "github.com/pelicanchess/pelican/pkg/common"
)

const pawnValue = 100

func searchRoot(t *thread, depth int, startingMove Move) int {
	t.rootMove = startingMove
	const height = 0
	return t.alphaBeta(-valueInfinity, valueInfinity, depth, height)
}

// main search method
func (t *thread) alphaBeta(alpha, beta, depth, height int) int {
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}
	t.clearPV(height)

	var rootNode = height == 0
	var pvNode = beta != alpha+1
	var position = &t.position
	var isCheck = position.IsCheck()

	if !rootNode {
		if height >= maxHeight {
			return t.evaluator.Evaluate(position)
		}
		if position.Repeated() {
			return valueDraw
		}
		if isDraw(position) {
			return valueDraw
		}
		// mate distance pruning
		if winIn(height+1) <= alpha {
			return alpha
		}
		if lossIn(height+2) >= beta && !isCheck {
			return beta
		}
	}

	// transposition table
	var ttDepth, ttValue, ttBound, ttMove, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttDepth >= depth && !pvNode && !rootNode && position.LastMove != MoveEmpty {
			if ttValue >= beta && (ttBound&boundLower) != 0 {
				if ttMove != MoveEmpty && !isCaptureOrPromotion(ttMove) {
					t.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && (ttBound&boundUpper) != 0 {
				return ttValue
			}
		}
	}
	if rootNode && t.rootMove != MoveEmpty {
		ttMove = t.rootMove
	}

	var staticEval = t.evaluator.Evaluate(position)
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval

	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = MoveEmpty
		t.stack[height+2].killer2 = MoveEmpty
	}

	if !rootNode {

		// reverse futility pruning
		if !pvNode && depth <= 8 && !isCheck &&
			staticEval-pawnValue*depth >= beta {
			return staticEval
		}

		// null-move pruning
		if t.engine.NullMove &&
			!pvNode && depth >= 2 && !isCheck &&
			position.LastMove != MoveEmpty &&
			beta < valueWin &&
			!(ttHit && ttValue < beta && (ttBound&boundUpper) != 0) &&
			!isLateEndgame(position, position.WhiteMove) &&
			staticEval >= beta {
			var reduction = 4 + depth/6 + Min(2, (staticEval-beta)/200)
			t.makeNullMove()
			var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1)
			t.unmakeMove()
			if score >= beta {
				if score >= valueWin {
					score = beta
				}
				return score
			}
		}
	}

	var sideToMove = position.WhiteMove
	var mi = t.initMoveIterator(height, ttMove)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0

	var quietsSearched = t.stack[height].quietsSearched[:0]
	var bestMove Move

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha

	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		var isNoisy = isCaptureOrPromotion(move)
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck && !rootNode &&
			!(isNoisy || move == killer1 || move == killer2) {
			// late-move pruning
			if quietsSeen > lmp {
				continue
			}

			// futility pruning
			if staticEval+100+pawnValue*depth <= alpha {
				continue
			}
		}

		if !t.makeMove(move) {
			continue
		}
		hasLegalMove = true

		movesSearched++

		var extension, reduction int

		var givesCheck = t.position.IsCheck()
		if givesCheck && depth >= 3 {
			extension = 1
		}

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = t.engine.lateMoveReduction(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				var history = t.history.Read(sideToMove, move)
				reduction -= Max(-2, Min(2, history/5000))

				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || givesCheck {
				reduction--
			}
			reduction = Max(reduction, 0) + extension
			reduction = Max(0, Min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension

		var score = alpha + 1
		// LMR
		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
		}
		// PVS
		if score > alpha && beta != alpha+1 && movesSearched > 1 && newDepth > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
		}
		// full search
		if score > alpha {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		t.unmakeMove()

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck {
			return valueDraw
		}
		return lossIn(height)
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !isCaptureOrPromotion(bestMove) {
		t.history.Update(quietsSearched, bestMove, sideToMove, depth)
		t.updateKiller(bestMove, height)
	}

	ttBound = 0
	if best > oldAlpha {
		ttBound |= boundLower
	}
	if best < beta {
		ttBound |= boundUpper
	}
	if !(rootNode && ttBound == boundUpper) {
		t.engine.transTable.Update(position.Key, depth, valueToTT(best, height), ttBound, bestMove)
	}

	return best
}

func (t *thread) quiescence(alpha, beta, height int) int {
	t.clearPV(height)
	var position = &t.position
	if isDraw(position) {
		return valueDraw
	}
	if height >= maxHeight {
		return t.evaluator.Evaluate(position)
	}
	if position.Repeated() {
		return valueDraw
	}

	var _, ttValue, ttBound, _, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			ttBound == boundLower && ttValue >= beta ||
			ttBound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var isCheck = position.IsCheck()
	var best = -valueInfinity
	if !isCheck {
		var eval = t.evaluator.Evaluate(position)
		best = Max(best, eval)
		if eval > alpha {
			alpha = eval
			if alpha >= beta {
				return alpha
			}
		}
	}
	var mi = moveIteratorQS{
		position: position,
		buffer:   t.stack[height].moveList[:],
	}
	mi.Init()
	var hasLegalMove = false
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !t.makeMove(move) {
			continue
		}
		hasLegalMove = true
		var score = -t.quiescence(-beta, -alpha, height+1)
		t.unmakeMove()
		best = Max(best, score)
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}

func (t *thread) incNodes() {
	t.nodes++
	if t.nodes&255 == 0 {
		var total = atomic.AddInt64(&t.engine.sharedNodes, 256)
		t.engine.timeManager.OnNodesChanged(int(total))
		if t.engine.timeManager.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

func (t *thread) initMoveIterator(height int, transMove Move) *moveIterator {
	var mi = &moveIterator{
		position:  &t.position,
		buffer:    t.stack[height].moveList[:],
		history:   &t.history,
		transMove: transMove,
		killer1:   t.stack[height].killer1,
		killer2:   t.stack[height].killer2,
	}
	mi.Init()
	return mi
}

func (t *thread) updateKiller(move Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

func (t *thread) makeMove(move Move) bool {
	if !t.position.MakeMove(move) {
		return false
	}
	t.incNodes()
	return true
}

func (t *thread) makeNullMove() {
	t.position.MakeNullMove()
	t.incNodes()
}

func (t *thread) unmakeMove() {
	t.position.UnmakeMove()
}

func (e *Engine) genRootMoves() []Move {
	var t = &e.threads[0]
	const height = 0
	_, _, _, transMove, _ := e.transTable.Read(t.position.Key)

	var mi = t.initMoveIterator(height, transMove)

	var result []Move
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if t.position.MakeMove(move) {
			t.position.UnmakeMove()
			result = append(result, move)
		}
	}
	return result
}
