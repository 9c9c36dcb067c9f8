// Package bots provides small self-contained searchers. They are far
// weaker than the engine but handy as opponents and as oracles in tests.
package bots

import (
	"math/rand"

	"github.com/pelicanchess/pelican/pkg/common"
	"github.com/pelicanchess/pelican/pkg/eval"
)

const (
	valueMate     = 30000
	valueInfinity = valueMate + 1
)

// Searcher picks a move for the side to move. BestMove returns
// MoveEmpty when there is no legal move.
type Searcher interface {
	BestMove(p *common.Position) common.Move
}

// PlayGame plays white against black from the given position, applying
// the moves in place, and returns the game transcript in standard
// algebraic notation. Play stops after maxMoves half-moves or when the
// side to move has no legal move.
func PlayGame(p *common.Position, white, black Searcher, maxMoves int) []string {
	var sans []string
	for len(sans) < maxMoves {
		var searcher Searcher
		if p.WhiteMove {
			searcher = white
		} else {
			searcher = black
		}
		var move = searcher.BestMove(p)
		if move == common.MoveEmpty {
			break
		}
		var san = p.MoveSAN(move)
		if !p.MakeMove(move) {
			break
		}
		sans = append(sans, san)
	}
	return sans
}

type RandomBot struct {
	rnd *rand.Rand
}

func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rnd: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) BestMove(p *common.Position) common.Move {
	var moves = p.GenerateLegalMoves()
	if len(moves) == 0 {
		return common.MoveEmpty
	}
	return moves[b.rnd.Intn(len(moves))]
}

// MiniMaxBot searches the full tree to a fixed depth with no pruning.
type MiniMaxBot struct {
	Depth     int
	evaluator *eval.EvaluationService
}

func NewMiniMaxBot(depth int) *MiniMaxBot {
	return &MiniMaxBot{
		Depth:     depth,
		evaluator: eval.NewEvaluationService(),
	}
}

func (b *MiniMaxBot) BestMove(p *common.Position) common.Move {
	var bestMove = common.MoveEmpty
	var best = -valueInfinity
	var buffer [common.MaxMoves]common.OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		if !p.MakeMove(om.Move) {
			continue
		}
		var score = -b.minimax(p, b.Depth-1, 1)
		p.UnmakeMove()
		if score > best {
			best = score
			bestMove = om.Move
		}
	}
	return bestMove
}

func (b *MiniMaxBot) minimax(p *common.Position, depth, height int) int {
	if depth <= 0 {
		return b.evaluator.Evaluate(p)
	}
	var best = -valueInfinity
	var hasLegalMove = false
	var buffer [common.MaxMoves]common.OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		if !p.MakeMove(om.Move) {
			continue
		}
		hasLegalMove = true
		var score = -b.minimax(p, depth-1, height+1)
		p.UnmakeMove()
		if score > best {
			best = score
		}
	}
	if !hasLegalMove {
		if p.IsCheck() {
			return -valueMate + height
		}
		return 0
	}
	return best
}

// AlphaBetaBot searches to a fixed depth with plain alpha-beta. Within
// the same depth it agrees with MiniMaxBot on the score.
type AlphaBetaBot struct {
	Depth     int
	evaluator *eval.EvaluationService
}

func NewAlphaBetaBot(depth int) *AlphaBetaBot {
	return &AlphaBetaBot{
		Depth:     depth,
		evaluator: eval.NewEvaluationService(),
	}
}

func (b *AlphaBetaBot) BestMove(p *common.Position) common.Move {
	var bestMove = common.MoveEmpty
	var alpha = -valueInfinity
	var buffer [common.MaxMoves]common.OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		if !p.MakeMove(om.Move) {
			continue
		}
		var score = -b.alphaBeta(p, -valueInfinity, -alpha, b.Depth-1, 1)
		p.UnmakeMove()
		if score > alpha {
			alpha = score
			bestMove = om.Move
		}
	}
	return bestMove
}

func (b *AlphaBetaBot) alphaBeta(p *common.Position, alpha, beta, depth, height int) int {
	if depth <= 0 {
		return b.evaluator.Evaluate(p)
	}
	var hasLegalMove = false
	var buffer [common.MaxMoves]common.OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		if !p.MakeMove(om.Move) {
			continue
		}
		hasLegalMove = true
		var score = -b.alphaBeta(p, -beta, -alpha, depth-1, height+1)
		p.UnmakeMove()
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}
	if !hasLegalMove {
		if p.IsCheck() {
			return -valueMate + height
		}
		return 0
	}
	return alpha
}
