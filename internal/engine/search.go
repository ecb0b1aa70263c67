package engine

import (
	"sync/atomic"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
	"github.com/WannesMalfait/Second-Best--Solver/internal/movegen"
)

// Searcher runs an iterative-deepening alpha-beta negamax search over a
// position, backed by a shared transposition table.
type Searcher struct {
	pos *board.Position
	tt  *Table

	nodes    uint64
	stopFlag atomic.Bool
}

// NewSearcher builds a searcher over pos, sharing tt with whatever other
// searchers (or prior searches) already used it.
func NewSearcher(pos *board.Position, tt *Table) *Searcher {
	return &Searcher{pos: pos, tt: tt}
}

// Stop asks an in-progress search to return as soon as it next polls.
// Safe to call from another goroutine.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset clears the stop flag and node counter ahead of a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
}

// Nodes returns how many nodes the most recent search (or the one in
// progress) has visited.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) aborting() bool {
	return s.nodes%1024 == 0 && s.stopFlag.Load()
}

// negamax searches pos to depth plies, returning a score from the point
// of view of the player to move. "Second Best!" does not consume depth:
// retracting a move and being forced to play something else is not a
// ply the search can afford to shortchange, since it changes which
// moves are legal rather than advancing the game.
func (s *Searcher) negamax(depth, alpha, beta int) int {
	if s.aborting() {
		return 0
	}
	s.nodes++

	ply := s.pos.NumMoves()
	switch s.pos.GameStatus() {
	case board.WeLost:
		return LossScore(ply)
	case board.WeWon:
		return WinScore(ply)
	}
	if depth == 0 {
		return StaticEval(s.pos)
	}

	initialAlpha, initialBeta := alpha, beta

	var ttHint board.PlayerMove
	haveHint := false
	if entry, ok := s.tt.Probe(s.pos); ok {
		ttHint = entry.BestMove()
		haveHint = true
		if entry.Depth() >= depth && entry.BoundType() == BoundExact {
			return entry.Score(ply)
		}
	}

	// We already know we aren't lost; the worst case from here is losing
	// next ply.
	bestScore := LossScore(ply + 1)
	if bestScore >= beta {
		return bestScore
	}

	gen := movegen.New(s.pos)
	if haveHint {
		gen.SetPVMove(ttHint)
	}

	var bestMove board.PlayerMove
	haveBestMove := false
	for {
		pmove, ok := gen.Next()
		if !ok {
			break
		}
		gmove := pmove.ToMove(s.pos)
		s.pos.MakeMove(gmove)
		nextDepth := depth - 1
		if pmove.SecondBest {
			nextDepth = depth
		}
		score := -s.negamax(nextDepth, -beta, -alpha)
		s.pos.UnmakeMove()

		if score > bestScore {
			bestMove = pmove
			haveBestMove = true
			bestScore = score
			if bestScore > alpha {
				alpha = bestScore
				if alpha >= beta {
					break
				}
			}
		}
	}

	if haveBestMove {
		bound := BoundUndetermined
		if outcome, _ := DecodeEval(bestScore, ply); outcome != Undetermined {
			switch {
			case bestScore >= initialBeta:
				bound = BoundLower
			case bestScore <= initialAlpha:
				bound = BoundUpper
			default:
				bound = BoundExact
			}
		}
		s.tt.Store(s.pos, bestScore, bestMove, bound, depth, ply)
	}
	return bestScore
}
