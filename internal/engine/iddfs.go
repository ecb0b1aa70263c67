package engine

import (
	"time"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
)

// Info is one iterative-deepening progress report: the result of having
// just completed a full search to Depth.
type Info struct {
	Depth   int
	Score   int
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.PlayerMove
}

// Engine drives iterative deepening over a Searcher sharing one
// transposition table, reporting progress through OnInfo after every
// depth that finishes before the searcher is stopped.
type Engine struct {
	pos      *board.Position
	tt       *Table
	searcher *Searcher

	// OnInfo, if set, is called once per completed depth. It must not
	// mutate pos.
	OnInfo func(Info)
}

// NewEngine builds an engine over pos, searching with tt.
func NewEngine(pos *board.Position, tt *Table) *Engine {
	return &Engine{pos: pos, tt: tt, searcher: NewSearcher(pos, tt)}
}

// Stop asks the in-progress search to return as soon as it next polls.
// Safe to call from another goroutine. Search does not clear the flag,
// so once set, every later Search on this engine also returns at once.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Nodes reports how many nodes the current (or most recent) search has
// visited.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Search runs iterative deepening from depth 1 up to maxDepth and
// returns the score of the last depth completed. It stops early, before
// maxDepth, once the game's outcome from this position is decided (a
// deeper search cannot change a proven mate) or once Stop is called -
// in the latter case the returned score is the previous completed
// iteration's, per the cancellation policy: the abort flag is only
// polled inside negamax, so a depth already in flight always finishes
// or aborts on its own, it is never abandoned mid-return here.
func (e *Engine) Search(maxDepth int) int {
	e.searcher.nodes = 0
	start := time.Now()
	ply := e.pos.NumMoves()

	score := 0
	for depth := 1; depth <= maxDepth; depth++ {
		newScore := e.searcher.negamax(depth, Loss, Win)
		if e.searcher.stopFlag.Load() {
			return score
		}
		score = newScore
		if e.OnInfo != nil {
			e.OnInfo(Info{
				Depth:   depth,
				Score:   score,
				Nodes:   e.searcher.Nodes(),
				Elapsed: time.Since(start),
				PV:      e.principalVariation(),
			})
		}
		if outcome, _ := DecodeEval(score, ply); outcome != Undetermined {
			break
		}
	}
	return score
}

// principalVariation reads the line of play the search currently
// believes best by walking the transposition table from the root,
// playing each stored best move in turn. It stops at the first miss or
// the first position already seen on this walk - a repeated key means
// a cycle in the stored hints (possible since a retraction can return
// to an earlier position) and continuing would not terminate.
func (e *Engine) principalVariation() []board.PlayerMove {
	var pv []board.PlayerMove
	seen := make(map[uint64]bool)
	for len(pv) < board.MaxMoves {
		k := key(e.pos)
		if seen[k] {
			break
		}
		entry, ok := e.tt.Probe(e.pos)
		if !ok {
			break
		}
		seen[k] = true
		pm := entry.BestMove()
		e.pos.MakeMove(pm.ToMove(e.pos))
		pv = append(pv, pm)
	}
	for range pv {
		e.pos.UnmakeMove()
	}
	return pv
}

// Knps converts a node count and elapsed duration into thousands of
// nodes per second, the unit the "info" progress line reports. Nodes per
// millisecond is already nodes per second in thousands; the +1 avoids a
// divide-by-zero on a near-instant search.
func Knps(nodes uint64, elapsed time.Duration) uint64 {
	return nodes / (1 + uint64(elapsed.Milliseconds()))
}
