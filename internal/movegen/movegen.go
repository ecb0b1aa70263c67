// Package movegen enumerates the legal moves of a position one at a
// time, in an order chosen to help alpha-beta search cut off early:
// a caller-supplied principal-variation hint first, then "Second Best!"
// if it is available, then placements/slides that complete a vertical
// alignment, then moves onto stacks the mover already controls, and
// finally everything else.
package movegen

import (
	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
)

type stage int

const (
	stagePV stage = iota
	stageSecondBest
	stageVerticalAlignment
	stageGoodTo
	stageBadTo
	stageDone
)

// Gen lazily produces the legal moves of a position. It builds candidates
// one target stack at a time rather than all up front (it does keep a
// list of the moves already yielded, to avoid repeats); Next is cheap to
// call even when a caller stops after the first move (e.g. once a beta
// cutoff fires).
type Gen struct {
	pos *board.Position

	pvMove board.PlayerMove
	havePV bool

	secondPhase   bool
	canSecondBest bool
	bannedTo      int
	bannedFrom    int

	st      stage
	toStack int
	pending []board.PlayerMove // candidates for the to-stack currently being expanded

	emitted []board.PlayerMove
}

// New builds a generator over pos. pos must not be mutated while the
// generator is in use.
func New(pos *board.Position) *Gen {
	g := &Gen{
		pos:        pos,
		bannedTo:   board.NoSpot,
		bannedFrom: board.NoSpot,
	}
	g.secondPhase = pos.IsSecondPhase()
	g.canSecondBest = pos.CanSecondBest()
	if banned, ok := pos.BannedPlayerMove(); ok {
		g.bannedTo = banned.To
		g.bannedFrom = banned.From
	}
	return g
}

// SetPVMove installs the transposition-table hint move so it is tried
// before anything else, provided it is still a legal candidate in pos.
func (g *Gen) SetPVMove(pm board.PlayerMove) {
	g.pvMove = pm
	g.havePV = true
}

// Next returns the next move in priority order, or ok=false once
// exhausted.
func (g *Gen) Next() (board.PlayerMove, bool) {
	for {
		switch g.st {
		case stagePV:
			g.st = stageSecondBest
			if g.havePV && g.isLegalCandidate(g.pvMove) {
				g.markEmitted(g.pvMove)
				return g.pvMove, true
			}
		case stageSecondBest:
			g.st = stageVerticalAlignment
			g.toStack = 0
			if g.canSecondBest {
				pm := board.PlayerMove{SecondBest: true}
				if !g.wasEmitted(pm) {
					g.markEmitted(pm)
					return pm, true
				}
			}
		case stageVerticalAlignment:
			if pm, ok := g.nextFromStacks(func(to int) bool {
				return board.ColumnMask(to)&g.pos.VerticalAlignmentSpots() != 0
			}); ok {
				return pm, true
			}
			g.st = stageGoodTo
			g.toStack = 0
		case stageGoodTo:
			if pm, ok := g.nextFromStacks(g.isGoodTarget); ok {
				return pm, true
			}
			g.st = stageBadTo
			g.toStack = 0
		case stageBadTo:
			if pm, ok := g.nextFromStacks(g.isBadTarget); ok {
				return pm, true
			}
			g.st = stageDone
		default:
			return board.PlayerMove{}, false
		}
	}
}

// isGoodTarget reports whether the mover already controls the top of
// stack to - sliding or placing there reinforces a stack already working
// for them, which tends to matter more than a neutral or contested one.
func (g *Gen) isGoodTarget(to int) bool {
	return board.ColumnMask(to)&g.pos.ControlledStacks(true) != 0
}

func (g *Gen) isBadTarget(to int) bool {
	return !g.isGoodTarget(to)
}

// nextFromStacks walks toStack upward from where it left off, yielding
// moves landing on stacks matching want, one at a time.
func (g *Gen) nextFromStacks(want func(to int) bool) (board.PlayerMove, bool) {
	for {
		if len(g.pending) > 0 {
			pm := g.pending[0]
			g.pending = g.pending[1:]
			if !g.wasEmitted(pm) {
				g.markEmitted(pm)
				return pm, true
			}
			continue
		}
		if g.toStack >= board.NumStacks {
			return board.PlayerMove{}, false
		}
		to := g.toStack
		g.toStack++
		if !want(to) {
			continue
		}
		g.pending = g.candidatesForTo(to)
	}
}

// candidatesForTo returns every legal move landing on stack to: a single
// placement in the first phase, or up to three slides (from the left,
// right and opposite neighbor) in the second phase.
func (g *Gen) candidatesForTo(to int) []board.PlayerMove {
	if g.pos.FreeSpots()&board.ColumnMask(to) == 0 {
		return nil
	}
	if !g.secondPhase {
		if to == g.bannedTo && g.bannedFrom == board.NoSpot {
			return nil
		}
		return []board.PlayerMove{{From: board.NoSpot, To: to}}
	}
	var out []board.PlayerMove
	for _, offset := range [3]int{board.Left, board.Right, board.Opposite} {
		from := (offset + to) % board.NumStacks
		if board.ColumnMask(from)&g.pos.FromSpots(true) == 0 {
			continue
		}
		if from == g.bannedFrom && to == g.bannedTo {
			continue
		}
		out = append(out, board.PlayerMove{From: from, To: to})
	}
	return out
}

// isLegalCandidate re-validates a move before it is offered out of turn
// (as the PV hint): the hint comes from the transposition table, whose
// always-replace, partial-key-checked entries can rarely collide with an
// unrelated position, so it must not be trusted blindly.
func (g *Gen) isLegalCandidate(pm board.PlayerMove) bool {
	if pm.SecondBest {
		return g.canSecondBest
	}
	if pm.To < 0 || pm.To >= board.NumStacks {
		return false
	}
	if g.pos.FreeSpots()&board.ColumnMask(pm.To) == 0 {
		return false
	}
	if g.secondPhase {
		if pm.From == board.NoSpot || pm.From < 0 || pm.From >= board.NumStacks {
			return false
		}
		if pm.From == pm.To {
			return false
		}
		if board.ColumnMask(pm.From)&g.pos.FromSpots(true) == 0 {
			return false
		}
		from, to := pm.From, pm.To
		adjacent := (from+board.Right)%board.NumStacks == to ||
			(from+board.Opposite)%board.NumStacks == to ||
			(from+board.Left)%board.NumStacks == to
		if !adjacent {
			return false
		}
		if pm.From == g.bannedFrom && pm.To == g.bannedTo {
			return false
		}
		return true
	}
	if pm.From != board.NoSpot {
		return false
	}
	if pm.To == g.bannedTo && g.bannedFrom == board.NoSpot {
		return false
	}
	return true
}

func (g *Gen) wasEmitted(pm board.PlayerMove) bool {
	for _, e := range g.emitted {
		if e == pm {
			return true
		}
	}
	return false
}

func (g *Gen) markEmitted(pm board.PlayerMove) {
	g.emitted = append(g.emitted, pm)
}

// All drains the generator into a slice. Search should prefer Next
// directly; All exists for tests and for tooling (e.g. the benchmark
// generator) that wants the full legal move list at once.
func All(pos *board.Position) []board.PlayerMove {
	g := New(pos)
	var moves []board.PlayerMove
	for {
		pm, ok := g.Next()
		if !ok {
			return moves
		}
		moves = append(moves, pm)
	}
}
