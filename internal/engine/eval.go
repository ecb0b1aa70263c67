package engine

import (
	"fmt"
	"math/bits"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
)

// Win, Loss and the mate-distance thresholds. Scores this large can only
// be produced when the game outcome is forced; every score strictly
// between IsLoss and IsWin is a heuristic evaluation of an undetermined
// position.
const (
	Win    = 1000
	Loss   = -Win
	IsWin  = Win - 2*board.MaxMoves
	IsLoss = -IsWin
)

// LossScore is the score of a position where the player to move has
// already lost, ply moves into the game.
func LossScore(ply int) int {
	return Loss + ply
}

// WinScore is the score of a position where the player to move has
// already won, ply moves into the game. negamax returns it only for
// board.WeWon, which Position.GameStatus never reports (see board.WeWon);
// a win is instead seen as the negation of the opponent's LossScore one
// ply later.
func WinScore(ply int) int {
	return Win - ply
}

// StaticEval heuristically scores an undetermined position from the
// point of view of the player to move: the stack-control balance, minus
// a penalty if the opponent already has an alignment on the board (which
// means the player to move is one retraction away from disaster).
func StaticEval(pos *board.Position) int {
	score := bits.OnesCount64(uint64(pos.ControlledStacks(true))) -
		bits.OnesCount64(uint64(pos.ControlledStacks(false)))
	// The board is stored as two copies of every column.
	score /= 2
	if pos.HasAlignment(false) {
		score -= 10
	}
	return score
}

// Outcome classifies a raw score into something presentable.
type Outcome int

const (
	Undetermined Outcome = iota
	WinIn
	LossIn
)

// DecodeEval turns a raw score computed at the given ply into an Outcome
// and, for forced results, how many moves away the result is.
func DecodeEval(eval, ply int) (Outcome, int) {
	switch {
	case eval < IsLoss:
		return LossIn, eval - Loss - ply
	case eval > IsWin:
		return WinIn, Win - eval - ply
	default:
		return Undetermined, eval
	}
}

// ExplainEval renders a score the way the CLI reports the outcome of an
// "eval" command.
func ExplainEval(side board.Color, eval, ply int) string {
	outcome, n := DecodeEval(eval, ply)
	switch outcome {
	case WinIn:
		return fmt.Sprintf("Position is winning:\n%s can win in %d move(s)", side, n)
	case LossIn:
		return fmt.Sprintf("Position is lost:\n%s can win in %d move(s)", side.Other(), n)
	default:
		return fmt.Sprintf("Result of the position is undetermined.\nBest score for (%s) is %d (Higher is better)", side, n)
	}
}
