package engine

import (
	"testing"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
)

func TestTTMoveRoundTrip(t *testing.T) {
	pos := board.NewPosition()
	for _, to := range []int{0, 1, 2, 3, 4, 5, 6, 7, 1, 2, 3, 4, 5, 6, 7, 0} {
		pm := board.PlayerMove{From: board.NoSpot, To: to}
		packed := ttMoveFromPlayerMove(pm)
		if got := packed.toPlayerMove(); got != pm {
			t.Fatalf("round trip mismatch: got %v, want %v", got, pm)
		}
		if err := pos.TryMakeMove(pm); err != nil {
			t.Fatalf("playing %v: %v", pm, err)
		}
	}
	for _, fromTo := range [][2]int{{1, 2}, {0, 1}, {3, 4}} {
		pm := board.PlayerMove{From: fromTo[0], To: fromTo[1]}
		packed := ttMoveFromPlayerMove(pm)
		if got := packed.toPlayerMove(); got != pm {
			t.Fatalf("round trip mismatch: got %v, want %v", got, pm)
		}
		if err := pos.TryMakeMove(pm); err != nil {
			t.Fatalf("playing %v: %v", pm, err)
		}
	}
	sb := board.PlayerMove{SecondBest: true}
	if got := ttMoveFromPlayerMove(sb).toPlayerMove(); got != sb {
		t.Fatalf("second-best round trip mismatch: got %v", got)
	}
}

func TestTableStoreAndProbe(t *testing.T) {
	pos := board.NewPosition()
	tt := NewTable()
	for to := 0; to < board.NumStacks; to++ {
		pm := board.PlayerMove{From: board.NoSpot, To: to}
		tt.Store(pos, 0, pm, BoundExact, 0, pos.NumMoves())
		entry, ok := tt.Probe(pos)
		if !ok {
			t.Fatalf("expected an entry for to=%d", to)
		}
		if entry.BestMove() != pm {
			t.Fatalf("got %v, want %v", entry.BestMove(), pm)
		}
		if err := pos.TryMakeMove(pm); err != nil {
			t.Fatalf("playing %v: %v", pm, err)
		}
	}
}

func TestTableDistinguishesSecondBestHistory(t *testing.T) {
	pos := board.NewPosition()
	tt := NewTable()
	pos.MakePhaseOneMove(1)
	pos.MakePhaseOneMove(2)
	pos.MakePhaseOneMove(3)
	tt.Store(pos, 0, board.PlayerMove{SecondBest: true}, BoundUndetermined, 0, pos.NumMoves())
	pos.UnmakeMove()
	pos.UnmakeMove()
	pos.UnmakeMove()
	pos.MakePhaseOneMove(3)
	pos.MakePhaseOneMove(2)
	pos.MakePhaseOneMove(1)
	// Same stones on the board, but "Second Best!" would undo a
	// different move here, so this must not hit the earlier entry.
	if _, ok := tt.Probe(pos); ok {
		t.Fatal("expected a miss: position reached via a different move order")
	}
}
