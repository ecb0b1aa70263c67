package board

import "testing"

func mustPlay(t *testing.T, p *Position, moves string) {
	t.Helper()
	if len(moves) == 0 {
		return
	}
	toks := splitFields(moves)
	if err := p.ParseAndPlayMoves(toks); err != nil {
		t.Fatalf("playing %q: %v", moves, err)
	}
}

func splitFields(s string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	return out
}

func expectKind(t *testing.T, err error, kind MoveFailedKind) {
	t.Helper()
	mf, ok := err.(*MoveFailed)
	if !ok {
		t.Fatalf("expected *MoveFailed, got %T (%v)", err, err)
	}
	if mf.Kind != kind {
		t.Fatalf("expected kind %d, got %d (%v)", kind, mf.Kind, mf)
	}
}

func TestInvalidMoves(t *testing.T) {
	p := NewPosition()
	err := p.TryMakeMove(PlayerMove{From: NoSpot, To: NumStacks})
	expectKind(t, err, InvalidToSpot)

	for i := 0; i < StackHeight; i++ {
		if err := p.TryMakeMove(PlayerMove{From: NoSpot, To: 0}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	err = p.TryMakeMove(PlayerMove{From: NoSpot, To: 0})
	expectKind(t, err, InvalidToSpot)
	if p.NumMoves() != StackHeight {
		t.Fatalf("expected %d moves, got %d", StackHeight, p.NumMoves())
	}

outer:
	for stack := 1; stack < NumStacks; stack++ {
		for i := 0; i < StackHeight; i++ {
			if p.IsSecondPhase() {
				break outer
			}
			if err := p.TryMakeMove(PlayerMove{From: NoSpot, To: stack}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	err = p.TryMakeMove(PlayerMove{From: NoSpot, To: NumStacks - 1})
	expectKind(t, err, MissingFromSpot)

	err = p.TryMakeMove(PlayerMove{From: NumStacks, To: NumStacks - 1})
	expectKind(t, err, InvalidFromSpot)

	err = p.TryMakeMove(PlayerMove{From: 0, To: NumStacks - 2})
	expectKind(t, err, InvalidToSpot)

	if err := p.TryMakeMove(PlayerMove{From: 0, To: NumStacks - 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.secondBest()
	err = p.TryMakeMove(PlayerMove{From: 0, To: NumStacks - 1})
	expectKind(t, err, MoveBanned)
}

func TestSecondBest(t *testing.T) {
	p := NewPosition()
	if p.CanSecondBest() {
		t.Fatal("should not be able to second-best with no moves played")
	}
	p.MakePhaseOneMove(0)
	if !p.CanSecondBest() {
		t.Fatal("should be able to second-best")
	}
	p.secondBest()
	if p.NumMoves() != 0 {
		t.Fatalf("expected 0 moves, got %d", p.NumMoves())
	}
	err := p.TryMakeMove(PlayerMove{From: NoSpot, To: 0})
	expectKind(t, err, MoveBanned)

	p.MakePhaseOneMove(1)
	if p.CanSecondBest() {
		t.Fatal("should not be able to second-best twice in a row")
	}

	p.MakePhaseOneMove(7)
	p.MakePhaseOneMove(7)
	if !p.CanSecondBest() {
		t.Fatal("should be able to second-best")
	}
	p.secondBest()
	if p.CanSecondBest() {
		t.Fatal("should not be able to second-best a second-best")
	}
}

func TestParsingMoves(t *testing.T) {
	p := NewPosition()
	err := p.ParseAndPlayMoves([]string{""})
	expectKind(t, err, ParseError)

	if err := p.ParseAndPlayMoves([]string{"0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = p.ParseAndPlayMoves([]string{"-0"})
	expectKind(t, err, ParseError)

	err = p.ParseAndPlayMoves([]string{"1-0"})
	expectKind(t, err, InvalidFromSpot)

	err = p.ParseAndPlayMoves([]string{"21"})
	expectKind(t, err, InvalidToSpot)

	if err := p.ParseAndPlayMoves([]string{"!"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAlignments(t *testing.T) {
	p := NewPosition()
	if p.HasAlignment(true) {
		t.Fatal("should not have an alignment yet")
	}
	mustPlay(t, p, "0 0 0")
	if p.HasAlignment(true) {
		t.Fatal("a column of alternating colors is not an alignment for the mover")
	}
	mustPlay(t, p, "1 2 1 2 1")
	if !p.HasAlignment(false) {
		t.Fatal("expected the opponent to have an alignment")
	}
	p.secondBest()
	mustPlay(t, p, "2 1 3 7 4 6")
	if !p.HasAlignment(false) {
		t.Fatal("expected the opponent to still have an alignment")
	}
}

func TestGameOver(t *testing.T) {
	p := NewPosition()
	if p.GameOver() {
		t.Fatal("fresh position should not be over")
	}
	mustPlay(t, p, "0 1 0 1 0")
	if p.GameOver() {
		t.Fatal("should still be able to second-best")
	}
	p.secondBest()
	mustPlay(t, p, "1 0 ! 7 7 ! 0")
	if !p.GameOver() {
		t.Fatal("expected the game to be over")
	}
	p.UnmakeStoneMove()

	mustPlay(t, p, "4 7 7 3 5 3 3")
	if p.GameOver() {
		t.Fatal("should not be over yet")
	}
	p.MakePhaseOneMove(5)
	p.MakePhaseOneMove(5)
	p.MakePhaseOneMove(4)
	if p.GameOver() {
		t.Fatal("should not be over yet")
	}
	if err := p.TryMakeMove(PlayerMove{From: 7, To: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.GameOver() {
		t.Fatal("should not be over yet")
	}
	p.secondBest()
	if err := p.TryMakeMove(PlayerMove{From: 0, To: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.GameOver() {
		t.Fatal("expected no legal moves")
	}
}

func TestUnmakeMove(t *testing.T) {
	p := NewPosition()
	p.MakePhaseOneMove(0)
	p.MakePhaseOneMove(0)
	p.MakePhaseOneMove(1)
	p.MakePhaseOneMove(1)
	if !p.CanSecondBest() {
		t.Fatal("expected to be able to second-best")
	}
	p.secondBest()
	if p.CanSecondBest() {
		t.Fatal("expected not to be able to second-best twice")
	}
	p.MakePhaseOneMove(0)
	if p.CanSecondBest() {
		t.Fatal("still banned")
	}
	p.UnmakeStoneMove()
	if p.CanSecondBest() {
		t.Fatal("still banned after unmake")
	}
	p.MakePhaseOneMove(3)
	if p.CanSecondBest() {
		t.Fatal("still banned")
	}
	p.UnmakeStoneMove()
	if p.CanSecondBest() {
		t.Fatal("still banned")
	}
	p.UnmakeStoneMove()
	if !p.CanSecondBest() {
		t.Fatal("ban should have been undone along with the move it protected")
	}
	p.MakePhaseOneMove(5)
	if !p.CanSecondBest() {
		t.Fatal("expected to be able to second-best")
	}
}

func TestUndoSecondBest(t *testing.T) {
	p := NewPosition()
	p.MakePhaseOneMove(0)
	p.MakePhaseOneMove(0)
	p.MakePhaseOneMove(0)
	p.secondBest()
	if p.CanSecondBest() {
		t.Fatal("should not be able to second-best right after one")
	}
	p.undoSecondBest()
	if !p.CanSecondBest() {
		t.Fatal("undoing the second-best should restore the option")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	p := NewPosition()
	p.MakePhaseOneMove(0)
	p.MakePhaseOneMove(0)
	p.MakePhaseOneMove(0)
	p.secondBest()
	p.MakePhaseOneMove(1)
	p.MakePhaseOneMove(1)
	p.MakePhaseOneMove(1)
	moves := p.Serialize()
	p2 := NewPosition()
	if err := p2.ParseAndPlayMoves(splitFields(moves)); err != nil {
		t.Fatalf("replaying serialized moves: %v", err)
	}
	if p.numMoves != p2.numMoves || p.ourSpots != p2.ourSpots || p.playedSpots != p2.playedSpots {
		t.Fatalf("round-trip mismatch: %+v vs %+v", p, p2)
	}

	p3 := NewPosition()
	input := "3 1 1 0 6 2 3 7 6 6 7 0 5 7 0 2 5-4 7-3 0-1 3-4 3-4 0-7 4-0 4-3 4-5 7-0 7-3 6-7 ! 6-5 6-7"
	mustPlay(t, p3, input)
	got := p3.Serialize()
	if got != input {
		t.Fatalf("serialize mismatch:\n got: %s\nwant: %s", got, input)
	}
}
