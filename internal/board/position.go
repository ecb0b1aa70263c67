package board

import "strings"

// GameStatus classifies a position from the point of view of the player
// to move.
type GameStatus int

const (
	OnGoing GameStatus = iota
	WeLost
	// WeWon is never produced by Position.GameStatus itself: a win is
	// only ever observed one ply earlier, from the side that just
	// completed the alignment, by seeing the opponent's resulting
	// position report WeLost. The variant exists so callers that score
	// a node from the mover's perspective have a symmetric name to
	// switch on.
	WeWon
)

// Position is a full game state: which spots are occupied, which of
// those belong to the player to move, and the move/ban history needed to
// make and unmake moves and to enforce the "Second Best!" rule.
type Position struct {
	playedSpots Bitboard
	ourSpots    Bitboard
	numMoves    int
	moveHistory [MaxMoves + 1]Bitboard
	haveHistory [MaxMoves + 1]bool
	bannedMoves [MaxMoves + 1]Bitboard
	haveBanned  [MaxMoves + 1]bool
}

// NewPosition returns the empty starting position, Black to move.
func NewPosition() *Position {
	return &Position{}
}

// FreeSpots returns a bit at the lowest empty spot of every stack that
// has room.
func (p *Position) FreeSpots() Bitboard {
	return FreeSpots(p.playedSpots)
}

// TopSpots returns a bit at the highest occupied spot of every non-empty
// stack.
func (p *Position) TopSpots() Bitboard {
	return TopSpots(p.playedSpots)
}

// ControlledStacks returns a bit at the bottom of every stack whose top
// stone belongs to us (the player to move) if us is true, or to the
// opponent otherwise.
func (p *Position) ControlledStacks(us bool) Bitboard {
	var owner Bitboard
	if us {
		owner = p.ourSpots
	} else {
		owner = p.playedSpots ^ p.ourSpots
	}
	return ControlledStacks(owner, p.playedSpots)
}

// ControlledColumns marks, for every stack controlled by us (see
// ControlledStacks), all three of its data bits.
func (p *Position) ControlledColumns(us bool) Bitboard {
	var owner Bitboard
	if us {
		owner = p.ourSpots
	} else {
		owner = p.playedSpots ^ p.ourSpots
	}
	return ControlledColumns(owner, p.playedSpots)
}

// FromSpots returns a bit at the top of every stack controlled by us -
// these are the candidate "from" spots for a second-phase slide.
func (p *Position) FromSpots(us bool) Bitboard {
	return p.TopSpots() & p.ControlledColumns(us)
}

// FreeColumns returns a bit at the bottom of every stack still short of
// StackHeight stones.
func (p *Position) FreeColumns() Bitboard {
	return FreeColumns(p.playedSpots)
}

// VerticalAlignmentSpots returns the free spots at which the player to
// move could complete a vertical alignment.
func (p *Position) VerticalAlignmentSpots() Bitboard {
	return VerticalAlignmentSpots(p.ourSpots, p.playedSpots)
}

// CurrentPlayer returns whose turn it is.
func (p *Position) CurrentPlayer() Color {
	if p.numMoves%2 == 0 {
		return Black
	}
	return White
}

// BannedMove returns the move banned for the current ply by a prior
// "Second Best!" call, if any.
func (p *Position) BannedMove() (Bitboard, bool) {
	return p.bannedMoves[p.numMoves+1], p.haveBanned[p.numMoves+1]
}

// BannedPlayerMove is BannedMove decoded into stack indices, for move
// generators that work in terms of "from"/"to" rather than raw deltas.
func (p *Position) BannedPlayerMove() (PlayerMove, bool) {
	banned, ok := p.BannedMove()
	if !ok {
		return PlayerMove{}, false
	}
	return NewStoneMove(banned).ToPlayerMove(p), true
}

// NumMoves returns how many stone moves have been made so far (retracted
// moves do not count).
func (p *Position) NumMoves() int {
	return p.numMoves
}

// OurSpots returns the raw bitboard of spots occupied by the player to
// move.
func (p *Position) OurSpots() Bitboard {
	return p.ourSpots
}

// PlayedSpots returns the raw bitboard of spots occupied by either
// player.
func (p *Position) PlayedSpots() Bitboard {
	return p.playedSpots
}

// LastStoneMove returns the most recent stone move played (not counting
// any "Second Best!" call), if any move has been played at all.
func (p *Position) LastStoneMove() (Bitboard, bool) {
	if p.numMoves == 0 {
		return 0, false
	}
	return p.moveHistory[p.numMoves], p.haveHistory[p.numMoves]
}

// IsSecondPhase reports whether all stones have been placed and players
// are now sliding them between stacks.
func (p *Position) IsSecondPhase() bool {
	return p.numMoves >= 2*StonesPerPlayer
}

// validAdjacent reports whether to is reachable from from in one slide:
// one step clockwise, one step counter-clockwise, or straight across.
func validAdjacent(from, to int) bool {
	return (from+Right)%NumStacks == to ||
		(from+Opposite)%NumStacks == to ||
		(from+Left)%NumStacks == to
}

func (p *Position) isMoveBanned(smove Bitboard) bool {
	banned, ok := p.BannedMove()
	return ok && banned == smove
}

// StoneMove builds the bitboard delta for a stone move, placing at to
// and, if from != NoSpot, lifting the top stone off from.
func (p *Position) StoneMove(from, to int) Bitboard {
	bb := p.placementDelta(to)
	if from != NoSpot {
		bb |= ColumnMask(from) & p.TopSpots()
	}
	return bb
}

func (p *Position) placementDelta(to int) Bitboard {
	return ColumnMask(to) & p.FreeSpots()
}

// CanSecondBest reports whether "Second Best!" may be called this ply:
// at least one move has been played, and it was not itself the result of
// (or target of) a "Second Best!" call.
func (p *Position) CanSecondBest() bool {
	if p.numMoves == 0 {
		return false
	}
	return !p.haveBanned[p.numMoves] && !p.haveBanned[p.numMoves+1]
}

// TryMakeMove validates and, if legal, plays pmove. On failure the
// position is left unchanged and a *MoveFailed describing the reason is
// returned.
func (p *Position) TryMakeMove(pmove PlayerMove) error {
	if pmove.SecondBest {
		if !p.CanSecondBest() {
			return moveFailed(InvalidSecondBest)
		}
		p.secondBest()
		return nil
	}
	from, to := pmove.From, pmove.To

	if p.HasAlignment(false) {
		return moveFailed(PositionWinning)
	}

	if p.IsSecondPhase() {
		if from == NoSpot {
			return moveFailed(MissingFromSpot)
		}
		if from < 0 || from >= NumStacks {
			return moveFailed(InvalidFromSpot)
		}
		if to < 0 || to >= NumStacks {
			return moveFailed(InvalidToSpot)
		}
		if to == from {
			return moveFailed(SameFromAndTo)
		}
		if ColumnMask(from)&p.TopSpots()&p.ourSpots == 0 {
			return moveFailed(InvalidFromSpot)
		}
		if !validAdjacent(from, to) || p.FreeSpots()&ColumnMask(to) == 0 {
			return moveFailed(InvalidToSpot)
		}
		smove := p.StoneMove(from, to)
		if p.isMoveBanned(smove) {
			return moveFailed(MoveBanned)
		}
		p.makeStoneMove(smove)
		return nil
	}

	if from != NoSpot {
		return moveFailed(InvalidFromSpot)
	}
	if to < 0 || to >= NumStacks {
		return moveFailed(InvalidToSpot)
	}
	if p.FreeSpots()&ColumnMask(to) == 0 {
		return moveFailed(InvalidToSpot)
	}
	smove := p.StoneMove(NoSpot, to)
	if p.isMoveBanned(smove) {
		return moveFailed(MoveBanned)
	}
	p.makeStoneMove(smove)
	return nil
}

// MakeMove plays gmove without validating it. Callers that did not get
// gmove from TryMakeMove or a move generator must be sure it is legal.
func (p *Position) MakeMove(gmove Move) {
	if gmove.IsSecondBest() {
		p.secondBest()
		return
	}
	p.makeStoneMove(gmove.Delta())
}

// UnmakeMove undoes the last move made, whether it was a stone move or a
// "Second Best!" call.
func (p *Position) UnmakeMove() {
	if _, ok := p.BannedMove(); ok {
		p.undoSecondBest()
		return
	}
	p.UnmakeStoneMove()
}

// MakePhaseOneMove is a convenience wrapper for placing a stone during
// the first phase, mostly useful in tests.
func (p *Position) MakePhaseOneMove(to int) {
	p.makeStoneMove(p.placementDelta(to))
}

func (p *Position) makeStoneMove(smove Bitboard) {
	p.ourSpots ^= p.playedSpots
	p.playedSpots ^= smove
	p.numMoves++
	p.moveHistory[p.numMoves] = smove
	p.haveHistory[p.numMoves] = true
}

// UnmakeStoneMove undoes the last stone move (not a retraction) and
// returns the move that was undone.
func (p *Position) UnmakeStoneMove() Bitboard {
	if p.numMoves == 0 {
		panic("board: unmake called with no moves played")
	}
	lastMove := p.moveHistory[p.numMoves]
	p.haveHistory[p.numMoves] = false
	p.haveBanned[p.numMoves+1] = false
	p.numMoves--
	p.playedSpots ^= lastMove
	p.ourSpots ^= p.playedSpots
	return lastMove
}

// secondBest retracts the last move played and bans it for the player
// who now faces this position. Callers must check CanSecondBest first.
func (p *Position) secondBest() {
	lastMove := p.UnmakeStoneMove()
	p.bannedMoves[p.numMoves+1] = lastMove
	p.haveBanned[p.numMoves+1] = true
}

// undoSecondBest undoes a "Second Best!" call: it replays the banned
// move and clears the ban. Callers must check that a move is actually
// banned in the current position first.
func (p *Position) undoSecondBest() {
	banned, ok := p.BannedMove()
	if !ok {
		panic("board: undoSecondBest called with no banned move")
	}
	p.haveBanned[p.numMoves+1] = false
	p.makeStoneMove(banned)
}

// ParseAndPlayMoves parses each token in moves as a player move and plays
// them in order, stopping and returning the first error encountered.
func (p *Position) ParseAndPlayMoves(moves []string) error {
	for _, s := range moves {
		pm, err := ParsePlayerMove(s)
		if err != nil {
			return err
		}
		if err := p.TryMakeMove(pm); err != nil {
			return err
		}
	}
	return nil
}

func (p *Position) stoneMoveString(smove Bitboard) string {
	return NewStoneMove(smove).ToPlayerMove(p).String()
}

// Serialize renders the position as the move-token string that,
// replayed through ParseAndPlayMoves from the empty position, recreates
// it exactly - including any banned moves left in place by "Second
// Best!" calls.
func (p *Position) Serialize() string {
	cp := *p
	moves := make([]string, 0, cp.numMoves*2)
	if banned, ok := cp.BannedMove(); ok {
		moves = append(moves, cp.stoneMoveString(banned)+" !")
	}
	for i := cp.numMoves - 1; i >= 0; i-- {
		smove := cp.moveHistory[i+1]
		cp.UnmakeStoneMove()
		moves = append(moves, cp.stoneMoveString(smove))
		if banned, ok := cp.bannedMoves[i+1], cp.haveBanned[i+1]; ok {
			moves = append(moves, cp.stoneMoveString(banned)+" !")
		}
	}
	for l, r := 0, len(moves)-1; l < r; l, r = l+1, r-1 {
		moves[l], moves[r] = moves[r], moves[l]
	}
	return strings.Join(moves, " ")
}

// HasAlignment reports whether the given side (us meaning the player to
// move, false meaning their opponent) has 3 stones stacked in one column
// or 4 stones contiguous across the tops of 4 neighboring stacks.
func (p *Position) HasAlignment(us bool) bool {
	var owner Bitboard
	if us {
		owner = p.ourSpots
	} else {
		owner = p.ourSpots ^ p.playedSpots
	}
	if owner&(owner<<1)&(owner<<2) != 0 {
		return true
	}
	topOfStacks := p.ControlledStacks(us)
	mask := BottomFour
	for i := 0; i < NumStacks+4; i++ {
		if mask == mask&topOfStacks {
			return true
		}
		mask <<= ColumnBits
	}
	return false
}

func columnBottomMask(col int) Bitboard {
	return 1 << (ColumnBits * col)
}

// GameStatus reports whether the player to move has already lost (no
// legal move and no alignment to retract out of). It never reports
// WeWon: see the comment on that constant.
func (p *Position) GameStatus() GameStatus {
	if p.CanSecondBest() {
		return OnGoing
	}
	if p.HasAlignment(false) {
		return WeLost
	}
	if !p.IsSecondPhase() {
		return OnGoing
	}
	freeColumns := p.FreeColumns()
	ourColumns := p.ControlledStacks(true)
	if ourColumns == 0 {
		return WeLost
	}
	left := columnBottomMask(Left)
	right := columnBottomMask(Right)
	opposite := ColumnMask(Opposite)
	possibleTo := left | right | opposite
	for from := 0; from < NumStacks; from++ {
		fromMask := columnBottomMask(from)
		if fromMask&ourColumns != 0 && possibleTo&freeColumns != 0 {
			return OnGoing
		}
		possibleTo <<= ColumnBits
	}
	return WeLost
}

// GameOver reports whether the player to move has no legal continuation.
func (p *Position) GameOver() bool {
	return p.GameStatus() == WeLost
}
