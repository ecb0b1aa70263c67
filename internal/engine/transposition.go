package engine

import (
	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
)

// ttMove is a move packed into a single byte: bit 7 flags "Second
// Best!", bits 4-6 hold the "to" column, and bits 0-3 hold the "from"
// column (8 means "no from spot", i.e. a first-phase placement). Both
// columns are losslessly reconstructible from the byte plus the position
// the move is about to be played in, via Position.FreeSpots/FromSpots.
type ttMove uint8

const (
	ttFromBits      = 0x0F
	ttToBits        = 0x70
	ttSecondBestBit = 0x80
	ttNoFrom        = 8
	ttToShift       = 4
)

func ttMoveFromPlayerMove(pm board.PlayerMove) ttMove {
	if pm.SecondBest {
		return ttSecondBestBit
	}
	from := uint8(ttNoFrom)
	if pm.From != board.NoSpot {
		from = uint8(pm.From)
	}
	return ttMove(from | uint8(pm.To)<<ttToShift)
}

func (m ttMove) isSecondBest() bool {
	return m&ttSecondBestBit != 0
}

func (m ttMove) from() int {
	f := int(m & ttFromBits)
	if f == ttNoFrom {
		return board.NoSpot
	}
	return f
}

func (m ttMove) to() int {
	return int((m & ttToBits) >> ttToShift)
}

func (m ttMove) toPlayerMove() board.PlayerMove {
	if m.isSecondBest() {
		return board.PlayerMove{SecondBest: true}
	}
	return board.PlayerMove{From: m.from(), To: m.to()}
}

// Bound records whether a stored score is exact or only one-sided. Search
// uses a stored score only when its bound is Exact (see the comment on
// Probe); LowerBound/UpperBound entries are stored but nothing reads them
// to tighten alpha/beta.
type Bound int

const (
	BoundUndetermined Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

// Entry is one slot of the transposition table.
type Entry struct {
	score int16
	move  ttMove
	bound Bound
	depth uint8
	valid bool
}

// BestMove decodes the stored move into a PlayerMove. The packed byte
// holds the stack indices directly, so no position is needed.
func (e Entry) BestMove() board.PlayerMove {
	return e.move.toPlayerMove()
}

// BoundType reports the entry's bound type.
func (e Entry) BoundType() Bound {
	return e.bound
}

// Depth reports the remaining search depth this entry's score is good
// for.
func (e Entry) Depth() int {
	return int(e.depth)
}

// Score decodes the stored score into an absolute (game-ply-relative)
// value, given the ply it is being read back at. Mate scores are stored
// relative to the node they were computed at (see Table.Store), so an
// entry read back at a different ply keeps the same distance to mate.
func (e Entry) Score(ply int) int {
	s := int(e.score)
	switch {
	case s >= IsWin:
		return s - ply
	case s <= IsLoss:
		return s + ply
	default:
		return s
	}
}

// tableSize is the smallest prime >= 2^23. A prime size lets the table
// identify entries by (key % tableSize, key % 2^32) instead of storing
// the full 64-bit key: because tableSize and 2^32 are coprime, the
// Chinese remainder theorem guarantees that pair uniquely identifies any
// key smaller than tableSize * 2^32 (about 2^55). Keys built by key use
// bits up to 62 for the last-move information, so two distinct keys can
// still share a slot and partial key; such a collision is rare, and the
// move generator re-validates a table hint before using it.
const tableSize = 8388617

// Table is a direct-mapped transposition table: always-replace, storing
// only a 32-bit partial key alongside each entry to detect collisions.
type Table struct {
	entries    []Entry
	partialKey []uint32
}

// NewTable allocates a transposition table of the standard size.
func NewTable() *Table {
	return &Table{
		entries:    make([]Entry, tableSize),
		partialKey: make([]uint32, tableSize),
	}
}

func index(key uint64) int {
	return int(key % tableSize)
}

// key derives a 64-bit fingerprint for pos that can be inverted back
// into our_spots/free_spots (and hence played_spots and the move that
// led here), so the stored move can be re-expanded against whatever
// position instance is doing the probing:
//   - our_spots and free_spots are disjoint bitboards, so packing them
//     together into the low 32 bits loses no information.
//   - the high bits of the last stone move played (which column the
//     move came from/went to) distinguish positions that have the same
//     stones on the board but arrived there differently, which matters
//     because the legality of "Second Best!" depends on that history.
//   - one more bit records whether "Second Best!" is currently
//     available, since that also isn't recoverable from the stones
//     alone.
func key(pos *board.Position) uint64 {
	const u32mask = 0xFFFF_FFFF
	var lastMoveInfo uint64
	if lastMove, ok := pos.LastStoneMove(); ok {
		lastMoveInfo = uint64(lastMove) &^ u32mask
	}
	secondBestInfo := lastMoveInfo
	if !pos.CanSecondBest() {
		secondBestInfo |= 1 << 35
	}
	posInfo := uint64(pos.OurSpots()|pos.FreeSpots()) & u32mask
	return secondBestInfo | posInfo
}

// Probe looks up pos in the table. The returned Entry is only useful for
// its move (for ordering) unless depth requirement is satisfied by the
// caller and the bound is Exact: unlike the move hint, LowerBound and
// UpperBound entries are not used to tighten alpha/beta before recursing -
// they're stored, but no code narrows the window on them (see
// DESIGN.md).
func (t *Table) Probe(pos *board.Position) (Entry, bool) {
	k := key(pos)
	idx := index(k)
	if t.partialKey[idx] == uint32(k) && t.entries[idx].valid {
		return t.entries[idx], true
	}
	return Entry{}, false
}

// Store records a search result. ply is the game ply (Position.NumMoves)
// at the node being stored, used to convert a mate score from its
// absolute form into one relative to this node (see Entry.Score for the
// inverse). depth is the remaining search depth this result is good for.
func (t *Table) Store(pos *board.Position, score int, move board.PlayerMove, bound Bound, depth int, ply int) {
	k := key(pos)
	idx := index(k)
	stored := score
	if outcome, _ := DecodeEval(score, ply); outcome == WinIn {
		stored = score + ply
	} else if outcome == LossIn {
		stored = score - ply
	}
	t.entries[idx] = Entry{
		score: int16(stored),
		move:  ttMoveFromPlayerMove(move),
		bound: bound,
		depth: uint8(depth),
		valid: true,
	}
	t.partialKey[idx] = uint32(k)
}
