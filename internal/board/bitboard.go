package board

// Bitboard packs the whole circular board into a single 64-bit word. The
// board has NumStacks stacks arranged in a circle, each stack holding up to
// StackHeight stones. Every stack occupies a 4-bit column: the low 3 bits
// record which of the stack's 3 spots are occupied (bit 0 = bottom spot),
// and the 4th bit is a permanent guard bit used to make "is this stack
// full" arithmetic fall out of simple integer addition/subtraction instead
// of per-column loops.
//
// The 8 columns are stored twice, back to back (columns 0..7 then a mirror
// copy at columns 8..15). A 4-in-a-row can wrap around the circle (e.g.
// stacks 6,7,0,1), and checking that wrap with ordinary shifts would need
// modular indexing; storing the board twice lets alignment masks walk
// straight past stack 7 into the mirrored copy at "stack 8" without ever
// wrapping.
type Bitboard uint64

const (
	NumStacks       = 8
	StackHeight     = 3
	StonesPerPlayer = 8
	// MaxMoves bounds move history and banned-move tracking; no legal
	// game of Second Best! comes close to it.
	MaxMoves = 255

	// ColumnBits is the width in bits of one stack's column, including
	// its guard bit.
	ColumnBits = StackHeight + 1

	// Right, Left and Opposite are the three directions a stone may be
	// moved to an adjacent stack: one step clockwise, one step
	// counter-clockwise, or straight across the circle.
	Right    = 1
	Left     = NumStacks - 1
	Opposite = NumStacks / 2
)

// Bottom has bit 0 of every one of the 16 columns set.
var Bottom Bitboard = func() Bitboard {
	var bb Bitboard
	for col := 0; col < 2*NumStacks; col++ {
		bb |= 1 << (ColumnBits * col)
	}
	return bb
}()

// BottomFour has bit 0 set in each of the first four columns; shifted
// across the doubled board it is the template used to detect a horizontal
// 4-in-a-row, including ones that wrap around the circle.
var BottomFour Bitboard = func() Bitboard {
	var bb Bitboard
	for col := 0; col < 4; col++ {
		bb |= 1 << (ColumnBits * col)
	}
	return bb
}()

// ColumnMask returns the bits belonging to stack col (0..NumStacks), in
// both the primary and mirrored copies of the board.
func ColumnMask(col int) Bitboard {
	const stackMask = Bitboard(1<<StackHeight) - 1
	return stackMask<<(ColumnBits*col) | stackMask<<(ColumnBits*(col+NumStacks))
}

// FreeSpots returns a bit set at the lowest unoccupied spot of every stack
// that still has room. Because every column's guard bit is always 0 in
// played, adding Bottom carries through the occupied low bits of each
// column until it reaches the first free one, lighting exactly that bit
// (or the guard bit, for a full stack).
func FreeSpots(played Bitboard) Bitboard {
	return Bottom + played
}

// TopSpots returns a bit set at the highest occupied spot of every
// non-empty stack.
func TopSpots(played Bitboard) Bitboard {
	return played ^ ((played >> 1) & played)
}

// ControlledStacks returns, for every stack whose top stone belongs to
// stoneOwner, a bit set at that stack's bottom (spot 0) position.
func ControlledStacks(stoneOwner, played Bitboard) Bitboard {
	top := stoneOwner & TopSpots(played)
	return (top & Bottom) | ((top >> 1) & Bottom) | ((top >> 2) & Bottom)
}

// ControlledColumns marks, for every stack controlled by stoneOwner, all
// three of its data bits (not the guard bit); stacks not controlled are
// left with only their guard bit set. The subtraction borrows through the
// whole nibble exactly when the corresponding bit of ControlledStacks is
// set, which is what makes the all-bits-set/guard-bit-only split happen
// without a per-column loop.
func ControlledColumns(stoneOwner, played Bitboard) Bitboard {
	return (Bottom << StackHeight) - ControlledStacks(stoneOwner, played)
}

// FreeColumns returns a bit at the bottom of every stack that is not yet
// full.
func FreeColumns(played Bitboard) Bitboard {
	return Bottom &^ (played >> 2)
}

// VerticalAlignmentSpots returns the free spots at which placing a stone
// owned by ours would complete a vertical alignment: the two spots below
// the free one in that stack already belong to ours.
func VerticalAlignmentSpots(ours, played Bitboard) Bitboard {
	return (ours << 1) & (ours << 2) & FreeSpots(played)
}
