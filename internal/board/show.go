package board

import (
	"fmt"
	"strings"
)

// showCoord is a (stack, height) pair identifying one spot on the
// diamond board layout, or the sentinel noCoord for a blank cell.
type showCoord struct{ stack, height int }

var noCoord = showCoord{NumStacks, StackHeight}

// diamondLayout lays the 8 circular stacks out as a diamond, stack 4 at
// the top, stack 0 at the bottom, matching how the game is drawn on
// paper: each stack's 3 spots run from its outer edge (height 2) toward
// the center (height 0).
var diamondLayout = [9][9]showCoord{
	{noCoord, noCoord, noCoord, noCoord, {4, 2}, noCoord, noCoord, noCoord, noCoord},
	{noCoord, {5, 2}, noCoord, noCoord, {4, 1}, noCoord, noCoord, {3, 2}, noCoord},
	{noCoord, noCoord, {5, 1}, noCoord, {4, 0}, noCoord, {3, 1}, noCoord, noCoord},
	{noCoord, noCoord, noCoord, {5, 0}, noCoord, {3, 0}, noCoord, noCoord, noCoord},
	{{6, 2}, {6, 1}, {6, 0}, noCoord, noCoord, noCoord, {2, 0}, {2, 1}, {2, 2}},
	{noCoord, noCoord, noCoord, {7, 0}, noCoord, {1, 0}, noCoord, noCoord, noCoord},
	{noCoord, noCoord, {7, 1}, noCoord, {0, 0}, noCoord, {1, 1}, noCoord, noCoord},
	{noCoord, {7, 2}, noCoord, noCoord, {0, 1}, noCoord, noCoord, {1, 2}, noCoord},
	{noCoord, noCoord, noCoord, noCoord, {0, 2}, noCoord, noCoord, noCoord, noCoord},
}

// Show renders the board as a diamond of stones, followed by whose turn
// it is, any banned move, and a note if the opponent has an alignment
// available to retract out of.
func (p *Position) Show() string {
	var b strings.Builder
	for _, row := range diamondLayout {
		for _, c := range row {
			if c == noCoord {
				b.WriteByte(' ')
			} else {
				mask := Bitboard(1<<c.height) << (ColumnBits * c.stack)
				switch {
				case mask&p.ourSpots != 0:
					b.WriteString(p.CurrentPlayer().String())
				case mask&p.playedSpots != 0:
					b.WriteString(p.CurrentPlayer().Other().String())
				default:
					b.WriteByte('.')
				}
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if p.GameOver() {
		fmt.Fprintf(&b, "Game over, (%s) has won!\n", p.CurrentPlayer().Other())
		return b.String()
	}
	turnWord := "black's (X)"
	if p.CurrentPlayer() == White {
		turnWord = "white's (O)"
	}
	fmt.Fprintf(&b, "It is %s turn to move\n", turnWord)
	if banned, ok := p.BannedMove(); ok {
		fmt.Fprintf(&b, "Banned move: %s\n", NewStoneMove(banned).ToPlayerMove(p))
	}
	if p.HasAlignment(false) {
		fmt.Fprintf(&b, "%s has an alignment\n", p.CurrentPlayer().Other())
	}
	return b.String()
}

// PrintBitboard renders a raw bitboard as four rows of 16 columns (the
// guard bit on top, spot 0 at the bottom) for debugging.
func PrintBitboard(bb Bitboard) string {
	var b strings.Builder
	for row := StackHeight; row >= 0; row-- {
		for col := 0; col < 2*NumStacks; col++ {
			mask := Bitboard(1) << (col*ColumnBits + row)
			if bb&mask == 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte('x')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
