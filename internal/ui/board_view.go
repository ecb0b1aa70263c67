package ui

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
	"github.com/WannesMalfait/Second-Best--Solver/internal/engine"
)

// UI constants for the board viewer.
const (
	ScreenWidth  = 720
	ScreenHeight = 760
	boardCenterX = ScreenWidth / 2
	boardCenterY = 340
	stackRadius  = 220
	stoneSize    = 64
	stoneGap     = 28
)

// UIScale is the HiDPI scale factor applied by Layout.
var UIScale float64 = 1.0

// stackAngle returns the angle, in radians, at which stack i sits around
// the circle - stack 0 at the bottom, matching board.Position's circular
// stack numbering.
func stackAngle(i int) float64 {
	const fullCircle = 2 * 3.14159265358979
	return fullCircle*float64(i)/float64(board.NumStacks) + fullCircle/4
}

// Game implements ebiten.Game for the Second Best! board: it displays
// the 8 circular stacks, lets the player click to place or slide
// stones, call "Second Best!", and request an engine hint.
type Game struct {
	pos    *board.Position
	tt     *engine.Table
	sprite *SpriteManager
	input  *InputHandler
	scale  float64

	selectedFrom int // -1 if no stack is selected as a slide source
	statusLine   string

	hintRunning bool
	hintCh      chan hintResult
	hint        *hintResult
}

type hintResult struct {
	move board.PlayerMove
	eval int
}

// NewGame builds the board viewer starting from the opening position.
func NewGame() *Game {
	return &Game{
		pos:          board.NewPosition(),
		tt:           engine.NewTable(),
		sprite:       NewSpriteManager(stoneSize),
		input:        NewInputHandler(),
		scale:        1.0,
		selectedFrom: -1,
		hintCh:       make(chan hintResult, 1),
	}
}

func (g *Game) Update() error {
	g.input.Update()

	if IsKeyJustPressed(ebiten.KeyBackspace) {
		g.pos = board.NewPosition()
		g.tt = engine.NewTable()
		g.selectedFrom = -1
		g.statusLine = ""
		g.hint = nil
		return nil
	}
	if IsKeyJustPressed(ebiten.KeyH) {
		g.startHint()
	}
	if IsKeyJustPressed(ebiten.KeyS) {
		g.tryMove(board.PlayerMove{From: board.NoSpot, To: board.NoSpot, SecondBest: true})
	}

	g.checkHint()

	if g.input.IsLeftJustPressed() {
		g.handleClick()
	}
	return nil
}

// handleClick maps a click to the stack nearest the cursor and either
// starts a slide (second phase, first click), completes one (second
// click), or places a stone (first phase).
func (g *Game) handleClick() {
	mx, my := g.input.MousePosition()
	stack, ok := g.stackAt(mx, my)
	if !ok {
		return
	}
	if !g.pos.IsSecondPhase() {
		g.tryMove(board.PlayerMove{From: board.NoSpot, To: stack})
		return
	}
	if g.selectedFrom < 0 {
		g.selectedFrom = stack
		return
	}
	from := g.selectedFrom
	g.selectedFrom = -1
	if from == stack {
		return
	}
	g.tryMove(board.PlayerMove{From: from, To: stack})
}

func (g *Game) tryMove(pm board.PlayerMove) {
	if err := g.pos.TryMakeMove(pm); err != nil {
		g.statusLine = err.Error()
		return
	}
	g.statusLine = ""
	g.hint = nil
}

// startHint launches a background search over a private copy of the
// position, the way the teacher's Easy-mode assist analysis runs
// without blocking Update.
func (g *Game) startHint() {
	if g.hintRunning || g.pos.GameOver() {
		return
	}
	g.hintRunning = true
	cp := *g.pos
	go func() {
		eng := engine.NewEngine(&cp, engine.NewTable())
		eng.OnInfo = func(info engine.Info) {
			if len(info.PV) > 0 {
				select {
				case g.hintCh <- hintResult{move: info.PV[0], eval: info.Score}:
				default:
				}
			}
		}
		const hintDepth = 8
		eng.Search(hintDepth)
		log.Printf("hint search finished after %d nodes", eng.Nodes())
	}()
	time.AfterFunc(3*time.Second, func() { g.hintRunning = false })
}

func (g *Game) checkHint() {
	select {
	case h := <-g.hintCh:
		g.hint = &h
	default:
	}
}

// stackAt returns the stack nearest (mx, my), if within stoneSize of its
// center.
func (g *Game) stackAt(mx, my int) (int, bool) {
	for i := 0; i < board.NumStacks; i++ {
		cx, cy := g.stackCenter(i)
		dx, dy := float64(mx-cx), float64(my-cy)
		if dx*dx+dy*dy <= float64(stoneSize*stoneSize) {
			return i, true
		}
	}
	return 0, false
}

func (g *Game) stackCenter(i int) (int, int) {
	angle := stackAngle(i)
	x := boardCenterX + int(stackRadius*math.Cos(angle))
	y := boardCenterY + int(stackRadius*math.Sin(angle))
	return x, y
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x22, 0x28, 0xff})

	for i := 0; i < board.NumStacks; i++ {
		cx, cy := g.stackCenter(i)
		g.drawStack(screen, i, cx, cy)
	}

	face := GetRegularFace()
	if face != nil {
		turn := fmt.Sprintf("%s to move", g.pos.CurrentPlayer())
		if g.pos.GameOver() {
			turn = fmt.Sprintf("Game over - %s has won", g.pos.CurrentPlayer().Other())
		}
		drawText(screen, turn, 20, 30, face)

		if banned, ok := g.pos.BannedPlayerMove(); ok {
			drawText(screen, fmt.Sprintf("Banned: %s", banned), 20, 55, face)
		}
		if g.pos.HasAlignment(false) {
			drawText(screen, "Opponent has an alignment - consider \"Second Best!\" (S)", 20, 80, face)
		}
		if g.statusLine != "" {
			drawText(screen, g.statusLine, 20, ScreenHeight-60, face)
		}
		if g.hint != nil {
			drawText(screen, fmt.Sprintf("Hint: %s (eval %d)", g.hint.move, g.hint.eval), 20, ScreenHeight-35, face)
		} else if g.hintRunning {
			drawText(screen, "Thinking...", 20, ScreenHeight-35, face)
		}
		drawText(screen, "Click a stack to place/slide - H: hint - S: Second Best! - Backspace: reset", 20, ScreenHeight-10, face)
	}
}

func (g *Game) drawStack(screen *ebiten.Image, stack, cx, cy int) {
	for h := 0; h < board.StackHeight; h++ {
		mask := board.Bitboard(1<<h) << (board.ColumnBits * stack)
		var c board.Color
		occupied := false
		switch {
		case mask&g.pos.OurSpots() != 0:
			c, occupied = g.pos.CurrentPlayer(), true
		case mask&g.pos.PlayedSpots() != 0:
			c, occupied = g.pos.CurrentPlayer().Other(), true
		}
		y := cy - h*stoneGap
		if occupied {
			g.sprite.DrawStoneAt(screen, c, cx-stoneSize/2, y-stoneSize/2)
		} else {
			vector.StrokeCircle(screen, float32(cx), float32(y), float32(stoneSize/2-4), 1, color.RGBA{0x66, 0x66, 0x66, 0xff}, true)
		}
	}
	if g.selectedFrom == stack {
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(stackRadius/10), 2, color.RGBA{0xff, 0xd0, 0x40, 0xff}, true)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	UIScale = g.scale
	return ScreenWidth, ScreenHeight
}

func drawText(screen *ebiten.Image, s string, x, y int, face *text.GoTextFace) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s, face, op)
}
