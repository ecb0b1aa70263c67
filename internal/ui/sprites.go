// Package ui implements the Second Best! board viewer using Ebitengine.
package ui

import (
	"bytes"
	"embed"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
)

//go:embed assets/stones/*.svg
var stoneAssets embed.FS

// SpriteManager rasterizes the two stone colors once at a high
// resolution and draws them scaled down, matching how piece art is
// handled for crisp results at any window size.
type SpriteManager struct {
	stones      map[board.Color]*ebiten.Image
	size        int
	renderScale float64
}

// NewSpriteManager creates a sprite manager with stones of the given
// display size, in pixels.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		stones:      make(map[board.Color]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadStones()
	return sm
}

var stoneFiles = map[board.Color]string{
	board.Black: "assets/stones/black.svg",
	board.White: "assets/stones/white.svg",
}

func (sm *SpriteManager) loadStones() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for color, path := range stoneFiles {
		data, err := stoneAssets.ReadFile(path)
		if err != nil {
			log.Printf("Failed to read stone asset %s: %v", path, err)
			continue
		}

		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			log.Printf("Failed to parse SVG %s: %v", path, err)
			continue
		}
		icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

		rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
		scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
		raster := rasterx.NewDasher(renderSize, renderSize, scanner)
		icon.Draw(raster, 1.0)

		sm.stones[color] = ebiten.NewImageFromImage(rgba)
	}
}

// GetStone returns the sprite for a color.
func (sm *SpriteManager) GetStone(c board.Color) *ebiten.Image {
	return sm.stones[c]
}

// DrawStoneAt draws a stone centered at the given pixel coordinates.
func (sm *SpriteManager) DrawStoneAt(screen *ebiten.Image, c board.Color, x, y int) {
	sprite := sm.GetStone(c)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := 1.0 / sm.renderScale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the display size of a stone sprite in pixels.
func (sm *SpriteManager) Size() int {
	return sm.size
}
