// Command secondbest-gui is a graphical board viewer and player for
// Second Best!, built with Ebitengine.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/WannesMalfait/Second-Best--Solver/internal/ui"
)

func main() {
	game := ui.NewGame()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Second Best!")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenFilterEnabled(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
