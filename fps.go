package bubblestack

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSWidget creates a node that displays the current FPS and TPS,
// refreshed every ~0.5 seconds. Add it to a container that does not scroll
// with the page if it should stay on screen.
func NewFPSWidget() *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	node := NewSprite("fps_widget", img)

	var lastUpdate float64
	node.OnUpdate = func(dt float64) {
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return node
}

// NewLabel creates a sprite showing multi-line debug text on a translucent
// panel of the given size.
func NewLabel(name, text string, width, height int) *Node {
	img := ebiten.NewImage(width, height)
	img.Fill(color.RGBA{0, 0, 0, 96})
	ebitenutil.DebugPrint(img, text)
	return NewSprite(name, img)
}
