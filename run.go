package bubblestack

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// OnExit runs once after the game loop ends, whatever the reason. Use it
	// to unmount stacks.
	OnExit func()
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene  *Scene
	width  int
	height int
}

func (g *game) Update() error {
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens a window and drives the scene until the window closes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.OnExit != nil {
		defer cfg.OnExit()
	}
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	scene.SetSize(float64(cfg.Width), float64(cfg.Height))
	if cfg.ShowFPS {
		fps := NewFPSWidget()
		if cam := scene.Camera(); cam != nil {
			fps.OnUpdate = followCamera(fps, cam, fps.OnUpdate)
		}
		scene.Root().AddChild(fps)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{scene: scene, width: cfg.Width, height: cfg.Height})
}

// followCamera pins n to the top-left of the camera's visible area.
func followCamera(n *Node, cam *Camera, next func(float64)) func(float64) {
	return func(dt float64) {
		vb := cam.VisibleBounds()
		n.X, n.Y = vb.X, vb.Y
		if next != nil {
			next(dt)
		}
	}
}
