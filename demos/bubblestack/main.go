// bubblestack is a scrolling page with the badge stack below the fold.
// Scroll with the mouse wheel (or -autoscroll) and the badges drop in once
// the container is visible. Clicking a badge logs its link.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/bubblestack"
	"github.com/tanema/gween/ease"
)

const (
	screenW = 800
	screenH = 600

	// The stack sits below an intro section one and a half screens tall.
	stackTop   = 900
	pageHeight = stackTop + screenH
)

func main() {
	configPath := flag.String("config", "", "YAML badge config (defaults to the built-in layout)")
	assets := flag.String("assets", "", "directory holding <image>.png for each badge")
	script := flag.String("script", "", "YAML test script to replay")
	shots := flag.String("shots", "screenshots", "directory for scripted screenshots")
	debug := flag.Bool("debug", false, "outline physics bodies and log at debug level")
	showFPS := flag.Bool("fps", false, "show the FPS widget")
	autoscroll := flag.Bool("autoscroll", false, "scroll to the stack on start")
	flag.Parse()

	bubblestack.ConfigureLoggingFromEnv()
	logger := bubblestack.Logger()

	cfg := bubblestack.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = bubblestack.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	scene := bubblestack.NewScene()
	scene.ClearColor = bubblestack.Color{R: 0.97, G: 0.96, B: 0.93, A: 1}
	cam := scene.NewCamera(bubblestack.Rect{Width: screenW, Height: screenH})
	cam.SetBounds(bubblestack.Rect{Width: screenW, Height: pageHeight})
	if *debug {
		scene.SetDebugMode(true)
	}

	scene.SetEntityStore(eventLog{})

	intro := bubblestack.NewLabel("intro",
		"Projects and press\n\nscroll down\n\n(mouse wheel)", 200, 80)
	intro.X, intro.Y = 40, 60
	scene.Root().AddChild(intro)

	stack, err := bubblestack.MountStack(scene, bubblestack.StackOptions{
		Config: cfg,
		Origin: bubblestack.Vec2{X: 0, Y: stackTop},
		Size:   bubblestack.Vec2{X: screenW, Y: screenH},
		Images: loadImages(*assets, cfg.Badges),
		Open: func(url string) {
			logger.WithField("url", url).Info("open link")
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	stack.Controller().OnSettled(func() {
		logger.Info("badges settled")
	})

	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			log.Fatal(err)
		}
		runner, err := bubblestack.LoadTestScript(data)
		if err != nil {
			log.Fatal(err)
		}
		scene.ScreenshotDir = *shots
		scene.SetTestRunner(runner)
	}
	if *autoscroll {
		cam.ScrollTo(screenW/2, stackTop+screenH/2, 2, ease.InOutQuad)
	}

	if err := bubblestack.Run(scene, bubblestack.RunConfig{
		Title:   "bubblestack",
		Width:   screenW,
		Height:  screenH,
		ShowFPS: *showFPS,
		OnExit:  stack.Unmount,
	}); err != nil {
		log.Fatal(err)
	}
}

// loadImages resolves each badge's image key to <dir>/<key>.png. Badges
// whose file is missing fall back to a placeholder disc.
func loadImages(dir string, badges []bubblestack.Badge) map[string]*ebiten.Image {
	images := make(map[string]*ebiten.Image, len(badges))
	if dir == "" {
		return images
	}
	for _, b := range badges {
		path := filepath.Join(dir, fmt.Sprintf("%s.png", b.Image))
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			bubblestack.Logger().WithError(err).WithField("badge", b.ID).Warn("badge image not loaded")
			continue
		}
		images[b.Image] = img
	}
	return images
}

// eventLog writes stack events to the debug log.
type eventLog struct{}

func (eventLog) EmitEvent(e bubblestack.Event) {
	bubblestack.Logger().WithFields(map[string]any{
		"type":  e.Type,
		"badge": e.BadgeID,
		"state": e.State,
	}).Debug("stack event")
}
