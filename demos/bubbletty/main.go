// bubbletty renders the badge stack in a terminal. Scroll down with j, the
// arrow keys or the mouse wheel until the stack comes into view; click a
// badge to print its link. Esc or q quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/phanxgames/bubblestack"
)

const (
	frameInterval = 16 * time.Millisecond
	// A contact must be at least this fast to tick.
	tickSpeed = 300.0
)

var badgeStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorMediumPurple),
	tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorOrangeRed),
	tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal),
	tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGold),
}

type page struct {
	screen        tcell.Screen
	width, height int
	scroll        int

	cfg        bubblestack.Config
	loop       *bubblestack.FrameLoop
	ctrl       *bubblestack.Controller
	placements map[string]bubblestack.Vec2
	status     string

	audioInit bool
	ticked    bool
}

func main() {
	configPath := flag.String("config", "", "YAML badge config (defaults to the built-in layout)")
	sound := flag.Bool("sound", false, "play a tick when a badge bounces")
	logPath := flag.String("log", "", "write logs to this file")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	bubblestack.ConfigureLoggingFromEnv()
	bubblestack.SetLogOutput(io.Discard)
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		bubblestack.SetLogOutput(f)
	}
	if *debug {
		bubblestack.SetDebugMode(true)
	}

	cfg := bubblestack.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = bubblestack.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	// Simulate in reference units and scale when drawing; cells are not square.
	cfg.Responsive = false

	p, err := newPage(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if *sound {
		p.initAudio()
	}
	p.run()
	p.cleanup()
}

func newPage(cfg bubblestack.Config) (*page, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	p := &page{
		screen:     screen,
		cfg:        cfg,
		loop:       bubblestack.NewFrameLoop(),
		placements: make(map[string]bubblestack.Vec2, len(cfg.Badges)),
		status:     "scroll down (j / arrow / wheel)",
	}
	p.width, p.height = screen.Size()

	elements := make(bubblestack.ElementMap, len(cfg.Badges))
	for _, b := range cfg.Badges {
		id := b.ID
		p.placements[id] = bubblestack.Vec2{X: b.Position.X - b.Radius, Y: b.Position.Y - b.Radius}
		elements[id] = bubblestack.ElementFunc(func(x, y float64) {
			p.placements[id] = bubblestack.Vec2{X: x, Y: y}
		})
	}

	ctrl, err := bubblestack.NewController(cfg, elements, p.loop)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	ctrl.OnStateChange(func(from, to bubblestack.State) {
		p.status = fmt.Sprintf("stack %s", to)
		if to == bubblestack.StateRunning {
			ctrl.World().OnContact(p.contact)
		}
	})
	ctrl.OnSettled(func() {
		p.status = "settled; click a badge"
	})
	p.ctrl = ctrl
	return p, nil
}

func (p *page) initAudio() {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		bubblestack.Logger().WithError(err).Warn("audio initialization failed")
		return
	}
	p.audioInit = true
}

// contact plays at most one tick per frame.
func (p *page) contact(c bubblestack.Contact) {
	if !p.audioInit || p.ticked || c.ImpactSpeed < tickSpeed {
		return
	}
	p.ticked = true
	sampleRate := beep.SampleRate(44100)
	freq := 440 + math.Min(c.ImpactSpeed, 2000)/2
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(30*time.Millisecond), sine))
}

// containerRect is the stack container in page cells: one screen tall,
// starting right below the first screen.
func (p *page) containerRect() bubblestack.Rect {
	return bubblestack.Rect{X: 0, Y: float64(p.height), Width: float64(p.width), Height: float64(p.height)}
}

func (p *page) viewport() bubblestack.Rect {
	return bubblestack.Rect{X: 0, Y: float64(p.scroll), Width: float64(p.width), Height: float64(p.height)}
}

// cellScale maps reference units to cells.
func (p *page) cellScale() (sx, sy float64) {
	g := p.cfg.Geometry
	return float64(p.width) / g.Width, float64(p.height) / g.Height
}

func (p *page) scrollBy(d int) {
	p.scroll += d
	maxScroll := p.height
	if p.scroll < 0 {
		p.scroll = 0
	}
	if p.scroll > maxScroll {
		p.scroll = maxScroll
	}
}

// badgeAt returns the topmost badge covering the screen cell, or nil.
func (p *page) badgeAt(col, row int) *bubblestack.Badge {
	sx, sy := p.cellScale()
	top := p.containerRect().Y - float64(p.scroll)
	// Reference point at the cell center.
	x := (float64(col) + 0.5) / sx
	y := (float64(row) + 0.5 - top) / sy
	for i := len(p.cfg.Badges) - 1; i >= 0; i-- {
		b := &p.cfg.Badges[i]
		pl := p.placements[b.ID]
		dx := x - (pl.X + b.Radius)
		dy := y - (pl.Y + b.Radius)
		if dx*dx+dy*dy <= b.Radius*b.Radius {
			return b
		}
	}
	return nil
}

func (p *page) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyDown, ev.Key() == tcell.KeyRune && ev.Rune() == 'j':
			p.scrollBy(1)
		case ev.Key() == tcell.KeyUp, ev.Key() == tcell.KeyRune && ev.Rune() == 'k':
			p.scrollBy(-1)
		case ev.Key() == tcell.KeyPgDn:
			p.scrollBy(p.height / 2)
		case ev.Key() == tcell.KeyPgUp:
			p.scrollBy(-p.height / 2)
		}
	case *tcell.EventMouse:
		btn := ev.Buttons()
		switch {
		case btn&tcell.WheelDown != 0:
			p.scrollBy(2)
		case btn&tcell.WheelUp != 0:
			p.scrollBy(-2)
		case btn&tcell.Button1 != 0:
			col, row := ev.Position()
			if b := p.badgeAt(col, row); b != nil {
				p.status = "open " + b.URL
				bubblestack.Logger().WithField("url", b.URL).Info("badge clicked")
			}
		}
	case *tcell.EventResize:
		p.width, p.height = p.screen.Size()
		p.screen.Sync()
	}
	return true
}

func (p *page) draw() {
	p.screen.Clear()
	plain := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	// First screen: filler text.
	for row := 0; row < p.height; row++ {
		y := row - p.scroll
		if y < 0 || y >= p.height {
			continue
		}
		if row == 1 {
			p.text(2, y, "bubblestack terminal demo", plain.Bold(true))
		} else if row%3 == 0 {
			p.text(2, y, "· · ·", dim)
		}
	}

	// Container: floor line and badges.
	sx, sy := p.cellScale()
	top := int(p.containerRect().Y) - p.scroll
	floorRow := top + int(p.cfg.Geometry.FloorTop*sy)
	if floorRow >= 0 && floorRow < p.height {
		for col := 0; col < p.width; col++ {
			p.screen.SetContent(col, floorRow, '▀', nil, dim)
		}
	}
	for i, b := range p.cfg.Badges {
		pl := p.placements[b.ID]
		cx := (pl.X + b.Radius) * sx
		cy := float64(top) + (pl.Y+b.Radius)*sy
		rx, ry := b.Radius*sx, b.Radius*sy
		style := badgeStyles[i%len(badgeStyles)]
		p.disc(cx, cy, rx, ry, style)
		if len(b.Image) > 0 {
			p.screen.SetContent(int(cx), int(cy), []rune(b.Image)[0], nil, style.Bold(true))
		}
	}

	p.text(0, p.height-1, fmt.Sprintf(" %s  [%s]", p.status, p.ctrl.State()), tcell.StyleDefault.Reverse(true))
	p.screen.Show()
}

func (p *page) disc(cx, cy, rx, ry float64, style tcell.Style) {
	if rx <= 0 || ry <= 0 {
		return
	}
	for row := int(cy - ry); row <= int(cy+ry); row++ {
		if row < 0 || row >= p.height-1 {
			continue
		}
		for col := int(cx - rx); col <= int(cx+rx); col++ {
			if col < 0 || col >= p.width {
				continue
			}
			dx := (float64(col) + 0.5 - cx) / rx
			dy := (float64(row) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				p.screen.SetContent(col, row, ' ', nil, style)
			}
		}
	}
}

func (p *page) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		if x+i >= p.width {
			return
		}
		p.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (p *page) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pumpEvents(p.screen.PollEvent, eventChan)

	for {
		select {
		case ev := <-eventChan:
			if !p.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			p.ctrl.Observe(p.containerRect(), p.viewport())
			p.ticked = false
			p.loop.Frame()
			p.draw()
		}
	}
}

// pumpEvents forwards polled events until poll returns nil, which tcell does
// once the screen is finalized.
func pumpEvents(poll func() tcell.Event, out chan<- tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		out <- ev
	}
}

func (p *page) cleanup() {
	p.ctrl.Teardown()
	if p.audioInit {
		speaker.Close()
	}
	p.screen.Fini()
}
