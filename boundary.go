package bubblestack

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned by Geometry.Validate.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Boundary body ids.
const (
	FloorID     = "boundary:floor"
	LeftWallID  = "boundary:left"
	RightWallID = "boundary:right"
)

// Geometry describes the containment box in container coordinates. The
// reference values are designed for an 800x600 container; Scaled maps them
// onto a measured one.
type Geometry struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	FloorTop      float64 `yaml:"floorTop"`
	FloorDepth    float64 `yaml:"floorDepth"`
	LeftEdge      float64 `yaml:"leftEdge"`
	RightEdge     float64 `yaml:"rightEdge"`
	WallThickness float64 `yaml:"wallThickness"`
}

// ReferenceGeometry returns the designed 800x600 layout: floor surface 50
// units below the container, inner wall faces at x=20 and x=795.
func ReferenceGeometry() Geometry {
	return Geometry{
		Width:         800,
		Height:        600,
		FloorTop:      650,
		FloorDepth:    100,
		LeftEdge:      20,
		RightEdge:     795,
		WallThickness: 60,
	}
}

// Validate checks that every field is finite and that the walls enclose a
// positive interior above a floor of positive depth.
func (g Geometry) Validate() error {
	switch {
	case !finite(g.Width, g.Height, g.FloorTop, g.FloorDepth, g.LeftEdge, g.RightEdge, g.WallThickness):
		return fmt.Errorf("%w: non-finite field in %+v", ErrInvalidGeometry, g)
	case !(g.Width > 0) || !(g.Height > 0):
		return fmt.Errorf("%w: size %vx%v", ErrInvalidGeometry, g.Width, g.Height)
	case !(g.RightEdge > g.LeftEdge):
		return fmt.Errorf("%w: right edge %v not right of left edge %v", ErrInvalidGeometry, g.RightEdge, g.LeftEdge)
	case !(g.FloorDepth > 0) || !(g.WallThickness > 0):
		return fmt.Errorf("%w: floor depth %v, wall thickness %v", ErrInvalidGeometry, g.FloorDepth, g.WallThickness)
	}
	return nil
}

// ScaleFactors returns the per-axis factors mapping g onto a container of
// the given size. A non-positive size component keeps factor 1.
func (g Geometry) ScaleFactors(size Vec2) Vec2 {
	s := Vec2{1, 1}
	if size.X > 0 && g.Width > 0 {
		s.X = size.X / g.Width
	}
	if size.Y > 0 && g.Height > 0 {
		s.Y = size.Y / g.Height
	}
	return s
}

// Scaled returns g mapped onto a container of the given size. Horizontal
// fields scale with width, vertical fields with height, wall thickness with
// the smaller factor.
func (g Geometry) Scaled(size Vec2) Geometry {
	s := g.ScaleFactors(size)
	return Geometry{
		Width:         g.Width * s.X,
		Height:        g.Height * s.Y,
		FloorTop:      g.FloorTop * s.Y,
		FloorDepth:    g.FloorDepth * s.Y,
		LeftEdge:      g.LeftEdge * s.X,
		RightEdge:     g.RightEdge * s.X,
		WallThickness: g.WallThickness * math.Min(s.X, s.Y),
	}
}

// Interior returns the region dynamic bodies are confined to: between the
// wall faces, from one container height above the top down to the floor.
func (g Geometry) Interior() Rect {
	return Rect{
		X:      g.LeftEdge,
		Y:      -g.Height,
		Width:  g.RightEdge - g.LeftEdge,
		Height: g.FloorTop + g.Height,
	}
}

// Boundaries holds the three static containment bodies.
type Boundaries struct {
	Floor     *Body
	LeftWall  *Body
	RightWall *Body
}

// NewBoundaries builds the floor and both walls for g. The floor runs a
// container width past each wall; the walls start a container height above
// the top and reach the bottom of the floor.
func NewBoundaries(g Geometry) Boundaries {
	wallTop := -g.Height
	wallHeight := g.FloorTop + g.FloorDepth - wallTop
	floorX := g.LeftEdge - g.WallThickness - g.Width
	floorW := (g.RightEdge + g.WallThickness + g.Width) - floorX

	return Boundaries{
		Floor: NewBoxFromRect(FloorID, Rect{
			X: floorX, Y: g.FloorTop, Width: floorW, Height: g.FloorDepth,
		}),
		LeftWall: NewBoxFromRect(LeftWallID, Rect{
			X: g.LeftEdge - g.WallThickness, Y: wallTop, Width: g.WallThickness, Height: wallHeight,
		}),
		RightWall: NewBoxFromRect(RightWallID, Rect{
			X: g.RightEdge, Y: wallTop, Width: g.WallThickness, Height: wallHeight,
		}),
	}
}

// Bodies returns floor, left wall, right wall.
func (b Boundaries) Bodies() []*Body {
	return []*Body{b.Floor, b.LeftWall, b.RightWall}
}
