package bubblestack

import "math"

// coincidentEpsilon is the squared distance under which two centers are
// treated as coincident and separated along +X.
const coincidentEpsilon = 1e-12

// circleContact tests two circles. The returned normal points from a toward
// b and depth is the overlap along it.
func circleContact(pa Vec2, ra float64, pb Vec2, rb float64) (n Vec2, depth float64, ok bool) {
	d := pb.Sub(pa)
	distSq := d.Dot(d)
	minDist := ra + rb
	if distSq >= minDist*minDist {
		return Vec2{}, 0, false
	}
	if distSq < coincidentEpsilon {
		return Vec2{X: 1}, minDist, true
	}
	dist := math.Sqrt(distSq)
	return d.Scale(1 / dist), minDist - dist, true
}

// circleBoxContact tests a circle against an axis-aligned box. The returned
// normal points from the box toward the circle center, the direction the
// circle must move to separate.
func circleBoxContact(c Vec2, r float64, box Rect) (n Vec2, depth float64, ok bool) {
	minX, minY := box.X, box.Y
	maxX, maxY := box.X+box.Width, box.Y+box.Height

	closest := Vec2{
		X: math.Max(minX, math.Min(c.X, maxX)),
		Y: math.Max(minY, math.Min(c.Y, maxY)),
	}
	d := c.Sub(closest)
	distSq := d.Dot(d)
	if distSq >= r*r {
		return Vec2{}, 0, false
	}
	if distSq > coincidentEpsilon {
		dist := math.Sqrt(distSq)
		return d.Scale(1 / dist), r - dist, true
	}

	// Center inside the box: leave through the nearest face.
	left := c.X - minX
	right := maxX - c.X
	top := c.Y - minY
	bottom := maxY - c.Y

	n, face := Vec2{X: -1}, left
	if right < face {
		n, face = Vec2{X: 1}, right
	}
	if top < face {
		n, face = Vec2{Y: -1}, top
	}
	if bottom < face {
		n, face = Vec2{Y: 1}, bottom
	}
	return n, r + face, true
}
