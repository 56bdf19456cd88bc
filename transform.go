package bubblestack

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform returns the node's local matrix [a, b, c, d, tx, ty].
// Badges never rotate or skew, so the matrix is Scale followed by
// Translate(X, Y).
func computeLocalTransform(n *Node) [6]float64 {
	return [6]float64{n.ScaleX, 0, 0, n.ScaleY, n.X, n.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	inv := 1.0 / det
	a := m[3] * inv
	b := -m[1] * inv
	c := -m[2] * inv
	d := m[0] * inv
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform recomputes world matrices for n and its subtree.
func updateWorldTransform(n *Node, parent [6]float64) {
	n.worldTransform = multiplyAffine(parent, computeLocalTransform(n))
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform)
	}
}

// WorldToLocal converts a scene-space point into the node's local space
// using the transforms computed by the last Scene.Update or Draw.
func (n *Node) WorldToLocal(wx, wy float64) (float64, float64) {
	return transformPoint(invertAffine(n.worldTransform), wx, wy)
}

// LocalToWorld converts a local point into scene space.
func (n *Node) LocalToWorld(lx, ly float64) (float64, float64) {
	return transformPoint(n.worldTransform, lx, ly)
}

// WorldBounds returns the node's scene-space bounding box.
func (n *Node) WorldBounds() Rect {
	w, h := n.Size()
	x0, y0 := n.LocalToWorld(0, 0)
	x1, y1 := n.LocalToWorld(w, h)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
