package render

import (
	"github.com/taigrr/diorama/pkg/math3d"
)

// DrawLine3D projects a world-space segment and draws it with the
// framebuffer line rasterizer. Segments entirely behind the camera are
// dropped rather than clipped.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	r.drawLine3D(a, b, color)
}

// DrawGridXZ draws grid lines on the y=0 plane, centered on the origin
// and extending halfExtent world units in each direction.
func (r *Rasterizer) DrawGridXZ(halfExtent, step float64, color Color) {
	if step <= 0 {
		return
	}
	for d := -halfExtent; d <= halfExtent+step/2; d += step {
		r.drawLine3D(math3d.V3(d, 0, -halfExtent), math3d.V3(d, 0, halfExtent), color)
		r.drawLine3D(math3d.V3(-halfExtent, 0, d), math3d.V3(halfExtent, 0, d), color)
	}
}

// DrawAxes draws the world axes from the origin: X red, Y green, Z blue.
func (r *Rasterizer) DrawAxes(length float64) {
	r.drawLine3D(math3d.Zero3(), math3d.V3(length, 0, 0), RGB(220, 60, 60))
	r.drawLine3D(math3d.Zero3(), math3d.V3(0, length, 0), RGB(60, 220, 60))
	r.drawLine3D(math3d.Zero3(), math3d.V3(0, 0, length), RGB(60, 60, 220))
}

// DrawAABBOutline draws the twelve edges of a world-space box.
func (r *Rasterizer) DrawAABBOutline(box AABB, color Color) {
	lo, hi := box.Min, box.Max
	corners := [8]math3d.Vec3{
		math3d.V3(lo.X, lo.Y, lo.Z),
		math3d.V3(hi.X, lo.Y, lo.Z),
		math3d.V3(hi.X, hi.Y, lo.Z),
		math3d.V3(lo.X, hi.Y, lo.Z),
		math3d.V3(lo.X, lo.Y, hi.Z),
		math3d.V3(hi.X, lo.Y, hi.Z),
		math3d.V3(hi.X, hi.Y, hi.Z),
		math3d.V3(lo.X, hi.Y, hi.Z),
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		r.drawLine3D(corners[e[0]], corners[e[1]], color)
	}
}
