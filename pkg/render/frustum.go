package render

import (
	"github.com/taigrr/diorama/pkg/math3d"
)

// Plane is the set of points satisfying Normal dot p + D = 0. The
// frustum planes keep their normals pointing into the visible volume.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the equation so the normal has unit length, which
// makes DistanceToPoint return true distances.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to point.
// Positive means the normal side.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the camera's visible volume as six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

// Indices into Frustum.Planes.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum derives the six planes from a view-projection matrix
// by the Gribb/Hartmann method: each clip half-space is the w row of
// the matrix plus or minus one of the x, y, z rows.
func ExtractFrustum(m math3d.Mat4) Frustum {
	// Row i of the column-major matrix, split into the xyz
	// coefficients and the constant term.
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	wn, wd := row(3)

	var f Frustum
	for axis := range 3 {
		n, d := row(axis)
		f.Planes[2*axis] = Plane{Normal: wn.Add(n), D: wd + d}
		f.Planes[2*axis+1] = Plane{Normal: wn.Sub(n), D: wd - d}
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned box between two corners.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Transform returns the axis-aligned bounds of the box after applying
// m, the box that contains all eight transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	pick := func(bit int, lo, hi float64) float64 {
		if bit != 0 {
			return hi
		}
		return lo
	}

	first := m.MulVec3(b.Min)
	lo, hi := first, first
	for i := 1; i < 8; i++ {
		corner := math3d.V3(
			pick(i&1, b.Min.X, b.Max.X),
			pick(i&2, b.Min.Y, b.Max.Y),
			pick(i&4, b.Min.Z, b.Max.Z),
		)
		p := m.MulVec3(corner)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return AABB{Min: lo, Max: hi}
}

// farthestCorner returns the box corner with the greatest extent
// along dir.
func (b AABB) farthestCorner(dir math3d.Vec3) math3d.Vec3 {
	c := b.Min
	if dir.X >= 0 {
		c.X = b.Max.X
	}
	if dir.Y >= 0 {
		c.Y = b.Max.Y
	}
	if dir.Z >= 0 {
		c.Z = b.Max.Z
	}
	return c
}

// IntersectAABB reports whether any part of box reaches into the
// frustum. Per plane it tests only the corner lying furthest along
// the normal; when even that corner is behind the plane the whole box
// is out.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		p := f.Planes[i]
		if p.DistanceToPoint(box.farthestCorner(p.Normal)) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere around center reaches
// into the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
