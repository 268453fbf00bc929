package models

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Procedural generators. All faces are wound clockwise when viewed from
// outside the shape, matching the rasterizer's front-face convention, and
// normals are computed analytically from the parametric surface. Shapes
// with hard edges (cube, pyramid, caps) duplicate vertices at shared
// positions so lighting does not blend across the edge; smooth surfaces
// (sphere, cylinder side) share vertices between adjacent faces.

// addQuad appends a quad as two clockwise triangles with a shared normal.
func addQuad(m *Mesh, a, b, c, d, n math3d.Vec3) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		MeshVertex{Position: a, Normal: n, UV: math3d.V2(0, 0)},
		MeshVertex{Position: b, Normal: n, UV: math3d.V2(1, 0)},
		MeshVertex{Position: c, Normal: n, UV: math3d.V2(1, 1)},
		MeshVertex{Position: d, Normal: n, UV: math3d.V2(0, 1)},
	)
	m.Faces = append(m.Faces,
		Face{V: [3]int{base, base + 1, base + 2}, Material: -1},
		Face{V: [3]int{base, base + 2, base + 3}, Material: -1},
	)
}

// addTri appends a single triangle with one normal for all three corners.
func addTri(m *Mesh, a, b, c, n math3d.Vec3) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		MeshVertex{Position: a, Normal: n, UV: math3d.V2(0, 0)},
		MeshVertex{Position: b, Normal: n, UV: math3d.V2(0.5, 1)},
		MeshVertex{Position: c, Normal: n, UV: math3d.V2(1, 0)},
	)
	m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}, Material: -1})
}

// GenerateCube builds an axis-aligned cube with the given edge length,
// centered at the origin. 24 vertices, 12 triangles.
func GenerateCube(size float64) *Mesh {
	m := NewMesh("cube")
	h := size / 2

	v := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0: left-bottom-back
		{X: h, Y: -h, Z: -h},  // 1: right-bottom-back
		{X: h, Y: h, Z: -h},   // 2: right-top-back
		{X: -h, Y: h, Z: -h},  // 3: left-top-back
		{X: -h, Y: -h, Z: h},  // 4: left-bottom-front
		{X: h, Y: -h, Z: h},   // 5: right-bottom-front
		{X: h, Y: h, Z: h},    // 6: right-top-front
		{X: -h, Y: h, Z: h},   // 7: left-top-front
	}

	faces := []struct {
		quad   [4]int
		normal math3d.Vec3
	}{
		{[4]int{0, 1, 2, 3}, math3d.V3(0, 0, -1)}, // Back
		{[4]int{5, 4, 7, 6}, math3d.V3(0, 0, 1)},  // Front
		{[4]int{4, 0, 3, 7}, math3d.V3(-1, 0, 0)}, // Left
		{[4]int{1, 5, 6, 2}, math3d.V3(1, 0, 0)},  // Right
		{[4]int{3, 2, 6, 7}, math3d.V3(0, 1, 0)},  // Top
		{[4]int{4, 5, 1, 0}, math3d.V3(0, -1, 0)}, // Bottom
	}

	for _, f := range faces {
		addQuad(m, v[f.quad[0]], v[f.quad[1]], v[f.quad[2]], v[f.quad[3]], f.normal)
	}

	m.CalculateBounds()
	return m
}

// GenerateSphere builds a UV-sphere centered at the origin. Vertices are
// shared between adjacent faces so normals blend smoothly; the seam column
// and both poles are duplicated for clean texture coordinates. Sectors
// below 3 and stacks below 2 are raised to those minimums.
func GenerateSphere(radius float64, sectors, stacks int) *Mesh {
	sectors = max(sectors, 3)
	stacks = max(stacks, 2)

	m := NewMesh("sphere")

	for i := 0; i <= stacks; i++ {
		phi := math.Pi/2 - math.Pi*float64(i)/float64(stacks)
		y := math.Sin(phi)
		ring := math.Cos(phi)

		for j := 0; j <= sectors; j++ {
			theta := 2 * math.Pi * float64(j) / float64(sectors)
			n := math3d.V3(ring*math.Cos(theta), y, ring*math.Sin(theta))
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: n.Scale(radius),
				Normal:   n,
				UV:       math3d.V2(float64(j)/float64(sectors), float64(i)/float64(stacks)),
			})
		}
	}

	for i := range stacks {
		for j := range sectors {
			k1 := i*(sectors+1) + j
			k2 := k1 + sectors + 1

			if i != 0 {
				m.Faces = append(m.Faces, Face{V: [3]int{k1, k2, k1 + 1}, Material: -1})
			}
			if i != stacks-1 {
				m.Faces = append(m.Faces, Face{V: [3]int{k1 + 1, k2, k2 + 1}, Material: -1})
			}
		}
	}

	m.CalculateBounds()
	return m
}

// GenerateCylinder builds a cylinder centered at the origin with its axis
// along Y. The side shares vertices around the ring; the caps carry their
// own duplicated rings so the rim stays a hard edge.
func GenerateCylinder(radius, height float64, segments int) *Mesh {
	segments = max(segments, 3)

	m := NewMesh("cylinder")
	h := height / 2

	// Side: two rings with radial normals, seam column duplicated.
	for j := 0; j <= segments; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		n := math3d.V3(math.Cos(theta), 0, math.Sin(theta))
		u := float64(j) / float64(segments)

		m.Vertices = append(m.Vertices,
			MeshVertex{Position: math3d.V3(n.X*radius, h, n.Z*radius), Normal: n, UV: math3d.V2(u, 0)},
			MeshVertex{Position: math3d.V3(n.X*radius, -h, n.Z*radius), Normal: n, UV: math3d.V2(u, 1)},
		)
	}
	for j := range segments {
		top := 2 * j
		bot := top + 1
		m.Faces = append(m.Faces,
			Face{V: [3]int{top, bot, top + 2}, Material: -1},
			Face{V: [3]int{top + 2, bot, bot + 2}, Material: -1},
		)
	}

	addCylinderCap(m, radius, h, segments, true)
	addCylinderCap(m, radius, -h, segments, false)

	m.CalculateBounds()
	return m
}

// addCylinderCap appends a fan-triangulated disc at the given height.
func addCylinderCap(m *Mesh, radius, y float64, segments int, top bool) {
	n := math3d.V3(0, 1, 0)
	if !top {
		n = math3d.V3(0, -1, 0)
	}

	center := len(m.Vertices)
	m.Vertices = append(m.Vertices, MeshVertex{
		Position: math3d.V3(0, y, 0),
		Normal:   n,
		UV:       math3d.V2(0.5, 0.5),
	})
	for j := 0; j <= segments; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		c, s := math.Cos(theta), math.Sin(theta)
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: math3d.V3(c*radius, y, s*radius),
			Normal:   n,
			UV:       math3d.V2(c*0.5+0.5, s*0.5+0.5),
		})
	}

	for j := range segments {
		a, b := center+1+j, center+2+j
		if top {
			m.Faces = append(m.Faces, Face{V: [3]int{center, a, b}, Material: -1})
		} else {
			m.Faces = append(m.Faces, Face{V: [3]int{center, b, a}, Material: -1})
		}
	}
}

// GenerateCone builds a cone with its base at -height/2 and apex at
// +height/2. The side is smooth around the ring; the apex is duplicated
// per segment so each face gets a slant normal at its midpoint angle.
func GenerateCone(radius, height float64, segments int) *Mesh {
	segments = max(segments, 3)

	m := NewMesh("cone")
	h := height / 2

	// Base ring for the side, slant normals.
	for j := 0; j <= segments; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: math3d.V3(radius*math.Cos(theta), -h, radius*math.Sin(theta)),
			Normal:   coneSlantNormal(radius, height, theta),
			UV:       math3d.V2(float64(j)/float64(segments), 1),
		})
	}

	// One apex vertex per segment, normal at the segment midpoint.
	apexBase := len(m.Vertices)
	for j := range segments {
		mid := 2 * math.Pi * (float64(j) + 0.5) / float64(segments)
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: math3d.V3(0, h, 0),
			Normal:   coneSlantNormal(radius, height, mid),
			UV:       math3d.V2((float64(j)+0.5)/float64(segments), 0),
		})
	}

	for j := range segments {
		m.Faces = append(m.Faces, Face{V: [3]int{apexBase + j, j, j + 1}, Material: -1})
	}

	addCylinderCap(m, radius, -h, segments, false)

	m.CalculateBounds()
	return m
}

// coneSlantNormal returns the outward side normal of a cone at angle theta.
func coneSlantNormal(radius, height, theta float64) math3d.Vec3 {
	return math3d.V3(height*math.Cos(theta), radius, height*math.Sin(theta)).Normalize()
}

// GeneratePlane builds a flat quad in the XZ plane centered at the origin,
// facing up.
func GeneratePlane(width, depth float64) *Mesh {
	m := NewMesh("plane")
	w, d := width/2, depth/2

	addQuad(m,
		math3d.V3(-w, 0, -d),
		math3d.V3(w, 0, -d),
		math3d.V3(w, 0, d),
		math3d.V3(-w, 0, d),
		math3d.V3(0, 1, 0),
	)

	m.CalculateBounds()
	return m
}

// GeneratePyramid builds a square pyramid with base edge length base,
// base at -height/2 and apex at +height/2. Every face has its own
// vertices so the edges stay hard.
func GeneratePyramid(base, height float64) *Mesh {
	m := NewMesh("pyramid")
	b, h := base/2, height/2

	apex := math3d.V3(0, h, 0)
	corners := [4]math3d.Vec3{
		{X: -b, Y: -h, Z: -b},
		{X: b, Y: -h, Z: -b},
		{X: b, Y: -h, Z: b},
		{X: -b, Y: -h, Z: b},
	}

	for i := range 4 {
		c0 := corners[i]
		c1 := corners[(i+1)%4]
		// Clockwise from outside is (c1, apex, c0); the outward normal
		// of a clockwise triangle is (c-a) x (b-a).
		n := c0.Sub(c1).Cross(apex.Sub(c1)).Normalize()
		addTri(m, c1, apex, c0, n)
	}

	addQuad(m, corners[3], corners[2], corners[1], corners[0], math3d.V3(0, -1, 0))

	m.CalculateBounds()
	return m
}

// GenerateTreeTrunk builds a slightly tapered trunk rising from the origin
// to the given height. The top ring narrows to 70% of the base radius.
func GenerateTreeTrunk(height, radius float64, segments int) *Mesh {
	segments = max(segments, 3)

	m := NewMesh("tree_trunk")
	topRadius := radius * 0.7

	for j := 0; j <= segments; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		c, s := math.Cos(theta), math.Sin(theta)
		// Taper tilts the side normal upward.
		n := math3d.V3(height*c, radius-topRadius, height*s).Normalize()
		u := float64(j) / float64(segments)

		m.Vertices = append(m.Vertices,
			MeshVertex{Position: math3d.V3(c*topRadius, height, s*topRadius), Normal: n, UV: math3d.V2(u, 0)},
			MeshVertex{Position: math3d.V3(c*radius, 0, s*radius), Normal: n, UV: math3d.V2(u, 1)},
		)
	}
	for j := range segments {
		top := 2 * j
		bot := top + 1
		m.Faces = append(m.Faces,
			Face{V: [3]int{top, bot, top + 2}, Material: -1},
			Face{V: [3]int{top + 2, bot, bot + 2}, Material: -1},
		)
	}

	addCylinderCap(m, topRadius, height, segments, true)
	addCylinderCap(m, radius, 0, segments, false)

	m.CalculateBounds()
	return m
}

// GenerateTreeFoliage builds a vertically squashed sphere (80% height)
// centered at the origin, the canonical blob of leaves.
func GenerateTreeFoliage(radius float64, sectors, stacks int) *Mesh {
	sectors = max(sectors, 3)
	stacks = max(stacks, 2)
	const squash = 0.8

	m := NewMesh("tree_foliage")

	for i := 0; i <= stacks; i++ {
		phi := math.Pi/2 - math.Pi*float64(i)/float64(stacks)
		y := math.Sin(phi)
		ring := math.Cos(phi)

		for j := 0; j <= sectors; j++ {
			theta := 2 * math.Pi * float64(j) / float64(sectors)
			c, s := math.Cos(theta), math.Sin(theta)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: math3d.V3(ring*c*radius, y*radius*squash, ring*s*radius),
				// Ellipsoid normal: divide each component by its axis scale.
				Normal: math3d.V3(ring*c, y/squash, ring*s).Normalize(),
				UV:     math3d.V2(float64(j)/float64(sectors), float64(i)/float64(stacks)),
			})
		}
	}

	for i := range stacks {
		for j := range sectors {
			k1 := i*(sectors+1) + j
			k2 := k1 + sectors + 1

			if i != 0 {
				m.Faces = append(m.Faces, Face{V: [3]int{k1, k2, k1 + 1}, Material: -1})
			}
			if i != stacks-1 {
				m.Faces = append(m.Faces, Face{V: [3]int{k1 + 1, k2, k2 + 1}, Material: -1})
			}
		}
	}

	m.CalculateBounds()
	return m
}

// GenerateGrassBlade builds two crossed triangular blades rising from the
// origin. Both windings are emitted per blade so the card is visible from
// either side despite backface culling.
func GenerateGrassBlade(height, width float64) *Mesh {
	m := NewMesh("grass_blade")
	w := width / 2
	tip := math3d.V3(0, height, 0)

	a := math3d.V3(-w, 0, 0)
	b := math3d.V3(w, 0, 0)
	addTri(m, a, tip, b, math3d.V3(0, 0, 1))
	addTri(m, b, tip, a, math3d.V3(0, 0, -1))

	c := math3d.V3(0, 0, w)
	d := math3d.V3(0, 0, -w)
	addTri(m, c, tip, d, math3d.V3(1, 0, 0))
	addTri(m, d, tip, c, math3d.V3(-1, 0, 0))

	m.CalculateBounds()
	return m
}
