package models

import "github.com/taigrr/diorama/pkg/math3d"

// House material indices, in the order GenerateHouse appends them.
const (
	HouseMatWall = iota
	HouseMatRoof
	HouseMatDoor
	HouseMatWindow
	HouseMatFloor
)

// GenerateHouse builds a small cottage: four walls, a pyramid roof, a
// door, two windows, and a grass apron extending two units past the
// walls. The door and windows float a hair outside their walls so they
// win the depth test. Used as the fallback when no OBJ model loads.
func GenerateHouse(width, height, depth, roofHeight float64) *Mesh {
	m := NewMesh("house")
	m.Materials = []Material{
		{Name: "wall", BaseColor: [4]float64{0.8, 0.6, 0.4, 1}, Roughness: 1},
		{Name: "roof", BaseColor: [4]float64{0.7, 0.2, 0.2, 1}, Roughness: 1},
		{Name: "door", BaseColor: [4]float64{0.5, 0.35, 0.25, 1}, Roughness: 1},
		{Name: "window", BaseColor: [4]float64{0.2, 0.4, 0.8, 1}, Roughness: 0.2},
		{Name: "floor", BaseColor: [4]float64{0.3, 0.6, 0.3, 1}, Roughness: 1},
	}

	quad := func(a, b, c, d, n math3d.Vec3, mat int) {
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices,
			MeshVertex{Position: a, Normal: n, UV: math3d.V2(0, 0)},
			MeshVertex{Position: b, Normal: n, UV: math3d.V2(1, 0)},
			MeshVertex{Position: c, Normal: n, UV: math3d.V2(1, 1)},
			MeshVertex{Position: d, Normal: n, UV: math3d.V2(0, 1)},
		)
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}, Material: mat},
			Face{V: [3]int{base, base + 2, base + 3}, Material: mat},
		)
	}
	tri := func(a, b, c math3d.Vec3, mat int) {
		base := len(m.Vertices)
		// Outward normal of a clockwise triangle.
		n := c.Sub(a).Cross(b.Sub(a)).Normalize()
		m.Vertices = append(m.Vertices,
			MeshVertex{Position: a, Normal: n, UV: math3d.V2(0, 0)},
			MeshVertex{Position: b, Normal: n, UV: math3d.V2(0.5, 1)},
			MeshVertex{Position: c, Normal: n, UV: math3d.V2(1, 0)},
		)
		m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}, Material: mat})
	}

	w, d := width/2, depth/2
	h := height

	// Walls, wound clockwise from outside.
	quad(math3d.V3(w, 0, d), math3d.V3(-w, 0, d), math3d.V3(-w, h, d), math3d.V3(w, h, d),
		math3d.V3(0, 0, 1), HouseMatWall) // Front
	quad(math3d.V3(-w, 0, -d), math3d.V3(w, 0, -d), math3d.V3(w, h, -d), math3d.V3(-w, h, -d),
		math3d.V3(0, 0, -1), HouseMatWall) // Back
	quad(math3d.V3(-w, 0, d), math3d.V3(-w, 0, -d), math3d.V3(-w, h, -d), math3d.V3(-w, h, d),
		math3d.V3(-1, 0, 0), HouseMatWall) // Left
	quad(math3d.V3(w, 0, -d), math3d.V3(w, 0, d), math3d.V3(w, h, d), math3d.V3(w, h, -d),
		math3d.V3(1, 0, 0), HouseMatWall) // Right

	// Pyramid roof: one apex over the center, four slopes.
	apex := math3d.V3(0, h+roofHeight, 0)
	eaves := [4]math3d.Vec3{
		{X: -w, Y: h, Z: -d},
		{X: w, Y: h, Z: -d},
		{X: w, Y: h, Z: d},
		{X: -w, Y: h, Z: d},
	}
	for i := range 4 {
		tri(eaves[(i+1)%4], apex, eaves[i], HouseMatRoof)
	}

	// Door on the front wall.
	zd := d + 0.01
	quad(math3d.V3(0.5, 0, zd), math3d.V3(-0.5, 0, zd), math3d.V3(-0.5, 2, zd), math3d.V3(0.5, 2, zd),
		math3d.V3(0, 0, 1), HouseMatDoor)

	// One window on each side wall, nudged outward past the wall plane.
	xl := -w - 0.01
	quad(math3d.V3(xl, 1.5, 0.5), math3d.V3(xl, 1.5, -0.5), math3d.V3(xl, 2.5, -0.5), math3d.V3(xl, 2.5, 0.5),
		math3d.V3(-1, 0, 0), HouseMatWindow)
	xr := w + 0.01
	quad(math3d.V3(xr, 1.5, -0.5), math3d.V3(xr, 1.5, 0.5), math3d.V3(xr, 2.5, 0.5), math3d.V3(xr, 2.5, -0.5),
		math3d.V3(1, 0, 0), HouseMatWindow)

	// Grass apron just below y=0 so it cannot z-fight the walls.
	fw, fd := w+2, d+2
	quad(math3d.V3(-fw, -0.01, -fd), math3d.V3(fw, -0.01, -fd), math3d.V3(fw, -0.01, fd), math3d.V3(-fw, -0.01, fd),
		math3d.V3(0, 1, 0), HouseMatFloor)

	m.CalculateBounds()
	return m
}
