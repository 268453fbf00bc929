package models

import (
	"math"
	"reflect"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
)

// checkMeshTopology verifies every face references valid vertices and
// that stored vertex normals point the same way as the face winding.
func checkMeshTopology(t *testing.T, m *Mesh) {
	t.Helper()

	if m.VertexCount() == 0 || m.TriangleCount() == 0 {
		t.Fatalf("mesh %s is empty: %d vertices, %d faces", m.Name, m.VertexCount(), m.TriangleCount())
	}

	for fi, f := range m.Faces {
		for _, vi := range f.V {
			if vi < 0 || vi >= m.VertexCount() {
				t.Fatalf("face %d references vertex %d, have %d vertices", fi, vi, m.VertexCount())
			}
		}

		p0 := m.Vertices[f.V[0]].Position
		p1 := m.Vertices[f.V[1]].Position
		p2 := m.Vertices[f.V[2]].Position
		// Outward direction implied by the clockwise winding.
		outward := p2.Sub(p0).Cross(p1.Sub(p0))

		for _, vi := range f.V {
			if outward.Dot(m.Vertices[vi].Normal) < -1e-9 {
				t.Errorf("face %d winding disagrees with vertex %d normal", fi, vi)
			}
		}
	}
}

func checkUnitNormals(t *testing.T, m *Mesh, tol float64) {
	t.Helper()
	for i, v := range m.Vertices {
		if l := v.Normal.Len(); math.Abs(l-1) > tol {
			t.Errorf("vertex %d normal length = %v, want 1", i, l)
		}
	}
}

func TestGenerateCube(t *testing.T) {
	m := GenerateCube(2)

	if m.VertexCount() != 24 {
		t.Errorf("vertex count = %d, want 24", m.VertexCount())
	}
	if m.TriangleCount() != 12 {
		t.Errorf("triangle count = %d, want 12", m.TriangleCount())
	}
	checkMeshTopology(t, m)
	checkUnitNormals(t, m, 1e-9)

	if m.BoundsMin != math3d.V3(-1, -1, -1) || m.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v..%v, want unit cube at half-extent 1", m.BoundsMin, m.BoundsMax)
	}

	// Every normal is axis aligned and agrees with the face position.
	for i, v := range m.Vertices {
		if v.Normal.Abs() != math3d.V3(1, 0, 0) &&
			v.Normal.Abs() != math3d.V3(0, 1, 0) &&
			v.Normal.Abs() != math3d.V3(0, 0, 1) {
			t.Errorf("vertex %d normal %v is not axis aligned", i, v.Normal)
		}
		if v.Normal.Dot(v.Position) <= 0 {
			t.Errorf("vertex %d normal %v points into the cube", i, v.Normal)
		}
	}
}

func TestGenerateSphere(t *testing.T) {
	tests := []struct {
		name            string
		radius          float64
		sectors, stacks int
	}{
		{"default detail", 0.5, 36, 18},
		{"coarse", 1, 8, 4},
		{"minimum", 2, 3, 2},
		{"below minimum clamps", 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GenerateSphere(tt.radius, tt.sectors, tt.stacks)
			checkMeshTopology(t, m)
			checkUnitNormals(t, m, 1e-4)

			for i, v := range m.Vertices {
				if r := v.Position.Len(); math.Abs(r-tt.radius) > 1e-9 {
					t.Fatalf("vertex %d at radius %v, want %v", i, r, tt.radius)
				}
				// Sphere normals are radial.
				if v.Position.Normalize().Dot(v.Normal) < 1-1e-9 {
					t.Fatalf("vertex %d normal %v is not radial", i, v.Normal)
				}
			}
		})
	}
}

func TestGenerateCylinder(t *testing.T) {
	m := GenerateCylinder(0.5, 2, 16)
	checkMeshTopology(t, m)
	checkUnitNormals(t, m, 1e-9)

	if m.BoundsMin.Y != -1 || m.BoundsMax.Y != 1 {
		t.Errorf("cylinder spans y %v..%v, want -1..1", m.BoundsMin.Y, m.BoundsMax.Y)
	}
}

func TestGenerateCone(t *testing.T) {
	m := GenerateCone(0.5, 1, 16)
	checkMeshTopology(t, m)
	checkUnitNormals(t, m, 1e-9)

	if m.BoundsMax.Y != 0.5 || m.BoundsMin.Y != -0.5 {
		t.Errorf("cone spans y %v..%v, want -0.5..0.5", m.BoundsMin.Y, m.BoundsMax.Y)
	}
}

func TestGeneratePlane(t *testing.T) {
	m := GeneratePlane(10, 4)
	checkMeshTopology(t, m)

	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Errorf("plane has %d vertices, %d faces, want 4 and 2", m.VertexCount(), m.TriangleCount())
	}
	for _, v := range m.Vertices {
		if v.Normal != math3d.V3(0, 1, 0) {
			t.Errorf("plane normal = %v, want up", v.Normal)
		}
	}
	if m.Size() != math3d.V3(10, 0, 4) {
		t.Errorf("plane size = %v, want (10, 0, 4)", m.Size())
	}
}

func TestGeneratePyramid(t *testing.T) {
	m := GeneratePyramid(1, 1)
	checkMeshTopology(t, m)
	checkUnitNormals(t, m, 1e-9)

	if m.VertexCount() != 16 || m.TriangleCount() != 6 {
		t.Errorf("pyramid has %d vertices, %d faces, want 16 and 6", m.VertexCount(), m.TriangleCount())
	}
}

func TestGenerateTreeParts(t *testing.T) {
	trunk := GenerateTreeTrunk(2, 0.2, 12)
	checkMeshTopology(t, trunk)
	checkUnitNormals(t, trunk, 1e-9)
	if trunk.BoundsMin.Y != 0 || trunk.BoundsMax.Y != 2 {
		t.Errorf("trunk spans y %v..%v, want 0..2", trunk.BoundsMin.Y, trunk.BoundsMax.Y)
	}

	foliage := GenerateTreeFoliage(1, 16, 12)
	checkMeshTopology(t, foliage)
	checkUnitNormals(t, foliage, 1e-4)
	if math.Abs(foliage.BoundsMax.Y-0.8) > 1e-9 {
		t.Errorf("foliage top = %v, want squashed to 0.8", foliage.BoundsMax.Y)
	}

	blade := GenerateGrassBlade(0.4, 0.06)
	checkMeshTopology(t, blade)
	if blade.TriangleCount() != 4 {
		t.Errorf("grass blade has %d faces, want 4", blade.TriangleCount())
	}
}

func TestGenerateHouse(t *testing.T) {
	m := GenerateHouse(4, 3, 4, 2)
	checkMeshTopology(t, m)
	checkUnitNormals(t, m, 1e-9)

	if m.MaterialCount() != 5 {
		t.Fatalf("house has %d materials, want 5", m.MaterialCount())
	}
	seen := make(map[int]bool)
	for fi, f := range m.Faces {
		if f.Material < 0 || f.Material >= m.MaterialCount() {
			t.Errorf("face %d material index %d out of range", fi, f.Material)
		}
		seen[f.Material] = true
	}
	for mat := range m.MaterialCount() {
		if !seen[mat] {
			t.Errorf("material %d (%s) is never used", mat, m.Materials[mat].Name)
		}
	}

	// The roof apex is the highest point.
	if m.BoundsMax.Y != 5 {
		t.Errorf("house peak = %v, want 5", m.BoundsMax.Y)
	}
}

func TestGeneratorDeterminism(t *testing.T) {
	tests := []struct {
		name string
		gen  func() *Mesh
	}{
		{"cube", func() *Mesh { return GenerateCube(1) }},
		{"sphere", func() *Mesh { return GenerateSphere(0.5, 36, 18) }},
		{"cylinder", func() *Mesh { return GenerateCylinder(0.5, 1, 32) }},
		{"cone", func() *Mesh { return GenerateCone(0.5, 1, 32) }},
		{"house", func() *Mesh { return GenerateHouse(4, 3, 4, 2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.gen(), tt.gen()
			if !reflect.DeepEqual(a.Vertices, b.Vertices) {
				t.Error("vertex sequences differ between identical calls")
			}
			if !reflect.DeepEqual(a.Faces, b.Faces) {
				t.Error("face sequences differ between identical calls")
			}
		})
	}
}

func BenchmarkGenerateSphere(b *testing.B) {
	for b.Loop() {
		GenerateSphere(0.5, 36, 18)
	}
}

func BenchmarkGenerateHouse(b *testing.B) {
	for b.Loop() {
		GenerateHouse(4, 3, 4, 2)
	}
}
