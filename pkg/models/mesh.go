// Package models provides the mesh geometry for diorama scenes: OBJ and
// glTF loading, procedural primitives, and the buildings assembled from
// them.
package models

import (
	"image"
	"slices"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Mesh is indexed triangle geometry with optional materials. Faces wind
// clockwise when viewed from outside, matching the renderer's
// front-face convention.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Axis-aligned bounds, maintained by CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex carries the per-vertex attributes the rasterizer consumes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is one triangle. Material indexes Mesh.Materials, -1 when the
// face has none.
type Face struct {
	V        [3]int
	Material int
}

// Material is the subset of a glTF PBR material the renderer can use.
// Color components are linear values in [0, 1].
type Material struct {
	Name       string
	BaseColor  [4]float64
	Metallic   float64
	Roughness  float64
	BaseMap    image.Image
	HasTexture bool
}

// NewMesh returns an empty named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// GetVertex returns the attributes of vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices of face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetBounds returns the axis-aligned bounding box, which lets the
// renderer frustum cull the mesh.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// CalculateBounds recomputes the bounding box from the vertices. Call
// it after mutating positions directly.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	lo := m.Vertices[0].Position
	hi := lo
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	m.BoundsMin, m.BoundsMax = lo, hi
}

// Center returns the middle of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the bounding box extents.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// faceNormal returns the unnormalized outward normal of face f.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	e1 := m.Vertices[f.V[1]].Position.Sub(v0)
	e2 := m.Vertices[f.V[2]].Position.Sub(v0)
	// Clockwise winding puts the outward direction along e2 x e1.
	return e2.Cross(e1)
}

// CalculateNormals gives every face a flat normal, copied onto its
// three vertices. A vertex shared between faces keeps the normal of the
// last face visited; split the vertices first when hard edges matter.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals averages face normals onto shared vertices,
// weighted by face area so slivers barely pull the average.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f) // Length doubles as the area weight
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform bakes a matrix into the vertices and refreshes the bounds.
// Normals go through the direction transform, so a non-uniform scale
// will skew them.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone returns a copy with independent vertex, face, and material
// slices. Material textures still reference the same images.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:      m.Name,
		Vertices:  slices.Clone(m.Vertices),
		Faces:     slices.Clone(m.Faces),
		Materials: slices.Clone(m.Materials),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int { return len(m.Materials) }

// GetMaterial returns material i, or nil when i is -1 or out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// GetFaceMaterial returns the material index of face i, -1 for none.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// FaceBaseColor returns the base color of face i's material. ok is
// false for faces without one.
func (m *Mesh) FaceBaseColor(i int) (rgba [4]float64, ok bool) {
	mat := m.GetMaterial(m.Faces[i].Material)
	if mat == nil {
		return rgba, false
	}
	return mat.BaseColor, true
}
