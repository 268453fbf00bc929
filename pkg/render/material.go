package render

import (
	"github.com/taigrr/diorama/pkg/math3d"
)

// MaterialMeshRenderer extends MeshRenderer with per-face base colors,
// for meshes that carry material slots (terrain cells, house parts).
type MaterialMeshRenderer interface {
	MeshRenderer
	FaceBaseColor(i int) (rgba [4]float64, ok bool)
}

// FloatsToColor converts a normalized RGBA quad to a framebuffer color.
func FloatsToColor(rgba [4]float64) Color {
	conv := func(c float64) uint8 {
		return uint8(clamp01(c)*255 + 0.5)
	}
	return Color{R: conv(rgba[0]), G: conv(rgba[1]), B: conv(rgba[2]), A: conv(rgba[3])}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DrawMeshMaterialGouraud renders a mesh with Gouraud shading, coloring
// each triangle by its material's base color. Faces without a material
// (or meshes that don't expose materials at all) use fallback.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshMaterialGouraud(mesh MeshRenderer, transform math3d.Mat4, fallback Color, lightDir math3d.Vec3) {
	// Frustum culling check
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	mat, hasMaterials := mesh.(MaterialMeshRenderer)

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		color := fallback
		if hasMaterials {
			if rgba, ok := mat.FaceBaseColor(i); ok {
				color = FloatsToColor(rgba)
			}
		}

		p0, n0, _ := mesh.GetVertex(face[0])
		p1, n1, _ := mesh.GetVertex(face[1])
		p2, n2, _ := mesh.GetVertex(face[2])

		// Transform positions to world space
		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		// Transform normals
		wn0 := transform.MulVec3Dir(n0).Normalize()
		wn1 := transform.MulVec3Dir(n1).Normalize()
		wn2 := transform.MulVec3Dir(n2).Normalize()

		tri := Triangle{
			V: [3]Vertex{
				{Position: v0, Normal: wn0, Color: color},
				{Position: v1, Normal: wn1, Color: color},
				{Position: v2, Normal: wn2, Color: color},
			},
		}

		r.DrawTriangleGouraud(tri, lightDir)
	}
}

// DrawMeshMaterialGouraudCulled renders a material-colored mesh with
// frustum culling against localBounds.
// Returns true if the mesh was drawn, false if it was culled.
func (r *Rasterizer) DrawMeshMaterialGouraudCulled(mesh MeshRenderer, transform math3d.Mat4, localBounds AABB, fallback Color, lightDir math3d.Vec3) bool {
	r.CullingStats.MeshesTested++

	if !r.IsVisibleTransformed(localBounds, transform) {
		r.CullingStats.MeshesCulled++
		return false
	}

	r.CullingStats.MeshesDrawn++
	r.DrawMeshMaterialGouraud(mesh, transform, fallback, lightDir)
	return true
}
