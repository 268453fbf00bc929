package render

import (
	"github.com/taigrr/diorama/pkg/math3d"
)

// edgeEq is one screen-space edge function a*x + b*y + c. The
// incremental rasterizers step it across the bounding box instead of
// solving barycentrics per pixel.
type edgeEq struct {
	a, b, c float64
}

// edgeThrough builds the edge function for the directed edge
// (x0,y0) -> (x1,y1).
func edgeThrough(x0, y0, x1, y1 float64) edgeEq {
	return edgeEq{a: y0 - y1, b: x1 - x0, c: x0*y1 - x1*y0}
}

func (e edgeEq) at(x, y float64) float64 {
	return e.a*x + e.b*y + e.c
}

// triEdges prepares the three edge functions of a projected triangle,
// oriented so interior points evaluate positive on all three, opposite
// vertex order: edges[i] is the weight of vertex i. ok is false for
// degenerate triangles.
func triEdges(sv [3]screenVertex, area float64) (edges [3]edgeEq, invArea float64, ok bool) {
	if area == 0 {
		return edges, 0, false
	}
	edges[0] = edgeThrough(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	edges[1] = edgeThrough(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	edges[2] = edgeThrough(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	if area < 0 {
		// Back face kept by DisableBackfaceCulling: flip the
		// orientation so the inside test still passes.
		for i := range edges {
			edges[i] = edgeEq{a: -edges[i].a, b: -edges[i].b, c: -edges[i].c}
		}
		area = -area
	}
	return edges, 1 / area, true
}

// DrawTriangleGouraudOpt is DrawTriangleGouraud on an incremental edge
// walk. Large framebuffers fill noticeably faster; coverage matches the
// reference path except for stray pixels exactly on a shared edge.
func (r *Rasterizer) DrawTriangleGouraudOpt(tri Triangle, lightDir math3d.Vec3) {
	sv, area, ok := r.setupTriangle(litTriangle(tri, lightDir))
	if !ok {
		return
	}
	edges, invArea, ok := triEdges(sv, area)
	if !ok {
		return
	}
	minX, minY, maxX, maxY, ok := r.clampedBounds(sv)
	if !ok {
		return
	}

	z0, z1, z2 := sv[0].Z, sv[1].Z, sv[2].Z
	r0, g0, b0 := float64(sv[0].Color.R), float64(sv[0].Color.G), float64(sv[0].Color.B)
	r1, g1, b1 := float64(sv[1].Color.R), float64(sv[1].Color.G), float64(sv[1].Color.B)
	r2, g2, b2 := float64(sv[2].Color.R), float64(sv[2].Color.G), float64(sv[2].Color.B)

	px, py := float64(minX)+0.5, float64(minY)+0.5
	w0Row := edges[0].at(px, py)
	w1Row := edges[1].at(px, py)
	w2Row := edges[2].at(px, py)

	width := r.fb.Width
	depth := r.depth
	fb := r.fb

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
				z := bc0*z0 + bc1*z1 + bc2*z2
				idx := row + x
				if z < depth[idx] {
					depth[idx] = z
					fb.SetPixel(x, y, RGB(
						uint8(r0*bc0+r1*bc1+r2*bc2),
						uint8(g0*bc0+g1*bc1+g2*bc2),
						uint8(b0*bc0+b1*bc1+b2*bc2),
					))
				}
			}
			w0 += edges[0].a
			w1 += edges[1].a
			w2 += edges[2].a
		}

		w0Row += edges[0].b
		w1Row += edges[1].b
		w2Row += edges[2].b
	}
}

// DrawTriangleTexturedOpt is DrawTriangleTexturedGouraud on the
// incremental edge walk.
func (r *Rasterizer) DrawTriangleTexturedOpt(tri Triangle, tex *Texture, lightDir math3d.Vec3) {
	sv, area, ok := r.setupTriangle(tri)
	if !ok {
		return
	}
	edges, invArea, ok := triEdges(sv, area)
	if !ok {
		return
	}
	minX, minY, maxX, maxY, ok := r.clampedBounds(sv)
	if !ok {
		return
	}

	l := lightDir.Normalize()
	var vertexIntensity [3]float64
	for i, v := range tri.V {
		vertexIntensity[i] = shadeIntensity(v.Normal, l)
	}
	invW := invWeights(sv)

	px, py := float64(minX)+0.5, float64(minY)+0.5
	w0Row := edges[0].at(px, py)
	w1Row := edges[1].at(px, py)
	w2Row := edges[2].at(px, py)

	width := r.fb.Width
	depth := r.depth
	fb := r.fb

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z
				idx := row + x
				if z < depth[idx] {
					pw0, pw1, pw2 := bc0*invW[0], bc1*invW[1], bc2*invW[2]
					oneOverW := pw0 + pw1 + pw2
					if oneOverW != 0 {
						invOneOverW := 1 / oneOverW
						u := (pw0*sv[0].UV.X + pw1*sv[1].UV.X + pw2*sv[2].UV.X) * invOneOverW
						v := (pw0*sv[0].UV.Y + pw1*sv[1].UV.Y + pw2*sv[2].UV.Y) * invOneOverW
						intensity := (pw0*vertexIntensity[0] + pw1*vertexIntensity[1] + pw2*vertexIntensity[2]) * invOneOverW

						depth[idx] = z
						fb.SetPixel(x, y, MultiplyColor(tex.Sample(u, v), intensity))
					}
				}
			}
			w0 += edges[0].a
			w1 += edges[1].a
			w2 += edges[2].a
		}

		w0Row += edges[0].b
		w1Row += edges[1].b
		w2Row += edges[2].b
	}
}

// DrawMeshGouraudOpt is DrawMeshGouraud on the incremental rasterizer.
func (r *Rasterizer) DrawMeshGouraudOpt(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleGouraudOpt(faceTriangle(mesh, i, transform, color), lightDir)
	}
}

// DrawMeshTexturedOpt is DrawMeshTexturedGouraud on the incremental
// rasterizer.
func (r *Rasterizer) DrawMeshTexturedOpt(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleTexturedOpt(faceTriangle(mesh, i, transform, ColorWhite), tex, lightDir)
	}
}
