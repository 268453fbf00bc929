package render

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Vertex is one corner of a renderable triangle, in world space.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    Color
}

// Triangle groups three vertices. Front faces wind clockwise on screen.
type Triangle struct {
	V [3]Vertex
}

// CullingStats counts frustum culling outcomes. The counters accumulate
// until ResetCullingStats.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// Rasterizer draws triangles into a framebuffer with depth testing.
// It is not safe for concurrent use; give each goroutine its own
// rasterizer and framebuffer pair.
type Rasterizer struct {
	camera *Camera
	fb     *Framebuffer
	depth  []float64

	frustum      Frustum
	frustumStale bool

	// DisableBackfaceCulling renders both sides of every triangle.
	DisableBackfaceCulling bool

	CullingStats CullingStats
}

// NewRasterizer creates a rasterizer drawing through camera into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		depth:        make([]float64, fb.Width*fb.Height),
		frustumStale: true,
	}
	r.ClearDepth()
	return r
}

// Resize swaps in a new framebuffer, usually after a terminal resize.
func (r *Rasterizer) Resize(fb *Framebuffer) {
	r.fb = fb
	r.depth = make([]float64, fb.Width*fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width in pixels.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height in pixels.
func (r *Rasterizer) Height() int { return r.fb.Height }

// ClearDepth resets the depth buffer to the far plane. Call it once per
// frame alongside Framebuffer.Clear.
func (r *Rasterizer) ClearDepth() {
	if len(r.depth) == 0 {
		return
	}
	r.depth[0] = math.MaxFloat64
	for filled := 1; filled < len(r.depth); filled *= 2 {
		copy(r.depth[filled:], r.depth[:filled])
	}
}

// InvalidateFrustum marks the cached frustum stale. Call it after moving
// the camera, before the frame's first draw.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumStale = true
}

func (r *Rasterizer) updateFrustum() {
	if !r.frustumStale {
		return
	}
	r.frustum = ExtractFrustum(r.camera.ViewProjectionMatrix())
	r.frustumStale = false
}

// ResetCullingStats zeroes the culling counters.
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible reports whether a world-space box intersects the view
// frustum.
func (r *Rasterizer) IsVisible(bounds AABB) bool {
	r.updateFrustum()
	return r.frustum.IntersectAABB(bounds)
}

// IsVisibleTransformed tests a local-space box under a model transform.
func (r *Rasterizer) IsVisibleTransformed(localBounds AABB, transform math3d.Mat4) bool {
	return r.IsVisible(localBounds.Transform(transform))
}

// cullBounds runs the frustum test for one mesh and keeps the stats.
// True means the mesh is offscreen and its draw can be skipped.
func (r *Rasterizer) cullBounds(localBounds AABB, transform math3d.Mat4) bool {
	r.CullingStats.MeshesTested++
	if !r.IsVisibleTransformed(localBounds, transform) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// tryFrustumCull culls a mesh by its own bounds when it has any. Meshes
// that don't expose bounds are never culled.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}
	lo, hi := bounded.GetBounds()
	return r.cullBounds(AABB{Min: lo, Max: hi}, transform)
}

// screenVertex is a triangle corner after projection. X and Y are pixel
// coordinates, Z the normalized depth, W the clip-space w kept for
// perspective-correct interpolation.
type screenVertex struct {
	X, Y, Z, W float64
	Color      Color
	UV         math3d.Vec2
}

// setupTriangle projects tri's corners to the screen. ok is false when
// no fragment can result: every corner behind the eye, or a back face
// while culling is enabled. area is twice the signed screen area,
// positive for front faces.
func (r *Rasterizer) setupTriangle(tri Triangle) (sv [3]screenVertex, area float64, ok bool) {
	viewProj := r.camera.ViewProjectionMatrix()

	anyFront := false
	for i, v := range tri.V {
		clip := viewProj.MulVec4(math3d.V4FromV3(v.Position, 1))
		if clip.W > 0 {
			anyFront = true
		}

		// A w of zero projects to the screen center rather than to
		// infinity.
		var ndc math3d.Vec3
		if clip.W != 0 {
			ndc = math3d.V3(clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W)
		}

		sv[i] = screenVertex{
			X:     (ndc.X + 1) * 0.5 * float64(r.fb.Width),
			Y:     (1 - ndc.Y) * 0.5 * float64(r.fb.Height),
			Z:     ndc.Z,
			W:     clip.W,
			Color: v.Color,
			UV:    v.UV,
		}
	}
	if !anyFront {
		return sv, 0, false
	}

	area = (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area < 0 && !r.DisableBackfaceCulling {
		return sv, area, false
	}
	return sv, area, true
}

// clampedBounds returns the integer pixel box covering the projected
// triangle, clipped to the framebuffer. ok is false when the box is
// empty.
func (r *Rasterizer) clampedBounds(sv [3]screenVertex) (minX, minY, maxX, maxY int, ok bool) {
	minX = int(max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX = int(min(float64(r.fb.Width-1), math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY = int(max(0, math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY = int(min(float64(r.fb.Height-1), math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

// scanTriangle walks the pixels covered by a projected triangle and
// calls shade with each pixel's barycentric weights. Fragments behind
// the depth buffer are skipped; shade returning false drops the
// fragment without touching depth.
func (r *Rasterizer) scanTriangle(sv [3]screenVertex, shade func(bc math3d.Vec3) (Color, bool)) {
	minX, minY, maxX, maxY, ok := r.clampedBounds(sv)
	if !ok {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			bc := barycentric(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, px, py)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			idx := y*r.fb.Width + x
			if z >= r.depth[idx] {
				continue
			}

			color, ok := shade(bc)
			if !ok {
				continue
			}
			r.depth[idx] = z
			r.fb.SetPixel(x, y, color)
		}
	}
}

// barycentric returns the weights of point (px, py) relative to the
// screen triangle, in vertex order. Any negative component means the
// point lies outside.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 blends three colors by barycentric weight. Alpha is
// always opaque.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

// shadeIntensity is the fixed lighting model: 0.3 ambient plus 0.7
// diffuse. lightDir must be normalized.
func shadeIntensity(normal, lightDir math3d.Vec3) float64 {
	return 0.3 + 0.7*max(0, normal.Dot(lightDir))
}

// litTriangle bakes per-vertex diffuse lighting into the vertex colors.
func litTriangle(tri Triangle, lightDir math3d.Vec3) Triangle {
	l := lightDir.Normalize()
	for i, v := range tri.V {
		tri.V[i].Color = MultiplyColor(v.Color, shadeIntensity(v.Normal, l))
	}
	return tri
}

// DrawTriangle fills tri with its vertex colors interpolated across the
// face, no lighting applied.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	sv, _, ok := r.setupTriangle(tri)
	if !ok {
		return
	}
	r.scanTriangle(sv, func(bc math3d.Vec3) (Color, bool) {
		return interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc), true
	})
}

// DrawTriangleGouraud lights each vertex from its normal and fills the
// face with the lit colors interpolated between them.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3) {
	r.DrawTriangle(litTriangle(tri, lightDir))
}

// invWeights prepares the perspective-correction factors for one
// projected triangle. Vertices at w=0 contribute nothing.
func invWeights(sv [3]screenVertex) [3]float64 {
	var invW [3]float64
	for i := range sv {
		if sv[i].W != 0 {
			invW[i] = 1 / sv[i].W
		}
	}
	return invW
}

// DrawTriangleTextured fills tri with perspective-correct texture
// sampling and a single flat lighting term from the face normal.
func (r *Rasterizer) DrawTriangleTextured(tri Triangle, tex *Texture, lightDir math3d.Vec3) {
	sv, _, ok := r.setupTriangle(tri)
	if !ok {
		return
	}

	// Outward normal for clockwise faces, same convention the mesh
	// generators use.
	e1 := tri.V[1].Position.Sub(tri.V[0].Position)
	e2 := tri.V[2].Position.Sub(tri.V[0].Position)
	faceNormal := e2.Cross(e1).Normalize()
	// Textured faces keep a minimum diffuse term so detail stays
	// readable on surfaces pointing away from the light.
	intensity := 0.3 + 0.7*max(0.2, faceNormal.Dot(lightDir.Normalize()))

	invW := invWeights(sv)
	r.scanTriangle(sv, func(bc math3d.Vec3) (Color, bool) {
		w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
		oneOverW := w0 + w1 + w2
		if oneOverW == 0 {
			return Color{}, false
		}
		u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
		v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
		return MultiplyColor(tex.Sample(u, v), intensity), true
	})
}

// DrawTriangleTexturedGouraud fills tri with perspective-correct texture
// sampling modulated by per-vertex lighting.
func (r *Rasterizer) DrawTriangleTexturedGouraud(tri Triangle, tex *Texture, lightDir math3d.Vec3) {
	sv, _, ok := r.setupTriangle(tri)
	if !ok {
		return
	}

	l := lightDir.Normalize()
	var vertexIntensity [3]float64
	for i, v := range tri.V {
		vertexIntensity[i] = shadeIntensity(v.Normal, l)
	}

	invW := invWeights(sv)
	r.scanTriangle(sv, func(bc math3d.Vec3) (Color, bool) {
		w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
		oneOverW := w0 + w1 + w2
		if oneOverW == 0 {
			return Color{}, false
		}
		u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
		v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
		intensity := (w0*vertexIntensity[0] + w1*vertexIntensity[1] + w2*vertexIntensity[2]) / oneOverW
		return MultiplyColor(tex.Sample(u, v), intensity), true
	})
}

// DrawTriangleFlat fills a triangle with one solid color.
func (r *Rasterizer) DrawTriangleFlat(v0, v1, v2 math3d.Vec3, color Color) {
	r.DrawTriangle(Triangle{V: [3]Vertex{
		{Position: v0, Color: color},
		{Position: v1, Color: color},
		{Position: v2, Color: color},
	}})
}

// DrawTriangleLit fills a triangle with one color lit by the outward
// face normal.
func (r *Rasterizer) DrawTriangleLit(v0, v1, v2 math3d.Vec3, color Color, lightDir math3d.Vec3) {
	normal := v2.Sub(v0).Cross(v1.Sub(v0)).Normalize()
	intensity := shadeIntensity(normal, lightDir.Normalize())
	r.DrawTriangleFlat(v0, v1, v2, MultiplyColor(color, intensity))
}

// MeshRenderer is the geometry surface the mesh draw calls consume. The
// models package implements it; declaring it here keeps render free of
// a models import.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer adds a local-space bounding box, enabling
// automatic frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// faceTriangle assembles face fi of mesh in world space. Normals ride
// along for the lit paths, UVs for the textured ones.
func faceTriangle(mesh MeshRenderer, fi int, transform math3d.Mat4, color Color) Triangle {
	face := mesh.GetFace(fi)
	var tri Triangle
	for i, vi := range face {
		p, n, uv := mesh.GetVertex(vi)
		tri.V[i] = Vertex{
			Position: transform.MulVec3(p),
			Normal:   transform.MulVec3Dir(n).Normalize(),
			UV:       uv,
			Color:    color,
		}
	}
	return tri
}

// DrawMesh renders a mesh with flat per-face lighting. Meshes that
// expose bounds are frustum culled first.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		tri := faceTriangle(mesh, i, transform, color)
		r.DrawTriangleLit(tri.V[0].Position, tri.V[1].Position, tri.V[2].Position, color, lightDir)
	}
}

// DrawMeshGouraud renders a mesh with smooth per-vertex lighting.
// Meshes that expose bounds are frustum culled first.
func (r *Rasterizer) DrawMeshGouraud(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleGouraud(faceTriangle(mesh, i, transform, color), lightDir)
	}
}

// DrawMeshTextured renders a mesh with texture mapping and flat
// lighting. Meshes that expose bounds are frustum culled first.
func (r *Rasterizer) DrawMeshTextured(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleTextured(faceTriangle(mesh, i, transform, ColorWhite), tex, lightDir)
	}
}

// DrawMeshTexturedGouraud renders a mesh with texture mapping and
// smooth per-vertex lighting. Meshes that expose bounds are frustum
// culled first.
func (r *Rasterizer) DrawMeshTexturedGouraud(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleTexturedGouraud(faceTriangle(mesh, i, transform, ColorWhite), tex, lightDir)
	}
}

// DrawMeshCulled renders a flat-lit mesh after testing localBounds
// against the frustum. It reports whether the mesh was drawn.
func (r *Rasterizer) DrawMeshCulled(mesh MeshRenderer, transform math3d.Mat4, localBounds AABB, color Color, lightDir math3d.Vec3) bool {
	if r.cullBounds(localBounds, transform) {
		return false
	}
	r.DrawMesh(mesh, transform, color, lightDir)
	return true
}

// DrawMeshGouraudCulled renders a Gouraud-shaded mesh after testing
// localBounds against the frustum. It reports whether the mesh was
// drawn.
func (r *Rasterizer) DrawMeshGouraudCulled(mesh MeshRenderer, transform math3d.Mat4, localBounds AABB, color Color, lightDir math3d.Vec3) bool {
	if r.cullBounds(localBounds, transform) {
		return false
	}
	r.DrawMeshGouraud(mesh, transform, color, lightDir)
	return true
}

// DrawMeshTexturedCulled renders a textured mesh after testing
// localBounds against the frustum. It reports whether the mesh was
// drawn.
func (r *Rasterizer) DrawMeshTexturedCulled(mesh MeshRenderer, transform math3d.Mat4, localBounds AABB, tex *Texture, lightDir math3d.Vec3) bool {
	if r.cullBounds(localBounds, transform) {
		return false
	}
	r.DrawMeshTextured(mesh, transform, tex, lightDir)
	return true
}

// DrawMeshTexturedGouraudCulled renders a textured Gouraud-shaded mesh
// after testing localBounds against the frustum. It reports whether the
// mesh was drawn.
func (r *Rasterizer) DrawMeshTexturedGouraudCulled(mesh MeshRenderer, transform math3d.Mat4, localBounds AABB, tex *Texture, lightDir math3d.Vec3) bool {
	if r.cullBounds(localBounds, transform) {
		return false
	}
	r.DrawMeshTexturedGouraud(mesh, transform, tex, lightDir)
	return true
}

// DrawMeshWireframe renders a mesh's triangle edges without depth
// testing. Meshes that expose bounds are frustum culled first.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.drawLine3D(v0, v1, color)
		r.drawLine3D(v1, v2, color)
		r.drawLine3D(v2, v0, color)
	}
}

// drawLine3D projects a world-space segment and draws it with the
// framebuffer line rasterizer. Only segments entirely behind the eye
// are dropped; partially visible ones draw unclipped and rely on the
// framebuffer's bounds checks.
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W <= 0 && clipB.W <= 0 {
		return
	}

	if clipA.W > 0 {
		clipA.X /= clipA.W
		clipA.Y /= clipA.W
	}
	if clipB.W > 0 {
		clipB.X /= clipB.W
		clipB.Y /= clipB.W
	}

	x0 := int((clipA.X + 1) * 0.5 * float64(r.fb.Width))
	y0 := int((1 - clipA.Y) * 0.5 * float64(r.fb.Height))
	x1 := int((clipB.X + 1) * 0.5 * float64(r.fb.Width))
	y1 := int((1 - clipB.Y) * 0.5 * float64(r.fb.Height))

	r.fb.DrawLine(x0, y0, x1, y1, color)
}
