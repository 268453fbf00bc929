package render

import (
	"math"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
)

// testVertex mirrors the MeshRenderer vertex tuple.
type testVertex struct {
	pos    math3d.Vec3
	normal math3d.Vec3
	uv     math3d.Vec2
}

// mockMesh is a hand-built MeshRenderer for pixel-level assertions. It
// deliberately omits GetBounds so draws are never auto-culled.
type mockMesh struct {
	vertices []testVertex
	faces    [][3]int
}

func (m *mockMesh) VertexCount() int   { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int {
	return m.faces[i]
}

func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.vertices[i]
	return v.pos, v.normal, v.uv
}

// boundedMockMesh adds bounds so the automatic frustum cull engages.
type boundedMockMesh struct {
	mockMesh
	lo, hi math3d.Vec3
}

func (m *boundedMockMesh) GetBounds() (min, max math3d.Vec3) {
	return m.lo, m.hi
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// createTestRasterizer builds a rasterizer looking straight down -Z
// from (0, 0, 10), so geometry on the z=0 plane lands at predictable
// pixels: world (0,0,0) is the screen center and ±5 in x or y stays
// within a 100x100 view.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	camera := NewCamera()
	camera.SetPosition(math3d.V3(0, 0, 10))
	camera.LookAt(math3d.Zero3())
	camera.SetAspectRatio(float64(width) / float64(height))
	camera.SetFOV(math.Pi / 3)
	r := NewRasterizer(camera, fb)
	fb.Clear(ColorBlack)
	return r, fb
}

// quadMesh builds a screen-facing quad on z=0, clockwise faces, UVs
// covering the full texture.
func quadMesh(half float64) *mockMesh {
	return &mockMesh{
		vertices: []testVertex{
			{math3d.V3(-half, -half, 0), math3d.V3(0, 0, 1), math3d.V2(0, 0)},
			{math3d.V3(half, -half, 0), math3d.V3(0, 0, 1), math3d.V2(1, 0)},
			{math3d.V3(half, half, 0), math3d.V3(0, 0, 1), math3d.V2(1, 1)},
			{math3d.V3(-half, half, 0), math3d.V3(0, 0, 1), math3d.V2(0, 1)},
		},
		faces: [][3]int{{0, 3, 2}, {0, 2, 1}},
	}
}

func colorNear(a, b Color) bool {
	return absInt(int(a.R)-int(b.R)) <= 1 &&
		absInt(int(a.G)-int(b.G)) <= 1 &&
		absInt(int(a.B)-int(b.B)) <= 1
}

func TestDrawTriangleFlatCoverage(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)

	color := RGB(200, 120, 40)
	r.DrawTriangleFlat(math3d.V3(-5, -5, 0), math3d.V3(0, 5, 0), math3d.V3(5, -5, 0), color)

	if got := fb.GetPixel(50, 50); !colorNear(got, color) {
		t.Errorf("interior pixel = %v, want %v", got, color)
	}
	if got := fb.GetPixel(2, 2); got != ColorBlack {
		t.Errorf("pixel outside the triangle = %v, want background", got)
	}
}

func TestDrawTriangleDepthOrder(t *testing.T) {
	near := RGB(200, 30, 30)
	far := RGB(30, 30, 200)

	// The z=2 triangle sits closer to the camera at z=10 and must win
	// the center pixel in either draw order.
	draw := func(r *Rasterizer, first, second bool) {
		if first {
			r.DrawTriangleFlat(math3d.V3(-5, -5, 0), math3d.V3(0, 5, 0), math3d.V3(5, -5, 0), far)
		}
		r.DrawTriangleFlat(math3d.V3(-4, -4, 2), math3d.V3(0, 4, 2), math3d.V3(4, -4, 2), near)
		if second {
			r.DrawTriangleFlat(math3d.V3(-5, -5, 0), math3d.V3(0, 5, 0), math3d.V3(5, -5, 0), far)
		}
	}

	t.Run("near drawn last", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		draw(r, true, false)
		if got := fb.GetPixel(50, 50); got.R < 150 || got.B > 80 {
			t.Errorf("center pixel = %v, want the near triangle's red", got)
		}
	})

	t.Run("near drawn first", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		draw(r, false, true)
		if got := fb.GetPixel(50, 50); got.R < 150 || got.B > 80 {
			t.Errorf("center pixel = %v, want the near triangle's red", got)
		}
	})
}

func TestBackfaceCulling(t *testing.T) {
	color := RGB(255, 255, 255)
	// Reversed winding: counter-clockwise, so a back face.
	back := func(r *Rasterizer) {
		r.DrawTriangleFlat(math3d.V3(-5, -5, 0), math3d.V3(5, -5, 0), math3d.V3(0, 5, 0), color)
	}

	t.Run("culled by default", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		back(r)
		if got := fb.GetPixel(50, 50); got != ColorBlack {
			t.Errorf("back face drew pixel %v", got)
		}
	})

	t.Run("kept when disabled", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DisableBackfaceCulling = true
		back(r)
		if got := fb.GetPixel(50, 50); !colorNear(got, color) {
			t.Errorf("center pixel = %v, want %v", got, color)
		}
	})

	t.Run("kept when disabled, incremental path", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DisableBackfaceCulling = true
		tri := Triangle{V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: color},
			{Position: math3d.V3(5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: color},
			{Position: math3d.V3(0, 5, 0), Normal: math3d.V3(0, 0, 1), Color: color},
		}}
		r.DrawTriangleGouraudOpt(tri, math3d.V3(0, 0, 1))
		if got := fb.GetPixel(50, 50); !colorNear(got, color) {
			t.Errorf("center pixel = %v, want %v", got, color)
		}
	})
}

func TestGouraudLightingIntensity(t *testing.T) {
	base := RGB(200, 100, 50)
	tri := func(normal math3d.Vec3) Triangle {
		return Triangle{V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Normal: normal, Color: base},
			{Position: math3d.V3(0, 5, 0), Normal: normal, Color: base},
			{Position: math3d.V3(5, -5, 0), Normal: normal, Color: base},
		}}
	}

	t.Run("facing the light", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawTriangleGouraud(tri(math3d.V3(0, 0, 1)), math3d.V3(0, 0, 1))
		if got := fb.GetPixel(50, 50); !colorNear(got, base) {
			t.Errorf("lit pixel = %v, want full %v", got, base)
		}
	})

	t.Run("facing away falls to ambient", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawTriangleGouraud(tri(math3d.V3(0, 0, 1)), math3d.V3(0, 0, -1))
		want := RGB(60, 30, 15) // 0.3 ambient of the base color
		if got := fb.GetPixel(50, 50); !colorNear(got, want) {
			t.Errorf("ambient pixel = %v, want %v", got, want)
		}
	})
}

func TestGouraudVertexBlend(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)

	n := math3d.V3(0, 0, 1)
	tri := Triangle{V: [3]Vertex{
		{Position: math3d.V3(-5, -5, 0), Normal: n, Color: ColorRed},
		{Position: math3d.V3(0, 5, 0), Normal: n, Color: ColorGreen},
		{Position: math3d.V3(5, -5, 0), Normal: n, Color: ColorBlue},
	}}
	r.DrawTriangleGouraud(tri, math3d.V3(0, 0, 1))

	// Near the centroid every vertex contributes, so no channel should
	// be saturated or empty.
	got := fb.GetPixel(50, 55)
	if got.R < 20 || got.R > 200 || got.G < 20 || got.G > 200 || got.B < 20 || got.B > 200 {
		t.Errorf("centroid pixel = %v, want a blend of all three corners", got)
	}
}

func TestDrawMeshFlatLighting(t *testing.T) {
	color := RGB(200, 100, 50)
	mesh := quadMesh(5)

	t.Run("face toward light", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawMesh(mesh, math3d.Identity(), color, math3d.V3(0, 0, 1))
		if got := fb.GetPixel(50, 50); !colorNear(got, color) {
			t.Errorf("lit pixel = %v, want %v", got, color)
		}
	})

	t.Run("face away from light", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawMesh(mesh, math3d.Identity(), color, math3d.V3(0, 0, -1))
		want := RGB(60, 30, 15)
		if got := fb.GetPixel(50, 50); !colorNear(got, want) {
			t.Errorf("ambient pixel = %v, want %v", got, want)
		}
	})
}

func TestDrawMeshTexturedChecker(t *testing.T) {
	c1 := RGB(220, 40, 40)
	c2 := RGB(40, 40, 220)
	tex := NewCheckerTexture(2, 2, 1, c1, c2)
	mesh := quadMesh(5)

	// Quadrant sample points on screen and the UV each maps to.
	quadrants := []struct {
		x, y int
		u, v float64
	}{
		{30, 30, 0.25, 0.75},
		{70, 30, 0.75, 0.75},
		{30, 70, 0.25, 0.25},
		{70, 70, 0.75, 0.25},
	}

	t.Run("flat", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawMeshTextured(mesh, math3d.Identity(), tex, math3d.V3(0, 0, 1))
		for _, q := range quadrants {
			want := tex.Sample(q.u, q.v)
			if got := fb.GetPixel(q.x, q.y); !colorNear(got, want) {
				t.Errorf("pixel (%d,%d) = %v, want texel %v", q.x, q.y, got, want)
			}
		}
	})

	t.Run("gouraud", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawMeshTexturedGouraud(mesh, math3d.Identity(), tex, math3d.V3(0, 0, 1))
		for _, q := range quadrants {
			want := tex.Sample(q.u, q.v)
			if got := fb.GetPixel(q.x, q.y); !colorNear(got, want) {
				t.Errorf("pixel (%d,%d) = %v, want texel %v", q.x, q.y, got, want)
			}
		}
	})

	t.Run("incremental", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		r.DrawMeshTexturedOpt(mesh, math3d.Identity(), tex, math3d.V3(0, 0, 1))
		for _, q := range quadrants {
			want := tex.Sample(q.u, q.v)
			if got := fb.GetPixel(q.x, q.y); !colorNear(got, want) {
				t.Errorf("pixel (%d,%d) = %v, want texel %v", q.x, q.y, got, want)
			}
		}
	})
}

// diffPixels counts pixels whose colors differ by more than one step in
// any channel.
func diffPixels(a, b *Framebuffer) int {
	n := 0
	for i := range a.Pixels {
		pa, pb := a.Pixels[i], b.Pixels[i]
		if absInt(int(pa.R)-int(pb.R)) > 1 ||
			absInt(int(pa.G)-int(pb.G)) > 1 ||
			absInt(int(pa.B)-int(pb.B)) > 1 {
			n++
		}
	}
	return n
}

func TestIncrementalMatchesReference(t *testing.T) {
	mesh := quadMesh(4)
	tilted := &mockMesh{
		vertices: []testVertex{
			{math3d.V3(-3, -5, -2), math3d.V3(0, 0.3, 1), math3d.V2(0, 0)},
			{math3d.V3(0, 5, 2), math3d.V3(0.3, 0, 1), math3d.V2(0.5, 1)},
			{math3d.V3(4, -4, 1), math3d.V3(0, -0.3, 1), math3d.V2(1, 0)},
		},
		faces: [][3]int{{0, 1, 2}},
	}
	light := math3d.V3(1, 2, 3).Normalize()
	color := RGB(180, 140, 90)

	// The two rasterizers agree except for stray pixels exactly on a
	// triangle edge; cap those instead of demanding identity.
	const maxStray = 200

	t.Run("gouraud", func(t *testing.T) {
		ref, refFB := createTestRasterizer(100, 100)
		ref.DrawMeshGouraud(mesh, math3d.Identity(), color, light)
		ref.DrawMeshGouraud(tilted, math3d.Identity(), color, light)

		opt, optFB := createTestRasterizer(100, 100)
		opt.DrawMeshGouraudOpt(mesh, math3d.Identity(), color, light)
		opt.DrawMeshGouraudOpt(tilted, math3d.Identity(), color, light)

		if n := diffPixels(refFB, optFB); n > maxStray {
			t.Errorf("%d pixels differ between reference and incremental Gouraud", n)
		}
	})

	t.Run("textured", func(t *testing.T) {
		tex := NewCheckerTexture(16, 16, 4, RGB(250, 250, 250), RGB(60, 60, 60))

		ref, refFB := createTestRasterizer(100, 100)
		ref.DrawMeshTexturedGouraud(mesh, math3d.Identity(), tex, light)

		opt, optFB := createTestRasterizer(100, 100)
		opt.DrawMeshTexturedOpt(mesh, math3d.Identity(), tex, light)

		if n := diffPixels(refFB, optFB); n > maxStray {
			t.Errorf("%d pixels differ between reference and incremental textured", n)
		}
	})
}

func TestCulledDrawVariants(t *testing.T) {
	mesh := quadMesh(2)
	bounds := AABB{Min: math3d.V3(-2, -2, 0), Max: math3d.V3(2, 2, 0)}
	tex := NewCheckerTexture(4, 4, 2, RGB(255, 0, 0), RGB(0, 255, 0))
	light := math3d.V3(0, 0, 1)
	white := ColorWhite

	variants := []struct {
		name string
		draw func(r *Rasterizer, transform math3d.Mat4) bool
	}{
		{"flat", func(r *Rasterizer, m math3d.Mat4) bool {
			return r.DrawMeshCulled(mesh, m, bounds, white, light)
		}},
		{"gouraud", func(r *Rasterizer, m math3d.Mat4) bool {
			return r.DrawMeshGouraudCulled(mesh, m, bounds, white, light)
		}},
		{"textured", func(r *Rasterizer, m math3d.Mat4) bool {
			return r.DrawMeshTexturedCulled(mesh, m, bounds, tex, light)
		}},
		{"textured gouraud", func(r *Rasterizer, m math3d.Mat4) bool {
			return r.DrawMeshTexturedGouraudCulled(mesh, m, bounds, tex, light)
		}},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.ResetCullingStats()

			if !v.draw(r, math3d.Identity()) {
				t.Fatal("mesh in view reported culled")
			}
			if got := fb.GetPixel(50, 50); got == ColorBlack {
				t.Error("visible mesh drew nothing at the center")
			}
			if r.CullingStats.MeshesCulled != 0 {
				t.Errorf("culling stats = %+v after a visible draw", r.CullingStats)
			}

			r.ResetCullingStats()
			if v.draw(r, math3d.Translate(math3d.V3(500, 0, 0))) {
				t.Error("mesh far off to the side reported drawn")
			}
			if r.CullingStats.MeshesCulled != 1 {
				t.Errorf("culling stats = %+v, want one culled", r.CullingStats)
			}
		})
	}
}

func TestBoundedMeshAutoCull(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)

	quad := quadMesh(2)
	mesh := &boundedMockMesh{
		mockMesh: *quad,
		lo:       math3d.V3(-2, -2, 0),
		hi:       math3d.V3(2, 2, 0),
	}

	r.ResetCullingStats()
	r.DrawMeshGouraud(mesh, math3d.Translate(math3d.V3(500, 0, 0)), ColorWhite, math3d.V3(0, 0, 1))

	if r.CullingStats.MeshesCulled != 1 {
		t.Errorf("culling stats = %+v, want the offscreen mesh culled", r.CullingStats)
	}
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.GetPixel(x, y) != ColorBlack {
				t.Fatalf("culled mesh drew pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestDrawMeshWireframe(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)

	mesh := quadMesh(5)
	color := RGB(0, 255, 128)
	r.DrawMeshWireframe(mesh, math3d.Identity(), color)

	// The quad's left edge runs down screen column 6.
	if got := fb.GetPixel(6, 50); got != color {
		t.Errorf("edge pixel = %v, want %v", got, color)
	}
	// Wireframe leaves interiors unfilled. (25, 50) is inside the first
	// triangle, away from its diagonal.
	if got := fb.GetPixel(25, 50); got != ColorBlack {
		t.Errorf("interior pixel = %v, want background", got)
	}
}

func TestDrawLine3DBehindCamera(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)

	// Entirely behind the camera at z=10: nothing.
	r.DrawLine3D(math3d.V3(-2, 0, 20), math3d.V3(2, 0, 20), ColorWhite)
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.GetPixel(x, y) != ColorBlack {
				t.Fatalf("behind-camera line drew pixel at (%d,%d)", x, y)
			}
		}
	}

	// In front: the segment shows up.
	r.DrawLine3D(math3d.V3(-2, 0, 0), math3d.V3(2, 0, 0), ColorWhite)
	if got := fb.GetPixel(50, 50); got != ColorWhite {
		t.Errorf("center pixel = %v, want the line color", got)
	}
}

func TestResizeClearsDepth(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.DrawTriangleFlat(math3d.V3(-5, -5, 0), math3d.V3(0, 5, 0), math3d.V3(5, -5, 0), ColorWhite)
	if !colorNear(fb.GetPixel(50, 50), ColorWhite) {
		t.Fatal("setup draw missing")
	}

	small := NewFramebuffer(40, 40)
	small.Clear(ColorBlack)
	r.Resize(small)

	if r.Width() != 40 || r.Height() != 40 {
		t.Fatalf("rasterizer size = %dx%d after resize, want 40x40", r.Width(), r.Height())
	}

	// Depth starts fresh, so a triangle farther than the old one still
	// renders.
	r.DrawTriangleFlat(math3d.V3(-5, -5, -3), math3d.V3(0, 5, -3), math3d.V3(5, -5, -3), ColorGreen)
	if got := small.GetPixel(20, 20); !colorNear(got, ColorGreen) {
		t.Errorf("post-resize pixel = %v, want %v", got, ColorGreen)
	}
}

// benchSphere builds a lat/long sphere without importing the models
// package.
func benchSphere(rings, sectors int) *mockMesh {
	m := &mockMesh{}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			n := math3d.V3(math.Sin(phi)*math.Cos(theta), math.Cos(phi), math.Sin(phi)*math.Sin(theta))
			m.vertices = append(m.vertices, testVertex{
				pos:    n.Scale(2),
				normal: n,
				uv:     math3d.V2(float64(s)/float64(sectors), float64(r)/float64(rings)),
			})
		}
	}
	stride := sectors + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			a := r*stride + s
			b := a + stride
			m.faces = append(m.faces, [3]int{a, b, a + 1}, [3]int{a + 1, b, b + 1})
		}
	}
	return m
}

func BenchmarkDrawMeshGouraud(b *testing.B) {
	r, fb := createTestRasterizer(320, 240)
	mesh := benchSphere(24, 32)
	light := math3d.V3(1, 2, 3).Normalize()

	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.DrawMeshGouraud(mesh, math3d.Identity(), RGB(77, 153, 230), light)
	}
}

func BenchmarkDrawMeshGouraudOpt(b *testing.B) {
	r, fb := createTestRasterizer(320, 240)
	mesh := benchSphere(24, 32)
	light := math3d.V3(1, 2, 3).Normalize()

	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.DrawMeshGouraudOpt(mesh, math3d.Identity(), RGB(77, 153, 230), light)
	}
}

func BenchmarkDrawMeshTexturedOpt(b *testing.B) {
	r, fb := createTestRasterizer(320, 240)
	mesh := benchSphere(24, 32)
	tex := NewCheckerTexture(64, 64, 8, RGB(200, 200, 200), RGB(100, 100, 100))
	light := math3d.V3(1, 2, 3).Normalize()

	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.DrawMeshTexturedOpt(mesh, math3d.Identity(), tex, light)
	}
}

func BenchmarkFrustumCulledScene(b *testing.B) {
	r, fb := createTestRasterizer(320, 240)
	mesh := benchSphere(12, 16)
	bounds := AABB{Min: math3d.V3(-2, -2, -2), Max: math3d.V3(2, 2, 2)}
	light := math3d.V3(1, 2, 3).Normalize()

	// A row of meshes marching off to the right; most fall outside the
	// frustum and should cost only the AABB test.
	var transforms []math3d.Mat4
	for i := range 32 {
		transforms = append(transforms, math3d.Translate(math3d.V3(float64(i)*6, 0, 0)))
	}

	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.InvalidateFrustum()
		for _, m := range transforms {
			r.DrawMeshGouraudCulled(mesh, m, bounds, RGB(77, 153, 230), light)
		}
	}
}
