package models

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// buildQuadDocument assembles an in-memory glTF document holding a unit
// quad facing +Z: counter-clockwise faces, V=0 at the texture top, one
// red material. This mirrors what exporters emit, so the loader's
// winding and UV conversions are visible in the result.
func buildQuadDocument() *gltf.Document {
	doc := gltf.NewDocument()

	metallic, roughness := 0.0, 0.5
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	})

	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{
		{0, 1}, {1, 1}, {1, 0}, {0, 0},
	})
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})
	material := 0

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION:   positions,
				gltf.TEXCOORD_0: uvs,
			},
			Indices:  &indices,
			Material: &material,
			Mode:     gltf.PrimitiveTriangles,
		}},
	})
	return doc
}

func TestAppendPrimitiveConversions(t *testing.T) {
	doc := buildQuadDocument()

	mesh := NewMesh("quad")
	loadMaterials(doc, mesh, "")
	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				t.Fatalf("append primitive: %v", err)
			}
		}
	}

	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("geometry = %d vertices, %d faces, want 4 and 2", mesh.VertexCount(), mesh.TriangleCount())
	}

	// Counter-clockwise input faces come out clockwise: {0,1,2}
	// becomes {0,2,1}.
	if got := mesh.Faces[0].V; got != [3]int{0, 2, 1} {
		t.Errorf("face 0 = %v, want reversed winding [0 2 1]", got)
	}

	// The exporter's top-left V origin flips to bottom-left: vertex 0
	// carried (0,1) and now addresses the texture bottom.
	if got := mesh.Vertices[0].UV; got.X != 0 || got.Y != 0 {
		t.Errorf("vertex 0 UV = %v, want (0,0)", got)
	}
	if got := mesh.Vertices[3].UV; got.X != 0 || got.Y != 1 {
		t.Errorf("vertex 3 UV = %v, want (0,1)", got)
	}

	// The document material maps onto every face.
	if mesh.MaterialCount() != 1 {
		t.Fatalf("material count = %d, want 1", mesh.MaterialCount())
	}
	rgba, ok := mesh.FaceBaseColor(1)
	if !ok || rgba != [4]float64{1, 0, 0, 1} {
		t.Errorf("face base color = %v (ok=%v), want red", rgba, ok)
	}
	if mat := mesh.GetMaterial(0); mat.Metallic != 0 || mat.Roughness != 0.5 {
		t.Errorf("material factors = %v/%v, want 0/0.5", mat.Metallic, mat.Roughness)
	}
}

func TestLoadGLBRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.glb")
	if err := gltf.SaveBinary(buildQuadDocument(), path); err != nil {
		t.Fatalf("save glb: %v", err)
	}

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("load glb: %v", err)
	}

	if mesh.Name != "quad.glb" {
		t.Errorf("mesh name = %q, want the file name", mesh.Name)
	}
	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("geometry = %d vertices, %d faces, want 4 and 2", mesh.VertexCount(), mesh.TriangleCount())
	}

	// The document has no normals, so the loader derives smooth ones.
	// The quad's clockwise faces point outward along +Z.
	for i, v := range mesh.Vertices {
		if v.Normal.Z < 0.9 {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}

	if mesh.BoundsMin.X != 0 || mesh.BoundsMax.X != 1 || mesh.BoundsMax.Y != 1 {
		t.Errorf("bounds = %v..%v, want the unit quad", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestLoadGLBWithTextureImage(t *testing.T) {
	dir := t.TempDir()

	// A 2x2 PNG the material references by URI, next to the document.
	f, err := os.Create(filepath.Join(dir, "base.png"))
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	f.Close()

	doc := buildQuadDocument()
	source := 0
	doc.Images = append(doc.Images, &gltf.Image{URI: "base.png"})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: &source})
	doc.Materials[0].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: 0}

	path := filepath.Join(dir, "textured.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}

	mesh, texImg, err := LoadGLBWithTexture(path)
	if err != nil {
		t.Fatalf("load glb: %v", err)
	}
	if texImg == nil {
		t.Fatal("expected the material's base color image")
	}
	if b := texImg.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("texture bounds = %v, want 2x2", b)
	}
	if !mesh.Materials[0].HasTexture {
		t.Error("material should report its texture")
	}
}

func TestLoadGLBMissingFile(t *testing.T) {
	if _, err := LoadGLB("testdata/missing.glb"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestNewGLTFLoaderDefaults(t *testing.T) {
	l := NewGLTFLoader()
	if !l.CalculateNormals || !l.SmoothNormals {
		t.Errorf("loader defaults = %+v, want derived, smoothed normals", l)
	}
}
