package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/diorama/pkg/math3d"
)

// GLTFLoader reads glTF 2.0 assets into meshes, both the JSON (.gltf)
// and binary (.glb) forms. Every mesh in the document lands in one
// combined Mesh, with document materials mapped onto the faces.
type GLTFLoader struct {
	// CalculateNormals derives normals when the asset carries none.
	CalculateNormals bool
	// SmoothNormals averages derived normals across shared vertices
	// instead of flat-shading each face.
	SmoothNormals bool
}

// NewGLTFLoader returns a loader that smooth-shades assets lacking
// normals.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a mesh from a binary glTF file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads the glTF document at path into a single mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	loadMaterials(doc, mesh, filepath.Dir(path))

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}
		}
	}

	if l.CalculateNormals && !hasNormals(mesh) {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// loadMaterials converts the document materials in order, so a face's
// document material index works directly as its mesh material index.
// Missing factors fall back to the glTF defaults.
func loadMaterials(doc *gltf.Document, mesh *Mesh, dir string) {
	for _, gm := range doc.Materials {
		mat := Material{
			Name:      gm.Name,
			BaseColor: [4]float64{1, 1, 1, 1},
			Metallic:  1,
			Roughness: 1,
		}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				mat.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				mat.Roughness = *pbr.RoughnessFactor
			}
			if pbr.BaseColorTexture != nil {
				if img := decodeImage(doc, pbr.BaseColorTexture.Index, dir); img != nil {
					mat.BaseMap = img
					mat.HasTexture = true
				}
			}
		}
		mesh.Materials = append(mesh.Materials, mat)
	}
}

// appendPrimitive decodes one triangle primitive into mesh. Point and
// line primitives are skipped.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if ni, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[ni], nil); err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if ti, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[ti], nil); err != nil {
			return fmt.Errorf("read texture coords: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
		if i < len(normals) {
			v.Normal = math3d.V3(float64(normals[i][0]), float64(normals[i][1]), float64(normals[i][2]))
		}
		if i < len(uvs) {
			// glTF V grows downward from the top-left corner; the
			// texture sampler's V grows upward.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	material := -1
	if prim.Material != nil {
		material = *prim.Material
	}

	// glTF fronts faces counter-clockwise; the rasterizer fronts them
	// clockwise, so two corners swap.
	addFace := func(a, b, c int) {
		mesh.Faces = append(mesh.Faces, Face{
			V:        [3]int{base + a, base + c, base + b},
			Material: material,
		})
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			addFace(int(indices[i]), int(indices[i+1]), int(indices[i+2]))
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			addFace(i, i+1, i+2)
		}
	}
	return nil
}

// hasNormals reports whether any vertex carries a usable normal.
func hasNormals(m *Mesh) bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 1e-3 {
			return true
		}
	}
	return false
}

// decodeImage decodes the image behind texture index ti. Both
// buffer-embedded images and files next to the document resolve; nil
// when neither does.
func decodeImage(doc *gltf.Document, ti int, dir string) image.Image {
	if ti < 0 || ti >= len(doc.Textures) {
		return nil
	}
	src := doc.Textures[ti].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return nil
	}
	data := imageBytes(doc, doc.Images[*src], dir)
	if data == nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// imageBytes returns the raw encoded bytes of a glTF image.
func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil
		}
		return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}

// LoadGLBWithTexture loads a mesh plus the base color image of its
// first textured material. The image is nil when no material carries
// one.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	mesh, err := LoadGLB(path)
	if err != nil {
		return nil, nil, err
	}
	for i := range mesh.Materials {
		if mesh.Materials[i].HasTexture {
			return mesh, mesh.Materials[i].BaseMap, nil
		}
	}
	return mesh, nil, nil
}
