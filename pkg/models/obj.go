package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/diorama/pkg/math3d"
)

// OBJLoader parses Wavefront OBJ files into Mesh structures. Only the
// geometry directives (v, vn, vt, f) are interpreted; grouping and
// material directives are skipped.
type OBJLoader struct {
	SmoothNormals bool // Averaged normals when the file carries none
	FlipV         bool // Flip texture V into image convention
}

// NewOBJLoader creates a loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		SmoothNormals: true,
		FlipV:         true,
	}
}

// LoadOBJ loads an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// Load parses the OBJ file at path. Face indices are 1-based and are
// validated against the parsed attribute lists; an out-of-range index
// fails the parse rather than reading garbage. Quads and larger polygons
// are fanned from their first corner. Nothing is returned on error, so a
// failed load never leaves a caller holding partial geometry.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh := NewMesh(name)

	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		uvs       []math3d.Vec2
	)

	// Corners sharing the same index triplet share one mesh vertex, so
	// accumulated normals blend across adjacent faces.
	corners := make(map[[3]int]int)

	resolveCorner := func(token string, lineNo int) (int, error) {
		vIdx, vtIdx, vnIdx, err := parseFaceToken(token)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if vIdx < 1 || vIdx > len(positions) {
			return 0, fmt.Errorf("line %d: vertex index %d out of range", lineNo, vIdx)
		}
		if vtIdx > len(uvs) {
			return 0, fmt.Errorf("line %d: texcoord index %d out of range", lineNo, vtIdx)
		}
		if vnIdx > len(normals) {
			return 0, fmt.Errorf("line %d: normal index %d out of range", lineNo, vnIdx)
		}

		key := [3]int{vIdx, vtIdx, vnIdx}
		if i, ok := corners[key]; ok {
			return i, nil
		}

		v := MeshVertex{
			Position: positions[vIdx-1],
			Normal:   math3d.Up(), // Placeholder when the corner has no normal
		}
		if vnIdx > 0 {
			v.Normal = normals[vnIdx-1]
		}
		if vtIdx > 0 {
			v.UV = uvs[vtIdx-1]
			if l.FlipV {
				v.UV.Y = 1 - v.UV.Y
			}
		}

		i := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, v)
		corners[key] = i
		return i, nil
	}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed vertex position: %w", lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed vertex normal: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: malformed texcoord", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: malformed texcoord", lineNo)
			}
			uvs = append(uvs, math3d.V2(u, v))

		case "f":
			tokens := fields[1:]
			if len(tokens) < 3 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, len(tokens))
			for i, tok := range tokens {
				idx[i], err = resolveCorner(tok, lineNo)
				if err != nil {
					return nil, err
				}
			}
			// Fan from the first corner, reversing CCW file order to the
			// renderer's clockwise convention.
			for i := 2; i < len(idx); i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{idx[0], idx[i], idx[i-1]},
					Material: -1,
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ file: %w", err)
	}

	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("OBJ file %s has no geometry", path)
	}

	if len(normals) == 0 {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// parseFaceToken splits a face corner "v", "v/vt", "v//vn", or "v/vt/vn".
// Omitted or non-positive sub-indices are reported as 0 (absent).
func parseFaceToken(token string) (v, vt, vn int, err error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("malformed face corner %q", token)
	}

	v, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed face corner %q", token)
	}

	sub := func(s string) (int, error) {
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("malformed face corner %q", token)
		}
		return max(n, 0), nil
	}

	if len(parts) > 1 {
		if vt, err = sub(parts[1]); err != nil {
			return 0, 0, 0, err
		}
	}
	if len(parts) > 2 {
		if vn, err = sub(parts[2]); err != nil {
			return 0, 0, 0, err
		}
	}
	return v, vt, vn, nil
}

// parseFloats3 parses three floats from the head of fields.
func parseFloats3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	var out [3]float64
	for i := range 3 {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = v
	}
	return math3d.V3(out[0], out[1], out[2]), nil
}
