package models

import "fmt"

// ShapeKind identifies a procedural generator.
type ShapeKind int

const (
	ShapeCube ShapeKind = iota
	ShapeSphere
	ShapeCylinder
	ShapeCone
	ShapePlane
	ShapePyramid
	ShapeTreeTrunk
	ShapeTreeFoliage
	ShapeGrassBlade
)

// ShapeParams carries the superset of generator parameters. Each generator
// reads only the fields it needs; DefaultShapeParams supplies sensible
// values for the rest.
type ShapeParams struct {
	Size     float64 // cube edge, pyramid base edge
	Width    float64 // plane and grass blade
	Depth    float64 // plane
	Radius   float64
	Height   float64
	Sectors  int // sphere/foliage longitude divisions
	Stacks   int // sphere/foliage latitude divisions
	Segments int // cylinder/cone/trunk ring divisions
}

// shapeEntry binds a kind to its name, defaults, and generator. The table
// is indexed by ShapeKind so adding a kind without an entry is caught by
// the unknown-kind check in GenerateShape.
type shapeEntry struct {
	name     string
	defaults ShapeParams
	generate func(ShapeParams) *Mesh
}

var shapeTable = [...]shapeEntry{
	ShapeCube: {
		name:     "cube",
		defaults: ShapeParams{Size: 1},
		generate: func(p ShapeParams) *Mesh { return GenerateCube(p.Size) },
	},
	ShapeSphere: {
		name:     "sphere",
		defaults: ShapeParams{Radius: 0.5, Sectors: 36, Stacks: 18},
		generate: func(p ShapeParams) *Mesh { return GenerateSphere(p.Radius, p.Sectors, p.Stacks) },
	},
	ShapeCylinder: {
		name:     "cylinder",
		defaults: ShapeParams{Radius: 0.5, Height: 1, Segments: 32},
		generate: func(p ShapeParams) *Mesh { return GenerateCylinder(p.Radius, p.Height, p.Segments) },
	},
	ShapeCone: {
		name:     "cone",
		defaults: ShapeParams{Radius: 0.5, Height: 1, Segments: 32},
		generate: func(p ShapeParams) *Mesh { return GenerateCone(p.Radius, p.Height, p.Segments) },
	},
	ShapePlane: {
		name:     "plane",
		defaults: ShapeParams{Width: 10, Depth: 10},
		generate: func(p ShapeParams) *Mesh { return GeneratePlane(p.Width, p.Depth) },
	},
	ShapePyramid: {
		name:     "pyramid",
		defaults: ShapeParams{Size: 1, Height: 1},
		generate: func(p ShapeParams) *Mesh { return GeneratePyramid(p.Size, p.Height) },
	},
	ShapeTreeTrunk: {
		name:     "tree_trunk",
		defaults: ShapeParams{Height: 2, Radius: 0.2, Segments: 12},
		generate: func(p ShapeParams) *Mesh { return GenerateTreeTrunk(p.Height, p.Radius, p.Segments) },
	},
	ShapeTreeFoliage: {
		name:     "tree_foliage",
		defaults: ShapeParams{Radius: 1, Sectors: 16, Stacks: 12},
		generate: func(p ShapeParams) *Mesh { return GenerateTreeFoliage(p.Radius, p.Sectors, p.Stacks) },
	},
	ShapeGrassBlade: {
		name:     "grass_blade",
		defaults: ShapeParams{Height: 0.4, Width: 0.06},
		generate: func(p ShapeParams) *Mesh { return GenerateGrassBlade(p.Height, p.Width) },
	},
}

// String returns the shape's lowercase name.
func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeTable) {
		return fmt.Sprintf("shape(%d)", int(k))
	}
	return shapeTable[k].name
}

// ShapeKinds returns all shape kinds in menu order.
func ShapeKinds() []ShapeKind {
	kinds := make([]ShapeKind, len(shapeTable))
	for i := range kinds {
		kinds[i] = ShapeKind(i)
	}
	return kinds
}

// ParseShapeKind resolves a shape name to its kind.
func ParseShapeKind(name string) (ShapeKind, error) {
	for i := range shapeTable {
		if shapeTable[i].name == name {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// DefaultShapeParams returns the default parameters for a kind. Unknown
// kinds get the zero params.
func DefaultShapeParams(kind ShapeKind) ShapeParams {
	if kind < 0 || int(kind) >= len(shapeTable) {
		return ShapeParams{}
	}
	return shapeTable[kind].defaults
}

// GenerateShape dispatches to the generator for kind.
func GenerateShape(kind ShapeKind, p ShapeParams) (*Mesh, error) {
	if kind < 0 || int(kind) >= len(shapeTable) {
		return nil, fmt.Errorf("unknown shape kind %d", int(kind))
	}
	return shapeTable[kind].generate(p), nil
}
