// Package terrain generates the rolling height field the ball game runs
// on: layered sinusoids with a flat road corridor down the middle,
// ditches falling away on both sides, and a seeded layer of random bumps.
package terrain

import (
	"math"
	"math/rand"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
)

// Terrain mesh material indices, in BuildMesh order.
const (
	MatRoad = iota
	MatGrass
	MatDirt
)

const (
	roadHeight     = 0.1
	ditchSlope     = 0.1
	grassThreshold = 0.2
	normalEpsilon  = 0.1
)

// Config controls height-field generation. The same config and seed
// always reproduce the same terrain.
type Config struct {
	Width         int     // grid samples along X
	Depth         int     // grid samples along Z
	CellSize      float64 // world units per grid cell
	RoadHalfWidth float64 // road corridor half width, in cells
	BumpAmplitude float64 // peak-to-peak random perturbation
	Seed          int64
}

// DefaultConfig returns the dimensions the game uses.
func DefaultConfig() Config {
	return Config{
		Width:         100,
		Depth:         200,
		CellSize:      1.0,
		RoadHalfWidth: 4.0,
		BumpAmplitude: 0.1,
		Seed:          1,
	}
}

// Terrain is a dense height grid with bilinear world-space sampling.
// The grid is centered on the origin: world X spans roughly
// [-Width/2, Width/2] cells and likewise for Z.
type Terrain struct {
	cfg     Config
	heights []float64 // row-major, Depth rows of Width samples
}

// Generate fills a height field from cfg. Grids below 2x2 are raised to
// the minimum so sampling always has a cell to interpolate.
func Generate(cfg Config) *Terrain {
	cfg.Width = max(cfg.Width, 2)
	cfg.Depth = max(cfg.Depth, 2)
	if cfg.CellSize <= 0 {
		cfg.CellSize = 1.0
	}

	t := &Terrain{
		cfg:     cfg,
		heights: make([]float64, cfg.Width*cfg.Depth),
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	halfW := float64(cfg.Width / 2)

	for z := range cfg.Depth {
		for x := range cfg.Width {
			fx, fz := float64(x), float64(z)

			// Base rolling terrain plus longer hills.
			h := math.Sin(fx*0.1)*math.Cos(fz*0.1)*0.5 +
				math.Sin(fx*0.05+fz*0.03)*0.3

			// Flat road down the middle, ditches falling away beside it.
			center := math.Abs(fx - halfW)
			if center < cfg.RoadHalfWidth {
				h = roadHeight
			} else {
				h -= (center - cfg.RoadHalfWidth) * ditchSlope
			}

			h += (rng.Float64() - 0.5) * cfg.BumpAmplitude
			t.heights[z*cfg.Width+x] = h
		}
	}
	return t
}

// Config returns the generation parameters.
func (t *Terrain) Config() Config {
	return t.cfg
}

// HeightAt bilinearly samples the height field at world coordinates.
// Queries outside the grid return exactly 0.
func (t *Terrain) HeightAt(x, z float64) float64 {
	gx := (x + float64(t.cfg.Width/2)) / t.cfg.CellSize
	gz := (z + float64(t.cfg.Depth/2)) / t.cfg.CellSize

	xi := int(math.Floor(gx))
	zi := int(math.Floor(gz))
	if xi < 0 || xi >= t.cfg.Width-1 || zi < 0 || zi >= t.cfg.Depth-1 {
		return 0.0
	}

	xr := gx - float64(xi)
	zr := gz - float64(zi)

	h1 := t.heights[zi*t.cfg.Width+xi]
	h2 := t.heights[zi*t.cfg.Width+xi+1]
	h3 := t.heights[(zi+1)*t.cfg.Width+xi]
	h4 := t.heights[(zi+1)*t.cfg.Width+xi+1]

	top := h1*(1-xr) + h2*xr
	bottom := h3*(1-xr) + h4*xr
	return top*(1-zr) + bottom*zr
}

// NormalAt estimates the surface normal by central differences. Stays
// finite at grid edges because HeightAt falls back to 0 out of bounds.
func (t *Terrain) NormalAt(x, z float64) math3d.Vec3 {
	hL := t.HeightAt(x-normalEpsilon, z)
	hR := t.HeightAt(x+normalEpsilon, z)
	hD := t.HeightAt(x, z-normalEpsilon)
	hU := t.HeightAt(x, z+normalEpsilon)

	return math3d.V3(hL-hR, 2*normalEpsilon, hD-hU).Normalize()
}

// BuildMesh extracts a renderable mesh: one shared vertex per grid
// corner so lighting blends smoothly, two triangles per cell, and a
// per-cell material picked by the road/grass/dirt classification.
func (t *Terrain) BuildMesh() *models.Mesh {
	m := models.NewMesh("terrain")
	m.Materials = []models.Material{
		{Name: "road", BaseColor: [4]float64{0.3, 0.3, 0.35, 1}, Roughness: 1},
		{Name: "grass", BaseColor: [4]float64{0.1, 0.7, 0.1, 1}, Roughness: 1},
		{Name: "dirt", BaseColor: [4]float64{0.5, 0.4, 0.2, 1}, Roughness: 1},
	}

	w, d := t.cfg.Width, t.cfg.Depth
	for z := range d {
		for x := range w {
			wx := (float64(x) - float64(w/2)) * t.cfg.CellSize
			wz := (float64(z) - float64(d/2)) * t.cfg.CellSize
			m.Vertices = append(m.Vertices, models.MeshVertex{
				Position: math3d.V3(wx, t.HeightAt(wx, wz), wz),
				Normal:   t.NormalAt(wx, wz),
				UV:       math3d.V2(float64(x)/float64(w-1), float64(z)/float64(d-1)),
			})
		}
	}

	for z := range d - 1 {
		for x := range w - 1 {
			mat := t.classifyCell(x, z)

			lt := z*w + x
			rt := lt + 1
			lb := lt + w
			rb := lb + 1
			m.Faces = append(m.Faces,
				models.Face{V: [3]int{lt, rt, lb}, Material: mat},
				models.Face{V: [3]int{rt, rb, lb}, Material: mat},
			)
		}
	}

	m.CalculateBounds()
	return m
}

// classifyCell picks the material for the cell whose origin corner is
// grid (x, z): road corridor first, then grass above the height
// threshold, dirt below it.
func (t *Terrain) classifyCell(x, z int) int {
	if math.Abs(float64(x)-float64(t.cfg.Width/2)) < t.cfg.RoadHalfWidth {
		return MatRoad
	}

	wx := (float64(x) - float64(t.cfg.Width/2)) * t.cfg.CellSize
	wz := (float64(z) - float64(t.cfg.Depth/2)) * t.cfg.CellSize
	if t.HeightAt(wx, wz) > grassThreshold {
		return MatGrass
	}
	return MatDirt
}
