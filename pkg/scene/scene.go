// Package scene holds the editor's document state: placed objects with
// their transforms plus the current selection. It carries no rendering
// state; the renderer consumes model matrices and meshes.
package scene

import (
	"math"
	"slices"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
)

// Object is one placed mesh with its transform and display properties.
type Object struct {
	Name string
	Mesh *models.Mesh

	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in radians, applied X, Y, Z
	Scale    math3d.Vec3

	Color   [3]float64
	Visible bool
}

// NewObject wraps a mesh with neutral transform and the default gray.
func NewObject(name string, mesh *models.Mesh) *Object {
	if name == "" {
		name = "Unnamed Object"
	}
	return &Object{
		Name:    name,
		Mesh:    mesh,
		Scale:   math3d.V3(1, 1, 1),
		Color:   [3]float64{0.8, 0.8, 0.8},
		Visible: true,
	}
}

// ModelMatrix composes translate, rotate X/Y/Z, scale.
func (o *Object) ModelMatrix() math3d.Mat4 {
	return math3d.Translate(o.Position).
		Mul(math3d.RotateX(o.Rotation.X)).
		Mul(math3d.RotateY(o.Rotation.Y)).
		Mul(math3d.RotateZ(o.Rotation.Z)).
		Mul(math3d.Scale(o.Scale))
}

// Clone returns a duplicate with its own mesh copy, offset one unit in
// x and renamed "<name> Copy". The mesh deep copy keeps the duplicate's
// resources independent of the source's.
func (o *Object) Clone() *Object {
	dup := *o
	if o.Mesh != nil {
		dup.Mesh = o.Mesh.Clone()
	}
	dup.Name = o.Name + " Copy"
	dup.Position.X += 1
	return &dup
}

// WorldBounds returns the axis-aligned bounds of the transformed mesh.
// Objects without a mesh report a unit box around their position.
func (o *Object) WorldBounds() (min, max math3d.Vec3) {
	lo, hi := math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5)
	if o.Mesh != nil {
		lo, hi = o.Mesh.GetBounds()
	}

	m := o.ModelMatrix()
	first := true
	for i := range 8 {
		corner := math3d.V3(
			pick(i&1 == 0, lo.X, hi.X),
			pick(i&2 == 0, lo.Y, hi.Y),
			pick(i&4 == 0, lo.Z, hi.Z),
		)
		p := m.MulVec3(corner)
		if first {
			min, max = p, p
			first = false
			continue
		}
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// Scene is an ordered object list with a single selection.
type Scene struct {
	Objects  []*Object
	Selected int // Index into Objects, -1 when nothing is selected

	SnapToGrid   bool
	GridSnapSize float64
}

// NewScene returns an empty scene with nothing selected.
func NewScene() *Scene {
	return &Scene{Selected: -1, GridSnapSize: 1}
}

// Add appends obj and selects it.
func (s *Scene) Add(obj *Object) {
	s.Objects = append(s.Objects, obj)
	s.Selected = len(s.Objects) - 1
}

// SelectedObject returns the selected object, or nil.
func (s *Scene) SelectedObject() *Object {
	if s.Selected < 0 || s.Selected >= len(s.Objects) {
		return nil
	}
	return s.Objects[s.Selected]
}

// Duplicate clones the selected object, adds the clone and selects it.
// Returns the clone, or nil when nothing is selected.
func (s *Scene) Duplicate() *Object {
	src := s.SelectedObject()
	if src == nil {
		return nil
	}
	dup := src.Clone()
	s.Add(dup)
	return dup
}

// Remove deletes the selected object and clears the selection. Returns
// the removed object, or nil when nothing was selected.
func (s *Scene) Remove() *Object {
	obj := s.SelectedObject()
	if obj == nil {
		return nil
	}
	s.Objects = slices.Delete(s.Objects, s.Selected, s.Selected+1)
	s.Selected = -1
	return obj
}

// SelectNext cycles the selection forward, wrapping past the end.
func (s *Scene) SelectNext() {
	if len(s.Objects) == 0 {
		s.Selected = -1
		return
	}
	s.Selected = (s.Selected + 1) % len(s.Objects)
}

// SelectPrev cycles the selection backward, wrapping past the start.
func (s *Scene) SelectPrev() {
	if len(s.Objects) == 0 {
		s.Selected = -1
		return
	}
	if s.Selected <= 0 {
		s.Selected = len(s.Objects) - 1
		return
	}
	s.Selected--
}

// Snap rounds each component of v to the grid when snapping is on.
func (s *Scene) Snap(v math3d.Vec3) math3d.Vec3 {
	if !s.SnapToGrid || s.GridSnapSize <= 0 {
		return v
	}
	g := s.GridSnapSize
	return math3d.V3(
		math.Round(v.X/g)*g,
		math.Round(v.Y/g)*g,
		math.Round(v.Z/g)*g,
	)
}

// MoveSelected translates the selected object, snapping the result to
// the grid when enabled. No-op without a selection.
func (s *Scene) MoveSelected(delta math3d.Vec3) {
	obj := s.SelectedObject()
	if obj == nil {
		return
	}
	obj.Position = s.Snap(obj.Position.Add(delta))
}

// Bounds returns the world bounds of all visible objects, or false for
// an empty or fully hidden scene.
func (s *Scene) Bounds() (min, max math3d.Vec3, ok bool) {
	for _, obj := range s.Objects {
		if !obj.Visible {
			continue
		}
		lo, hi := obj.WorldBounds()
		if !ok {
			min, max, ok = lo, hi, true
			continue
		}
		min = min.Min(lo)
		max = max.Max(hi)
	}
	return min, max, ok
}
