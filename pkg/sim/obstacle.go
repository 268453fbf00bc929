package sim

import (
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
)

// Obstacle is a bottom-anchored box of damage sitting on the road.
// Position is the bottom-center; the box extends Width/Depth symmetric
// around it and Height straight up. Kind selects the rendered shape,
// collision always uses the box.
type Obstacle struct {
	Position math3d.Vec3
	Width    float64
	Height   float64
	Depth    float64

	Kind   models.ShapeKind
	Damage float64
	Active bool
	Color  [3]float64
}

// Hits reports whether the ball overlaps the obstacle, using the
// closest point on the box to the ball center. Inactive obstacles and
// dead balls never collide.
func (o *Obstacle) Hits(b *Ball) bool {
	if !o.Active || !b.Alive {
		return false
	}

	closest := math3d.V3(
		clamp(b.Position.X, o.Position.X-o.Width/2, o.Position.X+o.Width/2),
		clamp(b.Position.Y, o.Position.Y, o.Position.Y+o.Height),
		clamp(b.Position.Z, o.Position.Z-o.Depth/2, o.Position.Z+o.Depth/2),
	)
	return closest.Sub(b.Position).Len() < b.Radius
}

// ModelMatrix maps a unit origin-centered mesh onto the obstacle box.
func (o *Obstacle) ModelMatrix() math3d.Mat4 {
	center := o.Position.Add(math3d.V3(0, o.Height/2, 0))
	return math3d.Translate(center).Mul(math3d.Scale(math3d.V3(o.Width, o.Height, o.Depth)))
}

// Collectible is a floating pickup worth score and health.
type Collectible struct {
	Position math3d.Vec3
	Radius   float64
}

// CollectedBy reports whether the ball is close enough to pick this up.
func (c *Collectible) CollectedBy(b *Ball) bool {
	if !b.Alive {
		return false
	}
	return b.Position.Sub(c.Position).Len() < b.Radius+c.Radius
}

// Tree is roadside decoration: a tapered trunk with a foliage blob on
// top. Position is the ground point under the trunk.
type Tree struct {
	Position math3d.Vec3

	Height        float64
	TrunkRadius   float64
	FoliageRadius float64

	TrunkColor   [3]float64
	FoliageColor [3]float64
}

// TrunkModelMatrix maps a unit bottom-anchored trunk mesh onto this
// tree's trunk.
func (t *Tree) TrunkModelMatrix() math3d.Mat4 {
	return math3d.Translate(t.Position).
		Mul(math3d.Scale(math3d.V3(t.TrunkRadius, t.Height, t.TrunkRadius)))
}

// FoliageModelMatrix maps a unit foliage mesh onto the crown. The
// foliage mesh already carries its vertical squash, so the scale here
// is uniform.
func (t *Tree) FoliageModelMatrix() math3d.Mat4 {
	top := t.Position.Add(math3d.V3(0, t.Height, 0))
	return math3d.Translate(top).Mul(math3d.ScaleUniform(t.FoliageRadius))
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
