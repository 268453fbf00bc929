// Package sim implements the rolling-ball game simulation: ball physics,
// road obstacles, collectibles and the world state machine that drives a
// run from menu to game over.
package sim

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// MaxHealth is the ball's health cap; healing never exceeds it.
const MaxHealth = 100.0

// lateralBound keeps the ball on the road and its shoulders.
const lateralBound = 10.0

// Ground supplies terrain height for ground collision. terrain.Terrain
// satisfies it.
type Ground interface {
	HeightAt(x, z float64) float64
}

// GroundFunc adapts a plain height function to the Ground interface.
type GroundFunc func(x, z float64) float64

// HeightAt calls f.
func (f GroundFunc) HeightAt(x, z float64) float64 { return f(x, z) }

// Ball is the player-controlled rolling ball.
type Ball struct {
	Position math3d.Vec3
	Velocity math3d.Vec3

	// Input forces accumulated since the last Step, consumed by it.
	force math3d.Vec3

	Radius     float64
	Mass       float64
	Elasticity float64 // Fraction of vertical speed kept by a bounce
	Friction   float64 // Fraction of velocity kept after ground contact

	RotationAngle float64 // Radians, for the rolling visual
	RotationSpeed float64 // Radians per second

	Health float64
	Alive  bool

	Color [3]float64
}

// NewBall creates the player ball hovering above the road start.
func NewBall() *Ball {
	return &Ball{
		Position:      math3d.V3(0, 2, 0),
		Radius:        0.5,
		Mass:          1,
		Elasticity:    0.8,
		Friction:      0.95,
		RotationSpeed: 2,
		Health:        MaxHealth,
		Alive:         true,
		Color:         [3]float64{0.2, 0.8, 0.9},
	}
}

// ApplyForce queues a force to act during the next Step. Forces from
// multiple inputs in the same frame add up.
func (b *Ball) ApplyForce(f math3d.Vec3) {
	b.force = b.force.Add(f)
}

// Step advances the ball by dt seconds of explicit Euler integration
// under gravity plus any queued input forces, then resolves ground
// contact against the sampled terrain height. Dead balls do not move.
func (b *Ball) Step(dt float64, gravity math3d.Vec3, ground Ground) {
	if !b.Alive {
		return
	}

	accel := gravity.Add(b.force.Div(b.Mass))
	b.force = math3d.Zero3()

	b.Velocity = b.Velocity.Add(accel.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	b.RotationAngle += b.RotationSpeed * dt
	if b.RotationAngle > 2*math.Pi {
		b.RotationAngle -= 2 * math.Pi
	}

	// Ground contact: clamp to the surface, reflect the vertical
	// component scaled by elasticity, then damp everything.
	h := ground.HeightAt(b.Position.X, b.Position.Z)
	if b.Position.Y-b.Radius < h {
		b.Position.Y = h + b.Radius
		b.Velocity.Y = -b.Velocity.Y * b.Elasticity
		b.Velocity = b.Velocity.Scale(b.Friction)
	}

	if b.Position.X < -lateralBound {
		b.Position.X = -lateralBound
	}
	if b.Position.X > lateralBound {
		b.Position.X = lateralBound
	}
}

// OnGround reports whether the ball is resting on (or nearly touching)
// the terrain, the precondition for jumping.
func (b *Ball) OnGround(ground Ground) bool {
	return b.Position.Y-b.Radius <= ground.HeightAt(b.Position.X, b.Position.Z)+0.1
}

// TakeDamage reduces health and kills the ball when it reaches zero.
func (b *Ball) TakeDamage(damage float64) {
	b.Health -= damage
	b.Alive = b.Health > 0
}

// Heal restores health up to MaxHealth.
func (b *Ball) Heal(amount float64) {
	b.Health = min(b.Health+amount, MaxHealth)
}

// ModelMatrix returns the ball's world transform. The two rotation axes
// at different rates give a tumbling roll as it moves.
func (b *Ball) ModelMatrix() math3d.Mat4 {
	return math3d.Translate(b.Position).
		Mul(math3d.RotateY(b.RotationAngle)).
		Mul(math3d.RotateX(b.RotationAngle * 0.7)).
		Mul(math3d.ScaleUniform(b.Radius))
}
