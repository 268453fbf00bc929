package sim

import (
	"math"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
)

func flatGround(h float64) Ground {
	return GroundFunc(func(x, z float64) float64 { return h })
}

var noGravity = math3d.Zero3()

func TestBallFreeFall(t *testing.T) {
	b := NewBall()
	b.Position = math3d.V3(0, 10, 0)
	gravity := math3d.V3(0, -9.8, 0)

	b.Step(0.1, gravity, flatGround(0))

	if math.Abs(b.Velocity.Y+0.98) > 1e-9 {
		t.Errorf("velocity.Y = %v, want -0.98", b.Velocity.Y)
	}
	if math.Abs(b.Position.Y-9.902) > 1e-9 {
		t.Errorf("position.Y = %v, want 9.902", b.Position.Y)
	}
}

func TestBallGroundBounce(t *testing.T) {
	b := NewBall()
	b.Position = math3d.V3(0, 0.55, 0)
	b.Velocity = math3d.V3(1, -3, 0)

	b.Step(0.1, noGravity, flatGround(0))

	// Penetration clamps the ball onto the surface.
	if math.Abs(b.Position.Y-b.Radius) > 1e-9 {
		t.Errorf("position.Y = %v, want %v", b.Position.Y, b.Radius)
	}
	// Vertical speed reflects scaled by elasticity, then the whole
	// velocity is damped by friction.
	wantY := 3 * b.Elasticity * b.Friction
	if math.Abs(b.Velocity.Y-wantY) > 1e-9 {
		t.Errorf("velocity.Y = %v, want %v", b.Velocity.Y, wantY)
	}
	wantX := 1 * b.Friction
	if math.Abs(b.Velocity.X-wantX) > 1e-9 {
		t.Errorf("velocity.X = %v, want %v", b.Velocity.X, wantX)
	}
}

func TestBallBounceRespectsRaisedGround(t *testing.T) {
	b := NewBall()
	b.Position = math3d.V3(0, 3, 0)
	b.Velocity = math3d.V3(0, -20, 0)

	b.Step(0.1, noGravity, flatGround(2))

	if math.Abs(b.Position.Y-(2+b.Radius)) > 1e-9 {
		t.Errorf("position.Y = %v, want %v", b.Position.Y, 2+b.Radius)
	}
	if b.Velocity.Y <= 0 {
		t.Errorf("velocity.Y = %v, want upward after bounce", b.Velocity.Y)
	}
}

func TestBallLateralClamp(t *testing.T) {
	for _, dir := range []float64{1, -1} {
		b := NewBall()
		b.Velocity = math3d.V3(100*dir, 0, 0)

		b.Step(1, noGravity, flatGround(-100))

		if got := b.Position.X; got != 10*dir {
			t.Errorf("dir %v: position.X = %v, want %v", dir, got, 10*dir)
		}
	}
}

func TestBallRotationWraps(t *testing.T) {
	b := NewBall()

	b.Step(4, noGravity, flatGround(-100))

	want := 4*b.RotationSpeed - 2*math.Pi
	if math.Abs(b.RotationAngle-want) > 1e-9 {
		t.Errorf("rotation = %v, want %v", b.RotationAngle, want)
	}
}

func TestBallForceConsumedByOneStep(t *testing.T) {
	b := NewBall()
	b.Position = math3d.V3(0, 5, 0)
	b.ApplyForce(math3d.V3(10, 0, 0))

	b.Step(1, noGravity, flatGround(-100))
	if math.Abs(b.Velocity.X-10) > 1e-9 {
		t.Errorf("velocity.X after forced step = %v, want 10", b.Velocity.X)
	}

	b.Step(1, noGravity, flatGround(-100))
	if math.Abs(b.Velocity.X-10) > 1e-9 {
		t.Errorf("velocity.X after free step = %v, want 10 (force must not persist)", b.Velocity.X)
	}
}

func TestBallDeadStopsIntegrating(t *testing.T) {
	b := NewBall()
	b.Velocity = math3d.V3(1, 2, 3)
	b.TakeDamage(MaxHealth + 1)

	if b.Alive {
		t.Fatal("ball alive after fatal damage")
	}

	pos := b.Position
	b.Step(0.5, math3d.V3(0, -9.8, 0), flatGround(0))

	if b.Position != pos {
		t.Errorf("dead ball moved from %v to %v", pos, b.Position)
	}
}

func TestBallDamageAndHeal(t *testing.T) {
	b := NewBall()

	b.TakeDamage(30)
	if b.Health != 70 || !b.Alive {
		t.Errorf("after 30 damage: health %v alive %v", b.Health, b.Alive)
	}

	b.Heal(50)
	if b.Health != MaxHealth {
		t.Errorf("heal past cap: health %v, want %v", b.Health, MaxHealth)
	}

	b.TakeDamage(150)
	if b.Alive || b.Health > 0 {
		t.Errorf("after fatal damage: health %v alive %v", b.Health, b.Alive)
	}
}

func TestBallOnGround(t *testing.T) {
	b := NewBall()
	ground := flatGround(1)

	b.Position = math3d.V3(0, 1+b.Radius, 0)
	if !b.OnGround(ground) {
		t.Error("resting ball not on ground")
	}

	b.Position = math3d.V3(0, 1+b.Radius+0.05, 0)
	if !b.OnGround(ground) {
		t.Error("ball within jump tolerance not on ground")
	}

	b.Position = math3d.V3(0, 1+b.Radius+0.2, 0)
	if b.OnGround(ground) {
		t.Error("airborne ball reported on ground")
	}
}

func TestObstacleHits(t *testing.T) {
	box := Obstacle{
		Position: math3d.Zero3(),
		Width:    1, Height: 1, Depth: 1,
		Active: true,
	}

	tests := []struct {
		name string
		pos  math3d.Vec3
		want bool
	}{
		{"center inside", math3d.V3(0, 0.5, 0), true},
		{"grazing top", math3d.V3(0, 1.3, 0), true},
		{"above clearance", math3d.V3(0, 2, 0), false},
		{"beside far", math3d.V3(5, 0.5, 0), false},
		{"near corner", math3d.V3(0.8, 1.2, 0), true},
		{"outside corner", math3d.V3(1.0, 1.4, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBall()
			b.Position = tc.pos

			if got := box.Hits(b); got != tc.want {
				t.Errorf("Hits(ball at %v) = %v, want %v", tc.pos, got, tc.want)
			}
		})
	}
}

func TestObstacleHitsIgnoresInactiveAndDead(t *testing.T) {
	box := Obstacle{Position: math3d.Zero3(), Width: 2, Height: 2, Depth: 2, Active: true}

	b := NewBall()
	b.Position = math3d.V3(0, 1, 0)
	if !box.Hits(b) {
		t.Fatal("active obstacle missed embedded ball")
	}

	box.Active = false
	if box.Hits(b) {
		t.Error("inactive obstacle reported a hit")
	}

	box.Active = true
	b.TakeDamage(MaxHealth)
	if box.Hits(b) {
		t.Error("dead ball reported a hit")
	}
}

func TestObstacleModelMatrix(t *testing.T) {
	o := Obstacle{Position: math3d.V3(2, 0.1, -5), Width: 1, Height: 2, Depth: 3}
	m := o.ModelMatrix()

	center := m.MulVec3(math3d.Zero3())
	wantCenter := math3d.V3(2, 1.1, -5)
	if center.Sub(wantCenter).Len() > 1e-9 {
		t.Errorf("unit origin maps to %v, want %v", center, wantCenter)
	}

	top := m.MulVec3(math3d.V3(0, 0.5, 0))
	if math.Abs(top.Y-(o.Position.Y+o.Height)) > 1e-9 {
		t.Errorf("unit top maps to y=%v, want %v", top.Y, o.Position.Y+o.Height)
	}
}

func TestTreeModelMatrices(t *testing.T) {
	tree := Tree{
		Position:      math3d.V3(8, 0.3, -40),
		Height:        3,
		TrunkRadius:   0.2,
		FoliageRadius: 1.5,
	}

	trunkTop := tree.TrunkModelMatrix().MulVec3(math3d.V3(0, 1, 0))
	wantTop := tree.Position.Add(math3d.V3(0, tree.Height, 0))
	if trunkTop.Sub(wantTop).Len() > 1e-9 {
		t.Errorf("trunk top at %v, want %v", trunkTop, wantTop)
	}

	crown := tree.FoliageModelMatrix().MulVec3(math3d.Zero3())
	if crown.Sub(wantTop).Len() > 1e-9 {
		t.Errorf("foliage center at %v, want %v", crown, wantTop)
	}

	side := tree.FoliageModelMatrix().MulVec3(math3d.V3(1, 0, 0))
	if math.Abs(side.Sub(crown).Len()-tree.FoliageRadius) > 1e-9 {
		t.Errorf("foliage radius %v, want %v", side.Sub(crown).Len(), tree.FoliageRadius)
	}
}
