package render

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// OrbitCamera orbits a target point at a fixed distance. It is the
// camera model used by the editor and viewer scenes: dragging rotates
// yaw/pitch around the target, scrolling zooms, panning slides the
// target itself.
type OrbitCamera struct {
	Target   math3d.Vec3
	Yaw      float64 // Radians around Y
	Pitch    float64 // Radians above the horizon
	Distance float64

	MinDistance float64
	MaxDistance float64
}

// NewOrbitCamera creates an orbit camera with the default editor framing.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Target:      math3d.Zero3(),
		Yaw:         0,
		Pitch:       0.3,
		Distance:    10,
		MinDistance: 0.5,
		MaxDistance: 100,
	}
}

// Eye returns the camera position implied by the current target, angles
// and distance.
func (o *OrbitCamera) Eye() math3d.Vec3 {
	offset := math3d.V3(
		math.Sin(o.Yaw)*math.Cos(o.Pitch),
		math.Sin(o.Pitch),
		math.Cos(o.Yaw)*math.Cos(o.Pitch),
	).Scale(o.Distance)
	return o.Target.Add(offset)
}

// Rotate adjusts yaw and pitch, clamping pitch short of the poles so the
// look-at up vector never flips.
func (o *OrbitCamera) Rotate(deltaYaw, deltaPitch float64) {
	o.Yaw += deltaYaw
	o.Pitch += deltaPitch

	const maxPitch = math.Pi/2 - 0.01
	if o.Pitch > maxPitch {
		o.Pitch = maxPitch
	}
	if o.Pitch < -maxPitch {
		o.Pitch = -maxPitch
	}
}

// Zoom moves the camera toward (positive delta) or away from the target.
// The step scales with the current distance so zooming feels uniform at
// any range, and the result stays inside [MinDistance, MaxDistance].
func (o *OrbitCamera) Zoom(delta float64) {
	o.Distance -= delta * o.Distance * 0.1
	if o.Distance < o.MinDistance {
		o.Distance = o.MinDistance
	}
	if o.Distance > o.MaxDistance {
		o.Distance = o.MaxDistance
	}
}

// Pan slides the orbit target in the view plane. The step scales with
// distance so panning covers a constant fraction of the visible area.
func (o *OrbitCamera) Pan(deltaX, deltaY float64) {
	speed := o.Distance * 0.002
	right := math3d.V3(math.Cos(o.Yaw), 0, -math.Sin(o.Yaw))
	o.Target = o.Target.Add(right.Scale(-deltaX * speed))
	o.Target.Y += deltaY * speed
}

// Forward returns the unit direction from the eye toward the target.
func (o *OrbitCamera) Forward() math3d.Vec3 {
	return o.Target.Sub(o.Eye()).Normalize()
}

// Apply positions cam at the orbit eye looking at the target.
func (o *OrbitCamera) Apply(cam *Camera) {
	cam.SetPosition(o.Eye())
	cam.LookAt(o.Target)
}

// FollowCamera trails a moving entity. The look target converges on the
// entity by exponential smoothing while the eye circles it slowly, the
// chase view used by the rolling-ball scene. Convergence speed depends
// on frame rate; acceptable at interactive rates.
type FollowCamera struct {
	Target math3d.Vec3 // Smoothed look-at point
	Angle  float64     // Current orbit angle around the target

	Distance    float64 // Horizontal offset from the target
	Height      float64 // Vertical offset from the target
	Rate        float64 // Smoothing rate, higher snaps faster
	CircleSpeed float64 // Radians per second of orbit drift
}

// NewFollowCamera creates a follow camera with the chase-view defaults.
func NewFollowCamera() *FollowCamera {
	return &FollowCamera{
		Distance:    8,
		Height:      4,
		Rate:        5,
		CircleSpeed: 0.5,
	}
}

// Update advances the orbit drift and pulls the smoothed target toward
// pos. Call once per frame with the elapsed time.
func (f *FollowCamera) Update(dt float64, pos math3d.Vec3) {
	f.Angle += dt * f.CircleSpeed
	if f.Angle > 2*math.Pi {
		f.Angle -= 2 * math.Pi
	}

	t := dt * f.Rate
	if t > 1 {
		t = 1
	}
	f.Target = f.Target.Lerp(pos, t)
}

// Eye returns the camera position behind and above the smoothed target.
func (f *FollowCamera) Eye() math3d.Vec3 {
	offset := math3d.V3(
		math.Sin(f.Angle)*f.Distance,
		f.Height,
		math.Cos(f.Angle)*f.Distance,
	)
	return f.Target.Add(offset)
}

// Apply positions cam at the follow eye looking at the smoothed target.
func (f *FollowCamera) Apply(cam *Camera) {
	cam.SetPosition(f.Eye())
	cam.LookAt(f.Target)
}
