package render

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Camera is a perspective camera. Scenes rarely drive it directly;
// OrbitCamera and FollowCamera place it each frame through SetPosition
// and LookAt.
//
// Mutate through the setters so the cached matrices stay in sync.
type Camera struct {
	Position math3d.Vec3

	// Orientation as Euler angles in radians. Pitch looks up and
	// down, yaw left and right, roll tilts the horizon.
	Pitch float64
	Yaw   float64
	Roll  float64

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64
	Near        float64
	Far         float64

	view      math3d.Mat4
	proj      math3d.Mat4
	viewProj  math3d.Mat4
	viewStale bool
	projStale bool
}

// NewCamera returns a camera pulled back on +Z looking toward the
// origin, with a 60 degree vertical field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewStale:   true,
		projStale:   true,
	}
}

// SetPosition moves the camera to pos.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewStale = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projStale = true
}

// SetAspectRatio sets width over height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projStale = true
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projStale = true
}

// LookAt orients the camera toward target from its current position.
// Roll resets to zero, the horizon stays level.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0

	c.viewStale = true
}

// Rotate adjusts the orientation by the given deltas, keeping pitch
// just short of straight up or down.
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	const maxPitch = math.Pi/2 - 0.01

	c.Pitch += deltaPitch
	c.Yaw += deltaYaw
	c.Roll += deltaRoll
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
	c.viewStale = true
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.refresh()
	return c.view
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.refresh()
	return c.proj
}

// ViewProjectionMatrix returns projection times view, the transform
// the rasterizer pushes every vertex through.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.refresh()
	return c.viewProj
}

// refresh recomputes whichever cached matrices a setter invalidated.
func (c *Camera) refresh() {
	if !c.viewStale && !c.projStale {
		return
	}
	if c.viewStale {
		// Invert the camera orientation and position: rotate the
		// world by the negated angles, then pull it back by the
		// negated position. Order matters, translation runs first.
		orient := math3d.RotateZ(-c.Roll).
			Mul(math3d.RotateX(-c.Pitch)).
			Mul(math3d.RotateY(-c.Yaw))
		c.view = orient.Mul(math3d.Translate(c.Position.Negate()))
		c.viewStale = false
	}
	if c.projStale {
		c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projStale = false
	}
	c.viewProj = c.proj.Mul(c.view)
}

// WorldToScreen projects a world point to pixel coordinates. The
// returned depth is the NDC z in [-1, 1]. visible reports whether the
// point survived clipping; when false the other values are zero.
func (c *Camera) WorldToScreen(p math3d.Vec3, screenW, screenH int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))

	// Points at or behind the eye have no screen position.
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	// NDC y points up, pixel y points down.
	x = (ndc.X + 1) * 0.5 * float64(screenW)
	y = (1 - ndc.Y) * 0.5 * float64(screenH)
	return x, y, ndc.Z, true
}
