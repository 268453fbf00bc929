package render

import (
	"math"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
)

func vecClose(a, b math3d.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestOrbitEye(t *testing.T) {
	tests := []struct {
		name     string
		target   math3d.Vec3
		yaw      float64
		pitch    float64
		distance float64
		want     math3d.Vec3
	}{
		{"level behind target", math3d.Zero3(), 0, 0, 10, math3d.V3(0, 0, 10)},
		{"quarter turn", math3d.Zero3(), math.Pi / 2, 0, 10, math3d.V3(10, 0, 0)},
		{"straight up limit", math3d.Zero3(), 0, math.Pi / 2, 5, math3d.V3(0, 5, 0)},
		{"offset target", math3d.V3(1, 2, 3), 0, 0, 4, math3d.V3(1, 2, 7)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewOrbitCamera()
			o.Target = tc.target
			o.Yaw = tc.yaw
			o.Pitch = tc.pitch
			o.Distance = tc.distance

			if got := o.Eye(); !vecClose(got, tc.want, 1e-9) {
				t.Errorf("Eye() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOrbitEyeDistanceInvariant(t *testing.T) {
	o := NewOrbitCamera()
	o.Target = math3d.V3(-3, 1, 7)

	for i := range 50 {
		o.Rotate(0.37, 0.21)
		o.Zoom(float64(i%5) - 2)

		got := o.Eye().Sub(o.Target).Len()
		if math.Abs(got-o.Distance) > 1e-9 {
			t.Fatalf("step %d: |eye-target| = %v, want %v", i, got, o.Distance)
		}
	}
}

func TestOrbitPitchClamp(t *testing.T) {
	o := NewOrbitCamera()

	upper := math.Pi/2 - 0.01

	o.Rotate(0, 100)
	if o.Pitch > upper {
		t.Errorf("pitch %v exceeds upper clamp %v", o.Pitch, upper)
	}

	o.Rotate(0, -200)
	if o.Pitch < -upper {
		t.Errorf("pitch %v exceeds lower clamp %v", o.Pitch, -upper)
	}

	// Clamped pitch must keep the view direction off the poles so
	// LookAt's fixed up vector stays valid.
	o.Apply(NewCamera())
}

func TestOrbitZoomClamp(t *testing.T) {
	o := NewOrbitCamera()

	for range 200 {
		o.Zoom(10)
	}
	if o.Distance < o.MinDistance {
		t.Errorf("distance %v below minimum %v", o.Distance, o.MinDistance)
	}

	for range 200 {
		o.Zoom(-10)
	}
	if o.Distance > o.MaxDistance {
		t.Errorf("distance %v above maximum %v", o.Distance, o.MaxDistance)
	}
}

func TestOrbitPanMovesTargetNotAngles(t *testing.T) {
	o := NewOrbitCamera()
	yaw, pitch, dist := o.Yaw, o.Pitch, o.Distance

	o.Pan(40, -25)

	if o.Target == math3d.Zero3() {
		t.Error("Pan() left target unchanged")
	}
	if o.Yaw != yaw || o.Pitch != pitch || o.Distance != dist {
		t.Error("Pan() changed orbit angles or distance")
	}
}

func TestFollowCameraConverges(t *testing.T) {
	f := NewFollowCamera()
	goal := math3d.V3(4, 1, -30)

	for range 300 {
		f.Update(1.0/60, goal)
	}

	if d := f.Target.Sub(goal).Len(); d > 0.01 {
		t.Errorf("target %v still %v away from %v after 5s", f.Target, d, goal)
	}
}

func TestFollowCameraLargeStepDoesNotOvershoot(t *testing.T) {
	f := NewFollowCamera()
	goal := math3d.V3(10, 0, 0)

	// Rate 5 with dt 0.5 would extrapolate past the goal without the
	// interpolation factor cap.
	f.Update(0.5, goal)

	if f.Target.X > goal.X+1e-9 {
		t.Errorf("target overshot to %v", f.Target)
	}
}

func TestFollowCameraEyeOffset(t *testing.T) {
	f := NewFollowCamera()
	f.Target = math3d.V3(0, 0, -20)
	f.Angle = 0

	want := math3d.V3(0, f.Height, f.Distance).Add(f.Target)
	if got := f.Eye(); !vecClose(got, want, 1e-9) {
		t.Errorf("Eye() = %v, want %v", got, want)
	}
}
