package math3d

// Vec4 is a homogeneous 3D point. The renderer carries positions
// through clip space as Vec4s and divides by W on the way out.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 returns the vector (x, y, z, w).
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 lifts v into homogeneous coordinates with the given w.
// Use w=1 for points, w=0 for directions.
func V4FromV3(v Vec3, w float64) Vec4 {
	return V4(v.X, v.Y, v.Z, w)
}

// Vec3 drops W without dividing.
func (v Vec4) Vec3() Vec3 {
	return V3(v.X, v.Y, v.Z)
}

// PerspectiveDivide returns the Vec3 after dividing by W. A zero W
// passes the components through unchanged.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	inv := 1 / v.W
	return V3(v.X*inv, v.Y*inv, v.Z*inv)
}
