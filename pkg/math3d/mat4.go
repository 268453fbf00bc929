package math3d

import "math"

// Mat4 is a 4x4 transform matrix, stored flat in column-major order:
//
//	| m0 m4 m8  m12 |
//	| m1 m5 m9  m13 |
//	| m2 m6 m10 m14 |
//	| m3 m7 m11 m15 |
//
// Columns 0-2 hold the rotated and scaled basis vectors, column 3 the
// translation. Mul composes right to left: T.Mul(R).Mul(S) scales
// first, rotates second, translates last.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a matrix moving points by v.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale returns a matrix scaling each axis by the matching component
// of v.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform returns a matrix scaling all axes by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX returns a rotation of angle radians around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation of angle radians around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation of angle radians around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate returns a rotation of angle radians around an arbitrary axis.
// The axis is normalized before use.
func Rotate(axis Vec3, angle float64) Mat4 {
	n := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	ic := 1 - c
	x, y, z := n.X, n.Y, n.Z

	return Mat4{
		ic*x*x + c, ic*x*y + s*z, ic*x*z - s*y, 0,
		ic*x*y - s*z, ic*y*y + c, ic*y*z + s*x, 0,
		ic*x*z + s*y, ic*y*z - s*x, ic*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// LookAt returns a view matrix for a camera at eye looking toward
// center. View space looks down -Z.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	right := fwd.Cross(up).Normalize()
	top := right.Cross(fwd)

	return Mat4{
		right.X, top.X, -fwd.X, 0,
		right.Y, top.Y, -fwd.Y, 0,
		right.Z, top.Z, -fwd.Z, 0,
		-right.Dot(eye), -top.Dot(eye), fwd.Dot(eye), 1,
	}
}

// Perspective returns a projection matrix with the given vertical field
// of view in radians and width/height aspect. Depth maps to [-1, 1]
// between the near and far planes.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	focal := 1 / math.Tan(fovy/2)
	depth := 1 / (near - far)

	return Mat4{
		focal / aspect, 0, 0, 0,
		0, focal, 0, 0,
		0, 0, (far + near) * depth, -1,
		0, 0, 2 * far * near * depth, 0,
	}
}

// Orthographic returns a projection mapping the given box to the unit
// cube with no perspective.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	w := 1 / (right - left)
	h := 1 / (top - bottom)
	d := 1 / (far - near)

	return Mat4{
		2 * w, 0, 0, 0,
		0, 2 * h, 0, 0,
		0, 0, -2 * d, 0,
		-(right + left) * w, -(top + bottom) * h, -(far + near) * d, 1,
	}
}

// Mul returns the matrix product m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := range 4 {
		base := col * 4
		for row := range 4 {
			out[base+row] = m[row]*n[base] +
				m[row+4]*n[base+1] +
				m[row+8]*n[base+2] +
				m[row+12]*n[base+3]
		}
	}
	return out
}

// MulVec3 transforms v as a point (w=1) and applies the perspective
// divide when the matrix produces a non-unit w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction (w=0), ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

// MulVec4 transforms a homogeneous point.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for col := range 4 {
		for row := range 4 {
			out[col+row*4] = m[row+col*4]
		}
	}
	return out
}

// minors returns the twelve 2x2 sub-determinants shared by Determinant
// and Inverse: top holds the minors of the upper two rows, bottom those
// of the lower two.
func (m Mat4) minors() (top, bottom [6]float64) {
	top = [6]float64{
		m[0]*m[5] - m[1]*m[4],
		m[0]*m[6] - m[2]*m[4],
		m[0]*m[7] - m[3]*m[4],
		m[1]*m[6] - m[2]*m[5],
		m[1]*m[7] - m[3]*m[5],
		m[2]*m[7] - m[3]*m[6],
	}
	bottom = [6]float64{
		m[8]*m[13] - m[9]*m[12],
		m[8]*m[14] - m[10]*m[12],
		m[8]*m[15] - m[11]*m[12],
		m[9]*m[14] - m[10]*m[13],
		m[9]*m[15] - m[11]*m[13],
		m[10]*m[15] - m[11]*m[14],
	}
	return top, bottom
}

// Determinant returns the matrix determinant.
func (m Mat4) Determinant() float64 {
	s, c := m.minors()
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Inverse returns the inverted matrix, or the identity when the matrix
// is singular.
func (m Mat4) Inverse() Mat4 {
	s, c := m.minors()
	det := s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	if det == 0 {
		return Identity()
	}
	id := 1 / det

	return Mat4{
		(m[5]*c[5] - m[6]*c[4] + m[7]*c[3]) * id,
		(m[2]*c[4] - m[1]*c[5] - m[3]*c[3]) * id,
		(m[13]*s[5] - m[14]*s[4] + m[15]*s[3]) * id,
		(m[10]*s[4] - m[9]*s[5] - m[11]*s[3]) * id,

		(m[6]*c[2] - m[4]*c[5] - m[7]*c[1]) * id,
		(m[0]*c[5] - m[2]*c[2] + m[3]*c[1]) * id,
		(m[14]*s[2] - m[12]*s[5] - m[15]*s[1]) * id,
		(m[8]*s[5] - m[10]*s[2] + m[11]*s[1]) * id,

		(m[4]*c[4] - m[5]*c[2] + m[7]*c[0]) * id,
		(m[1]*c[2] - m[0]*c[4] - m[3]*c[0]) * id,
		(m[12]*s[4] - m[13]*s[2] + m[15]*s[0]) * id,
		(m[9]*s[2] - m[8]*s[4] - m[11]*s[0]) * id,

		(m[5]*c[1] - m[4]*c[3] - m[6]*c[0]) * id,
		(m[0]*c[3] - m[1]*c[1] + m[2]*c[0]) * id,
		(m[13]*s[1] - m[12]*s[3] - m[14]*s[0]) * id,
		(m[8]*s[3] - m[9]*s[1] + m[10]*s[0]) * id,
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set writes the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Translation extracts the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// SetTranslation overwrites the translation column.
func (m *Mat4) SetTranslation(v Vec3) {
	m[12], m[13], m[14] = v.X, v.Y, v.Z
}
