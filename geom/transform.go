package geom

import "math"

// Transform is a rigid body motion p -> R*p + T.
type Transform struct {
	R Mat
	T Vec
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{R: Identity()}
}

// Apply returns R*p + T.
func (t Transform) Apply(p Vec) Vec {
	return t.R.MulVec(p).Add(t.T)
}

// ApplyPoints applies t to every point of ps, returning a new slice.
func (t Transform) ApplyPoints(ps []Vec) []Vec {
	out := make([]Vec, len(ps))
	for i, p := range ps {
		out[i] = t.Apply(p)
	}
	return out
}

// Compose returns t1 ∘ t2, i.e. the transform that first applies t2, then
// t1: (R1,T1) ∘ (R2,T2) = (R1*R2, R1*T2 + T1).
func Compose(t1, t2 Transform) Transform {
	return Transform{
		R: t1.R.Mul(t2.R),
		T: t1.R.MulVec(t2.T).Add(t1.T),
	}
}

// Inverse returns the inverse of t: (Rᵀ, -Rᵀ*T).
func (t Transform) Inverse() Transform {
	rt := t.R.T()
	return Transform{
		R: rt,
		T: rt.MulVec(t.T).Scale(-1),
	}
}

// RMSD applies t to b and returns the RMS distance to a. a and b must be
// the same length and non-empty.
func RMSD(a, b []Vec, t Transform) float64 {
	if len(a) != len(b) || len(a) == 0 {
		panic("geom: RMSD requires equal-length, non-empty point sets")
	}
	var sum float64
	for i := range a {
		d := a[i].Sub(t.Apply(b[i]))
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(a)))
}

// RotX, RotY, RotZ return the elemental rotation matrices about the X, Y
// and Z axes by angle radians (right-handed).
func RotX(angle float64) Mat {
	s, c := math.Sincos(angle)
	return Mat{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func RotY(angle float64) Mat {
	s, c := math.Sincos(angle)
	return Mat{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func RotZ(angle float64) Mat {
	s, c := math.Sincos(angle)
	return Mat{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// FromEulerXYZ builds a rotation matrix from X->Y->Z intrinsic Euler angles
// (radians): first rotate about the body X axis, then the (rotated) Y
// axis, then the (twice rotated) Z axis. As a matrix product,
// R = Rx(rx) * Ry(ry) * Rz(rz).
func FromEulerXYZ(rx, ry, rz float64) Mat {
	return RotX(rx).Mul(RotY(ry)).Mul(RotZ(rz))
}

// ToEulerXYZ is the inverse of FromEulerXYZ: it recovers X->Y->Z intrinsic
// Euler angles (radians) from a rotation matrix produced by FromEulerXYZ
// (or any other proper rotation).
func ToEulerXYZ(m Mat) (rx, ry, rz float64) {
	cy := math.Hypot(m.At(0, 0), m.At(0, 1))
	const gimbalEps = 1e-8
	if cy > gimbalEps {
		rx = math.Atan2(-m.At(1, 2), m.At(2, 2))
		ry = math.Atan2(m.At(0, 2), cy)
		rz = math.Atan2(-m.At(0, 1), m.At(0, 0))
		return
	}
	// Gimbal lock: ry is +-pi/2, rx and rz collapse onto the same axis.
	rx = math.Atan2(m.At(2, 1), m.At(1, 1))
	ry = math.Atan2(m.At(0, 2), cy)
	rz = 0
	return
}

// NewTransformFromEuler builds a Transform from the wire representation
// used by the transform-pool files: X->Y->Z intrinsic Euler angles in
// radians plus a translation in Angstrom.
func NewTransformFromEuler(rx, ry, rz, tx, ty, tz float64) Transform {
	return Transform{R: FromEulerXYZ(rx, ry, rz), T: Vec{tx, ty, tz}}
}

// Euler returns t's rotation as X->Y->Z intrinsic Euler angles (radians)
// and its translation (Angstrom), the inverse of NewTransformFromEuler.
func (t Transform) Euler() (rx, ry, rz, tx, ty, tz float64) {
	rx, ry, rz = ToEulerXYZ(t.R)
	return rx, ry, rz, t.T.X, t.T.Y, t.T.Z
}
