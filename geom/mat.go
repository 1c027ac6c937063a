package geom

// Mat is a 3x3 matrix stored in row-major order. The zero value is the
// zero matrix, not the identity; use Identity for that.
type Mat [9]float64

// Identity returns the 3x3 identity matrix.
func Identity() Mat {
	return Mat{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// At returns the element at row i, column j (0-based).
func (m Mat) At(i, j int) float64 {
	return m[i*3+j]
}

// MulVec returns M*v.
func (m Mat) MulVec(v Vec) Vec {
	return Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Mul returns the matrix product m*n.
func (m Mat) Mul(n Mat) Mat {
	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m.At(i, k) * n.At(k, j)
			}
			r[i*3+j] = sum
		}
	}
	return r
}

// T returns the transpose of m.
func (m Mat) T() Mat {
	return Mat{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Det returns the determinant of m.
func (m Mat) Det() float64 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}
