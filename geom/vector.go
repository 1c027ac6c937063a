// Package geom implements the geometry kernel: 3-vectors, 3x3 rotations,
// rigid transforms and point-set superposition.
//
// Rotations are carried as explicit 3x3 matrices rather than quaternions
// so that composing many placements stays numerically reproducible;
// quaternions never appear except implicitly inside the SVD used by
// Superpose.
package geom

import "math"

// Vec is a point or free vector in R^3.
type Vec struct {
	X, Y, Z float64
}

// Add returns p+q.
func (p Vec) Add(q Vec) Vec {
	return Vec{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p-q.
func (p Vec) Sub(q Vec) Vec {
	return Vec{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by f.
func (p Vec) Scale(f float64) Vec {
	return Vec{p.X * f, p.Y * f, p.Z * f}
}

// Dot returns the dot product of p and q.
func (p Vec) Dot(q Vec) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Norm returns the Euclidean length of p.
func (p Vec) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Dist returns the Euclidean distance between p and q.
func (p Vec) Dist(q Vec) float64 {
	return p.Sub(q).Norm()
}
