package geom

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateInput is returned by Superpose when the input point sets
// have too little spread (fewer than 3 non-collinear points, or all points
// coincident) to determine a unique rotation.
var ErrDegenerateInput = errors.New("geom: degenerate input (need >= 3 non-collinear points)")

// minVariance is the per-axis variance threshold below which a point set
// is considered degenerate. Mirrors the default threshold used by
// gonum's spatial/transform.Umeyama.
const minVariance = 1e-10

// Superpose finds the rigid transform T minimizing RMSD(a, b, T), i.e. the
// least-squares rotation and translation that best maps b onto a. a and b
// must have equal, non-zero length and corresponding indices must refer to
// the same physical point. It fails with ErrDegenerateInput when the point
// sets are too degenerate (collinear or coincident) to fix a rotation
// uniquely, per the closed-form solution of:
//
//	Umeyama, S. "Least-Squares Estimation of Transformation Parameters
//	Between Two Point Patterns", IEEE TPAMI 13(4), 1991.
//
// This is the rigid (no-scale) specialization of that algorithm: the
// scale factor is fixed to 1 and discarded.
func Superpose(a, b []Vec) (Transform, error) {
	if len(a) != len(b) {
		panic("geom: Superpose requires equal-length point sets")
	}
	n := len(a)
	if n < 3 {
		return Transform{}, ErrDegenerateInput
	}

	x := mat.NewDense(n, 3, nil) // moving set (b)
	y := mat.NewDense(n, 3, nil) // target set (a)
	for i := 0; i < n; i++ {
		x.SetRow(i, []float64{b[i].X, b[i].Y, b[i].Z})
		y.SetRow(i, []float64{a[i].X, a[i].Y, a[i].Z})
	}

	var muX, muY [3]float64
	var varX float64
	col := make([]float64, n)
	for j := 0; j < 3; j++ {
		mat.Col(col, j, x)
		meanX, vj := stat.PopMeanVariance(col, nil)
		muX[j] = meanX
		varX += vj

		mat.Col(col, j, y)
		muY[j] = stat.Mean(col, nil)
	}
	if varX <= minVariance {
		return Transform{}, ErrDegenerateInput
	}

	xc := mat.NewDense(n, 3, nil)
	yc := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			xc.Set(i, j, x.At(i, j)-muX[j])
			yc.Set(i, j, y.At(i, j)-muY[j])
		}
	}

	// varX alone only catches every point coincident; it stays large for
	// points spread along a single line in any direction, since it's the
	// trace of b's covariance, not its rank. Reject that case too: a
	// collinear b's centered second-moment matrix has rank 1, so its
	// second-largest singular value collapses to zero.
	covB := mat.NewDense(3, 3, nil)
	covB.Mul(xc.T(), xc)
	covB.Scale(1/float64(n), covB)
	var svdB mat.SVD
	if !svdB.Factorize(covB, mat.SVDNone) {
		return Transform{}, fmt.Errorf("geom: SVD factorization failed during superposition")
	}
	if svalsB := svdB.Values(nil); len(svalsB) < 2 || svalsB[1] <= minVariance {
		return Transform{}, ErrDegenerateInput
	}

	cov := mat.NewDense(3, 3, nil)
	cov.Mul(yc.T(), xc)
	cov.Scale(1/float64(n), cov)

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return Transform{}, fmt.Errorf("geom: SVD factorization failed during superposition")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	s := mat.NewDiagDense(3, []float64{1, 1, 1})
	if mat.Det(&u)*mat.Det(&v) < 0 {
		s.SetDiag(2, -1)
	}

	var rDense mat.Dense
	rDense.Product(&u, s, v.T())

	var r Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = rDense.At(i, j)
		}
	}

	muXVec := Vec{muX[0], muX[1], muX[2]}
	muYVec := Vec{muY[0], muY[1], muY[2]}
	t := muYVec.Sub(r.MulVec(muXVec))

	return Transform{R: r, T: t}, nil
}
