package subunit

import (
	"testing"

	"github.com/laastos/combfold/geom"
)

func line(n int, spacing float64) ([]int, []geom.Vec, []float64) {
	residues := make([]int, n)
	points := make([]geom.Vec, n)
	confidence := make([]float64, n)
	for i := 0; i < n; i++ {
		residues[i] = i + 1
		points[i] = geom.Vec{X: float64(i) * spacing}
		confidence[i] = 100
	}
	return residues, points, confidence
}

func TestNewAndResidueIndex(t *testing.T) {
	residues, points, confidence := line(5, 3.8)
	ty := New("A", []string{"A"}, residues, points, confidence, 4.0)
	if idx := ty.ResidueIndex(3); idx != 2 {
		t.Fatalf("ResidueIndex(3) = %d, want 2", idx)
	}
	if idx := ty.ResidueIndex(99); idx != -1 {
		t.Fatalf("ResidueIndex(99) = %d, want -1", idx)
	}
	if ty.Radius <= 0 {
		t.Fatalf("expected positive bounding radius, got %v", ty.Radius)
	}
}

func TestCollidingPointsRespectsThreshold(t *testing.T) {
	residues, points, confidence := line(3, 0) // all points at origin
	ty := New("A", []string{"A"}, residues, points, confidence, 4.0)

	other := []geom.Vec{{X: 0.1}}
	otherConf := []float64{100}
	if got := ty.CollidingPoints(other, otherConf, 50); len(got) != 1 {
		t.Fatalf("expected 1 colliding point at high confidence, got %d", len(got))
	}

	low := []float64{10}
	if got := ty.CollidingPoints(other, low, 50); len(got) != 0 {
		t.Fatalf("expected 0 colliding points below threshold, got %d", len(got))
	}

	far := []geom.Vec{{X: 1000}}
	if got := ty.CollidingPoints(far, otherConf, 50); len(got) != 0 {
		t.Fatalf("expected 0 colliding points far away, got %d", len(got))
	}
}

func TestMaxPenetrationDepthPositiveOnOverlap(t *testing.T) {
	residues, points, confidence := line(1, 0)
	ty := New("A", []string{"A"}, residues, points, confidence, 4.0)

	overlapping := []geom.Vec{{X: 0.5}}
	conf := []float64{100}
	depth := ty.MaxPenetrationDepth(overlapping, conf, 50, 1.9)
	if depth <= 0 {
		t.Fatalf("expected positive penetration depth, got %v", depth)
	}

	farAway := []geom.Vec{{X: 1000}}
	depth = ty.MaxPenetrationDepth(farAway, conf, 50, 1.9)
	if depth > -1.0 {
		t.Fatalf("expected deeply negative (no overlap) depth, got %v", depth)
	}
}
