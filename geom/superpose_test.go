package geom

import (
	"errors"
	"testing"
)

func TestSuperposeRecoversKnownTransform(t *testing.T) {
	want := NewTransformFromEuler(0.2, -0.4, 0.9, 3, -1, 5)
	b := []Vec{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}
	a := want.ApplyPoints(b)

	got, err := Superpose(a, b)
	if err != nil {
		t.Fatalf("Superpose: %v", err)
	}
	if rmsd := RMSD(a, b, got); rmsd > 1e-6 {
		t.Fatalf("recovered transform has high RMSD: %v", rmsd)
	}
}

func TestSuperposeDegenerateCollinear(t *testing.T) {
	a := []Vec{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	b := []Vec{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	_, err := Superpose(a, b)
	if !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestSuperposeDegenerateTooFewPoints(t *testing.T) {
	a := []Vec{{0, 0, 0}, {1, 1, 1}}
	b := []Vec{{0, 0, 0}, {1, 1, 1}}
	_, err := Superpose(a, b)
	if !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestSuperposeNoisy(t *testing.T) {
	want := NewTransformFromEuler(0.1, 0.2, -0.3, 1, 2, 3)
	b := []Vec{
		{0, 0, 0}, {2, 0, 0}, {0, 3, 0}, {0, 0, 4}, {1, 1, 1}, {-1, 2, -2},
	}
	a := want.ApplyPoints(b)
	// Perturb one coordinate slightly; superposition should still be close.
	a[0].X += 0.01

	got, err := Superpose(a, b)
	if err != nil {
		t.Fatalf("Superpose: %v", err)
	}
	if rmsd := RMSD(a, b, got); rmsd > 0.05 {
		t.Fatalf("unexpectedly high RMSD for noisy input: %v", rmsd)
	}
}
