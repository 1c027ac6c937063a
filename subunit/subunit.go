// Package subunit models a single subunit type: its backbone point cloud,
// a spatial hash grid over those points, and the per-atom confidence
// field used to gate collision and penetration queries.
package subunit

import (
	"math"

	"github.com/laastos/combfold/geom"
)

// Type is one subunit type: a distinct protein-chain sequence with a
// fixed set of interchangeable chain labels. It is constructed once at
// input load and never mutated during search.
type Type struct {
	// Name identifies the subunit type stably across a run.
	Name string
	// Chains lists this type's chain labels, one per interchangeable
	// copy; len(Chains) is the type's multiplicity.
	Chains []string
	// Residues is the ordered residue-id sequence; Residues[i]
	// corresponds to Points[i].
	Residues []int
	// Points is the local-frame backbone point cloud, one representative
	// atom (Cα) per residue.
	Points []geom.Vec
	// Confidence holds a per-point confidence value in [0, 100],
	// B-factor style, used to gate which atoms count as collidable.
	Confidence []float64
	// Radius is the bounding-sphere radius of Points about Centroid, used
	// for cheap broad-phase overlap tests.
	Radius float64
	// Centroid is the local-frame mean of Points.
	Centroid geom.Vec

	grid *Grid
}

// New builds a Type from an already-parsed backbone (as produced by
// LoadFromPDB), bucketing its points into a spatial hash grid of the
// given cell size.
func New(name string, chains []string, residues []int, points []geom.Vec, confidence []float64, gridResolution float64) *Type {
	if len(residues) != len(points) || len(points) != len(confidence) {
		panic("subunit: residues, points and confidence must have equal length")
	}
	centroid, radius := boundingSphere(points)
	return &Type{
		Name:       name,
		Chains:     chains,
		Residues:   residues,
		Points:     points,
		Confidence: confidence,
		Radius:     radius,
		Centroid:   centroid,
		grid:       newGrid(points, gridResolution),
	}
}

// LoadFromPDB builds a Type named name, with the given chain labels, by
// reading its backbone trace from a PDB file at path.
func LoadFromPDB(name string, chains []string, path string, gridResolution float64) (*Type, error) {
	residues, points, confidence, err := loadBackbonePDB(path)
	if err != nil {
		return nil, err
	}
	return New(name, chains, residues, points, confidence, gridResolution), nil
}

// ResidueIndex returns the index into Points/Confidence of residue id,
// or -1 if not present.
func (t *Type) ResidueIndex(residue int) int {
	for i, r := range t.Residues {
		if r == residue {
			return i
		}
	}
	return -1
}

// AboveThreshold returns the number of t's own points whose confidence is
// at least confThreshold, the denominator of a chain slot's backbone
// collision ratio.
func (t *Type) AboveThreshold(confThreshold float64) int {
	n := 0
	for _, c := range t.Confidence {
		if c >= confThreshold {
			n++
		}
	}
	return n
}

func boundingSphere(points []geom.Vec) (centroid geom.Vec, radius float64) {
	if len(points) == 0 {
		return geom.Vec{}, 0
	}
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(points)))
	var maxR2 float64
	for _, p := range points {
		d := p.Sub(centroid)
		if r2 := d.Dot(d); r2 > maxR2 {
			maxR2 = r2
		}
	}
	return centroid, math.Sqrt(maxR2)
}
