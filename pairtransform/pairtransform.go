// Package pairtransform implements the pool of candidate pair transforms:
// rigid placements of one chain slot of subunit type B relative to one
// chain slot of type A, each annotated with a confidence score, grouped
// by unordered type pair and sorted by score descending.
package pairtransform

import "github.com/laastos/combfold/geom"

// PairTransform is one candidate placement of type B relative to type A:
// Transform sends points in B's local frame into A's local frame.
type PairTransform struct {
	TypeA, TypeB string
	Transform    geom.Transform
	Score        float64 // in [0, 100]
	Provenance   string
}

// reversed returns the same physical placement expressed the other way
// around: a PairTransform that sends A's local frame into B's, i.e. the
// inverse transform with A and B swapped. Score and Provenance carry
// over unchanged since they describe the same underlying prediction.
func (p PairTransform) reversed() PairTransform {
	return PairTransform{
		TypeA:      p.TypeB,
		TypeB:      p.TypeA,
		Transform:  p.Transform.Inverse(),
		Score:      p.Score,
		Provenance: p.Provenance,
	}
}
