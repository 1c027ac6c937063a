// Package superbb implements the incremental assembly state: a partial
// or complete placement of chain slots into one shared world frame, and
// the composition rule that grows one SuperBB out of two smaller ones.
package superbb

import (
	"github.com/laastos/combfold/bitset"
	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/restraint"
	"github.com/laastos/combfold/slots"
)

// SuperBB is an immutable partial assembly: an ordered set of chain
// slots, each with a world-frame rigid transform, a cached score and a
// cached restraint verdict. Composition never mutates an existing
// SuperBB; it always returns a new one.
type SuperBB struct {
	Members    []int
	Placements []geom.Transform // parallel to Members

	Identity bitset.Set

	// ScoreNumerator and TransUsedCount accumulate, respectively, the
	// running sum of (transform score * 1) and the running count of pair
	// transforms consumed along this SuperBB's composition history.
	ScoreNumerator float64
	TransUsedCount int

	// Constraints is the restraint verdict decidable at this SuperBB's
	// current content (satisfied/violated/deferred counts and weights).
	Constraints restraint.Verdict

	// Score is the cached composite score: weighted transform score plus
	// the constraint bonus, as of construction.
	Score float64
}

// Singleton builds the one-member SuperBB for chain slot id, placed at
// the identity transform in its own local frame.
func Singleton(id int) *SuperBB {
	return &SuperBB{
		Members:    []int{id},
		Placements: []geom.Transform{geom.IdentityTransform()},
		Identity:   bitset.Of(id),
	}
}

// Placement returns the world-frame transform of slotID, implementing
// restraint.Placements.
func (s *SuperBB) Placement(slotID int) (geom.Transform, bool) {
	for i, m := range s.Members {
		if m == slotID {
			return s.Placements[i], true
		}
	}
	return geom.Transform{}, false
}

// WeightedTransScore is ScoreNumerator / TransUsedCount, or 0 if nothing
// has been consumed yet (a bare singleton). This is the raw pairwise-
// transform component of Score, before any restraint bonus.
func (s *SuperBB) WeightedTransScore() float64 {
	if s.TransUsedCount == 0 {
		return 0
	}
	return s.ScoreNumerator / float64(s.TransUsedCount)
}

// recomputeScore fills s.Score from s.ScoreNumerator/TransUsedCount and
// s.Constraints, using the full-size bonus form when every chain slot in
// spec is placed, or the partial form otherwise.
func (s *SuperBB) recomputeScore(spec *slots.Spec, bonusWeight float64) {
	bonus := s.Constraints.BonusDecided(bonusWeight)
	if s.Identity.Popcount() == spec.N() {
		bonus = s.Constraints.Bonus(bonusWeight)
	}
	s.Score = s.WeightedTransScore() + bonus
}

// Less orders SuperBBs best first: higher Score wins; ties break by
// larger TransUsedCount, then by lexicographically smaller Identity so
// the order is fully deterministic.
func Less(a, b *SuperBB) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.TransUsedCount != b.TransUsedCount {
		return a.TransUsedCount > b.TransUsedCount
	}
	return a.Identity.Less(b.Identity)
}
