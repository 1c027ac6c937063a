package superbb

import (
	"github.com/laastos/combfold/assemblyerr"
	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/internal/config"
	"github.com/laastos/combfold/pairtransform"
	"github.com/laastos/combfold/restraint"
	"github.com/laastos/combfold/slots"
)

// Policy holds the CLI-visible gate thresholds of a run.
type Policy struct {
	PenetrationThr                    float64
	RestraintsRatio                   float64
	MaxBackboneCollisionPerChain      float64
	MinTemperatureToConsiderCollision float64
}

// Compose attempts to place B into A's world frame via the candidate
// PairTransform p, anchored at connector chain slots cA (in A.Identity)
// and cB (in B.Identity), and runs every gate of the composition
// contract in order. It returns an *assemblyerr.Error on rejection.
func Compose(a, b *SuperBB, p pairtransform.PairTransform, cA, cB int, spec *slots.Spec, restraints []*restraint.Restraint, cfg *config.Static, policy Policy) (*SuperBB, error) {
	if !a.Identity.Disjoint(b.Identity) {
		return nil, assemblyerr.New(assemblyerr.IncompatibleOverlap, "identities overlap: %v and %v", a.Identity, b.Identity)
	}

	worldCA, ok := a.Placement(cA)
	if !ok {
		return nil, assemblyerr.New(assemblyerr.IncompatibleOverlap, "connector %d not in A", cA)
	}
	localCB, ok := b.Placement(cB)
	if !ok {
		return nil, assemblyerr.New(assemblyerr.IncompatibleOverlap, "connector %d not in B", cB)
	}
	align := geom.Compose(geom.Compose(worldCA, p.Transform), localCB.Inverse())

	c := &SuperBB{
		Members:        make([]int, 0, len(a.Members)+len(b.Members)),
		Placements:     make([]geom.Transform, 0, len(a.Members)+len(b.Members)),
		Identity:       a.Identity.Union(b.Identity),
		ScoreNumerator: a.ScoreNumerator + b.ScoreNumerator + p.Score,
		TransUsedCount: a.TransUsedCount + b.TransUsedCount + 1,
	}
	c.Members = append(c.Members, a.Members...)
	c.Placements = append(c.Placements, a.Placements...)
	for i, m := range b.Members {
		c.Members = append(c.Members, m)
		c.Placements = append(c.Placements, geom.Compose(align, b.Placements[i]))
	}

	if err := checkDuplicatePlacements(c, spec, cfg.DuplicatePlacementEpsilon); err != nil {
		return nil, err
	}
	if err := checkCollisions(c, spec, policy, cfg.BackboneAtomRadius); err != nil {
		return nil, err
	}

	verdict := restraint.Evaluate(restraints, c)
	if verdict.Ratio(cfg.ConstraintEpsilon) > policy.RestraintsRatio {
		return nil, assemblyerr.New(assemblyerr.ConstraintViolation, "violated-weight ratio %.3f > %.3f", verdict.Ratio(cfg.ConstraintEpsilon), policy.RestraintsRatio)
	}
	c.Constraints = verdict

	c.recomputeScore(spec, cfg.ConstraintBonusWeight)
	return c, nil
}

// checkDuplicatePlacements rejects C when two of its members share a
// SubunitType and their world-frame translations fall within eps of one
// another (the "no duplicate placement" invariant).
func checkDuplicatePlacements(c *SuperBB, spec *slots.Spec, eps float64) error {
	for i := 0; i < len(c.Members); i++ {
		ti := spec.Slot(c.Members[i]).Type
		for j := i + 1; j < len(c.Members); j++ {
			if spec.Slot(c.Members[j]).Type != ti {
				continue
			}
			if c.Placements[i].T.Dist(c.Placements[j].T) < eps {
				return assemblyerr.New(assemblyerr.DuplicatePlacement, "slots %d and %d of type %s coincide", c.Members[i], c.Members[j], ti.Name)
			}
		}
	}
	return nil
}
