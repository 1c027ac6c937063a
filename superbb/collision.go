package superbb

import (
	"github.com/laastos/combfold/assemblyerr"
	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/slots"
)

// checkCollisions runs the backbone-collision and penetration gates over
// every pair of c's members whose bounding spheres overlap under their
// world transforms, recomputed from scratch since the ratio each member
// is judged against is cumulative over the whole candidate, not just the
// newly introduced cross-pairs.
func checkCollisions(c *SuperBB, spec *slots.Spec, policy Policy, atomRadius float64) error {
	n := len(c.Members)
	collided := make([]map[int]bool, n) // collided[i] = set of own-point indices of member i found colliding

	for i := 0; i < n; i++ {
		si := spec.Slot(c.Members[i])
		worldI := c.Placements[i]
		centerI := worldI.Apply(si.Type.Centroid)
		for j := i + 1; j < n; j++ {
			sj := spec.Slot(c.Members[j])
			worldJ := c.Placements[j]
			centerJ := worldJ.Apply(sj.Type.Centroid)
			// The broad-phase margin adds the atom contact distance on
			// top of each type's point-cloud bounding radius, so a
			// single-atom subunit (Radius == 0) still triggers the
			// fine-grained check when its one atom is close enough to
			// collide.
			if centerI.Dist(centerJ) > si.Type.Radius+sj.Type.Radius+2*atomRadius {
				continue // bounding spheres don't overlap
			}

			// Points of the other member expressed in each member's own
			// local frame.
			jInI := geom.Compose(worldI.Inverse(), worldJ).ApplyPoints(sj.Type.Points)
			iInJ := geom.Compose(worldJ.Inverse(), worldI).ApplyPoints(si.Type.Points)

			hitJ := si.Type.CollidingPoints(jInI, sj.Type.Confidence, policy.MinTemperatureToConsiderCollision)
			hitI := sj.Type.CollidingPoints(iInJ, si.Type.Confidence, policy.MinTemperatureToConsiderCollision)

			if len(hitJ) > 0 {
				if collided[j] == nil {
					collided[j] = make(map[int]bool, len(hitJ))
				}
				for _, idx := range hitJ {
					collided[j][idx] = true
				}
			}
			if len(hitI) > 0 {
				if collided[i] == nil {
					collided[i] = make(map[int]bool, len(hitI))
				}
				for _, idx := range hitI {
					collided[i][idx] = true
				}
			}

			depth := si.Type.MaxPenetrationDepth(jInI, sj.Type.Confidence, policy.MinTemperatureToConsiderCollision, atomRadius)
			if depth > policy.PenetrationThr {
				return assemblyerr.New(assemblyerr.CollisionLimitExceeded, "penetration depth %.3f > %.3f between slots %d,%d", depth, policy.PenetrationThr, c.Members[i], c.Members[j])
			}
		}
	}

	for i := 0; i < n; i++ {
		si := spec.Slot(c.Members[i])
		total := si.Type.AboveThreshold(policy.MinTemperatureToConsiderCollision)
		if total == 0 {
			continue
		}
		ratio := float64(len(collided[i])) / float64(total)
		if ratio > policy.MaxBackboneCollisionPerChain {
			return assemblyerr.New(assemblyerr.CollisionLimitExceeded, "chain slot %d backbone collision ratio %.3f > %.3f", c.Members[i], ratio, policy.MaxBackboneCollisionPerChain)
		}
	}
	return nil
}
