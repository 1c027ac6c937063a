package subunit

import "github.com/laastos/combfold/geom"

// CollidingPoints returns, among otherPoints (already transformed into
// t's local frame) with otherConfidence[i] >= confThreshold, the indices
// of those that fall within one grid cell's resolution of any of t's own
// points whose confidence is also >= confThreshold. The result is a point
// list rather than a bare count so callers can union results across
// several pairwise queries before computing a per-chain collision ratio.
func (t *Type) CollidingPoints(otherPoints []geom.Vec, otherConfidence []float64, confThreshold float64) []int {
	r := t.grid.resolution
	r2 := r * r
	var colliding []int
	for i, p := range otherPoints {
		if otherConfidence[i] < confThreshold {
			continue
		}
		hit := false
		t.grid.neighbors(p, func(idx int) {
			if hit || t.Confidence[idx] < confThreshold {
				return
			}
			d := p.Sub(t.Points[idx])
			if d.Dot(d) <= r2 {
				hit = true
			}
		})
		if hit {
			colliding = append(colliding, i)
		}
	}
	return colliding
}

// MaxPenetrationDepth returns the maximum signed depth by which any of
// otherPoints (transformed into t's local frame, gated the same way as
// CollidingPoints) lies inside one of t's own atom spheres, using
// atomRadius as the shared per-atom radius. A positive return means
// overlap; rather than signaling "no pairs" with math.Inf, an
// empty-intersection result returns the sentinel -1e18 so a caller can
// safely compare against a negative threshold without special-casing it.
func (t *Type) MaxPenetrationDepth(otherPoints []geom.Vec, otherConfidence []float64, confThreshold, atomRadius float64) float64 {
	const noOverlap = -1e18
	best := noOverlap
	contact := 2 * atomRadius
	for i, p := range otherPoints {
		if otherConfidence[i] < confThreshold {
			continue
		}
		t.grid.neighbors(p, func(idx int) {
			if t.Confidence[idx] < confThreshold {
				return
			}
			d := p.Dist(t.Points[idx])
			depth := contact - d
			if depth > best {
				best = depth
			}
		})
	}
	return best
}
