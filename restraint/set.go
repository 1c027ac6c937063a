package restraint

// defaultEpsilon guards the divisions below when no restraint weight has
// been counted yet: Ratio falls back to it when given a non-positive eps,
// and Bonus and BonusDecided use it as their zero-denominator floor.
const defaultEpsilon = 1e-9

// Verdict summarizes the decided and deferred restraints for one
// partial or complete assembly.
type Verdict struct {
	Satisfied, Violated, Deferred int
	WeightSatisfied               float64
	WeightViolated                float64
	WeightTotal                   float64 // sum over every restraint, decided or not
}

// Ratio returns the violated-weight ratio W_vio / max(W_sat+W_vio, eps).
func (v Verdict) Ratio(eps float64) float64 {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	denom := v.WeightSatisfied + v.WeightViolated
	if denom < eps {
		denom = eps
	}
	return v.WeightViolated / denom
}

// Bonus returns the constraint_bonus contribution (W_sat / W_total) * w,
// where W_total ranges over every restraint passed to Evaluate regardless
// of whether it was decided. This is the full-size form: once every
// chain slot is placed, no restraint can still be deferred, so W_total
// equals the decided weight sum.
func (v Verdict) Bonus(w float64) float64 {
	if v.WeightTotal < defaultEpsilon {
		return 0
	}
	return (v.WeightSatisfied / v.WeightTotal) * w
}

// BonusDecided returns the constraint_bonus contribution restricted to
// restraints already decided (satisfied or violated): W_sat / (W_sat +
// W_vio) * w. Used for a partial assembly, where most restraints are
// still deferred and should not count against the bonus denominator.
func (v Verdict) BonusDecided(w float64) float64 {
	denom := v.WeightSatisfied + v.WeightViolated
	if denom < defaultEpsilon {
		return 0
	}
	return (v.WeightSatisfied / denom) * w
}

// Evaluate runs every restraint in set against p and returns the
// aggregate verdict.
func Evaluate(set []*Restraint, p Placements) Verdict {
	var v Verdict
	for _, r := range set {
		v.WeightTotal += r.Weight
		status, _ := r.Evaluate(p)
		switch status {
		case Satisfied:
			v.Satisfied++
			v.WeightSatisfied += r.Weight
		case Violated:
			v.Violated++
			v.WeightViolated += r.Weight
		case Deferred:
			v.Deferred++
		}
	}
	return v
}
