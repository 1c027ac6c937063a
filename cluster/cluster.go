// Package cluster deduplicates near-identical final assemblies by
// whole-complex RMSD, so the output surfaces a handful of structurally
// distinct candidates instead of many near-duplicates of the same fold.
package cluster

import (
	"sort"

	"github.com/laastos/combfold/bitset"
	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/slots"
	"github.com/laastos/combfold/superbb"
)

// representative is a cluster's founding candidate plus its cached
// world-frame point cloud, kept in slot-id order so two assemblies with
// different composition histories (and thus different Members order)
// still compare point-for-point correctly.
type representative struct {
	bb     *superbb.SuperBB
	points []geom.Vec
}

// Cluster greedily groups survivors by whole-complex RMSD: candidates
// are visited in descending score order, each one either absorbed into
// an existing cluster within rmsdThr Å after least-squares superposition
// or promoted to a new cluster representative. It returns at most
// maxResults representatives, best first.
func Cluster(survivors []*superbb.SuperBB, spec *slots.Spec, rmsdThr float64, maxResults int) []*superbb.SuperBB {
	ordered := make([]*superbb.SuperBB, len(survivors))
	copy(ordered, survivors)
	sort.SliceStable(ordered, func(i, j int) bool { return superbb.Less(ordered[i], ordered[j]) })

	var reps []representative
	for _, c := range ordered {
		points := worldPoints(c, spec)
		if absorbed(reps, c.Identity, points, rmsdThr) {
			continue
		}
		reps = append(reps, representative{bb: c, points: points})
	}

	if maxResults > 0 && len(reps) > maxResults {
		reps = reps[:maxResults]
	}
	out := make([]*superbb.SuperBB, len(reps))
	for i, r := range reps {
		out[i] = r.bb
	}
	return out
}

// absorbed reports whether points aligns within rmsdThr of some existing
// representative sharing the same chain-slot set. Candidates with no
// compatible representative, or whose point sets can't be superposed
// (degenerate geometry), are never absorbed.
func absorbed(reps []representative, identity bitset.Set, points []geom.Vec, rmsdThr float64) bool {
	for _, r := range reps {
		if r.bb.Identity != identity || len(r.points) != len(points) {
			continue
		}
		t, err := geom.Superpose(r.points, points)
		if err != nil {
			continue
		}
		if geom.RMSD(r.points, points, t) <= rmsdThr {
			return true
		}
	}
	return false
}

// worldPoints flattens c's backbone points into slot-id order: the atoms
// of the lowest chain-slot id first, so two SuperBBs over the same
// identity produce directly comparable point clouds regardless of the
// order Compose happened to assemble their Members in.
func worldPoints(c *superbb.SuperBB, spec *slots.Spec) []geom.Vec {
	posOf := make(map[int]int, len(c.Members))
	for i, m := range c.Members {
		posOf[m] = i
	}
	var out []geom.Vec
	c.Identity.Bits(func(slotID int) bool {
		i := posOf[slotID]
		ty := spec.Slot(slotID).Type
		t := c.Placements[i]
		for _, p := range ty.Points {
			out = append(out, t.Apply(p))
		}
		return true
	})
	return out
}
