// Package restraint implements distance restraints (crosslinks) between
// pairs of (residue, chain) sites, and chain-connectivity restraints for
// chains that were split across multiple subunit types.
package restraint

import (
	"fmt"

	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/slots"
)

// Restraint is a distance restraint between two (residue, chain) sites,
// resolved once at load time to concrete chain slots and point indices.
type Restraint struct {
	Residue1, Residue2 int
	ChainLabel1        string
	ChainLabel2        string
	DMin, DMax         float64
	Weight             float64

	slot1, slot2 int
	local1       geom.Vec // site point in slot1's local (unplaced) frame
	local2       geom.Vec // site point in slot2's local (unplaced) frame
}

// Connectivity builds the distance restraint that stitches two subunit
// types representing a single biological chain split across them: a
// restraint between one type's C-terminal residue and the other's
// N-terminal residue, with a generous dMax accounting for any unmodeled
// linker.
func Connectivity(spec *slots.Spec, cTermSlot int, nTermSlot int, maxLinkerLen float64, weight float64) (*Restraint, error) {
	cSlot := spec.Slot(cTermSlot)
	nSlot := spec.Slot(nTermSlot)
	if cSlot == nil || nSlot == nil {
		return nil, fmt.Errorf("restraint: connectivity: invalid slot id(s) %d,%d", cTermSlot, nTermSlot)
	}
	cRes := cSlot.Type.Residues[len(cSlot.Type.Residues)-1]
	nRes := nSlot.Type.Residues[0]
	r := &Restraint{
		Residue1:    cRes,
		ChainLabel1: cSlot.ChainLabel,
		Residue2:    nRes,
		ChainLabel2: nSlot.ChainLabel,
		DMin:        0,
		DMax:        maxLinkerLen,
		Weight:      weight,
	}
	if err := r.resolve(spec); err != nil {
		return nil, err
	}
	return r, nil
}

// resolve fixes slot1/slot2/local1/local2 from the restraint's (residue,
// chainLabel) sites. It is the only place a Restraint is mutated; once
// resolved a Restraint is immutable for the rest of the run.
func (r *Restraint) resolve(spec *slots.Spec) error {
	s1 := spec.ByChainLabel(r.ChainLabel1)
	if s1 == nil {
		return fmt.Errorf("restraint: no chain slot labeled %q", r.ChainLabel1)
	}
	s2 := spec.ByChainLabel(r.ChainLabel2)
	if s2 == nil {
		return fmt.Errorf("restraint: no chain slot labeled %q", r.ChainLabel2)
	}
	p1 := s1.Type.ResidueIndex(r.Residue1)
	if p1 < 0 {
		return fmt.Errorf("restraint: chain %q has no residue %d", r.ChainLabel1, r.Residue1)
	}
	p2 := s2.Type.ResidueIndex(r.Residue2)
	if p2 < 0 {
		return fmt.Errorf("restraint: chain %q has no residue %d", r.ChainLabel2, r.Residue2)
	}
	r.slot1, r.local1 = s1.ID, s1.Type.Points[p1]
	r.slot2, r.local2 = s2.ID, s2.Type.Points[p2]
	return nil
}

// Slots returns the two chain slot ids this restraint references.
func (r *Restraint) Slots() (int, int) { return r.slot1, r.slot2 }

// Status is the outcome of evaluating one restraint against a partial
// assembly.
type Status int

const (
	// Deferred means at most one of the restraint's two slots is placed
	// yet, so the restraint cannot be checked; it carries no bonus or
	// penalty until both sides are present.
	Deferred Status = iota
	// Satisfied means both slots are placed and the measured distance
	// falls within [DMin, DMax].
	Satisfied
	// Violated means both slots are placed and the measured distance
	// falls outside [DMin, DMax].
	Violated
)

// Placements looks up the rigid-body transform placing a chain slot into
// assembly space. It is satisfied by SuperBB.
type Placements interface {
	Placement(slotID int) (geom.Transform, bool)
}

// Evaluate resolves the restraint's status against the given placements
// and, when both sites are present, the measured Euclidean distance
// between them.
func (r *Restraint) Evaluate(p Placements) (Status, float64) {
	t1, ok1 := p.Placement(r.slot1)
	t2, ok2 := p.Placement(r.slot2)
	if !ok1 || !ok2 {
		return Deferred, 0
	}
	a := t1.Apply(r.local1)
	b := t2.Apply(r.local2)
	d := a.Dist(b)
	if d < r.DMin || d > r.DMax {
		return Violated, d
	}
	return Satisfied, d
}
