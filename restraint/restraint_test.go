package restraint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/slots"
)

const twoResiduePDB = `ATOM      1  CA  ALA A   1      0.000   0.000   0.000  1.00 90.00           C
ATOM      2  CA  ALA A  10      3.800   0.000   0.000  1.00 90.00           C
`

func buildSpec(t *testing.T) *slots.Spec {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "A.pdb")
	if err := os.WriteFile(p, []byte(twoResiduePDB), 0o644); err != nil {
		t.Fatal(err)
	}
	chainList := strings.Join([]string{p, p}, "\n") + "\n"
	listPath := filepath.Join(dir, "chain.list")
	if err := os.WriteFile(listPath, []byte(chainList), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := slots.Load(listPath, 4.0)
	if err != nil {
		t.Fatalf("slots.Load: %v", err)
	}
	return spec
}

type fixedPlacements map[int]geom.Transform

func (f fixedPlacements) Placement(slotID int) (geom.Transform, bool) {
	t, ok := f[slotID]
	return t, ok
}

func TestEvaluateDeferredWhenOneSideAbsent(t *testing.T) {
	spec := buildSpec(t)
	r := &Restraint{ChainLabel1: "0", Residue1: 1, ChainLabel2: "1", Residue2: 1, DMin: 0, DMax: 5, Weight: 1}
	if err := r.resolve(spec); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	placements := fixedPlacements{0: geom.IdentityTransform()}
	status, _ := r.Evaluate(placements)
	if status != Deferred {
		t.Fatalf("status = %v, want Deferred", status)
	}
}

func TestEvaluateSatisfiedAndViolated(t *testing.T) {
	spec := buildSpec(t)
	r := &Restraint{ChainLabel1: "0", Residue1: 1, ChainLabel2: "1", Residue2: 1, DMin: 0, DMax: 5, Weight: 1}
	if err := r.resolve(spec); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	near := fixedPlacements{
		0: geom.IdentityTransform(),
		1: {R: geom.Identity(), T: geom.Vec{X: 2}},
	}
	if status, d := r.Evaluate(near); status != Satisfied {
		t.Fatalf("status = %v (d=%v), want Satisfied", status, d)
	}

	far := fixedPlacements{
		0: geom.IdentityTransform(),
		1: {R: geom.Identity(), T: geom.Vec{X: 20}},
	}
	if status, d := r.Evaluate(far); status != Violated {
		t.Fatalf("status = %v (d=%v), want Violated", status, d)
	}
}

func TestEvaluateSetComputesRatioAndBonus(t *testing.T) {
	spec := buildSpec(t)
	sat := &Restraint{ChainLabel1: "0", Residue1: 1, ChainLabel2: "1", Residue2: 1, DMin: 0, DMax: 25, Weight: 1}
	vio := &Restraint{ChainLabel1: "0", Residue1: 10, ChainLabel2: "1", Residue2: 10, DMin: 0, DMax: 5, Weight: 3}
	for _, r := range []*Restraint{sat, vio} {
		if err := r.resolve(spec); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	placements := fixedPlacements{
		0: geom.IdentityTransform(),
		1: {R: geom.Identity(), T: geom.Vec{X: 20}},
	}
	v := Evaluate([]*Restraint{sat, vio}, placements)
	if v.Satisfied != 1 || v.Violated != 1 || v.Deferred != 0 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if got, want := v.Ratio(1e-9), 3.0/4.0; got != want {
		t.Fatalf("Ratio() = %v, want %v", got, want)
	}
	if got, want := v.Bonus(2.0), (1.0/4.0)*2.0; got != want {
		t.Fatalf("Bonus(2.0) = %v, want %v", got, want)
	}
}

func TestConnectivityBuildsCTermToNTerm(t *testing.T) {
	spec := buildSpec(t)
	r, err := Connectivity(spec, 0, 1, 30.0, 0.5)
	if err != nil {
		t.Fatalf("Connectivity: %v", err)
	}
	if r.Residue1 != 10 || r.Residue2 != 1 {
		t.Fatalf("expected C-term residue 10 paired with N-term residue 1, got %d,%d", r.Residue1, r.Residue2)
	}
	if r.DMax != 30.0 || r.Weight != 0.5 {
		t.Fatalf("unexpected dMax/weight: %v,%v", r.DMax, r.Weight)
	}
}

func TestLoadParsesAndResolves(t *testing.T) {
	spec := buildSpec(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "restraints.txt")
	content := "# comment\n\n1 0 1 1 0 5 1.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path, spec)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 restraint, got %d", len(out))
	}
	s1, s2 := out[0].Slots()
	if s1 != 0 || s2 != 1 {
		t.Fatalf("unexpected resolved slots: %d,%d", s1, s2)
	}
}

func TestLoadRejectsUnknownChainLabel(t *testing.T) {
	spec := buildSpec(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "restraints.txt")
	if err := os.WriteFile(path, []byte("1 0 1 99 0 5 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, spec); err == nil {
		t.Fatalf("expected error for unknown chain label")
	}
}
