package superbb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/laastos/combfold/assemblyerr"
	"github.com/laastos/combfold/geom"
	"github.com/laastos/combfold/internal/config"
	"github.com/laastos/combfold/pairtransform"
	"github.com/laastos/combfold/restraint"
	"github.com/laastos/combfold/slots"
)

// a single-residue subunit with a small bounding radius, sparse enough
// that a 20 Å shift clears collision but a 1 Å shift does not.
const onePointPDB = `ATOM      1  CA  ALA A   1      0.000   0.000   0.000  1.00 90.00           C
`

func twoCopySpec(t *testing.T) *slots.Spec {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "A.pdb")
	if err := os.WriteFile(p, []byte(onePointPDB), 0o644); err != nil {
		t.Fatal(err)
	}
	list := p + "\n" + p + "\n"
	listPath := filepath.Join(dir, "chain.list")
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := slots.Load(listPath, 4.0)
	if err != nil {
		t.Fatalf("slots.Load: %v", err)
	}
	return spec
}

func basePolicy() Policy {
	return Policy{
		PenetrationThr:                    -1.0,
		RestraintsRatio:                   0.10,
		MaxBackboneCollisionPerChain:      0.10,
		MinTemperatureToConsiderCollision: 0,
	}
}

func TestComposeSucceedsAtDistance(t *testing.T) {
	spec := twoCopySpec(t)
	cfg := config.Defaults()
	policy := basePolicy()

	a := Singleton(0)
	b := Singleton(1)
	p := pairtransform.PairTransform{
		TypeA:     "A",
		TypeB:     "A",
		Transform: geom.Transform{R: geom.Identity(), T: geom.Vec{Z: 20}},
		Score:     90,
	}
	c, err := Compose(a, b, p, 0, 1, spec, nil, cfg, policy)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if c.Identity.Popcount() != 2 {
		t.Fatalf("expected popcount 2, got %d", c.Identity.Popcount())
	}
	if got := c.WeightedTransScore(); got != 90 {
		t.Fatalf("WeightedTransScore = %v, want 90", got)
	}
	world1, ok := c.Placement(1)
	if !ok {
		t.Fatalf("slot 1 not placed")
	}
	if world1.T.Dist(geom.Vec{Z: 20}) > 1e-9 {
		t.Fatalf("slot 1 placed at %v, want (0,0,20)", world1.T)
	}
}

func TestComposeRejectsOverlappingIdentities(t *testing.T) {
	spec := twoCopySpec(t)
	cfg := config.Defaults()
	policy := basePolicy()

	a := Singleton(0)
	b := Singleton(0)
	p := pairtransform.PairTransform{TypeA: "A", TypeB: "A", Transform: geom.IdentityTransform(), Score: 1}
	if _, err := Compose(a, b, p, 0, 0, spec, nil, cfg, policy); err == nil {
		t.Fatalf("expected IncompatibleOverlap error")
	}
}

func TestComposeRejectsDuplicatePlacement(t *testing.T) {
	spec := twoCopySpec(t)
	cfg := config.Defaults()
	policy := basePolicy()

	a := Singleton(0)
	b := Singleton(1)
	p := pairtransform.PairTransform{TypeA: "A", TypeB: "A", Transform: geom.IdentityTransform(), Score: 1}
	if _, err := Compose(a, b, p, 0, 1, spec, nil, cfg, policy); err == nil {
		t.Fatalf("expected DuplicatePlacement error for coincident same-type placements")
	}
}

func TestComposeRejectsOnCollision(t *testing.T) {
	spec := twoCopySpec(t)
	cfg := config.Defaults()
	// Lower the duplicate-placement epsilon below the 1 Å shift so the
	// candidate reaches the collision gate instead of the duplicate gate.
	cfg.DuplicatePlacementEpsilon = 0.5
	policy := basePolicy()
	policy.MinTemperatureToConsiderCollision = 0

	a := Singleton(0)
	b := Singleton(1)
	p := pairtransform.PairTransform{
		TypeA:     "A",
		TypeB:     "A",
		Transform: geom.Transform{R: geom.Identity(), T: geom.Vec{Z: 1}},
		Score:     90,
	}
	if _, err := Compose(a, b, p, 0, 1, spec, nil, cfg, policy); !assemblyerr.Is(err, assemblyerr.CollisionLimitExceeded) {
		t.Fatalf("expected CollisionLimitExceeded for near-coincident placement")
	}
}

func TestComposeRejectsOnConstraintViolation(t *testing.T) {
	spec := twoCopySpec(t)
	cfg := config.Defaults()
	policy := basePolicy()

	restraints, err := restraint.Load(writeRestraints(t, "1 0 1 1 0 5 1.0\n"), spec)
	if err != nil {
		t.Fatalf("restraint.Load: %v", err)
	}

	a := Singleton(0)
	b := Singleton(1)
	p := pairtransform.PairTransform{
		TypeA:     "A",
		TypeB:     "A",
		Transform: geom.Transform{R: geom.Identity(), T: geom.Vec{Z: 20}},
		Score:     90,
	}
	if _, err := Compose(a, b, p, 0, 1, spec, restraints, cfg, policy); err == nil {
		t.Fatalf("expected ConstraintViolation: restraint requires <=5 Å but placement is 20 Å apart")
	}
}

func writeRestraints(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "restraints.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLessOrdersByScoreThenTransCountThenIdentity(t *testing.T) {
	hi := &SuperBB{Score: 10}
	lo := &SuperBB{Score: 5}
	if !Less(hi, lo) {
		t.Fatalf("expected higher score to sort first")
	}
	tieA := &SuperBB{Score: 10, TransUsedCount: 3}
	tieB := &SuperBB{Score: 10, TransUsedCount: 1}
	if !Less(tieA, tieB) {
		t.Fatalf("expected larger TransUsedCount to win a score tie")
	}
}
