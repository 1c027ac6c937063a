package pairtransform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laastos/combfold/geom"
)

const sampleFile = `# rank | score | provenance | rx ry rz tx ty tz
1 | 80.0 | pred-1 | 0 0 0 0 0 20
2 | 60.0 | pred-2 | 0 0 0 0 0 21
`

func TestParseSortsByScoreDescending(t *testing.T) {
	out, err := parse(strings.NewReader(sampleFile), "mem", "A", "B", 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	if out[0].Score != 80.0 || out[1].Score != 60.0 {
		t.Fatalf("not sorted by score: %v", out)
	}
	if out[0].Provenance != "pred-1" {
		t.Fatalf("unexpected provenance: %q", out[0].Provenance)
	}
}

func TestParseCapsToMaxPerPair(t *testing.T) {
	out, err := parse(strings.NewReader(sampleFile), "mem", "A", "B", 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 entry after cap, got %d", len(out))
	}
	if out[0].Score != 80.0 {
		t.Fatalf("expected the higher-scoring entry to survive, got %v", out[0])
	}
}

func TestReversedInvertsTransform(t *testing.T) {
	out, err := parse(strings.NewReader(sampleFile), "mem", "A", "B", 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rev := out[0].reversed()
	if rev.TypeA != "B" || rev.TypeB != "A" {
		t.Fatalf("expected swapped types, got %+v", rev)
	}
	p := geom.Vec{X: 3, Y: -2, Z: 1}
	roundTrip := rev.Transform.Apply(out[0].Transform.Apply(p))
	if roundTrip.Dist(p) > 1e-9 {
		t.Fatalf("reversed transform did not invert cleanly, residual %v", roundTrip.Dist(p))
	}
}

func TestIndexLoadDirAndLookupBothDirections(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "A_plus_B"), []byte(sampleFile), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := LoadDir(dir, []string{"A", "B", "C"}, 0)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if !idx.HasEdge("A", "B") {
		t.Fatalf("expected edge A-B")
	}
	if idx.HasEdge("A", "C") || idx.HasEdge("B", "C") {
		t.Fatalf("expected no edges touching C")
	}

	forward, ok := idx.Lookup("A", "B")
	if !ok || len(forward) != 2 {
		t.Fatalf("Lookup(A,B) = %v, %v", forward, ok)
	}
	backward, ok := idx.Lookup("B", "A")
	if !ok || len(backward) != 2 {
		t.Fatalf("Lookup(B,A) = %v, %v", backward, ok)
	}
	if backward[0].TypeA != "B" || backward[0].TypeB != "A" {
		t.Fatalf("expected swapped direction, got %+v", backward[0])
	}

	pairs := idx.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 edge, got %v", pairs)
	}
}
