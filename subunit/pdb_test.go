package subunit

import (
	"strings"
	"testing"
)

const samplePDB = `ATOM      1  N   ALA A   1      11.104  13.207   2.100  1.00 45.00           N
ATOM      2  CA  ALA A   1      12.560  13.207   2.100  1.00 60.00           C
ATOM      3  C   ALA A   1      13.100  14.600   2.100  1.00 55.00           C
ATOM      4  CA  GLY A   2      15.900  14.600   2.100  1.00 80.00           C
HETATM    5  O   HOH A   3      20.000  20.000   2.100  1.00  0.00           O
`

func TestParseBackbonePDBKeepsOnlyCA(t *testing.T) {
	residues, points, confidence, err := parseBackbonePDB(strings.NewReader(samplePDB), "sample.pdb")
	if err != nil {
		t.Fatalf("parseBackbonePDB: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 CA atoms, got %d", len(points))
	}
	if residues[0] != 1 || residues[1] != 2 {
		t.Fatalf("unexpected residue ids: %v", residues)
	}
	if confidence[0] != 60.0 || confidence[1] != 80.0 {
		t.Fatalf("unexpected confidence values: %v", confidence)
	}
	if points[0].X != 12.560 {
		t.Fatalf("unexpected coordinate: %v", points[0])
	}
}

func TestParseBackbonePDBEmptyIsError(t *testing.T) {
	_, _, _, err := parseBackbonePDB(strings.NewReader("REMARK nothing here\n"), "empty.pdb")
	if err == nil {
		t.Fatalf("expected error for PDB with no CA atoms")
	}
}
