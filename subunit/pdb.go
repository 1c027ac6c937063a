package subunit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/laastos/combfold/geom"
)

// backboneAtom is the atom name selected as the one representative atom
// per residue, typically the alpha carbon.
const backboneAtom = "CA"

// loadBackbonePDB reads a PDB-format file and returns, in file order, the
// Cα backbone trace: residue ids, points and per-atom confidence (the
// B-factor column). Only ATOM and HETATM records naming the backboneAtom
// are kept.
func loadBackbonePDB(path string) (residues []int, points []geom.Vec, confidence []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("subunit: opening %s: %w", path, err)
	}
	defer f.Close()
	return parseBackbonePDB(f, path)
}

func parseBackbonePDB(r io.Reader, path string) (residues []int, points []geom.Vec, confidence []float64, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if len(line) < 6 {
			continue
		}
		record := strings.TrimSpace(line[0:6])
		if record != "ATOM" && record != "HETATM" {
			continue
		}
		if len(line) < 66 {
			continue
		}
		atomName := strings.TrimSpace(line[12:16])
		if atomName != backboneAtom {
			continue
		}
		resSeqStr := strings.TrimSpace(line[22:26])
		resSeq, convErr := strconv.Atoi(resSeqStr)
		if convErr != nil {
			return nil, nil, nil, fmt.Errorf("subunit: %s:%d: bad residue sequence number %q: %w", path, lineNo, resSeqStr, convErr)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
		z, errZ := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
		if errX != nil || errY != nil || errZ != nil {
			return nil, nil, nil, fmt.Errorf("subunit: %s:%d: malformed coordinates", path, lineNo)
		}
		bfactor := 0.0
		if len(line) >= 66 {
			if v, bErr := strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64); bErr == nil {
				bfactor = v
			}
		}
		residues = append(residues, resSeq)
		points = append(points, geom.Vec{X: x, Y: y, Z: z})
		confidence = append(confidence, bfactor)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("subunit: reading %s: %w", path, err)
	}
	if len(points) == 0 {
		return nil, nil, nil, fmt.Errorf("subunit: %s: no %s backbone atoms found", path, backboneAtom)
	}
	return residues, points, confidence, nil
}
