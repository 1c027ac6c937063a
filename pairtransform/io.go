package pairtransform

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"

	"github.com/laastos/combfold/geom"
)

// parseFile reads one transform-pool file: lines
// "<rank> | <score> | <provenance> | <rx> <ry> <rz> <tx> <ty> <tz>",
// "#"-comments and blank lines ignored. maxPerPair, if > 0, truncates to
// the first maxPerPair entries after sorting by score descending.
func parseFile(path, typeA, typeB string, maxPerPair int) ([]PairTransform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "pairtransform: opening", path)
	}
	defer f.Close()
	return parse(f, path, typeA, typeB, maxPerPair)
}

func parse(r io.Reader, path, typeA, typeB string, maxPerPair int) ([]PairTransform, error) {
	var out []PairTransform
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			return nil, errors.E(fmt.Sprintf("pairtransform: %s:%d: expected 4 '|'-separated fields, got %d", path, lineNo, len(fields)))
		}
		// fields[0] is the rank; it's redundant with sort order and not
		// otherwise used.
		score, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("pairtransform: %s:%d: bad score", path, lineNo))
		}
		provenance := strings.TrimSpace(fields[2])
		nums := strings.Fields(strings.TrimSpace(fields[3]))
		if len(nums) != 6 {
			return nil, errors.E(fmt.Sprintf("pairtransform: %s:%d: expected 6 transform numbers, got %d", path, lineNo, len(nums)))
		}
		var v [6]float64
		for i, s := range nums {
			v[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.E(err, fmt.Sprintf("pairtransform: %s:%d: bad transform number %q", path, lineNo, s))
			}
		}
		out = append(out, PairTransform{
			TypeA:      typeA,
			TypeB:      typeB,
			Transform:  geom.NewTransformFromEuler(v[0], v[1], v[2], v[3], v[4], v[5]),
			Score:      score,
			Provenance: provenance,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "pairtransform: reading", path)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if maxPerPair > 0 && len(out) > maxPerPair {
		out = out[:maxPerPair]
	}
	return out, nil
}
