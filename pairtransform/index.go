package pairtransform

import (
	"fmt"
	"os"
	"path/filepath"
)

type pairKey struct{ a, b string } // a <= b lexicographically

func keyOf(a, b string) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Index is a symmetric, read-only mapping from unordered subunit-type
// pairs to their candidate PairTransforms, sorted by score descending.
type Index struct {
	// stored[key] holds transforms in the direction they were loaded in
	// (their TypeA, TypeB); a lookup in the other direction inverts them
	// on the fly.
	stored map[pairKey][]PairTransform
}

// LoadDir builds an Index by scanning dir for files named
// "<TypeA>_plus_<TypeB>" for every unordered pair drawn from typeNames.
// Missing files simply mean that pair has no transforms (used by the
// connectivity gate to detect unreachable subunits); it is not an error.
// maxPerPair caps the number of transforms kept per pair (transNumPerPair
// in the CLI), 0 meaning unbounded.
func LoadDir(dir string, typeNames []string, maxPerPair int) (*Index, error) {
	idx := &Index{stored: make(map[pairKey][]PairTransform)}
	for i, a := range typeNames {
		for j, b := range typeNames {
			if j < i {
				continue
			}
			path, typeA, typeB, found, err := findPairFile(dir, a, b)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			transforms, err := parseFile(path, typeA, typeB, maxPerPair)
			if err != nil {
				return nil, err
			}
			idx.stored[keyOf(a, b)] = transforms
		}
	}
	return idx, nil
}

// findPairFile locates the transform file for the unordered pair (a, b),
// trying both "<a>_plus_<b>" and "<b>_plus_<a>" under dir, and returns
// which ordered direction the file was written in (typeA, typeB, as
// stored in the returned PairTransforms by the caller).
func findPairFile(dir, a, b string) (path, typeA, typeB string, found bool, err error) {
	forward := filepath.Join(dir, fmt.Sprintf("%s_plus_%s", a, b))
	if info, statErr := os.Stat(forward); statErr == nil && !info.IsDir() {
		return forward, a, b, true, nil
	}
	if a == b {
		return "", "", "", false, nil
	}
	backward := filepath.Join(dir, fmt.Sprintf("%s_plus_%s", b, a))
	if info, statErr := os.Stat(backward); statErr == nil && !info.IsDir() {
		return backward, b, a, true, nil
	}
	return "", "", "", false, nil
}

// Lookup returns the candidate transforms placing type b relative to
// type a, sorted by score descending, and whether any entry exists for
// this unordered pair. If the pool was built in the opposite direction
// (b, a), each returned transform is the inverse of the stored one, with
// TypeA/TypeB swapped to match the requested direction.
func (idx *Index) Lookup(a, b string) ([]PairTransform, bool) {
	k := keyOf(a, b)
	stored, ok := idx.stored[k]
	if !ok {
		return nil, false
	}
	if len(stored) == 0 {
		return nil, true
	}
	if stored[0].TypeA == a && stored[0].TypeB == b {
		return stored, true
	}
	out := make([]PairTransform, len(stored))
	for i, p := range stored {
		out[i] = p.reversed()
	}
	return out, true
}

// HasEdge reports whether any transforms exist for the unordered pair
// (a, b), used by the connectivity gate.
func (idx *Index) HasEdge(a, b string) bool {
	transforms, ok := idx.Lookup(a, b)
	return ok && len(transforms) > 0
}

// Pairs returns every unordered type pair with at least one transform.
func (idx *Index) Pairs() [][2]string {
	out := make([][2]string, 0, len(idx.stored))
	for k, v := range idx.stored {
		if len(v) == 0 {
			continue
		}
		out = append(out, [2]string{k.a, k.b})
	}
	return out
}
