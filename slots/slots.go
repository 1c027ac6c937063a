// Package slots enumerates chain slots: the fixed, once-assigned mapping
// from (SubunitType, copy index) to a stable integer id in [0, N),
// parsed from a chain.list file.
package slots

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"

	"github.com/laastos/combfold/bitset"
	"github.com/laastos/combfold/subunit"
)

// Slot is one logical position in the final assembly.
type Slot struct {
	ID         int
	Type       *subunit.Type
	Copy       int    // index of this slot among its SubunitType's copies
	ChainLabel string // decimal global slot id, matching restraint chain labels
	Group      int    // optional partition tag from chain.list, 0 if absent
}

// Spec is the full, fixed enumeration of chain slots for one run.
type Spec struct {
	Slots    []Slot
	Types    []*subunit.Type   // in first-seen order
	ByType   map[string][]int  // SubunitType.Name -> slot ids, copy order
	typeByID map[int]*Slot
}

// N returns the total number of chain slots.
func (s *Spec) N() int { return len(s.Slots) }

// All returns the full-assembly identity: every slot id set.
func (s *Spec) All() bitset.Set {
	var full bitset.Set
	for i := range s.Slots {
		full = full.With(i)
	}
	return full
}

// Slot returns the slot with the given id.
func (s *Spec) Slot(id int) *Slot { return s.typeByID[id] }

// ByChainLabel returns the slot whose ChainLabel matches label, or nil if
// none does.
func (s *Spec) ByChainLabel(label string) *Slot {
	for i := range s.Slots {
		if s.Slots[i].ChainLabel == label {
			return &s.Slots[i]
		}
	}
	return nil
}

type rawLine struct {
	path  string
	group int
}

// Load parses a chain.list file: one line per chain slot, in global id
// order, each "<path-to-subunit-atom-file> [group]". Lines referencing
// the same path are treated as further copies of the same SubunitType
// (the backbone file is loaded once and shared); chain labels are
// assigned as the decimal global slot id, since a restraint's chainLabel
// must resolve unambiguously to one slot across the whole complex, not
// just within one SubunitType. Blank lines and lines starting with "#"
// are ignored.
func Load(path string, gridResolution float64) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "slots: opening chain list", path)
	}
	defer f.Close()
	return parse(f, path, gridResolution)
}

func parse(r io.Reader, path string, gridResolution float64) (*Spec, error) {
	var lines []rawLine
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		group := 0
		switch len(fields) {
		case 1:
		case 2:
			g, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errors.E(err, fmt.Sprintf("slots: %s:%d: bad group value %q", path, lineNo, fields[1]))
			}
			group = g
		default:
			return nil, errors.E(fmt.Sprintf("slots: %s:%d: expected 1 or 2 fields, got %d", path, lineNo, len(fields)))
		}
		lines = append(lines, rawLine{path: fields[0], group: group})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "slots: reading chain list", path)
	}
	if len(lines) == 0 {
		return nil, errors.E(fmt.Sprintf("slots: %s: no chain-slot lines found", path))
	}

	copiesSeen := make(map[string]int)
	for _, l := range lines {
		copiesSeen[l.path]++
	}

	types := make(map[string]*subunit.Type)
	var typeOrder []string
	copyIndex := make(map[string]int)

	spec := &Spec{
		ByType:   make(map[string][]int),
		typeByID: make(map[int]*Slot),
	}
	spec.Slots = make([]Slot, len(lines))

	for id, l := range lines {
		ty, ok := types[l.path]
		if !ok {
			name := strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
			multiplicity := copiesSeen[l.path]
			labels := make([]string, multiplicity)
			for i := range labels {
				labels[i] = strconv.Itoa(i)
			}
			loaded, err := subunit.LoadFromPDB(name, labels, l.path, gridResolution)
			if err != nil {
				return nil, err
			}
			types[l.path] = loaded
			typeOrder = append(typeOrder, l.path)
			ty = loaded
		}
		copyIdx := copyIndex[l.path]
		copyIndex[l.path] = copyIdx + 1

		slot := Slot{
			ID:         id,
			Type:       ty,
			Copy:       copyIdx,
			ChainLabel: strconv.Itoa(id),
			Group:      l.group,
		}
		spec.Slots[id] = slot
		spec.typeByID[id] = &spec.Slots[id]
		spec.ByType[ty.Name] = append(spec.ByType[ty.Name], id)
	}
	for _, p := range typeOrder {
		spec.Types = append(spec.Types, types[p])
	}
	if n := len(spec.Slots); n > bitset.MaxSlots {
		return nil, errors.E(fmt.Sprintf("slots: %d chain slots exceeds the %d-slot limit", n, bitset.MaxSlots))
	}
	return spec, nil
}
