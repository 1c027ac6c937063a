package restraint

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"

	"github.com/laastos/combfold/slots"
)

// Load reads a restraints file: one distance restraint per line, in the
// form
//
//	<residue1> <chainLabel1> <residue2> <chainLabel2> <dMin> <dMax> <weight>
//
// Blank lines and lines starting with "#" are ignored. Each restraint is
// resolved against spec immediately, so a restraint naming an unknown
// chain label or residue fails the load rather than surfacing later as a
// silently-skipped restraint during search.
func Load(path string, spec *slots.Spec) ([]*Restraint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "restraint: opening restraints file", path)
	}
	defer f.Close()
	return parse(f, path, spec)
}

func parse(r io.Reader, path string, spec *slots.Spec) ([]*Restraint, error) {
	var out []*Restraint
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 7 {
			return nil, errors.E(fmt.Sprintf("restraint: %s:%d: expected 7 fields, got %d", path, lineNo, len(fields)))
		}
		res1, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("restraint: %s:%d: bad residue1", path, lineNo))
		}
		res2, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("restraint: %s:%d: bad residue2", path, lineNo))
		}
		dMin, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("restraint: %s:%d: bad dMin", path, lineNo))
		}
		dMax, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("restraint: %s:%d: bad dMax", path, lineNo))
		}
		weight, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("restraint: %s:%d: bad weight", path, lineNo))
		}
		rst := &Restraint{
			Residue1:    res1,
			ChainLabel1: fields[1],
			Residue2:    res2,
			ChainLabel2: fields[3],
			DMin:        dMin,
			DMax:        dMax,
			Weight:      weight,
		}
		if err := rst.resolve(spec); err != nil {
			return nil, errors.E(err, fmt.Sprintf("restraint: %s:%d", path, lineNo))
		}
		out = append(out, rst)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "restraint: reading restraints file", path)
	}
	return out, nil
}
