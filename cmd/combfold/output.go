package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/grailbio/base/errors"

	"github.com/laastos/combfold/slots"
	"github.com/laastos/combfold/superbb"
)

// writeResults writes one line per survivor, best first:
//
//	[<slot>(rx ry rz tx ty tz), ...] weightedTransScore <v> numTrans <n>
func writeResults(path string, survivors []*superbb.SuperBB, spec *slots.Spec) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.E(err, "combfold: creating", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range survivors {
		fmt.Fprint(w, "[")
		order := c.Identity.Slice()
		posOf := make(map[int]int, len(c.Members))
		for i, m := range c.Members {
			posOf[m] = i
		}
		for i, slotID := range order {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			t := c.Placements[posOf[slotID]]
			rx, ry, rz, tx, ty, tz := t.Euler()
			fmt.Fprintf(w, "%d(%g %g %g %g %g %g)", slotID, rx, ry, rz, tx, ty, tz)
		}
		fmt.Fprintf(w, "] weightedTransScore %g numTrans %d\n", c.WeightedTransScore(), c.TransUsedCount)
	}
	if err := w.Flush(); err != nil {
		return errors.E(err, "combfold: writing", path)
	}
	return f.Close()
}
