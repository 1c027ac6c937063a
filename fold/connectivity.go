package fold

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/laastos/combfold/pairtransform"
	"github.com/laastos/combfold/slots"
)

// connectivityReport is the result of the graph connectivity gate: the
// SubunitType names of each connected component, and whether there is
// only one. The type pairs with no transform-pool edge are listed
// separately by missingEdges.
type connectivityReport struct {
	Components [][]string
	Connected  bool
}

// checkConnectivity builds an undirected graph over spec's SubunitTypes
// with an edge for every unordered pair the transform index covers, and
// reports its connected components. A disconnected graph means some
// subunits can never be joined to the rest by any known pair transform.
func checkConnectivity(spec *slots.Spec, index *pairtransform.Index) connectivityReport {
	g := simple.NewUndirectedGraph()
	idOf := make(map[string]int64, len(spec.Types))
	nameOf := make(map[int64]string, len(spec.Types))
	for i, ty := range spec.Types {
		id := int64(i)
		idOf[ty.Name] = id
		nameOf[id] = ty.Name
		g.AddNode(simple.Node(id))
	}
	for _, pair := range index.Pairs() {
		a, b := idOf[pair[0]], idOf[pair[1]]
		if a == b {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	}

	components := topo.ConnectedComponents(g)
	var report connectivityReport
	for _, comp := range components {
		names := make([]string, len(comp))
		for i, n := range comp {
			names[i] = nameOf[n.ID()]
		}
		report.Components = append(report.Components, names)
	}
	report.Connected = len(report.Components) <= 1
	return report
}

// missingEdges lists every unordered SubunitType pair with no transform
// index entry, for the UnreachableSubunits log line.
func missingEdges(spec *slots.Spec, index *pairtransform.Index) []string {
	var missing []string
	for i, a := range spec.Types {
		for _, b := range spec.Types[i+1:] {
			if !index.HasEdge(a.Name, b.Name) {
				missing = append(missing, fmt.Sprintf("%s-%s", a.Name, b.Name))
			}
		}
	}
	return missing
}
