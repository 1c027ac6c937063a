// Package fold implements the hierarchical combinatorial folder: the
// best-K bounded dynamic program that grows whole-complex placements out
// of pairwise transforms, one chain-slot-count band at a time.
package fold

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/laastos/combfold/assemblyerr"
	"github.com/laastos/combfold/bitset"
	"github.com/laastos/combfold/internal/config"
	"github.com/laastos/combfold/internal/searchlog"
	"github.com/laastos/combfold/pairtransform"
	"github.com/laastos/combfold/restraint"
	"github.com/laastos/combfold/slots"
	"github.com/laastos/combfold/superbb"
)

// Params collects every search-time knob exposed on the CLI.
type Params struct {
	BestK              int
	MaxResultPerResSet int
	TransNumPerPair    int
	Workers            int // goroutines per band; 0 or less defaults to 4
}

// Folder runs the combinatorial search described in the hierarchical
// folder component: for each chain-slot-count band, compose every
// compatible pair of smaller SuperBBs via a candidate transform, gated
// by collision, duplicate-placement and restraint checks, and keep the
// best-K survivors.
type Folder struct {
	Spec       *slots.Spec
	Index      *pairtransform.Index
	Restraints []*restraint.Restraint
	Config     *config.Static
	Policy     superbb.Policy
	Params     Params
	Log        *searchlog.Logger

	byIdentity map[bitset.Set]*boundedHeap
	bySize     map[int][]bitset.Set
	locks      shardedLocks
}

// Result is the outcome of a full search.
type Result struct {
	// Survivors is the best-K set of assemblies from band SizeReached,
	// best first: complete assemblies after a full search, or a partial
	// flush of the largest populated band after a timeout.
	Survivors []*superbb.SuperBB
	// SizeReached is the largest band the search actually populated.
	SizeReached int
	// TimedOut reports whether the context was cancelled before the
	// search reached N, in which case Survivors holds a partial flush of
	// the largest populated band.
	TimedOut bool
}

// Run executes the search to completion or until ctx is cancelled.
func (f *Folder) Run(ctx context.Context) (*Result, error) {
	n := f.Spec.N()
	if n == 0 {
		return nil, assemblyerr.New(assemblyerr.NoAssembly, "no chain slots to assemble")
	}

	report := checkConnectivity(f.Spec, f.Index)
	if !report.Connected {
		f.Log.Warnf("UnreachableSubunits: components=%v missingEdges=%v", report.Components, missingEdges(f.Spec, f.Index))
	}

	f.byIdentity = make(map[bitset.Set]*boundedHeap)
	f.bySize = make(map[int][]bitset.Set)
	f.initSingletons()

	largestReached := 1
	for size := 2; size <= n; size++ {
		select {
		case <-ctx.Done():
			return f.partialResult(largestReached, true), nil
		default:
		}

		start := time.Now()
		stats := f.runBand(ctx, size)
		survivors := f.collectBandSurvivors(size)
		f.Log.Infof("band size=%d survivors=%d rejections=%v elapsed=%s", size, len(survivors), stats.rejections, time.Since(start))

		// An empty band only means no (a,b) split happened to land here; a
		// larger band can still be reached through a split that never
		// routes through this size, so keep going regardless.
		f.bySize[size] = survivors
		if len(survivors) > 0 {
			largestReached = size
		}

		if ctx.Err() != nil {
			return f.partialResult(largestReached, true), nil
		}
	}

	if largestReached < n {
		return nil, assemblyerr.New(assemblyerr.NoAssembly, "search stalled: no assembly reached all %d slots (largest band populated: %d)", n, largestReached)
	}
	return f.partialResult(largestReached, false), nil
}

func (f *Folder) partialResult(size int, timedOut bool) *Result {
	identities := f.bySize[size]
	var survivors []*superbb.SuperBB
	for _, id := range identities {
		if h, ok := f.byIdentity[id]; ok {
			survivors = append(survivors, h.Best()...)
		}
	}
	trimmed := trimToBestK(survivors, f.Params.BestK)
	if timedOut {
		f.Log.Warnf("Timeout: flushing %d survivors from band %d", len(trimmed), size)
	}
	return &Result{Survivors: trimmed, SizeReached: size, TimedOut: timedOut}
}

func (f *Folder) initSingletons() {
	var ids []bitset.Set
	for id := 0; id < f.Spec.N(); id++ {
		h := newBoundedHeap(f.Params.MaxResultPerResSet)
		h.Offer(superbb.Singleton(id))
		identity := bitset.Of(id)
		f.byIdentity[identity] = h
		ids = append(ids, identity)
	}
	f.bySize[1] = ids
}

// job is one candidate composition attempt produced by the outer
// enumeration at a size band.
type job struct {
	a, b        *superbb.SuperBB
	p           pairtransform.PairTransform
	cA, cB      int
	newIdentity bitset.Set
}

type bandStats struct {
	mu         sync.Mutex
	rejections map[assemblyerr.Kind]int
}

func newBandStats() *bandStats {
	return &bandStats{rejections: make(map[assemblyerr.Kind]int)}
}

func (s *bandStats) record(kind assemblyerr.Kind) {
	s.mu.Lock()
	s.rejections[kind]++
	s.mu.Unlock()
}

type bandResult struct {
	rejections map[assemblyerr.Kind]int
}

// runBand enumerates every (a, b) split of size and dispatches every
// resulting candidate tuple to a pool of worker goroutines, draining
// them all before returning (the band-boundary barrier).
func (f *Folder) runBand(ctx context.Context, size int) bandResult {
	stats := newBandStats()
	jobs := make(chan job, 64)

	workers := f.Params.Workers
	if workers <= 0 {
		workers = 4
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				c, err := superbb.Compose(j.a, j.b, j.p, j.cA, j.cB, f.Spec, f.Restraints, f.Config, f.Policy)
				if err != nil {
					if ae, ok := err.(*assemblyerr.Error); ok {
						stats.record(ae.Kind)
					}
					continue
				}
				f.offer(j.newIdentity, c)
			}
		}()
	}

	f.enumerateSplits(ctx, size, jobs)
	close(jobs)
	wg.Wait()

	return bandResult{rejections: stats.rejections}
}

// enumerateSplits walks every pair of bySize bands summing to size,
// picks a connector pair per compatible identity pair, and pushes one
// job per (A, B, candidate transform) combination onto jobs. Every valid
// split is still processed; pairs that separate one chain.list group
// from another are only dispatched first, a search-order heuristic, not
// a correctness requirement.
func (f *Folder) enumerateSplits(ctx context.Context, size int, jobs chan<- job) {
	for a := 1; a <= size/2; a++ {
		b := size - a
		pairs := f.candidateSplits(a, b)
		for _, sp := range pairs {
			if ctx.Err() != nil {
				return
			}
			f.dispatchSplit(sp.idA, sp.idB, size, jobs)
		}
	}
}

type splitPair struct{ idA, idB bitset.Set }

// candidateSplits enumerates every disjoint (idA, idB) pair drawn from
// bySize[a] x bySize[b], ordered so that a pair spanning two distinct
// chain.list groups comes before a pair confined to one group.
func (f *Folder) candidateSplits(a, b int) []splitPair {
	var crossGroup, sameGroup []splitPair
	for _, idA := range f.bySize[a] {
		for _, idB := range f.bySize[b] {
			if a == b && !idA.Less(idB) {
				continue // avoid double-counting the symmetric pair
			}
			if !idA.Disjoint(idB) {
				continue
			}
			sp := splitPair{idA, idB}
			if f.crossesGroups(idA, idB) {
				crossGroup = append(crossGroup, sp)
			} else {
				sameGroup = append(sameGroup, sp)
			}
		}
	}
	return append(crossGroup, sameGroup...)
}

// crossesGroups reports whether idA and idB each belong to one uniform
// chain.list group and the two groups differ. A slot with no group tag
// counts as group 0, so a chain.list without a group column never crosses.
func (f *Folder) crossesGroups(idA, idB bitset.Set) bool {
	gA, okA := f.uniformGroup(idA)
	gB, okB := f.uniformGroup(idB)
	return okA && okB && gA != gB
}

func (f *Folder) uniformGroup(id bitset.Set) (group int, uniform bool) {
	first := true
	id.Bits(func(slotID int) bool {
		g := f.Spec.Slot(slotID).Group
		if first {
			group, uniform, first = g, true, false
			return true
		}
		if g != group {
			uniform = false
		}
		return true
	})
	return group, uniform
}

// dispatchSplit pushes one job per (A, B, candidate transform) for a
// single compatible identity pair.
func (f *Folder) dispatchSplit(idA, idB bitset.Set, size int, jobs chan<- job) {
	union := idA.Union(idB)
	if union.Popcount() != size {
		return
	}
	cA, cB, transforms := f.pickConnector(idA, idB)
	if len(transforms) == 0 {
		return
	}
	heapA := f.byIdentity[idA]
	heapB := f.byIdentity[idB]
	if heapA == nil || heapB == nil {
		return
	}
	for _, p := range transforms {
		for _, A := range heapA.Best() {
			for _, B := range heapB.Best() {
				jobs <- job{a: A, b: B, p: p, cA: cA, cB: cB, newIdentity: union}
			}
		}
	}
}

// pickConnector implements the connector-pair heuristic: among every
// (cA, cB) pair with cA in idA, cB in idB whose SubunitTypes have a
// TransformIndex entry, pick the richest one (most candidate transforms)
// and return its capped transform list. Ties keep the first found, so
// the choice is deterministic for a given chain.list ordering.
func (f *Folder) pickConnector(idA, idB bitset.Set) (cA, cB int, transforms []pairtransform.PairTransform) {
	best := -1
	idA.Bits(func(a int) bool {
		idB.Bits(func(b int) bool {
			typeA := f.Spec.Slot(a).Type.Name
			typeB := f.Spec.Slot(b).Type.Name
			ts, ok := f.Index.Lookup(typeA, typeB)
			if !ok || len(ts) == 0 {
				return true
			}
			if len(ts) > best {
				best = len(ts)
				cA, cB, transforms = a, b, ts
			}
			return true
		})
		return true
	})
	if limit := f.Params.TransNumPerPair; limit > 0 && len(transforms) > limit {
		transforms = transforms[:limit]
	}
	return cA, cB, transforms
}

func (f *Folder) offer(identity bitset.Set, c *superbb.SuperBB) {
	mu := f.locks.shard(identity)
	mu.Lock()
	defer mu.Unlock()
	h, ok := f.byIdentity[identity]
	if !ok {
		h = newBoundedHeap(f.Params.MaxResultPerResSet)
		f.byIdentity[identity] = h
	}
	h.Offer(c)
}

// bandCandidate is one identity reached for the first time at a size
// band, scored by its heap's current best member.
type bandCandidate struct {
	id    bitset.Set
	score float64
}

// collectBandSurvivors trims the identities first populated at size down
// to the global best-K by their heap's best score, dropping the rest
// from byIdentity to bound memory, and returns the surviving identities.
func (f *Folder) collectBandSurvivors(size int) []bitset.Set {
	var candidates []bandCandidate
	for id, h := range f.byIdentity {
		if id.Popcount() != size || h.Len() == 0 {
			continue
		}
		best := h.Best()
		candidates = append(candidates, bandCandidate{id: id, score: best[0].Score})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if f.Params.BestK > 0 && len(candidates) > f.Params.BestK {
		for _, c := range candidates[f.Params.BestK:] {
			delete(f.byIdentity, c.id)
		}
		candidates = candidates[:f.Params.BestK]
	}
	out := make([]bitset.Set, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

func trimToBestK(items []*superbb.SuperBB, k int) []*superbb.SuperBB {
	sort.Slice(items, func(i, j int) bool { return superbb.Less(items[i], items[j]) })
	if k <= 0 || len(items) <= k {
		return items
	}
	return items[:k]
}
