package fold

import (
	"container/heap"
	"sort"

	"github.com/laastos/combfold/superbb"
)

// boundedHeap is a fixed-capacity max-heap over *superbb.SuperBB, keyed
// by the (score, trans_used_count, identity) order of superbb.Less.
// Internally it is a min-heap on "worseness" so the root is always the
// current worst of the kept K: inserting past capacity compares the
// candidate against the root and evicts it when the candidate is better.
type boundedHeap struct {
	items []*superbb.SuperBB
	cap   int
}

func newBoundedHeap(capacity int) *boundedHeap {
	return &boundedHeap{cap: capacity}
}

func (h *boundedHeap) Len() int { return len(h.items) }

// Less reports whether item i is worse than item j, so Pop (and the
// heap's root) always surfaces the worst kept item.
func (h *boundedHeap) Less(i, j int) bool {
	return superbb.Less(h.items[j], h.items[i])
}

func (h *boundedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *boundedHeap) Push(x interface{}) { h.items = append(h.items, x.(*superbb.SuperBB)) }

func (h *boundedHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// Offer inserts c if the heap has spare capacity, or if c is better than
// the heap's current worst member, reports whether c was kept.
func (h *boundedHeap) Offer(c *superbb.SuperBB) bool {
	if h.cap <= 0 {
		return false
	}
	if h.Len() < h.cap {
		heap.Push(h, c)
		return true
	}
	worst := h.items[0]
	if !superbb.Less(c, worst) {
		return false
	}
	h.items[0] = c
	heap.Fix(h, 0)
	return true
}

// Best returns the kept items, best first.
func (h *boundedHeap) Best() []*superbb.SuperBB {
	out := make([]*superbb.SuperBB, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool { return superbb.Less(out[i], out[j]) })
	return out
}
