package fold

import (
	"sync"

	"github.com/laastos/combfold/bitset"
)

// shardedLocks is a fixed bank of mutexes indexed by identity hash, so
// concurrent workers inserting into different identities' heaps don't
// serialize on one global lock.
type shardedLocks struct {
	mus [64]sync.Mutex
}

func (s *shardedLocks) shard(id bitset.Set) *sync.Mutex {
	var h uint64
	id.Bits(func(b int) bool {
		h = h*1099511628211 ^ uint64(b+1)
		return true
	})
	return &s.mus[h%uint64(len(s.mus))]
}
