package britetopo

// random.go holds the sampling helpers used by the role classifier and the
// topology extender.  Every random draw comes from a U01Source handed in by the caller.

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/iti/rngstream"
)

// U01Source is anything that produces uniform samples on [0,1).  *rngstream.RngStream satisfies it.
type U01Source interface {
	RandU01() float64
}

// seedBound keeps every component of a stream seed below both moduli of the generator
const seedBound = 4294944443

// NewRandStream creates the named rng stream used by one stage of the converter.  Its starting
// state is computed from the seed and the name alone, so a stream draws the same sequence
// however many other streams the process has created.
func NewRandStream(name string, seed int) *rngstream.RngStream {
	rs := rngstream.New(name)
	rs.SetSeed(streamSeed(name, seed))
	return rs
}

// streamSeed hashes name and seed into the six components of a stream seed, each in [1, seedBound)
func streamSeed(name string, seed int) []uint64 {
	comps := make([]uint64, 6)
	for idx := range comps {
		h := fnv.New64a()
		fmt.Fprintf(h, "%s/%d/%d", name, seed, idx)
		comps[idx] = h.Sum64()%(seedBound-1) + 1
	}
	return comps
}

// pickIndex returns an index drawn uniformly from [0,n)
func pickIndex(n int, rng U01Source) int {
	idx := int(math.Floor(rng.RandU01() * float64(n)))

	// guard against a sample of exactly 1.0
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// randIntIncl returns an integer drawn uniformly from [lo,hi]
func randIntIncl(lo, hi int, rng U01Source) int {
	return lo + pickIndex(hi-lo+1, rng)
}

// sampleIDs draws n of the ids without replacement, using a partial Fisher-Yates shuffle
// on a copy, and returns the sample together with the ids not drawn
func sampleIDs(ids []int, n int, rng U01Source) ([]int, []int) {
	pool := append([]int{}, ids...)
	n = min(max(n, 0), len(pool))
	for idx := 0; idx < n; idx++ {
		jdx := idx + pickIndex(len(pool)-idx, rng)
		pool[idx], pool[jdx] = pool[jdx], pool[idx]
	}
	return pool[:n], pool[n:]
}
