package augment

import (
	"fmt"
	"math/rand/v2"
)

// Source yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// pcgStream decorrelates the two PCG seed words.
const pcgStream = 0x9e3779b97f4a7c15

// NewSource returns a PCG-backed Source. A zero seed draws the seed from
// the runtime's entropy, so each call yields a different stream.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// UniformInt returns an integer drawn uniformly from [low, high].
func UniformInt(src Source, low, high int) int {
	if high < low {
		panic(fmt.Sprintf("augment: invalid range [%d, %d]", low, high))
	}
	return low + src.IntN(high-low+1)
}

// Sample returns k distinct indices drawn uniformly from [0, n), in draw
// order.
func Sample(src Source, n, k int) []int {
	if k < 0 || k > n {
		panic(fmt.Sprintf("augment: cannot sample %d of %d", k, n))
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first k slots end up as the sample.
	for i := 0; i < k; i++ {
		j := i + src.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k:k]
}
