package quiz

import "math/rand/v2"

// Rand is the randomness the generator draws from. *rand.Rand from
// math/rand/v2 satisfies it, which lets tests pass a seeded source.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide math/rand/v2 source.
var DefaultRand Rand = globalRand{}

// Shuffle returns a uniformly permuted copy of items (Fisher–Yates).
func Shuffle[T any](r Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample draws up to k items from pool without replacement. The pool is not modified.
func Sample[T any](r Rand, pool []T, k int) []T {
	rest := make([]T, len(pool))
	copy(rest, pool)
	k = max(0, min(k, len(rest)))
	out := make([]T, 0, k)
	for len(out) < k {
		i := r.IntN(len(rest))
		out = append(out, rest[i])
		rest[i] = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}
	return out
}

// indexOf returns the position of want in options, or -1.
func indexOf(options []string, want string) int {
	for i, o := range options {
		if o == want {
			return i
		}
	}
	return -1
}
