// Package rng abstracts the randomness source the simulation pipeline
// draws from, so callers can seed it deterministically in tests
// (spec.md §9 design notes). The simulation only ever needs statistical
// randomness, never cryptographic strength (spec.md §1 non-goals).
package rng

import "math/rand"

// Source is the subset of math/rand's API the pipeline depends on.
type Source interface {
	// Float64 returns a uniform value in [0.0, 1.0).
	Float64() float64
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
	// Uniform returns a uniform value in [a, b).
	Uniform(a, b float64) float64
	// Perm returns a random permutation of [0, n).
	Perm(n int) []int
}

// mathRand adapts *rand.Rand to Source.
type mathRand struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically. Two Sources created
// with the same seed produce identical sequences; this is what makes
// the end-to-end scenarios in spec.md §8 seed-fixable.
func New(seed int64) Source {
	return &mathRand{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRand) Float64() float64 {
	return m.r.Float64()
}

func (m *mathRand) Intn(n int) int {
	return m.r.Intn(n)
}

func (m *mathRand) Uniform(a, b float64) float64 {
	return a + m.r.Float64()*(b-a)
}

func (m *mathRand) Perm(n int) []int {
	return m.r.Perm(n)
}
