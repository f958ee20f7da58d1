// Package generator draws practice words.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces randomized word draws.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Draw selects min(count, len(pool)) words uniformly without replacement.
// Each pick is removed from the candidate list before the next one, so the
// result holds no duplicates as long as pool holds none.
func (g *Generator) Draw(pool []string, count int) []string {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	candidates := make([]string, len(pool))
	copy(candidates, pool)
	if count > len(candidates) {
		count = len(candidates)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		idx := g.rnd.Intn(len(candidates))
		result = append(result, candidates[idx])
		last := len(candidates) - 1
		candidates[idx] = candidates[last]
		candidates = candidates[:last]
	}
	return result
}

// Pick returns one word from pool, or false when pool is empty.
func (g *Generator) Pick(pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	return pool[g.rnd.Intn(len(pool))], true
}
